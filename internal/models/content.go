package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentType string

const (
	ContentTypeBlog     ContentType = "blog"
	ContentTypeHeritage ContentType = "heritage"
)

// Content is an editorial article: blog posts and heritage stories.
type Content struct {
	gorm.Model
	Token       string      `gorm:"column:token;uniqueIndex;not null" json:"token"`
	Slug        string      `gorm:"uniqueIndex;not null" json:"slug"`
	Type        ContentType `gorm:"not null;index" json:"type"`
	Title       string      `gorm:"not null" json:"title"`
	Excerpt     string      `gorm:"type:text" json:"excerpt"`
	Body        string      `gorm:"type:text" json:"body"`
	CoverURL    string      `json:"coverUrl,omitempty"`
	Region      string      `gorm:"index" json:"region,omitempty"`
	AuthorID    uint        `gorm:"not null" json:"authorId"`
	Author      User        `json:"author"`
	IsPublished bool        `gorm:"default:false;index" json:"isPublished"`
	PublishedAt *time.Time  `json:"publishedAt,omitempty"`
}

func (c *Content) BeforeCreate(tx *gorm.DB) error {
	if c.Token == "" {
		c.Token = uuid.NewString()
	}
	return nil
}
