package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeTraveler UserType = "traveler"
	UserTypeProvider UserType = "provider"
	UserTypeAdmin    UserType = "admin"
)

type User struct {
	gorm.Model
	Token        string   `gorm:"column:token;uniqueIndex;not null" json:"token"`
	Username     string   `gorm:"column:username;unique;not null" json:"username"`
	Email        string   `gorm:"column:email;unique;not null" json:"email"`
	Password     string   `gorm:"-:all" json:"-"` // Temporary field for password handling
	PasswordHash string   `gorm:"column:password_hash;not null" json:"-"`
	PhoneNumber  string   `gorm:"column:phone_number" json:"phoneNumber"`
	UserType     UserType `gorm:"column:user_type;not null;default:'traveler'" json:"userType"`
	Bio          string   `gorm:"column:bio;type:text" json:"bio"`
	AvatarURL    string   `gorm:"column:avatar_url" json:"avatarUrl"`
	Language     string   `gorm:"column:language;default:'fr'" json:"language"`
	IsSuspended  bool     `gorm:"column:is_suspended;default:false" json:"isSuspended"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Token == "" {
		u.Token = uuid.NewString()
	}
	return nil
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// TravelerPreferences drives preference-based ranking in discovery.
type TravelerPreferences struct {
	gorm.Model
	UserID            uint    `gorm:"not null;uniqueIndex" json:"userId"`
	PreferredCategory string  `gorm:"column:preferred_category" json:"preferredCategory"`
	PreferredRegion   string  `gorm:"column:preferred_region" json:"preferredRegion"`
	MaxBudget         float64 `gorm:"column:max_budget" json:"maxBudget"`
	GroupSize         int     `gorm:"column:group_size;default:1" json:"groupSize"`
}
