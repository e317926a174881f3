package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
)

type CreateContentCommand struct {
	AuthorID uint
	Type     models.ContentType
	Title    string
	Excerpt  string
	Body     string
	CoverURL string
	Region   string
}

type UpdateContentCommand struct {
	AuthorID   uint
	ContentRef string
	Title      *string
	Excerpt    *string
	Body       *string
	CoverURL   *string
}

type ContentService struct {
	contents repository.ContentRepository
}

func NewContentService(contents repository.ContentRepository) *ContentService {
	return &ContentService{contents: contents}
}

func (s *ContentService) Create(ctx context.Context, cmd CreateContentCommand) (*models.Content, error) {
	if cmd.Title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if cmd.Type != models.ContentTypeBlog && cmd.Type != models.ContentTypeHeritage {
		return nil, fmt.Errorf("%w: unknown content type %q", models.ErrValidation, cmd.Type)
	}

	content := &models.Content{
		Slug:     Slugify(cmd.Title),
		Type:     cmd.Type,
		Title:    cmd.Title,
		Excerpt:  cmd.Excerpt,
		Body:     cmd.Body,
		CoverURL: cmd.CoverURL,
		Region:   cmd.Region,
		AuthorID: cmd.AuthorID,
	}
	if err := s.contents.Create(ctx, content); err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return content, nil
}

func (s *ContentService) Update(ctx context.Context, cmd UpdateContentCommand) (*models.Content, error) {
	content, err := s.contents.FindByRef(ctx, cmd.ContentRef)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil {
		content.Title = *cmd.Title
	}
	if cmd.Excerpt != nil {
		content.Excerpt = *cmd.Excerpt
	}
	if cmd.Body != nil {
		content.Body = *cmd.Body
	}
	if cmd.CoverURL != nil {
		content.CoverURL = *cmd.CoverURL
	}

	if err := s.contents.Update(ctx, content); err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}
	return content, nil
}

func (s *ContentService) Publish(ctx context.Context, contentRef string, published bool) (*models.Content, error) {
	content, err := s.contents.FindByRef(ctx, contentRef)
	if err != nil {
		return nil, err
	}
	return s.contents.SetPublished(ctx, content.ID, published)
}

func (s *ContentService) GetByRef(ctx context.Context, ref string) (*models.Content, error) {
	return s.contents.FindByRef(ctx, ref)
}

func (s *ContentService) ListPublished(ctx context.Context, contentType *models.ContentType, page, perPage int) ([]models.Content, int64, error) {
	page, perPage = normalizePage(page, perPage)
	return s.contents.ListPublished(ctx, contentType, page, perPage)
}

func (s *ContentService) Delete(ctx context.Context, contentRef string) error {
	content, err := s.contents.FindByRef(ctx, contentRef)
	if err != nil {
		return err
	}
	return s.contents.Delete(ctx, content.ID)
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify builds a URL-safe slug from a title.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugCleaner.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
