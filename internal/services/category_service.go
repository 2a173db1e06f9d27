package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/baharkarakas/classifieds-backend/internal/models"
	repo "github.com/baharkarakas/classifieds-backend/internal/repository"
	"github.com/baharkarakas/classifieds-backend/internal/validate"
)

type CategoryInput struct {
	Name *string `json:"name"`
}

type CategoryService struct {
	r   repo.Categories
	log *slog.Logger
}

func NewCategoryService(r repo.Categories, log *slog.Logger) *CategoryService {
	return &CategoryService{r: r, log: log}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.r.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (models.Category, error) {
	return s.r.GetByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (models.Category, error) {
	if err := validate.Collect(validate.Present("name", in.Name)); err != nil {
		return models.Category{}, err
	}
	if err := validate.Collect(validate.Required("name", *in.Name)); err != nil {
		return models.Category{}, err
	}
	c, err := s.r.Create(ctx, models.Category{Name: strings.TrimSpace(*in.Name)})
	if err != nil {
		return models.Category{}, err
	}
	s.log.InfoContext(ctx, "category created", "category_id", c.ID)
	return c, nil
}

// Update is partial: an absent name keeps the current one.
func (s *CategoryService) Update(ctx context.Context, id int64, in CategoryInput) (models.Category, error) {
	c, err := s.r.GetByID(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	if in.Name == nil {
		return c, nil
	}
	if err := validate.Collect(validate.Required("name", *in.Name)); err != nil {
		return models.Category{}, err
	}
	c.Name = strings.TrimSpace(*in.Name)
	return s.r.Update(ctx, c)
}

// Delete fails with models.ErrConflict while ads use the category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "category deleted", "category_id", id)
	return nil
}
