package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/baharkarakas/classifieds-backend/internal/metrics"
	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/baharkarakas/classifieds-backend/internal/permissions"
	repo "github.com/baharkarakas/classifieds-backend/internal/repository"
	"github.com/baharkarakas/classifieds-backend/internal/storage"
	"github.com/baharkarakas/classifieds-backend/internal/validate"
)

// AdInput is the writable part of an ad. Nil fields were absent from the
// request body.
type AdInput struct {
	Name        *string `json:"name"`
	Price       *int64  `json:"price"`
	Description *string `json:"description"`
	IsPublished *bool   `json:"is_published"`
	Author      *int64  `json:"author"`
	Category    *int64  `json:"category"`
}

// validate checks a full (create, PUT) or partial (PATCH) input.
func (in AdInput) validate(partial bool) error {
	var errs []*validate.ErrField
	if !partial {
		errs = append(errs,
			validate.Present("name", in.Name),
			validate.Present("price", in.Price),
			validate.Present("description", in.Description),
			validate.Present("is_published", in.IsPublished),
			validate.Present("author", in.Author),
			validate.Present("category", in.Category),
		)
	}
	if in.Name != nil {
		errs = append(errs, validate.Required("name", *in.Name))
	}
	if in.Price != nil {
		errs = append(errs, validate.MinInt("price", *in.Price, 0))
	}
	return validate.Collect(errs...)
}

func (in AdInput) apply(a *models.Ad) {
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		a.Price = *in.Price
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.IsPublished != nil {
		a.IsPublished = *in.IsPublished
	}
	if in.Author != nil {
		a.AuthorID = *in.Author
	}
	if in.Category != nil {
		a.CategoryID = *in.Category
	}
}

type AdService struct {
	ads              repo.Ads
	images           storage.ImageStore
	priceToInclusive bool
	log              *slog.Logger
}

// NewAdService wires the ad store and image store. priceToInclusive makes
// the price_to filter bound inclusive.
func NewAdService(ads repo.Ads, images storage.ImageStore, priceToInclusive bool, log *slog.Logger) *AdService {
	return &AdService{ads: ads, images: images, priceToInclusive: priceToInclusive, log: log}
}

func (s *AdService) List(ctx context.Context, f repo.AdFilter) ([]models.Ad, error) {
	f.PriceToInclusive = s.priceToInclusive
	return s.ads.List(ctx, f)
}

func (s *AdService) Get(ctx context.Context, id int64) (models.Ad, error) {
	return s.ads.GetByID(ctx, id)
}

func (s *AdService) Create(ctx context.Context, in AdInput) (models.Ad, error) {
	if err := in.validate(false); err != nil {
		return models.Ad{}, err
	}
	var a models.Ad
	in.apply(&a)
	a, err := s.ads.Create(ctx, a)
	if err != nil {
		return models.Ad{}, err
	}
	metrics.AdsCreated.Inc()
	s.log.InfoContext(ctx, "ad created", "ad_id", a.ID, "author_id", a.AuthorID, "category_id", a.CategoryID)
	return a, nil
}

// authorize loads the ad and checks that actor may change it.
func (s *AdService) authorize(ctx context.Context, actor models.User, id int64, action string) (models.Ad, error) {
	if actor.Anonymous() {
		return models.Ad{}, models.ErrUnauthenticated
	}
	a, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return models.Ad{}, err
	}
	if err := permissions.AdAuthor(actor, a); err != nil {
		metrics.PermissionDenied.WithLabelValues("ad", action).Inc()
		s.log.WarnContext(ctx, "ad permission denied", "ad_id", id, "user_id", actor.ID, "action", action)
		return models.Ad{}, err
	}
	return a, nil
}

// Update applies in to ad id. partial selects PATCH semantics; otherwise
// every writable field is required.
func (s *AdService) Update(ctx context.Context, actor models.User, id int64, in AdInput, partial bool) (models.Ad, error) {
	a, err := s.authorize(ctx, actor, id, "update")
	if err != nil {
		return models.Ad{}, err
	}
	if err := in.validate(partial); err != nil {
		return models.Ad{}, err
	}
	in.apply(&a)
	return s.ads.Update(ctx, a)
}

func (s *AdService) Delete(ctx context.Context, actor models.User, id int64) error {
	if _, err := s.authorize(ctx, actor, id, "delete"); err != nil {
		return err
	}
	if err := s.ads.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "ad deleted", "ad_id", id, "user_id", actor.ID)
	return nil
}

// UploadImage stores body as the image of ad id. contentType must be one of
// the accepted image types; it alone decides the stored file extension.
func (s *AdService) UploadImage(ctx context.Context, id int64, contentType string, body io.Reader, size int64) (models.AdImage, error) {
	a, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return models.AdImage{}, err
	}
	ext, ok := storage.ImageExt(contentType)
	if !ok {
		metrics.ImageUploads.WithLabelValues("rejected").Inc()
		return models.AdImage{}, validate.Field("image", "upload a valid image")
	}

	url, err := s.images.Save(ctx, storage.ImageKey(ext), contentType, body, size)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("error").Inc()
		return models.AdImage{}, fmt.Errorf("save image: %w", err)
	}
	a, err = s.ads.SetImage(ctx, a.ID, url)
	if err != nil {
		return models.AdImage{}, err
	}
	metrics.ImageUploads.WithLabelValues("ok").Inc()
	s.log.InfoContext(ctx, "ad image uploaded", "ad_id", a.ID, "url", url)
	return models.AdImage{ID: a.ID, Name: a.Name, Image: url}, nil
}
