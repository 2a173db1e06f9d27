package services

import (
	"context"
	"strings"

	"github.com/baharkarakas/classifieds-backend/internal/models"
	repo "github.com/baharkarakas/classifieds-backend/internal/repository"
	"github.com/baharkarakas/classifieds-backend/internal/validate"
)

type LocationInput struct {
	Name *string  `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

func (in LocationInput) validate(partial bool) error {
	var errs []*validate.ErrField
	if !partial {
		errs = append(errs, validate.Present("name", in.Name))
	}
	if in.Name != nil {
		errs = append(errs, validate.Required("name", *in.Name))
	}
	return validate.Collect(errs...)
}

type LocationService struct {
	r repo.Locations
}

func NewLocationService(r repo.Locations) *LocationService { return &LocationService{r: r} }

func (s *LocationService) List(ctx context.Context) ([]models.Location, error) {
	return s.r.List(ctx)
}

func (s *LocationService) Get(ctx context.Context, id int64) (models.Location, error) {
	return s.r.GetByID(ctx, id)
}

func (s *LocationService) Create(ctx context.Context, in LocationInput) (models.Location, error) {
	if err := in.validate(false); err != nil {
		return models.Location{}, err
	}
	return s.r.Create(ctx, models.Location{Name: strings.TrimSpace(*in.Name), Lat: in.Lat, Lng: in.Lng})
}

// Update rewrites the supplied fields. With partial false, absent
// coordinates are cleared.
func (s *LocationService) Update(ctx context.Context, id int64, in LocationInput, partial bool) (models.Location, error) {
	if err := in.validate(partial); err != nil {
		return models.Location{}, err
	}
	l, err := s.r.GetByID(ctx, id)
	if err != nil {
		return models.Location{}, err
	}
	if in.Name != nil {
		l.Name = strings.TrimSpace(*in.Name)
	}
	if in.Lat != nil || !partial {
		l.Lat = in.Lat
	}
	if in.Lng != nil || !partial {
		l.Lng = in.Lng
	}
	return s.r.Update(ctx, l)
}

func (s *LocationService) Delete(ctx context.Context, id int64) error {
	return s.r.Delete(ctx, id)
}
