package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/baharkarakas/classifieds-backend/internal/metrics"
	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/baharkarakas/classifieds-backend/internal/permissions"
	repo "github.com/baharkarakas/classifieds-backend/internal/repository"
	"github.com/baharkarakas/classifieds-backend/internal/validate"
)

const maxSelectionName = 100

type SelectionInput struct {
	Name  *string  `json:"name"`
	Owner *int64   `json:"owner"`
	Items *[]int64 `json:"items"`
}

func (in SelectionInput) validate(partial bool) error {
	var errs []*validate.ErrField
	if !partial {
		errs = append(errs, validate.Present("name", in.Name), validate.Present("owner", in.Owner))
	}
	if in.Name != nil {
		errs = append(errs,
			validate.Required("name", *in.Name),
			validate.MaxLen("name", *in.Name, maxSelectionName),
		)
	}
	return validate.Collect(errs...)
}

func (in SelectionInput) apply(sel *models.Selection) {
	if in.Name != nil {
		sel.Name = strings.TrimSpace(*in.Name)
	}
	if in.Owner != nil {
		sel.OwnerID = *in.Owner
	}
	if in.Items != nil {
		sel.Items = *in.Items
	}
}

type SelectionService struct {
	r   repo.Selections
	log *slog.Logger
}

func NewSelectionService(r repo.Selections, log *slog.Logger) *SelectionService {
	return &SelectionService{r: r, log: log}
}

func (s *SelectionService) List(ctx context.Context) ([]models.SelectionSummary, error) {
	return s.r.List(ctx)
}

func (s *SelectionService) Get(ctx context.Context, id int64) (models.Selection, error) {
	return s.r.GetByID(ctx, id)
}

// Create stores a selection for any authenticated caller. The owner is taken
// from the body and need not be the caller.
func (s *SelectionService) Create(ctx context.Context, actor models.User, in SelectionInput) (models.Selection, error) {
	if actor.Anonymous() {
		return models.Selection{}, models.ErrUnauthenticated
	}
	if err := in.validate(false); err != nil {
		return models.Selection{}, err
	}
	var sel models.Selection
	in.apply(&sel)
	sel, err := s.r.Create(ctx, sel)
	if err != nil {
		return models.Selection{}, err
	}
	s.log.InfoContext(ctx, "selection created", "selection_id", sel.ID, "owner_id", sel.OwnerID, "user_id", actor.ID)
	return sel, nil
}

// Update is allowed for the owner only; moderators and admins get no bypass.
func (s *SelectionService) Update(ctx context.Context, actor models.User, id int64, in SelectionInput, partial bool) (models.Selection, error) {
	if actor.Anonymous() {
		return models.Selection{}, models.ErrUnauthenticated
	}
	sel, err := s.r.GetByID(ctx, id)
	if err != nil {
		return models.Selection{}, err
	}
	if err := permissions.SelectionOwner(actor, sel); err != nil {
		metrics.PermissionDenied.WithLabelValues("selection", "update").Inc()
		s.log.WarnContext(ctx, "selection permission denied", "selection_id", id, "user_id", actor.ID)
		return models.Selection{}, err
	}
	if err := in.validate(partial); err != nil {
		return models.Selection{}, err
	}
	in.apply(&sel)
	return s.r.Update(ctx, sel)
}

// Delete only requires an authenticated caller.
// TODO: gate on permissions.SelectionOwner once clients stop deleting
// selections on behalf of other users.
func (s *SelectionService) Delete(ctx context.Context, actor models.User, id int64) error {
	if actor.Anonymous() {
		return models.ErrUnauthenticated
	}
	if err := s.r.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "selection deleted", "selection_id", id, "user_id", actor.ID)
	return nil
}
