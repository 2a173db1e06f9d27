package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/baharkarakas/classifieds-backend/internal/auth"
	"github.com/baharkarakas/classifieds-backend/internal/models"
	repo "github.com/baharkarakas/classifieds-backend/internal/repository"
	"github.com/baharkarakas/classifieds-backend/internal/validate"
)

const maxUsername = 150

// UserInput is the writable part of a user. Location holds location names;
// unknown names are created.
type UserInput struct {
	Username  *string  `json:"username"`
	Password  *string  `json:"password"`
	FirstName *string  `json:"first_name"`
	LastName  *string  `json:"last_name"`
	Role      *string  `json:"role"`
	Age       *int     `json:"age"`
	Location  []string `json:"location"`
}

func (in UserInput) validate(partial bool) (models.Role, error) {
	var errs []*validate.ErrField
	if !partial {
		errs = append(errs, validate.Present("username", in.Username), validate.Present("password", in.Password))
	}
	if in.Username != nil {
		errs = append(errs,
			validate.Required("username", *in.Username),
			validate.MaxLen("username", *in.Username, maxUsername),
		)
	}
	if in.Password != nil {
		errs = append(errs, validate.Required("password", *in.Password))
	}
	if in.Age != nil {
		errs = append(errs, validate.MinInt("age", int64(*in.Age), 0))
	}
	for _, name := range in.Location {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, &validate.ErrField{Field: "location", Msg: "names must not be blank"})
			break
		}
	}
	var role models.Role
	if in.Role != nil {
		r, err := models.ParseRole(*in.Role)
		if err != nil {
			errs = append(errs, &validate.ErrField{Field: "role", Msg: err.Error()})
		}
		role = r
	}
	return role, validate.Collect(errs...)
}

// apply copies in onto u, hashing a supplied password.
func (in UserInput) apply(u *models.User, role models.Role) error {
	if in.Username != nil {
		u.Username = strings.TrimSpace(*in.Username)
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Role != nil {
		u.Role = role
	}
	if in.Age != nil {
		u.Age = in.Age
	}
	u.Locations = make([]string, 0, len(in.Location))
	for _, name := range in.Location {
		u.Locations = append(u.Locations, strings.TrimSpace(name))
	}
	return nil
}

type UserService struct {
	r   repo.Users
	log *slog.Logger
}

func NewUserService(r repo.Users, log *slog.Logger) *UserService {
	return &UserService{r: r, log: log}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) { return s.r.List(ctx) }

func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.r.GetByID(ctx, id)
}

// Create registers a user with a bcrypt-hashed password and links the named
// locations.
func (s *UserService) Create(ctx context.Context, in UserInput) (models.User, error) {
	role, err := in.validate(false)
	if err != nil {
		return models.User{}, err
	}
	u := models.User{Role: models.RoleMember}
	if err := in.apply(&u, role); err != nil {
		return models.User{}, err
	}
	u, err = s.r.Create(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	s.log.InfoContext(ctx, "user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Update rewrites the supplied fields. A new password is hashed; locations
// are added to the existing ones.
func (s *UserService) Update(ctx context.Context, id int64, in UserInput, partial bool) (models.User, error) {
	role, err := in.validate(partial)
	if err != nil {
		return models.User{}, err
	}
	u, err := s.r.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if err := in.apply(&u, role); err != nil {
		return models.User{}, err
	}
	return s.r.Update(ctx, u)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}
