// Package permissions holds the object-level checks that gate mutations of
// ads and selections.
package permissions

import "github.com/baharkarakas/classifieds-backend/internal/models"

// DeniedMessage is returned to clients when a check fails.
const DeniedMessage = "You are not the author"

// Policy decides who besides the owner may mutate an object.
type Policy struct {
	// AllowElevated lets moderators and admins act on objects they do not own.
	AllowElevated bool
}

var (
	// AdPolicy: authors, moderators and admins.
	AdPolicy = Policy{AllowElevated: true}
	// SelectionPolicy: the owner only.
	SelectionPolicy = Policy{AllowElevated: false}
)

// Allows reports whether actor may mutate an object owned by ownerID.
func (p Policy) Allows(actor models.User, ownerID int64) bool {
	if !actor.Anonymous() && actor.ID == ownerID {
		return true
	}
	return p.AllowElevated && actor.Role.IsElevated()
}

// Check is Allows returning models.ErrForbidden on denial.
func (p Policy) Check(actor models.User, ownerID int64) error {
	if p.Allows(actor, ownerID) {
		return nil
	}
	return models.ErrForbidden
}

func AdAuthor(actor models.User, ad models.Ad) error {
	return AdPolicy.Check(actor, ad.AuthorID)
}

func SelectionOwner(actor models.User, s models.Selection) error {
	return SelectionPolicy.Check(actor, s.OwnerID)
}
