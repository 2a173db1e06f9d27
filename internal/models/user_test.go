package models_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/baharkarakas/classifieds-backend/internal/models"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in       string
		want     models.Role
		elevated bool
		wantErr  bool
	}{
		{in: "", want: models.RoleMember},
		{in: "member", want: models.RoleMember},
		{in: "moderator", want: models.RoleModerator, elevated: true},
		{in: "admin", want: models.RoleAdmin, elevated: true},
		{in: "Admin", wantErr: true},
		{in: "root", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := qt.New(t)
			got, err := models.ParseRole(tt.in)
			if tt.wantErr {
				c.Assert(err, qt.ErrorMatches, `unknown role .*`)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tt.want)
			c.Assert(got.IsElevated(), qt.Equals, tt.elevated)
		})
	}
}
