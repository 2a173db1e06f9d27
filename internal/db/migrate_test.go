package db

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestMigrationsEmbedded(t *testing.T) {
	c := qt.New(t)

	names, err := Migrations()
	c.Assert(err, qt.IsNil)
	c.Assert(names, qt.Not(qt.HasLen), 0)
	c.Assert(names[0], qt.Equals, "0001_init.up.sql")

	b, err := migrationsFS.ReadFile("migrations/" + names[0])
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Contains(string(b), "REFERENCES categories(id) ON DELETE RESTRICT"), qt.IsTrue)
}
