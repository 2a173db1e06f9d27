package postgres

import (
	"strconv"
	"strings"

	"github.com/baharkarakas/classifieds-backend/internal/repository"
)

const adColumns = `a.id, a.name, a.price, a.description, a.image, a.is_published, a.author_id, a.category_id`

// buildAdQuery renders f as a parameterised SELECT over ads.
func buildAdQuery(f repository.AdFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if len(f.CategoryIDs) > 0 {
		where = append(where, "a.category_id = ANY("+arg(f.CategoryIDs)+")")
	}
	if f.Text != "" {
		where = append(where, "a.description ILIKE "+arg(likePattern(f.Text)))
	}
	if f.Location != "" {
		where = append(where, `a.author_id IN (
		SELECT ul.user_id FROM user_locations ul
		  JOIN locations l ON l.id = ul.location_id
		 WHERE l.name ILIKE `+arg(likePattern(f.Location))+`)`)
	}
	if lo, hi, inclusive, ok := f.PriceRange(); ok {
		op := " < "
		if inclusive {
			op = " <= "
		}
		where = append(where, "a.price >= "+arg(lo)+" AND a.price"+op+arg(hi))
	}

	var b strings.Builder
	b.WriteString("SELECT " + adColumns + " FROM ads a")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY a.id")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + arg(f.Limit))
	}
	if f.Offset > 0 {
		b.WriteString(" OFFSET " + arg(f.Offset))
	}
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches s anywhere, with LIKE wildcards in s taken literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
