package query

import (
	"strings"
	"unicode"
)

// Direction is the sort direction rendered into ORDER BY.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// DefaultSortColumn orders pages when no valid sort is requested.
const DefaultSortColumn = "modified_date"

// OrderBy is a validated single-column ordering.
type OrderBy struct {
	Column    string
	Direction Direction
	NullsLast bool
}

// DefaultOrder sorts most recently modified first, never-modified rows last.
func DefaultOrder() OrderBy {
	return OrderBy{Column: DefaultSortColumn, Direction: Descending, NullsLast: true}
}

// SQL renders the ordering term, qualifying the column when alias is set.
func (o OrderBy) SQL(alias string) string {
	column := o.Column
	if alias != "" {
		column = alias + "." + column
	}
	term := column + " " + string(o.Direction)
	if o.NullsLast {
		term += " NULLS LAST"
	}
	return term
}

// String returns the unqualified ordering term.
func (o OrderBy) String() string {
	return o.SQL("")
}

// ResolveSort validates a "field:direction" expression against the table's
// column allow-list. Anything that does not validate yields DefaultOrder.
func ResolveSort(expr string, table Table) OrderBy {
	parts := strings.Split(strings.TrimSpace(expr), ":")
	if len(parts) != 2 {
		return DefaultOrder()
	}

	column := ToSnakeCase(strings.TrimSpace(parts[0]))
	if column == "" || !table.Allows(column) {
		return DefaultOrder()
	}

	direction, ok := parseDirection(parts[1])
	if !ok {
		return DefaultOrder()
	}
	return OrderBy{Column: column, Direction: direction}
}

func parseDirection(raw string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(Ascending):
		return Ascending, true
	case string(Descending):
		return Descending, true
	default:
		return "", false
	}
}

// ToSnakeCase converts a camelCase field name to its snake_case column name.
// Input that is already snake_case is returned unchanged.
func ToSnakeCase(field string) string {
	var b strings.Builder
	b.Grow(len(field) + 4)
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
