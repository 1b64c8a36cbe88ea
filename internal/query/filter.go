package query

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Clause is a rendered SQL fragment using '?' placeholders and its bound arguments.
// It satisfies squirrel's Sqlizer so it can be fed back into statement builders.
type Clause struct {
	SQL  string
	Args []interface{}
}

// ToSql implements sq.Sqlizer.
func (c Clause) ToSql() (string, []interface{}, error) {
	return c.SQL, c.Args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildFilter renders the WHERE predicate for spec. It always starts from an
// always-true base so optional predicates compose with AND.
func BuildFilter(spec Spec, table Table) (Clause, error) {
	predicate := sq.And{sq.Expr("1=1")}

	if len(spec.IDs) > 0 {
		predicate = append(predicate, sq.Eq{"id": spec.IDs})
	}

	if search := strings.TrimSpace(spec.Search); search != "" && len(table.SearchColumns) > 0 {
		predicate = append(predicate, searchPredicate(table.SearchColumns, likeEscaper.Replace(search)+"%"))
	}

	sql, args, err := predicate.ToSql()
	if err != nil {
		return Clause{}, fmt.Errorf("build %s filter: %w", table.Name, err)
	}
	return Clause{SQL: sql, Args: args}, nil
}

// searchPredicate binds the same prefix pattern against every searchable column.
func searchPredicate(columns []string, pattern string) sq.Sqlizer {
	if len(columns) == 1 {
		return sq.ILike{columns[0]: pattern}
	}
	anyOf := make(sq.Or, 0, len(columns))
	for _, column := range columns {
		anyOf = append(anyOf, sq.ILike{column: pattern})
	}
	return anyOf
}
