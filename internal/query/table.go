package query

import (
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"
)

// JunctionAlias is the alias of the many-to-many table in joined selects.
const JunctionAlias = "j"

// Table describes one aggregate's storage layout. Every identifier that ends
// up in generated SQL comes from a Table value declared in code.
type Table struct {
	// Name is the parent table.
	Name string
	// Alias qualifies parent columns in joined selects.
	Alias string
	// Columns is both the select list and the sort allow-list.
	Columns []string
	// SearchColumns are matched by prefix search, OR-ed together.
	SearchColumns []string
	// Junction is the many-to-many table.
	Junction string
	// JunctionKey is the junction column referencing this table's id.
	JunctionKey string
	// RelatedKey is the junction column referencing the peer entity.
	RelatedKey string
}

// Allows reports whether column may be used for sorting.
func (t Table) Allows(column string) bool {
	return slices.Contains(t.Columns, column)
}

func (t Table) qualifiedColumns() []string {
	cols := make([]string, 0, len(t.Columns)+1)
	for _, col := range t.Columns {
		cols = append(cols, t.Alias+"."+col)
	}
	return append(cols, JunctionAlias+"."+t.RelatedKey)
}

func (t Table) junctionJoin() string {
	return fmt.Sprintf("%s %s ON %s.%s = %s.id", t.Junction, JunctionAlias, JunctionAlias, t.JunctionKey, t.Alias)
}

// SelectByID renders the joined select for a single parent, one row per related id.
func (t Table) SelectByID(id int64) (string, []interface{}, error) {
	return sq.Select(t.qualifiedColumns()...).
		From(t.Name + " " + t.Alias).
		LeftJoin(t.junctionJoin()).
		Where(sq.Eq{t.Alias + ".id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// InsertLinks renders one multi-row insert of (owner, related) junction pairs.
func (t Table) InsertLinks(ownerID int64, relatedIDs []int64) (string, []interface{}, error) {
	if len(relatedIDs) == 0 {
		return "", nil, fmt.Errorf("insert %s links: no related ids", t.Junction)
	}
	builder := sq.Insert(t.Junction).Columns(t.JunctionKey, t.RelatedKey).PlaceholderFormat(sq.Dollar)
	for _, relatedID := range relatedIDs {
		builder = builder.Values(ownerID, relatedID)
	}
	return builder.ToSql()
}

// DeleteLinks renders one delete removing the given related ids from owner.
func (t Table) DeleteLinks(ownerID int64, relatedIDs []int64) (string, []interface{}, error) {
	if len(relatedIDs) == 0 {
		return "", nil, fmt.Errorf("delete %s links: no related ids", t.Junction)
	}
	return sq.Delete(t.Junction).
		Where(sq.Eq{t.JunctionKey: ownerID}).
		Where(sq.Eq{t.RelatedKey: relatedIDs}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}
