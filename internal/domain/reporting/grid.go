package reporting

import (
	"github.com/Masterminds/squirrel"

	"aurum/internal/core/apperror"
)

// GridQueries is the compiled listing query plus its structurally matching
// count query (same FROM/WHERE, no window).
type GridQueries struct {
	List  Query
	Count Query
}

// CompileGrid compiles the joined, grouped and sorted listing for one
// descriptor under the shared predicate, with an optional page window.
//
// Item weight/quantity come from a pre-aggregated subquery grouped by the
// item foreign key, so a one-to-many item relationship never duplicates
// parent rows. Descriptive joins are LEFT JOINs keyed by nullable FKs; a
// missing related entity must not eliminate the parent row.
func CompileGrid(d Descriptor, pred Predicate, page *PageRequest) (GridQueries, error) {
	itemSub := squirrel.
		Select(
			"i."+d.ItemFK+" AS parent_id",
			weightSelect(d),
			d.QuantityExpr+" AS total_quantity",
		).
		From(d.ItemTable + " i").
		Where(squirrel.Expr("i.deleted_at IS NULL")).
		GroupBy("i." + d.ItemFK)

	cols := make([]string, 0, len(d.SelectColumns)+2)
	cols = append(cols, d.SelectColumns...)
	cols = append(cols,
		"COALESCE(items.total_weight, 0) AS total_weight",
		"COALESCE(items.total_quantity, 0) AS total_quantity",
	)

	list := statementBuilder().
		Select(cols...).
		From(d.ParentTable + " p").
		JoinClause(squirrel.ConcatExpr("LEFT JOIN (", itemSub, ") AS items ON items.parent_id = p.id"))
	for _, join := range d.Joins {
		list = list.LeftJoin(join)
	}
	list = list.
		Where(squirrel.Expr("p.deleted_at IS NULL")).
		Where(pred.Sqlizer())

	// Count before ordering and windowing so totals match the same row set.
	countQ := statementBuilder().
		Select("COUNT(*)").
		FromSelect(list, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return GridQueries{}, apperror.NewCompileInvariant("build count query for " + string(d.Type)).WithCause(err)
	}

	orderBy := d.OrderBy
	if orderBy == "" {
		orderBy = "p.id DESC"
	}
	list = list.OrderBy(orderBy)

	if page != nil {
		list = list.
			Limit(uint64(page.PageSize)).
			Offset(uint64(page.Offset()))
	}

	listSQL, listArgs, err := list.ToSql()
	if err != nil {
		return GridQueries{}, apperror.NewCompileInvariant("build listing query for " + string(d.Type)).WithCause(err)
	}

	return GridQueries{
		List:  Query{SQL: listSQL, Args: listArgs},
		Count: Query{SQL: countSQL, Args: countArgs},
	}, nil
}
