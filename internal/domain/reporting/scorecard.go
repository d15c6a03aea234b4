package reporting

import (
	"github.com/Masterminds/squirrel"

	"aurum/internal/core/apperror"
)

// statementBuilder returns a squirrel builder with PostgreSQL placeholders.
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// weightSelect renders the item weight aggregate; descriptors without a
// weight column report a constant zero.
func weightSelect(d Descriptor) string {
	if d.WeightExpr == "" {
		return "0 AS total_weight"
	}
	return "COALESCE(SUM(" + d.WeightExpr + "), 0) AS total_weight"
}

// CompileScorecard compiles the aggregate totals query for one descriptor
// under the shared predicate.
//
// Two independent single-row aggregates are combined with a CROSS JOIN (a
// 1x1 join, no fan-out): item weight/quantity over the item table joined to
// its parent, and the amount total over the parent alone. Soft-deleted rows
// are always excluded regardless of caller filters.
func CompileScorecard(d Descriptor, pred Predicate) (Query, error) {
	itemAgg := squirrel.
		Select(weightSelect(d), d.QuantityExpr+" AS total_quantity").
		From(d.ItemTable + " i").
		LeftJoin(d.ParentTable + " p ON i." + d.ItemFK + " = p.id")
	for _, join := range d.Joins {
		itemAgg = itemAgg.LeftJoin(join)
	}
	itemAgg = itemAgg.
		Where(squirrel.Expr("i.deleted_at IS NULL")).
		Where(squirrel.Expr("p.deleted_at IS NULL")).
		Where(pred.Sqlizer())

	amountAgg := squirrel.
		Select("COALESCE(SUM(p.total_amount), 0) AS total_amount").
		From(d.ParentTable + " p")
	for _, join := range d.Joins {
		amountAgg = amountAgg.LeftJoin(join)
	}
	amountAgg = amountAgg.
		Where(squirrel.Expr("p.deleted_at IS NULL")).
		Where(pred.Sqlizer())

	q := statementBuilder().
		Select("items.total_weight", "items.total_quantity", "totals.total_amount").
		FromSelect(itemAgg, "items").
		JoinClause(squirrel.ConcatExpr("CROSS JOIN (", amountAgg, ") AS totals"))

	sql, args, err := q.ToSql()
	if err != nil {
		return Query{}, apperror.NewCompileInvariant("build scorecard query for " + string(d.Type)).WithCause(err)
	}
	return Query{SQL: sql, Args: args}, nil
}
