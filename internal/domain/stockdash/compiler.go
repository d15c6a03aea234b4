package stockdash

import (
	"github.com/Masterminds/squirrel"

	"aurum/internal/core/apperror"
	"aurum/internal/domain/reporting"
)

// productDescriptor drives the shared predicate builder for the dashboard's
// product-level views. It is not registered as a report type; the grid path
// for products is the stock_ageing report.
var productDescriptor = reporting.Descriptor{
	Type:              "stock_products",
	ParentTable:       "products",
	ItemTable:         "products",
	ItemFK:            "id",
	DateColumn:        "created_at",
	CodeColumn:        "product_code",
	WeightExpr:        "i.net_weight",
	QuantityExpr:      "COALESCE(SUM(i.quantity), 0)",
	SearchColumns:     []string{"p.product_code", "s.subcategory_name"},
	MaterialColumn:    "cat.material_type_id",
	CategoryColumn:    "s.category_id",
	SubcategoryColumn: "p.subcategory_id",
	GRNColumn:         "p.grn_id",
	SelectColumns:     []string{"p.id"},
}

// productJoins are the descriptive joins every product-level query carries.
var productJoins = []string{
	"branches b ON b.id = p.branch_id",
	"subcategories s ON s.id = p.subcategory_id",
	"categories cat ON cat.id = s.category_id",
	"grns g ON g.id = p.grn_id",
}

// Compiler builds the dashboard queries. DefaultBranchID pins the
// out-of-stock catalog view to the default/online branch when the request
// does not name one; zero disables the pinning.
type Compiler struct {
	DefaultBranchID int64
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// BuildPredicate compiles the shared product predicate for a request.
func (c Compiler) BuildPredicate(filter reporting.FilterSpec, window *reporting.DateRange) (reporting.Predicate, error) {
	return reporting.NewBuilder(filter, window).Build(productDescriptor)
}

// productBase is the FROM/JOIN/WHERE skeleton shared by the product-level
// views: active, non-deleted products under the caller predicate.
func productBase(cols []string, pred reporting.Predicate) squirrel.SelectBuilder {
	q := squirrel.Select(cols...).From("products p")
	for _, join := range productJoins {
		q = q.LeftJoin(join)
	}
	return q.
		Where(squirrel.Expr("p.deleted_at IS NULL")).
		Where(squirrel.Eq{"p.status": "active"}).
		Where(pred.Sqlizer())
}

// InHandSummary compiles the stock-in-hand totals query.
func (c Compiler) InHandSummary(pred reporting.Predicate) (reporting.Query, error) {
	q := productBase([]string{
		"COALESCE(SUM(p.quantity), 0) AS total_quantity",
		"COALESCE(SUM(p.net_weight), 0) AS total_weight",
	}, pred).
		Where(squirrel.Gt{"p.quantity": 0}).
		PlaceholderFormat(squirrel.Dollar)

	return toQuery(q, "stock-in-hand summary")
}

// InHandList compiles the stock-in-hand product listing with its count.
func (c Compiler) InHandList(pred reporting.Predicate, page *reporting.PageRequest) (reporting.GridQueries, error) {
	list := productBase([]string{
		"p.id", "p.product_code", "p.quantity", "p.net_weight", "p.mrp", "p.created_at",
		"b.branch_name", "s.subcategory_name", "cat.category_name", "g.grn_code",
	}, pred).
		Where(squirrel.Gt{"p.quantity": 0})

	return paginate(list, "p.id DESC", page, "stock-in-hand list")
}

// lowStockBase groups products by subcategory and keeps those below their
// reorder level. Product-driven: subcategories with no products at all
// belong to the out-of-stock view, not here.
func lowStockBase(pred reporting.Predicate) squirrel.SelectBuilder {
	return productBase([]string{
		"s.id AS subcategory_id",
		"s.subcategory_name",
		"s.reorder_level",
		"COALESCE(SUM(p.quantity), 0) AS on_hand_quantity",
		"COALESCE(SUM(p.net_weight), 0) AS total_weight",
	}, pred).
		GroupBy("s.id", "s.subcategory_name", "s.reorder_level").
		Having("COALESCE(SUM(p.quantity), 0) < s.reorder_level")
}

// LowStockSummary compiles the low-stock totals query: distinct qualifying
// subcategories and their summed weight.
func (c Compiler) LowStockSummary(pred reporting.Predicate) (reporting.Query, error) {
	q := builder().
		Select(
			"COUNT(*) AS subcategory_count",
			"COALESCE(SUM(low.total_weight), 0) AS total_weight",
		).
		FromSelect(lowStockBase(pred), "low")

	return toQuery(q, "low-stock summary")
}

// LowStockList compiles the low-stock subcategory listing with its count.
func (c Compiler) LowStockList(pred reporting.Predicate, page *reporting.PageRequest) (reporting.GridQueries, error) {
	return paginate(lowStockBase(pred), "on_hand_quantity ASC, subcategory_id ASC", page, "low-stock list")
}

// outOfStockBase finds subcategories with no active products at all.
// Product-side conditions (branch, grn, date window) live in the JOIN, not
// the WHERE, so the LEFT JOIN keeps subcategories without any product row.
func (c Compiler) outOfStockBase(filter reporting.FilterSpec, window *reporting.DateRange, cols []string) squirrel.SelectBuilder {
	join := squirrel.Expr("products p ON p.subcategory_id = s.id AND p.deleted_at IS NULL AND p.status = 'active'")
	branchID := c.DefaultBranchID
	if filter.BranchID != nil {
		branchID = *filter.BranchID
	}
	if branchID != 0 {
		join = squirrel.ConcatExpr(join, squirrel.Expr(" AND p.branch_id = ?", branchID))
	}
	if filter.GRNID != nil {
		join = squirrel.ConcatExpr(join, squirrel.Expr(" AND p.grn_id = ?", *filter.GRNID))
	}
	if window != nil {
		join = squirrel.ConcatExpr(join, squirrel.Expr(" AND p.created_at::date BETWEEN ? AND ?", window.From, window.To))
	}

	q := squirrel.Select(cols...).
		From("subcategories s").
		LeftJoin("categories cat ON cat.id = s.category_id").
		JoinClause(squirrel.ConcatExpr("LEFT JOIN ", join)).
		Where(squirrel.Expr("s.deleted_at IS NULL"))

	if filter.CategoryID != nil {
		q = q.Where(squirrel.Eq{"s.category_id": *filter.CategoryID})
	}
	if filter.MaterialTypeID != nil {
		q = q.Where(squirrel.Eq{"cat.material_type_id": *filter.MaterialTypeID})
	}
	if filter.SubcategoryID != nil {
		q = q.Where(squirrel.Eq{"s.id": *filter.SubcategoryID})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"s.subcategory_name": "%" + filter.Search + "%"})
	}

	return q.
		GroupBy("s.id", "s.subcategory_name", "cat.category_name").
		Having("COUNT(p.id) = 0")
}

// OutOfStockSummary compiles the out-of-stock subcategory count.
func (c Compiler) OutOfStockSummary(filter reporting.FilterSpec, window *reporting.DateRange) (reporting.Query, error) {
	base := c.outOfStockBase(filter, window, []string{"s.id"})
	q := builder().
		Select("COUNT(*) AS subcategory_count").
		FromSelect(base, "oos")

	return toQuery(q, "out-of-stock summary")
}

// OutOfStockList compiles the out-of-stock subcategory listing with count.
func (c Compiler) OutOfStockList(filter reporting.FilterSpec, window *reporting.DateRange, page *reporting.PageRequest) (reporting.GridQueries, error) {
	base := c.outOfStockBase(filter, window, []string{
		"s.id AS subcategory_id",
		"s.subcategory_name",
		"cat.category_name",
	})
	return paginate(base, "subcategory_name ASC", page, "out-of-stock list")
}

// FastMovingList compiles the fast-moving products listing: sold quantity
// per product, descending. Requires branch and subcategory, validated by
// the service before compilation.
func (c Compiler) FastMovingList(pred reporting.Predicate, page *reporting.PageRequest) (reporting.GridQueries, error) {
	q := squirrel.Select(
		"p.id", "p.product_code", "s.subcategory_name", "b.branch_name",
		"COALESCE(SUM(si.quantity), 0) AS sold_quantity",
		"COALESCE(SUM(si.net_weight), 0) AS sold_weight",
	).
		From("products p").
		LeftJoin("sales_invoice_items si ON si.product_id = p.id AND si.deleted_at IS NULL").
		LeftJoin("subcategories s ON s.id = p.subcategory_id").
		LeftJoin("categories cat ON cat.id = s.category_id").
		LeftJoin("branches b ON b.id = p.branch_id").
		Where(squirrel.Expr("p.deleted_at IS NULL")).
		Where(pred.Sqlizer()).
		GroupBy("p.id", "p.product_code", "s.subcategory_name", "b.branch_name")

	return paginate(q, "sold_quantity DESC, p.id DESC", page, "fast-moving list")
}

// paginate finalizes a listing builder: count query first (same FROM/WHERE,
// no window), then ordering and the optional page window.
func paginate(list squirrel.SelectBuilder, orderBy string, page *reporting.PageRequest, what string) (reporting.GridQueries, error) {
	countQ := builder().
		Select("COUNT(*)").
		FromSelect(list, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return reporting.GridQueries{}, apperror.NewCompileInvariant("build count query: " + what).WithCause(err)
	}

	list = list.OrderBy(orderBy).PlaceholderFormat(squirrel.Dollar)
	if page != nil {
		list = list.
			Limit(uint64(page.PageSize)).
			Offset(uint64(page.Offset()))
	}
	listSQL, listArgs, err := list.ToSql()
	if err != nil {
		return reporting.GridQueries{}, apperror.NewCompileInvariant("build listing query: " + what).WithCause(err)
	}

	return reporting.GridQueries{
		List:  reporting.Query{SQL: listSQL, Args: listArgs},
		Count: reporting.Query{SQL: countSQL, Args: countArgs},
	}, nil
}

func toQuery(q squirrel.SelectBuilder, what string) (reporting.Query, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return reporting.Query{}, apperror.NewCompileInvariant("build query: " + what).WithCause(err)
	}
	return reporting.Query{SQL: sql, Args: args}, nil
}
