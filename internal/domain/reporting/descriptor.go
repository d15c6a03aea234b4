package reporting

import (
	"fmt"

	"aurum/internal/core/apperror"
)

// Descriptor is the static metadata describing how one report type maps
// onto its underlying tables, columns and expressions. All identifiers come
// from this trusted, compile-time-known set; user input never reaches them.
//
// The parent table is always aliased "p" and the item table "i" in compiled
// SQL; descriptor expressions reference those aliases.
type Descriptor struct {
	Type ReportType

	// ParentTable holds one row per business document (invoice, repair, …).
	ParentTable string

	// ItemTable holds the document's line items; ItemFK names the column on
	// ItemTable referencing ParentTable.id. A parent that carries its own
	// quantity/weight (products) points ItemTable at itself with ItemFK "id".
	ItemTable string
	ItemFK    string

	// DateColumn on the parent drives date-range and ageing filters.
	DateColumn string

	// CodeColumn is the human-readable document code on the parent.
	CodeColumn string

	// WeightExpr is the per-item weight expression ("i.net_weight"); empty
	// when the domain has no weight, in which case totals report 0.
	WeightExpr string

	// QuantityExpr aggregates item quantity: COUNT(i.id) for domains that
	// count physical pieces, SUM of a quantity column for the rest.
	QuantityExpr string

	// SearchColumns is the OR-group of columns matched by free-text search.
	SearchColumns []string

	// Columns the equality filters bind to; empty means the filter does not
	// apply to this report type and is a no-op.
	MaterialColumn    string
	CategoryColumn    string
	SubcategoryColumn string
	GRNColumn         string

	// Grid shape: select list, descriptive LEFT JOIN clauses (keyed by
	// nullable FKs so a missing related entity does not drop the parent row)
	// and the default ordering.
	SelectColumns []string
	Joins         []string
	OrderBy       string
}

// Registry is the immutable set of report descriptors, constructed once at
// startup and passed explicitly into the compilers.
type Registry struct {
	order  []ReportType
	byType map[ReportType]Descriptor
}

// NewRegistry builds a registry from descriptors, validating each.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{byType: make(map[ReportType]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byType[d.Type]; dup {
			return nil, apperror.NewCompileInvariant(fmt.Sprintf("duplicate report descriptor: %s", d.Type))
		}
		r.byType[d.Type] = d
		r.order = append(r.order, d.Type)
	}
	return r, nil
}

func (d Descriptor) validate() error {
	switch {
	case d.Type == "":
		return apperror.NewCompileInvariant("descriptor without report type")
	case d.ParentTable == "" || d.ItemTable == "" || d.ItemFK == "":
		return apperror.NewCompileInvariant(fmt.Sprintf("descriptor %s: parent/item tables and item FK are required", d.Type))
	case d.DateColumn == "" || d.CodeColumn == "":
		return apperror.NewCompileInvariant(fmt.Sprintf("descriptor %s: date and code columns are required", d.Type))
	case d.QuantityExpr == "":
		return apperror.NewCompileInvariant(fmt.Sprintf("descriptor %s: quantity expression is required", d.Type))
	case len(d.SelectColumns) == 0:
		return apperror.NewCompileInvariant(fmt.Sprintf("descriptor %s: grid select list is required", d.Type))
	}
	return nil
}

// Lookup returns the descriptor for a report type. Unknown types fail fast
// before any SQL is compiled.
func (r *Registry) Lookup(t ReportType) (Descriptor, error) {
	d, ok := r.byType[t]
	if !ok {
		return Descriptor{}, apperror.NewUnknownReportType(string(t))
	}
	return d, nil
}

// All returns every descriptor in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.byType[t])
	}
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.order)
}

// DefaultRegistry returns the registry for the jewelry back-office schema.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(
		Descriptor{
			Type:          TypeOldJewel,
			ParentTable:   "old_jewels",
			ItemTable:     "old_jewel_items",
			ItemFK:        "old_jewel_id",
			DateColumn:    "created_at",
			CodeColumn:    "old_jewel_code",
			WeightExpr:    "i.weight",
			QuantityExpr:  "COUNT(i.id)",
			SearchColumns: []string{"p.old_jewel_code", "c.customer_name", "e.employee_name"},
			SelectColumns: []string{
				"p.id", "p.old_jewel_code", "p.status", "p.total_amount", "p.created_at",
				"b.branch_name", "c.customer_name", "e.employee_name",
			},
			Joins: []string{
				"branches b ON b.id = p.branch_id",
				"customers c ON c.id = p.customer_id",
				"employees e ON e.id = p.employee_id",
			},
		},
		Descriptor{
			Type:          TypeJewelRepair,
			ParentTable:   "repairs",
			ItemTable:     "repair_items",
			ItemFK:        "repair_id",
			DateColumn:    "created_at",
			CodeColumn:    "repair_code",
			WeightExpr:    "i.weight",
			QuantityExpr:  "COUNT(i.id)",
			SearchColumns: []string{"p.repair_code", "c.customer_name", "e.employee_name"},
			SelectColumns: []string{
				"p.id", "p.repair_code", "p.status", "p.total_amount", "p.created_at", "p.delivery_date",
				"b.branch_name", "c.customer_name", "e.employee_name",
			},
			Joins: []string{
				"branches b ON b.id = p.branch_id",
				"customers c ON c.id = p.customer_id",
				"employees e ON e.id = p.employee_id",
			},
		},
		Descriptor{
			Type:          TypeEstimate,
			ParentTable:   "estimates",
			ItemTable:     "estimate_items",
			ItemFK:        "estimate_id",
			DateColumn:    "created_at",
			CodeColumn:    "estimate_code",
			WeightExpr:    "i.net_weight",
			QuantityExpr:  "COALESCE(SUM(i.quantity), 0)",
			SearchColumns: []string{"p.estimate_code", "c.customer_name"},
			SelectColumns: []string{
				"p.id", "p.estimate_code", "p.status", "p.total_amount", "p.created_at",
				"b.branch_name", "c.customer_name",
			},
			Joins: []string{
				"branches b ON b.id = p.branch_id",
				"customers c ON c.id = p.customer_id",
			},
		},
		Descriptor{
			Type:          TypeSalesInvoice,
			ParentTable:   "sales_invoices",
			ItemTable:     "sales_invoice_items",
			ItemFK:        "invoice_id",
			DateColumn:    "created_at",
			CodeColumn:    "invoice_code",
			WeightExpr:    "i.net_weight",
			QuantityExpr:  "COALESCE(SUM(i.quantity), 0)",
			SearchColumns: []string{"p.invoice_code", "c.customer_name", "e.employee_name"},
			SelectColumns: []string{
				"p.id", "p.invoice_code", "p.status", "p.total_amount", "p.paid_amount", "p.created_at",
				"b.branch_name", "c.customer_name", "e.employee_name",
			},
			Joins: []string{
				"branches b ON b.id = p.branch_id",
				"customers c ON c.id = p.customer_id",
				"employees e ON e.id = p.employee_id",
			},
		},
		Descriptor{
			Type:          TypeSalesReturn,
			ParentTable:   "sales_returns",
			ItemTable:     "sales_return_items",
			ItemFK:        "return_id",
			DateColumn:    "created_at",
			CodeColumn:    "return_code",
			WeightExpr:    "i.net_weight",
			QuantityExpr:  "COALESCE(SUM(i.quantity), 0)",
			SearchColumns: []string{"p.return_code", "c.customer_name"},
			SelectColumns: []string{
				"p.id", "p.return_code", "p.status", "p.total_amount", "p.created_at",
				"b.branch_name", "c.customer_name",
			},
			Joins: []string{
				"branches b ON b.id = p.branch_id",
				"customers c ON c.id = p.customer_id",
			},
		},
		Descriptor{
			// Products carry their own quantity and weight, so item
			// aggregation points back at the parent row (a 1:1 join).
			Type:              TypeStockAgeing,
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
			SelectColumns: []string{
				"p.id", "p.product_code", "p.quantity", "p.net_weight", "p.total_amount", "p.created_at",
				"(CURRENT_DATE - p.created_at::date) AS age_days",
				"b.branch_name", "s.subcategory_name", "cat.category_name",
			},
			Joins: []string{
				"branches b ON b.id = p.branch_id",
				"subcategories s ON s.id = p.subcategory_id",
				"categories cat ON cat.id = s.category_id",
			},
			OrderBy: "age_days DESC, p.id DESC",
		},
	)
}
