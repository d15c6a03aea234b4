package reporting

import (
	"github.com/Masterminds/squirrel"

	"aurum/internal/core/apperror"
)

// Predicate is the compiled WHERE-clause fragment for one descriptor plus
// its bound parameters. Clauses are conjunctive; a clause is never added
// without its parameter because both travel inside the same Sqlizer.
type Predicate struct {
	conj squirrel.And
}

// Sqlizer exposes the predicate to the query compilers.
func (p Predicate) Sqlizer() squirrel.Sqlizer {
	return p.conj
}

// ToSql renders the fragment with its arguments.
func (p Predicate) ToSql() (string, []any, error) {
	return p.conj.ToSql()
}

// Builder assembles predicates from one FilterSpec and one resolved date
// range. The same builder serves every descriptor in a request, so the
// scorecard pass and the grid pass see an identical predicate tree
// re-targeted at each descriptor's columns.
type Builder struct {
	filter FilterSpec
	window *DateRange
}

// NewBuilder creates a predicate builder for a request.
func NewBuilder(filter FilterSpec, window *DateRange) *Builder {
	return &Builder{filter: filter, window: window}
}

// Build compiles the predicate for a descriptor. Identifiers come only from
// the trusted descriptor; every user-supplied value is bound as a
// parameter, never interpolated.
func (b *Builder) Build(d Descriptor) (Predicate, error) {
	conj := squirrel.And{squirrel.Expr("1=1")}

	if b.window != nil {
		conj = append(conj, squirrel.Expr(
			"p."+d.DateColumn+"::date BETWEEN ? AND ?",
			b.window.From, b.window.To,
		))
	}

	if b.filter.BranchID != nil {
		conj = append(conj, squirrel.Eq{"p.branch_id": *b.filter.BranchID})
	}
	if b.filter.Status != "" {
		conj = append(conj, squirrel.Eq{"p.status": b.filter.Status})
	}

	// Category-hierarchy filters bind to descriptor-declared columns; a
	// filter without a column on this report type is a no-op.
	if b.filter.MaterialTypeID != nil && d.MaterialColumn != "" {
		conj = append(conj, squirrel.Eq{d.MaterialColumn: *b.filter.MaterialTypeID})
	}
	if b.filter.CategoryID != nil && d.CategoryColumn != "" {
		conj = append(conj, squirrel.Eq{d.CategoryColumn: *b.filter.CategoryID})
	}
	if b.filter.SubcategoryID != nil && d.SubcategoryColumn != "" {
		conj = append(conj, squirrel.Eq{d.SubcategoryColumn: *b.filter.SubcategoryID})
	}
	if b.filter.GRNID != nil && d.GRNColumn != "" {
		conj = append(conj, squirrel.Eq{d.GRNColumn: *b.filter.GRNID})
	}

	if b.filter.Search != "" && len(d.SearchColumns) > 0 {
		pattern := "%" + b.filter.Search + "%"
		or := make(squirrel.Or, 0, len(d.SearchColumns))
		for _, col := range d.SearchColumns {
			or = append(or, squirrel.ILike{col: pattern})
		}
		conj = append(conj, or)
	}

	if b.filter.Ageing != "" {
		clause, err := ageingClause(d, b.filter.Ageing)
		if err != nil {
			return Predicate{}, err
		}
		conj = append(conj, clause)
	}

	return Predicate{conj: conj}, nil
}

// ageingClause compiles an age-bucket filter against the descriptor's date
// column. The buckets are mutually exclusive and cover every non-negative
// day count.
func ageingClause(d Descriptor, bucket AgeBucket) (squirrel.Sqlizer, error) {
	age := "(CURRENT_DATE - p." + d.DateColumn + "::date)"
	switch bucket {
	case Age0To30:
		return squirrel.Expr(age + " <= 30"), nil
	case Age31To60:
		return squirrel.Expr(age + " BETWEEN 31 AND 60"), nil
	case Age61To90:
		return squirrel.Expr(age + " BETWEEN 61 AND 90"), nil
	case Age91Plus:
		return squirrel.Expr(age + " >= 91"), nil
	}
	return nil, apperror.NewValidation("invalid ageing bucket").WithDetail("ageing", string(bucket))
}
