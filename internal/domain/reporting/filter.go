package reporting

import (
	"aurum/internal/core/apperror"
)

// AgeBucket classifies a row's age in days since its date column.
type AgeBucket string

const (
	Age0To30   AgeBucket = "0_30"
	Age31To60  AgeBucket = "31_60"
	Age61To90  AgeBucket = "61_90"
	Age91Plus  AgeBucket = "91_plus"
)

// Valid reports whether the bucket is one of the four known ranges.
func (b AgeBucket) Valid() bool {
	switch b {
	case Age0To30, Age31To60, Age61To90, Age91Plus:
		return true
	}
	return false
}

// FilterSpec is the request-level set of optional filters. It is immutable
// once parsed from the request and is applied independently to each
// descriptor via the predicate builder.
type FilterSpec struct {
	Type ReportType

	BranchID       *int64
	Status         string
	MaterialTypeID *int64
	CategoryID     *int64
	SubcategoryID  *int64
	GRNID          *int64
	Search         string
	Ageing         AgeBucket
	Date           DateSpec
}

// Validate checks the closed-set filter fields before any compilation.
func (f FilterSpec) Validate() error {
	if f.Ageing != "" && !f.Ageing.Valid() {
		return apperror.NewValidation("invalid ageing bucket").WithDetail("ageing", string(f.Ageing))
	}
	return nil
}
