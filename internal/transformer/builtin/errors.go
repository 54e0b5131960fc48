// Package builtin contains the cleaning stages used by the pipeline.
package builtin

import "errors"

var (
	// ErrMissingColumn is returned when a stage references a column the table lacks.
	ErrMissingColumn = errors.New("column not found")

	// ErrNotNumeric is returned when a value cannot be parsed into the target number type.
	ErrNotNumeric = errors.New("value is not numeric")

	// ErrNoFillValue is returned when a column needs imputation but has no
	// present value to derive a median or mode from.
	ErrNoFillValue = errors.New("no value to impute from")

	// ErrDuplicateColumn is returned when two columns normalize to the same name.
	ErrDuplicateColumn = errors.New("duplicate column name")
)
