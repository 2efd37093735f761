package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset indicates the input had no header row.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrColumnNotFound indicates a required column is absent.
	ErrColumnNotFound = errors.New("column not found")
	// ErrNoObservations indicates a column has no present value to aggregate.
	ErrNoObservations = errors.New("no observed values")
)

// ColumnKindError reports a column used with the wrong kind.
type ColumnKindError struct {
	Column string
	Want   Kind
	Got    Kind
}

func (e *ColumnKindError) Error() string {
	return fmt.Sprintf("column %q is %s, want %s", e.Column, e.Got, e.Want)
}
