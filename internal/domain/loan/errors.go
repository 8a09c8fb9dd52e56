package loan

import "fmt"

// StructuralError: a required field is missing or has the wrong JSON type.
type StructuralError struct {
	Field  string
	Reason string
}

func (e *StructuralError) Error() string { return e.Field + " " + e.Reason }

// DomainRangeError: the request is well formed but violates a business rule.
type DomainRangeError struct {
	Field  string
	Reason string
}

func (e *DomainRangeError) Error() string { return e.Field + " " + e.Reason }

// ComputationError: the APR solver could not produce a rate within budget.
type ComputationError struct {
	Reason     string
	Iterations int
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("apr: %s (after %d iterations)", e.Reason, e.Iterations)
}
