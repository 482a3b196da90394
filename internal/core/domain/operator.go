package domain

// Operator is the staff member resolved by numeric code at the start of a
// session. Read-only within the intake flow.
type Operator struct {
	ID     string
	Code   int
	Name   string
	Admin  bool
	Active bool
}
