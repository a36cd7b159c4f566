package domain

// Customer is identified by email address: two tickets carrying the
// same email resolve to the same customer row. Name is last-write-wins.
type Customer struct {
	ID    int64
	Email string
	Name  string
}

// CustomerInfo is the transient result of the extraction heuristic.
// Both fields carry fallback values when extraction finds nothing, so
// a CustomerInfo is always usable.
type CustomerInfo struct {
	Email string
	Name  string
}
