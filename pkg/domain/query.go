package domain

// Query is a read-only request, routed by name.
type Query interface {
	QueryName() string
}
