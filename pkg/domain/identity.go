package domain

// IDGenerator produces new identifiers of type T.
type IDGenerator[T any] func() T
