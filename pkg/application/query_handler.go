package application

import (
	"context"

	"github.com/buslinehq/busline/pkg/domain"
)

// QueryHandler answers queries of one or more named kinds. The result is
// asserted back to its concrete type at the dispatch site.
type QueryHandler interface {
	Handle(ctx context.Context, query domain.Query) (any, error)
}

// QueryBus routes queries to their registered handler.
type QueryBus interface {
	RegisterHandler(queryName string, handler QueryHandler)
	Dispatch(ctx context.Context, query domain.Query) (any, error)
}
