package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

// Handler mounts its routes on a router owned by pkg/app.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error
