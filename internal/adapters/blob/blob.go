// Package blob provides object storage seams for pipeline containers
package blob

import (
	"context"

	perr "reviewflow/internal/platform/errors"
)

// ErrNotFound is returned when a container has no object under the key
var ErrNotFound = perr.New(perr.ErrorCodeNotFound, "object not found")

// Store is the minimal object storage surface the pipeline uses
// containers are flat namespaces, keys are object names within them
type Store interface {
	// Put writes data under (container, key), overwriting any previous object
	Put(ctx context.Context, container, key string, data []byte) error

	// Get returns the object bytes or ErrNotFound
	Get(ctx context.Context, container, key string) ([]byte, error)

	// List returns keys in container with the given prefix, sorted ascending
	// empty prefix lists the whole container
	List(ctx context.Context, container, prefix string) ([]string, error)
}
