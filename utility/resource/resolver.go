package resource

import (
	"context"
)

// Resolver reads resources by slash separated path. A path that does not
// exist yields an error matching fs.ErrNotExist.
type Resolver interface {
	Read(ctx context.Context, name string) ([]byte, error)
}
