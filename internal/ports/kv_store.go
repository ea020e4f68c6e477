package ports

import "context"

// Batch is applied as one write: either every Set and Delete lands or none.
type Batch struct {
	Set    map[string]string
	Delete []string
}

func (b Batch) Empty() bool {
	return len(b.Set) == 0 && len(b.Delete) == 0
}

type KeyValueStore interface {
	// Get returns domain.ErrKeyNotFound when key is absent.
	Get(ctx context.Context, key string) (string, error)
	Apply(ctx context.Context, batch Batch) error
}
