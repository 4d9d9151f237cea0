package products

import "context"

// Store owns the product collection. Implementations return copies, so
// callers never alias stored records.
type Store interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, in CreateInput) (Product, error)
	Update(ctx context.Context, id int64, in UpdateInput) (Product, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
