package driven

import "context"

// Transactor runs a function inside a storage transaction.
// Stores called with the context passed to fn take part in the transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
