package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle passed through repository calls. The
// concrete type is infra-defined (pgx.Tx for Postgres). Repositories MUST
// accept NoTX and fall back to their non-transactional path.
type Tx interface{}

// NoTX is passed where no enclosing transaction exists. The backing store is
// a remote Postgres with no cross-call lock exposed to handlers, so the
// verification flow does not rely on transactions for its guarantees: every
// mutation is an individually conditional update.
var NoTX Tx

// TransactionManager executes a function within a database transaction,
// passing the underlying handle via tx. Use cases that genuinely need
// multi-statement atomicity (none of the confirmation path does) go through
// this; everything else calls repositories with NoTX.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
