package repositories

import (
	"context"
)

// TxFn is a function executed within a transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs functions inside a database transaction. The
// transaction is carried in the context so repositories join it implicitly.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
