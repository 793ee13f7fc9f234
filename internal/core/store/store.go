// Package store is the storage capability handed to repositories. It wraps an injected *sqlx.DB and
// provides the transactional scope used by every multi-statement operation.
package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

var txTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "org_admin_tx_total",
	Help: "Transactions run through store.DB.InTx by outcome",
}, []string{"result"})

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
}

type DB struct {
	*sqlx.DB
	logger *slog.Logger
}

func New(db *sqlx.DB, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{DB: db, logger: logger}
}

// InTx runs fn inside a transaction on a dedicated connection. The transaction commits when fn
// returns nil and rolls back on error or panic; the connection is returned to the pool on every path.
// AppErrors from fn propagate unchanged, anything else goes through TranslateError.
func (d *DB) InTx(ctx context.Context, fn func(q Querier) error) (err error) {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		txTotal.WithLabelValues("begin_failed").Inc()
		return internal.NewInternalError("failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			d.rollback(tx)
			txTotal.WithLabelValues("panic").Inc()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		d.rollback(tx)
		txTotal.WithLabelValues("rollback").Inc()
		return TranslateError(err)
	}

	if err := tx.Commit(); err != nil {
		txTotal.WithLabelValues("commit_failed").Inc()
		return internal.NewInternalError("failed to commit transaction", err)
	}
	txTotal.WithLabelValues("commit").Inc()
	return nil
}

func (d *DB) rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		d.logger.Error("transaction rollback failed", "error", err)
	}
}

// TranslateError maps storage errors onto the AppError taxonomy.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := internal.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return internal.NewNotFoundError("record not found", internal.ErrCodeRecordNotFound).WithCause(err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return internal.NewConflictError("record already exists", internal.ErrCodeDuplicate).WithCause(err)
		case pgErrForeignKeyViolation:
			return internal.NewValidationError("referenced record does not exist", internal.ErrCodeInvalidReference).WithCause(err)
		}
	}
	return internal.NewInternalError("storage failure", err)
}

// ExpectAffected turns a zero-row result into notFound.
func ExpectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
