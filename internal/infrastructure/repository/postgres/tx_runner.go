package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/tournament-engine/internal/domain/uow"
	"github.com/riskibarqy/tournament-engine/internal/platform/resilience"
)

// TxRunner runs units of work in a Postgres transaction. The breaker only
// sees connection-level failures from begin and commit; errors returned by the
// unit of work itself never trip it.
type TxRunner struct {
	db      *sqlx.DB
	breaker *resilience.CircuitBreaker
}

func NewTxRunner(db *sqlx.DB, breaker *resilience.CircuitBreaker) *TxRunner {
	return &TxRunner{db: db, breaker: breaker}
}

// NewRepositories binds every repository to db, which may be the pool or an
// open transaction.
func NewRepositories(db dbtx) uow.Repositories {
	return uow.Repositories{
		Competitions:    NewCompetitionRepository(db),
		Teams:           NewTeamRepository(db),
		Matches:         NewMatchRepository(db),
		Classifications: NewClassificationRepository(db),
		Stats:           NewStatsRepository(db),
	}
}

func (r *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, repos uow.Repositories) error) error {
	var tx *sqlx.Tx
	err := r.breaker.Execute(func() error {
		var beginErr error
		tx, beginErr = r.db.BeginTxx(ctx, nil)
		return beginErr
	}, isConnectionError)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}

	err = r.breaker.Execute(tx.Commit, isConnectionError)
	if err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// isConnectionError reports failures that say the database is unreachable
// rather than that a statement was rejected.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		class := pqErr.Code.Class()
		return class == "08" || class == "57"
	}
	return false
}
