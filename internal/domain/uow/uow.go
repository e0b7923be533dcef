package uow

import (
	"context"

	"github.com/riskibarqy/tournament-engine/internal/domain/classification"
	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
	"github.com/riskibarqy/tournament-engine/internal/domain/stats"
	"github.com/riskibarqy/tournament-engine/internal/domain/team"
)

// Repositories is the set of repositories bound to one unit of work.
type Repositories struct {
	Competitions    competition.Repository
	Teams           team.Repository
	Matches         match.Repository
	Classifications classification.Repository
	Stats           stats.Repository
}

// Runner executes fn inside a transaction. The transaction commits only when
// fn returns nil; any error rolls every write back.
type Runner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
