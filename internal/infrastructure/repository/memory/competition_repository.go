package memory

import (
	"context"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
)

type CompetitionRepository struct {
	store *Store
}

func (r *CompetitionRepository) GetByID(_ context.Context, competitionID int64) (competition.Competition, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.data.competitions[competitionID]
	return item, ok, nil
}

// GetForUpdate relies on WithinTx serializing transactions.
func (r *CompetitionRepository) GetForUpdate(ctx context.Context, competitionID int64) (competition.Competition, bool, error) {
	return r.GetByID(ctx, competitionID)
}

func (r *CompetitionRepository) TransitionStatus(_ context.Context, competitionID int64, expectedStatus, nextStatus, phase string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.data.competitions[competitionID]
	if !ok || item.Status != expectedStatus {
		return false, nil
	}
	item.Status = nextStatus
	item.CurrentPhase = phase
	r.store.data.competitions[competitionID] = item
	return true, nil
}

func (r *CompetitionRepository) TransitionPhase(_ context.Context, competitionID int64, expectedPhase, nextPhase string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.data.competitions[competitionID]
	if !ok || item.CurrentPhase != expectedPhase {
		return false, nil
	}
	item.CurrentPhase = nextPhase
	r.store.data.competitions[competitionID] = item
	return true, nil
}
