package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/tournament-engine/internal/domain/classification"
)

type ClassificationRepository struct {
	store *Store
}

func (r *ClassificationRepository) CreateBatch(_ context.Context, rows []classification.Classification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, row := range rows {
		for _, existing := range r.store.data.classifications {
			if existing.CompetitionID == row.CompetitionID && existing.TeamID == row.TeamID && sameGroup(existing.GroupID, row.GroupID) {
				return fmt.Errorf("classification for team %d already exists", row.TeamID)
			}
		}
		row.ID = r.store.nextID()
		r.store.data.classifications[row.ID] = row
	}
	return nil
}

func (r *ClassificationRepository) ListByCompetition(_ context.Context, competitionID int64) ([]classification.Classification, error) {
	return r.filter(func(row classification.Classification) bool { return row.CompetitionID == competitionID }), nil
}

func (r *ClassificationRepository) ListByGroup(_ context.Context, groupID int64) ([]classification.Classification, error) {
	return r.filter(func(row classification.Classification) bool {
		return row.GroupID != nil && *row.GroupID == groupID
	}), nil
}

func (r *ClassificationRepository) filter(keep func(classification.Classification) bool) []classification.Classification {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]classification.Classification, 0)
	for _, row := range r.store.data.classifications {
		if keep(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sameGroup(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
