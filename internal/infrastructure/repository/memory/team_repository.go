package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/tournament-engine/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func (r *TeamRepository) ListByCompetition(_ context.Context, competitionID int64) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, item := range r.store.data.teams {
		if item.CompetitionID == competitionID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) GetPlayer(_ context.Context, playerID int64) (team.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.data.players[playerID]
	return item, ok, nil
}
