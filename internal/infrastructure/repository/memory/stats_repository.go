package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/tournament-engine/internal/domain/stats"
)

type StatsRepository struct {
	store *Store
}

func (r *StatsRepository) GetRulesetByCompetition(_ context.Context, competitionID int64) (stats.Ruleset, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.data.statsRulesets[competitionID]
	if !ok {
		return stats.Ruleset{}, false, nil
	}
	item.Types = append([]stats.Type(nil), item.Types...)
	return item, true, nil
}

func (r *StatsRepository) Increment(_ context.Context, stat stats.PlayerStat) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := statKey{matchID: stat.MatchID, playerID: stat.PlayerID, typeID: stat.TypeID}
	r.store.data.playerStats[key] = max(0, r.store.data.playerStats[key]+stat.Value)
	return nil
}

func (r *StatsRepository) ListByMatch(_ context.Context, matchID int64) ([]stats.PlayerStat, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]stats.PlayerStat, 0)
	for key, value := range r.store.data.playerStats {
		if key.matchID != matchID {
			continue
		}
		out = append(out, stats.PlayerStat{MatchID: key.matchID, PlayerID: key.playerID, TypeID: key.typeID, Value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].TypeID < out[j].TypeID
	})
	return out, nil
}

func (r *StatsRepository) RankPlayers(_ context.Context, competitionID, typeID int64, limit int) ([]stats.PlayerRanking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	totals := make(map[int64]int)
	for key, value := range r.store.data.playerStats {
		if key.typeID != typeID {
			continue
		}
		m, ok := r.store.data.matches[key.matchID]
		if !ok || m.CompetitionID != competitionID {
			continue
		}
		totals[key.playerID] += value
	}

	out := make([]stats.PlayerRanking, 0, len(totals))
	for playerID, total := range totals {
		row := stats.PlayerRanking{PlayerID: playerID, Total: total}
		if p, ok := r.store.data.players[playerID]; ok {
			row.PlayerName = p.Name
			row.TeamID = p.TeamID
			if t, ok := r.store.data.teams[p.TeamID]; ok {
				row.TeamName = t.Name
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Position = i + 1
	}
	return out, nil
}
