package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/tournament-engine/internal/domain/stats"
	"github.com/riskibarqy/tournament-engine/internal/domain/team"
	basecache "github.com/riskibarqy/tournament-engine/internal/platform/cache"
)

// StatsRepository caches stats rulesets, which competition administration
// sets up before a competition starts and the engine never changes. Writes and
// aggregates go straight to next.
type StatsRepository struct {
	next  stats.Repository
	cache *basecache.Store[cachedRuleset]
}

func NewStatsRepository(next stats.Repository, ttl time.Duration, opts ...basecache.Option) *StatsRepository {
	return &StatsRepository{next: next, cache: basecache.NewStore[cachedRuleset](ttl, opts...)}
}

type cachedRuleset struct {
	value  stats.Ruleset
	exists bool
}

func (r *StatsRepository) GetRulesetByCompetition(ctx context.Context, competitionID int64) (stats.Ruleset, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, strconv.FormatInt(competitionID, 10), func(ctx context.Context) (cachedRuleset, error) {
		item, exists, err := r.next.GetRulesetByCompetition(ctx, competitionID)
		if err != nil {
			return cachedRuleset{}, err
		}
		return cachedRuleset{value: cloneRuleset(item), exists: exists}, nil
	})
	if err != nil {
		return stats.Ruleset{}, false, err
	}
	return cloneRuleset(cached.value), cached.exists, nil
}

func (r *StatsRepository) Increment(ctx context.Context, stat stats.PlayerStat) error {
	return r.next.Increment(ctx, stat)
}

func (r *StatsRepository) ListByMatch(ctx context.Context, matchID int64) ([]stats.PlayerStat, error) {
	return r.next.ListByMatch(ctx, matchID)
}

func (r *StatsRepository) RankPlayers(ctx context.Context, competitionID, typeID int64, limit int) ([]stats.PlayerRanking, error) {
	return r.next.RankPlayers(ctx, competitionID, typeID, limit)
}

// TeamRepository caches rosters by competition for name lookups on the read
// side.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store[[]team.Team]
}

func NewTeamRepository(next team.Repository, ttl time.Duration, opts ...basecache.Option) *TeamRepository {
	return &TeamRepository{next: next, cache: basecache.NewStore[[]team.Team](ttl, opts...)}
}

func (r *TeamRepository) ListByCompetition(ctx context.Context, competitionID int64) ([]team.Team, error) {
	items, err := r.cache.GetOrLoad(ctx, strconv.FormatInt(competitionID, 10), func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.ListByCompetition(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return cloneTeams(items), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneTeams(items), nil
}

func (r *TeamRepository) GetPlayer(ctx context.Context, playerID int64) (team.Player, bool, error) {
	return r.next.GetPlayer(ctx, playerID)
}

func cloneRuleset(r stats.Ruleset) stats.Ruleset {
	r.Types = append([]stats.Type(nil), r.Types...)
	return r
}

func cloneTeams(items []team.Team) []team.Team {
	out := make([]team.Team, 0, len(items))
	for _, t := range items {
		t.Players = append([]team.Player(nil), t.Players...)
		out = append(out, t)
	}
	return out
}
