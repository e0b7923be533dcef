package postgres

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tournament-engine/internal/domain/stats"
	qb "github.com/riskibarqy/tournament-engine/internal/platform/querybuilder"
)

type StatsRepository struct {
	db dbtx
}

func NewStatsRepository(db dbtx) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) GetRulesetByCompetition(ctx context.Context, competitionID int64) (stats.Ruleset, bool, error) {
	query, args, err := qb.Select("*").From("stats_rulesets").
		Where(qb.Eq("competition_id", competitionID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return stats.Ruleset{}, false, fmt.Errorf("build get stats ruleset query: %w", err)
	}

	var row statsRulesetTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return stats.Ruleset{}, false, nil
		}
		return stats.Ruleset{}, false, fmt.Errorf("get stats ruleset: %w", err)
	}

	query, args, err = qb.Select("*").From("stats_types").
		Where(qb.Eq("stats_ruleset_id", row.ID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return stats.Ruleset{}, false, fmt.Errorf("build select stats types query: %w", err)
	}

	var typeRows []statsTypeTableModel
	if err := r.db.SelectContext(ctx, &typeRows, query, args...); err != nil {
		return stats.Ruleset{}, false, fmt.Errorf("select stats types: %w", err)
	}

	ruleset := stats.Ruleset{
		ID:            row.ID,
		CompetitionID: row.CompetitionID,
		Types:         make([]stats.Type, 0, len(typeRows)),
	}
	for _, t := range typeRows {
		ruleset.Types = append(ruleset.Types, stats.Type{
			ID:           t.ID,
			RulesetID:    t.StatsRulesetID,
			Name:         t.Name,
			Abbreviation: t.Abbreviation,
		})
	}
	return ruleset, true, nil
}

const incrementPlayerStatQuery = `INSERT INTO player_stats (match_id, player_id, stats_type_id, value)
VALUES ($1, $2, $3, GREATEST($4::integer, 0))
ON CONFLICT (match_id, player_id, stats_type_id) DO UPDATE
SET value = GREATEST(player_stats.value + $4::integer, 0), updated_at = NOW()`

// Increment upserts the per-match value and clamps the result at zero.
func (r *StatsRepository) Increment(ctx context.Context, stat stats.PlayerStat) error {
	if _, err := r.db.ExecContext(ctx, incrementPlayerStatQuery, stat.MatchID, stat.PlayerID, stat.TypeID, stat.Value); err != nil {
		return fmt.Errorf("increment player stat: %w", err)
	}
	return nil
}

func (r *StatsRepository) ListByMatch(ctx context.Context, matchID int64) ([]stats.PlayerStat, error) {
	query, args, err := qb.Select("*").From("player_stats").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("player_id", "stats_type_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player stats query: %w", err)
	}

	var rows []playerStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}
	out := make([]stats.PlayerStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, stats.PlayerStat{
			MatchID:  row.MatchID,
			PlayerID: row.PlayerID,
			TypeID:   row.StatsTypeID,
			Value:    row.Value,
		})
	}
	return out, nil
}

func (r *StatsRepository) RankPlayers(ctx context.Context, competitionID, typeID int64, limit int) ([]stats.PlayerRanking, error) {
	query, args, err := qb.Select(
		"ps.player_id",
		"p.name AS player_name",
		"t.id AS team_id",
		"t.name AS team_name",
		"SUM(ps.value) AS total",
	).
		From("player_stats ps").
		Join("matches m", "m.id = ps.match_id").
		Join("players p", "p.id = ps.player_id").
		Join("teams t", "t.id = p.team_id").
		Where(qb.Eq("m.competition_id", competitionID), qb.Eq("ps.stats_type_id", typeID)).
		GroupBy("ps.player_id", "p.name", "t.id", "t.name").
		OrderBy("total DESC", "ps.player_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build rank players query: %w", err)
	}

	var rows []playerRankingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("rank players: %w", err)
	}
	out := make([]stats.PlayerRanking, 0, len(rows))
	for i, row := range rows {
		out = append(out, stats.PlayerRanking{
			Position:   i + 1,
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			TeamID:     row.TeamID,
			TeamName:   row.TeamName,
			Total:      row.Total,
		})
	}
	return out, nil
}
