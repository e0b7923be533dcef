package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/riskibarqy/tournament-engine/internal/domain/team"
	qb "github.com/riskibarqy/tournament-engine/internal/platform/querybuilder"
)

type TeamRepository struct {
	db dbtx
}

func NewTeamRepository(db dbtx) *TeamRepository {
	return &TeamRepository{db: db}
}

// ListByCompetition returns the teams in registration order with their rosters.
func (r *TeamRepository) ListByCompetition(ctx context.Context, competitionID int64) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("competition_id", competitionID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by competition query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by competition: %w", err)
	}
	if len(rows) == 0 {
		return []team.Team{}, nil
	}

	teamIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		teamIDs = append(teamIDs, row.ID)
	}
	query, args, err = qb.Select("*").From("players").
		Where(qb.Any("team_id", pq.Array(teamIDs))).
		OrderBy("team_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by team query: %w", err)
	}
	var players []playerTableModel
	if err := r.db.SelectContext(ctx, &players, query, args...); err != nil {
		return nil, fmt.Errorf("select players by team: %w", err)
	}
	byTeam := make(map[int64][]team.Player, len(rows))
	for _, p := range players {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], team.Player{ID: p.ID, TeamID: p.TeamID, Name: p.Name})
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:            row.ID,
			CompetitionID: row.CompetitionID,
			Name:          row.Name,
			CaptainID:     int64Value(row.CaptainID),
			Players:       byTeam[row.ID],
		})
	}
	return out, nil
}

func (r *TeamRepository) GetPlayer(ctx context.Context, playerID int64) (team.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return team.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Player{}, false, nil
		}
		return team.Player{}, false, fmt.Errorf("get player: %w", err)
	}
	return team.Player{ID: row.ID, TeamID: row.TeamID, Name: row.Name}, true, nil
}
