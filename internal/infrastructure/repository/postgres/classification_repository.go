package postgres

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tournament-engine/internal/domain/classification"
	qb "github.com/riskibarqy/tournament-engine/internal/platform/querybuilder"
)

type ClassificationRepository struct {
	db dbtx
}

func NewClassificationRepository(db dbtx) *ClassificationRepository {
	return &ClassificationRepository{db: db}
}

func (r *ClassificationRepository) CreateBatch(ctx context.Context, rows []classification.Classification) error {
	if len(rows) == 0 {
		return nil
	}

	builder := qb.InsertInto("classifications").Columns(
		"competition_id",
		"group_id",
		"team_id",
		"points",
		"games_played",
		"wins",
		"draws",
		"losses",
		"goals_for",
		"goals_against",
		"goal_balance",
	)
	for _, row := range rows {
		builder = builder.Values(
			row.CompetitionID,
			copyInt64Ptr(row.GroupID),
			row.TeamID,
			row.Points,
			row.GamesPlayed,
			row.Wins,
			row.Draws,
			row.Losses,
			row.GoalsFor,
			row.GoalsAgainst,
			row.GoalBalance,
		)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert classifications query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert classifications: team already classified: %w", err)
		}
		return fmt.Errorf("insert classifications: %w", err)
	}
	return nil
}

func (r *ClassificationRepository) ListByCompetition(ctx context.Context, competitionID int64) ([]classification.Classification, error) {
	return r.list(ctx, "list classifications by competition", qb.Eq("competition_id", competitionID))
}

func (r *ClassificationRepository) ListByGroup(ctx context.Context, groupID int64) ([]classification.Classification, error) {
	return r.list(ctx, "list classifications by group", qb.Eq("group_id", groupID))
}

func (r *ClassificationRepository) list(ctx context.Context, op string, condition qb.Condition) ([]classification.Classification, error) {
	query, args, err := qb.Select("*").From("classifications").
		Where(condition).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []classificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]classification.Classification, 0, len(rows))
	for _, row := range rows {
		out = append(out, classification.Classification{
			ID:            row.ID,
			CompetitionID: row.CompetitionID,
			GroupID:       row.GroupID,
			TeamID:        row.TeamID,
			Points:        row.Points,
			GamesPlayed:   row.GamesPlayed,
			Wins:          row.Wins,
			Draws:         row.Draws,
			Losses:        row.Losses,
			GoalsFor:      row.GoalsFor,
			GoalsAgainst:  row.GoalsAgainst,
			GoalBalance:   row.GoalBalance,
		})
	}
	return out, nil
}
