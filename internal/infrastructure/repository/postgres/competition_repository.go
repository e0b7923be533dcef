package postgres

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	qb "github.com/riskibarqy/tournament-engine/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db dbtx
}

func NewCompetitionRepository(db dbtx) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID int64) (competition.Competition, bool, error) {
	return r.get(ctx, competitionID, false)
}

func (r *CompetitionRepository) GetForUpdate(ctx context.Context, competitionID int64) (competition.Competition, bool, error) {
	return r.get(ctx, competitionID, true)
}

func (r *CompetitionRepository) get(ctx context.Context, competitionID int64, forUpdate bool) (competition.Competition, bool, error) {
	builder := qb.Select("*").From("competitions").Where(qb.Eq("id", competitionID))
	if forUpdate {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build get competition query: %w", err)
	}

	var row competitionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("get competition: %w", err)
	}

	out := competitionFromRow(row)
	ruleset, exists, err := r.getRuleset(ctx, competitionID)
	if err != nil {
		return competition.Competition{}, false, err
	}
	if exists {
		out.Ruleset = &ruleset
	}
	return out, true, nil
}

func (r *CompetitionRepository) getRuleset(ctx context.Context, competitionID int64) (competition.SportRuleset, bool, error) {
	query, args, err := qb.Select("*").From("sport_rulesets").
		Where(qb.Eq("competition_id", competitionID)).
		ToSQL()
	if err != nil {
		return competition.SportRuleset{}, false, fmt.Errorf("build get sport ruleset query: %w", err)
	}

	var row sportRulesetTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.SportRuleset{}, false, nil
		}
		return competition.SportRuleset{}, false, fmt.Errorf("get sport ruleset: %w", err)
	}

	return competition.SportRuleset{
		ID:               row.ID,
		CompetitionID:    row.CompetitionID,
		SegmentType:      row.SegmentType,
		RegularSegments:  row.RegularSegments,
		OvertimeSegments: row.OvertimeSegments,
		PenaltySegments:  row.PenaltySegments,
		HasBreaks:        row.HasBreaks,
	}, true, nil
}

func (r *CompetitionRepository) TransitionStatus(ctx context.Context, competitionID int64, expectedStatus, nextStatus, phase string) (bool, error) {
	query, args, err := qb.Update("competitions").
		Set("status", nextStatus).
		Set("current_phase", phase).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", competitionID), qb.Eq("status", expectedStatus)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build transition competition status query: %w", err)
	}
	return r.execAffected(ctx, query, args, "transition competition status")
}

func (r *CompetitionRepository) TransitionPhase(ctx context.Context, competitionID int64, expectedPhase, nextPhase string) (bool, error) {
	query, args, err := qb.Update("competitions").
		Set("current_phase", nextPhase).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", competitionID), qb.Eq("current_phase", expectedPhase)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build transition competition phase query: %w", err)
	}
	return r.execAffected(ctx, query, args, "transition competition phase")
}

func (r *CompetitionRepository) execAffected(ctx context.Context, query string, args []any, op string) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s rows affected: %w", op, err)
	}
	return affected == 1, nil
}

func competitionFromRow(row competitionTableModel) competition.Competition {
	out := competition.Competition{
		ID:                     row.ID,
		ModalityID:             int64Value(row.ModalityID),
		Name:                   row.Name,
		StartDate:              row.StartDate,
		System:                 row.System,
		Status:                 row.Status,
		CurrentPhase:           row.CurrentPhase,
		MinMembersPerTeam:      row.MinMembersPerTeam,
		MaxMembersPerTeam:      row.MaxMembersPerTeam,
		TeamsPerGroup:          row.TeamsPerGroup,
		TeamsQualifiedPerGroup: row.TeamsQualifiedPerGroup,
	}
	if row.EndDate != nil {
		out.EndDate = *row.EndDate
	}
	return out
}
