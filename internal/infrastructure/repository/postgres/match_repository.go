package postgres

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tournament-engine/internal/domain/match"
	qb "github.com/riskibarqy/tournament-engine/internal/platform/querybuilder"
)

var matchColumns = []string{
	"competition_id",
	"group_id",
	"round_id",
	"sequence",
	"home_team_id",
	"away_team_id",
	"home_feeder_match_id",
	"away_feeder_match_id",
	"local",
	"scheduled_at",
	"status",
	"home_score",
	"away_score",
	"has_overtime",
	"has_penalties",
	"winner_team_id",
}

type MatchRepository struct {
	db dbtx
}

func NewMatchRepository(db dbtx) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) CreateGroup(ctx context.Context, group match.Group) (match.Group, error) {
	query, args, err := qb.InsertInto("competition_groups").Model(groupInsertModel{
		CompetitionID: group.CompetitionID,
		Name:          group.Name,
	}).Suffix("RETURNING id").ToSQL()
	if err != nil {
		return match.Group{}, fmt.Errorf("build insert group query: %w", err)
	}
	if err := r.db.GetContext(ctx, &group.ID, query, args...); err != nil {
		return match.Group{}, fmt.Errorf("insert group: %w", err)
	}
	return group, nil
}

func (r *MatchRepository) CreateRound(ctx context.Context, round match.Round) (match.Round, error) {
	query, args, err := qb.InsertInto("rounds").Model(roundInsertModel{
		CompetitionID: round.CompetitionID,
		GroupID:       copyInt64Ptr(round.GroupID),
		Name:          round.Name,
		Sequence:      round.Sequence,
	}).Suffix("RETURNING id").ToSQL()
	if err != nil {
		return match.Round{}, fmt.Errorf("build insert round query: %w", err)
	}
	if err := r.db.GetContext(ctx, &round.ID, query, args...); err != nil {
		return match.Round{}, fmt.Errorf("insert round: %w", err)
	}
	return round, nil
}

// CreateMatches inserts the batch in one statement. Returned rows are matched
// back to the input by (round, sequence), which is unique per round.
func (r *MatchRepository) CreateMatches(ctx context.Context, matches []match.Match) ([]match.Match, error) {
	if len(matches) == 0 {
		return []match.Match{}, nil
	}

	builder := qb.InsertInto("matches").Columns(matchColumns...)
	for _, m := range matches {
		builder = builder.Values(matchValues(m)...)
	}
	query, args, err := builder.Suffix("RETURNING id, round_id, sequence").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build insert matches query: %w", err)
	}

	var inserted []insertedMatchRow
	if err := r.db.SelectContext(ctx, &inserted, query, args...); err != nil {
		return nil, fmt.Errorf("insert matches: %w", err)
	}
	ids := make(map[[2]int64]int64, len(inserted))
	for _, row := range inserted {
		ids[[2]int64{row.RoundID, int64(row.Sequence)}] = row.ID
	}

	out := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		id, ok := ids[[2]int64{m.RoundID, int64(m.Sequence)}]
		if !ok {
			return nil, fmt.Errorf("insert matches: no id returned for round %d sequence %d", m.RoundID, m.Sequence)
		}
		m.ID = id
		out = append(out, m)
	}
	return out, nil
}

func (r *MatchRepository) CreateSegments(ctx context.Context, segments []match.Segment) error {
	if len(segments) == 0 {
		return nil
	}

	builder := qb.InsertInto("match_segments").
		Columns("match_id", "sequence", "segment_type", "home_score", "away_score", "finished")
	for _, s := range segments {
		builder = builder.Values(s.MatchID, s.Sequence, s.Type, s.HomeScore, s.AwayScore, s.Finished)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert segments query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert segments: %w", err)
	}
	return nil
}

func (r *MatchRepository) ListGroups(ctx context.Context, competitionID int64) ([]match.Group, error) {
	query, args, err := qb.Select("*").From("competition_groups").
		Where(qb.Eq("competition_id", competitionID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select groups query: %w", err)
	}

	var rows []groupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select groups: %w", err)
	}
	out := make([]match.Group, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Group{ID: row.ID, CompetitionID: row.CompetitionID, Name: row.Name})
	}
	return out, nil
}

func (r *MatchRepository) ListRounds(ctx context.Context, competitionID int64) ([]match.Round, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(qb.Eq("competition_id", competitionID)).
		OrderBy("sequence", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rounds: %w", err)
	}
	out := make([]match.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, roundFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) GetRoundByName(ctx context.Context, competitionID int64, name string) (match.Round, bool, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(qb.Eq("competition_id", competitionID), qb.Eq("name", name)).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Round{}, false, fmt.Errorf("build get round by name query: %w", err)
	}

	var row roundTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Round{}, false, nil
		}
		return match.Round{}, false, fmt.Errorf("get round by name: %w", err)
	}
	return roundFromRow(row), true, nil
}

func (r *MatchRepository) ListMatchesByRound(ctx context.Context, roundID int64) ([]match.Match, error) {
	return r.selectMatches(ctx, "list matches by round", qb.Eq("round_id", roundID))
}

func (r *MatchRepository) ListMatchesByCompetition(ctx context.Context, competitionID int64) ([]match.Match, error) {
	return r.selectMatches(ctx, "list matches by competition", qb.Eq("competition_id", competitionID))
}

func (r *MatchRepository) ListMatchesByFeeder(ctx context.Context, feederMatchID int64) ([]match.Match, error) {
	return r.selectMatches(ctx, "list matches by feeder",
		qb.AnyOf(qb.Eq("home_feeder_match_id", feederMatchID), qb.Eq("away_feeder_match_id", feederMatchID)))
}

func (r *MatchRepository) selectMatches(ctx context.Context, op string, conditions ...qb.Condition) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(conditions...).
		OrderBy("round_id", "sequence").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) GetMatch(ctx context.Context, matchID int64) (match.Match, bool, error) {
	return r.getMatch(ctx, matchID, false)
}

func (r *MatchRepository) GetMatchForUpdate(ctx context.Context, matchID int64) (match.Match, bool, error) {
	return r.getMatch(ctx, matchID, true)
}

func (r *MatchRepository) getMatch(ctx context.Context, matchID int64, forUpdate bool) (match.Match, bool, error) {
	builder := qb.Select("*").From("matches").Where(qb.Eq("id", matchID))
	if forUpdate {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) UpdateMatch(ctx context.Context, m match.Match) error {
	homeTeam, homeFeeder := m.Home.Columns()
	awayTeam, awayFeeder := m.Away.Columns()
	query, args, err := qb.Update("matches").
		Set("home_team_id", homeTeam).
		Set("away_team_id", awayTeam).
		Set("home_feeder_match_id", homeFeeder).
		Set("away_feeder_match_id", awayFeeder).
		Set("local", m.Local).
		Set("scheduled_at", m.ScheduledAt).
		Set("status", m.Status).
		Set("home_score", m.HomeScore).
		Set("away_score", m.AwayScore).
		Set("winner_team_id", copyInt64Ptr(m.WinnerTeamID)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", m.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update match: match %d does not exist", m.ID)
	}
	return nil
}

func (r *MatchRepository) ListSegments(ctx context.Context, matchID int64) ([]match.Segment, error) {
	query, args, err := qb.Select("*").From("match_segments").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("sequence").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select segments query: %w", err)
	}

	var rows []segmentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select segments: %w", err)
	}
	out := make([]match.Segment, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Segment{
			ID:        row.ID,
			MatchID:   row.MatchID,
			Sequence:  row.Sequence,
			Type:      row.Type,
			HomeScore: row.HomeScore,
			AwayScore: row.AwayScore,
			Finished:  row.Finished,
		})
	}
	return out, nil
}

func (r *MatchRepository) UpdateSegment(ctx context.Context, segment match.Segment) error {
	query, args, err := qb.Update("match_segments").
		Set("home_score", segment.HomeScore).
		Set("away_score", segment.AwayScore).
		Set("finished", segment.Finished).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", segment.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update segment query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update segment: %w", err)
	}
	return nil
}

func matchValues(m match.Match) []any {
	homeTeam, homeFeeder := m.Home.Columns()
	awayTeam, awayFeeder := m.Away.Columns()
	return []any{
		m.CompetitionID,
		copyInt64Ptr(m.GroupID),
		m.RoundID,
		m.Sequence,
		homeTeam,
		awayTeam,
		homeFeeder,
		awayFeeder,
		m.Local,
		m.ScheduledAt,
		m.Status,
		m.HomeScore,
		m.AwayScore,
		m.HasOvertime,
		m.HasPenalties,
		copyInt64Ptr(m.WinnerTeamID),
	}
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:            row.ID,
		CompetitionID: row.CompetitionID,
		GroupID:       row.GroupID,
		RoundID:       row.RoundID,
		Sequence:      row.Sequence,
		Home:          match.RefFromColumns(row.HomeTeamID, row.HomeFeederMatchID),
		Away:          match.RefFromColumns(row.AwayTeamID, row.AwayFeederMatchID),
		Local:         row.Local,
		ScheduledAt:   row.ScheduledAt,
		Status:        row.Status,
		HomeScore:     row.HomeScore,
		AwayScore:     row.AwayScore,
		HasOvertime:   row.HasOvertime,
		HasPenalties:  row.HasPenalties,
		WinnerTeamID:  row.WinnerTeamID,
	}
}

func roundFromRow(row roundTableModel) match.Round {
	return match.Round{
		ID:            row.ID,
		CompetitionID: row.CompetitionID,
		GroupID:       row.GroupID,
		Name:          row.Name,
		Sequence:      row.Sequence,
	}
}
