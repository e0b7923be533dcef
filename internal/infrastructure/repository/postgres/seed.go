package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-engine/internal/infrastructure/repository/memory"
)

// seededTables get their id sequences moved past the explicit seed ids.
var seededTables = []string{"competitions", "sport_rulesets", "teams", "players", "stats_rulesets", "stats_types"}

// BootstrapSeed loads the demo competitions into an empty database. It is a
// no-op once any competition exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM competitions`); err != nil {
		return fmt.Errorf("count competitions for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exec := func(label, query string, arg map[string]any) error {
		sqlQuery, args, err := sqlx.Named(query, arg)
		if err != nil {
			return fmt.Errorf("bind seed %s query: %w", label, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed %s: %w", label, err)
		}
		return nil
	}

	for _, c := range memory.SeedCompetitions() {
		label := fmt.Sprintf("competition %d", c.ID)
		if err := exec(label, `
INSERT INTO competitions (id, name, start_date, system, status, current_phase,
	min_members_per_team, max_members_per_team, teams_per_group, teams_qualified_per_group)
VALUES (:id, :name, :start_date, :system, :status, :current_phase,
	:min_members, :max_members, :teams_per_group, :teams_qualified_per_group)`, map[string]any{
			"id":                        c.ID,
			"name":                      c.Name,
			"start_date":                c.StartDate.UTC(),
			"system":                    c.System,
			"status":                    c.Status,
			"current_phase":             c.CurrentPhase,
			"min_members":               c.MinMembersPerTeam,
			"max_members":               c.MaxMembersPerTeam,
			"teams_per_group":           c.TeamsPerGroup,
			"teams_qualified_per_group": c.TeamsQualifiedPerGroup,
		}); err != nil {
			return err
		}

		if c.Ruleset == nil {
			continue
		}
		if err := exec(label+" ruleset", `
INSERT INTO sport_rulesets (id, competition_id, segment_type, regular_segments, overtime_segments, penalty_segments, has_breaks)
VALUES (:id, :competition_id, :segment_type, :regular, :overtime, :penalty, :has_breaks)`, map[string]any{
			"id":             c.Ruleset.ID,
			"competition_id": c.ID,
			"segment_type":   c.Ruleset.SegmentType,
			"regular":        c.Ruleset.RegularSegments,
			"overtime":       c.Ruleset.OvertimeSegments,
			"penalty":        c.Ruleset.PenaltySegments,
			"has_breaks":     c.Ruleset.HasBreaks,
		}); err != nil {
			return err
		}
	}

	for _, t := range memory.SeedTeams() {
		if err := exec(fmt.Sprintf("team %d", t.ID), `
INSERT INTO teams (id, competition_id, name) VALUES (:id, :competition_id, :name)`, map[string]any{
			"id":             t.ID,
			"competition_id": t.CompetitionID,
			"name":           t.Name,
		}); err != nil {
			return err
		}
		for _, p := range t.Players {
			if err := exec(fmt.Sprintf("player %d", p.ID), `
INSERT INTO players (id, team_id, name) VALUES (:id, :team_id, :name)`, map[string]any{
				"id":      p.ID,
				"team_id": t.ID,
				"name":    p.Name,
			}); err != nil {
				return err
			}
		}
		if t.CaptainID > 0 {
			if err := exec(fmt.Sprintf("team %d captain", t.ID), `
UPDATE teams SET captain_id = :captain_id WHERE id = :id`, map[string]any{
				"id":         t.ID,
				"captain_id": t.CaptainID,
			}); err != nil {
				return err
			}
		}
	}

	for _, r := range memory.SeedStatsRulesets() {
		if err := exec(fmt.Sprintf("stats ruleset %d", r.ID), `
INSERT INTO stats_rulesets (id, competition_id) VALUES (:id, :competition_id)`, map[string]any{
			"id":             r.ID,
			"competition_id": r.CompetitionID,
		}); err != nil {
			return err
		}
		for _, st := range r.Types {
			if err := exec(fmt.Sprintf("stats type %d", st.ID), `
INSERT INTO stats_types (id, stats_ruleset_id, name, abbreviation)
VALUES (:id, :stats_ruleset_id, :name, :abbreviation)`, map[string]any{
				"id":               st.ID,
				"stats_ruleset_id": r.ID,
				"name":             st.Name,
				"abbreviation":     st.Abbreviation,
			}); err != nil {
				return err
			}
		}
	}

	for _, table := range seededTables {
		query := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)`, table, table)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("advance %s id sequence: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
