package postgres

import (
	"time"
)

type competitionTableModel struct {
	ID                     int64      `db:"id"`
	ModalityID             *int64     `db:"modality_id"`
	Name                   string     `db:"name"`
	StartDate              time.Time  `db:"start_date"`
	EndDate                *time.Time `db:"end_date"`
	System                 string     `db:"system"`
	Status                 string     `db:"status"`
	CurrentPhase           string     `db:"current_phase"`
	MinMembersPerTeam      int        `db:"min_members_per_team"`
	MaxMembersPerTeam      int        `db:"max_members_per_team"`
	TeamsPerGroup          int        `db:"teams_per_group"`
	TeamsQualifiedPerGroup int        `db:"teams_qualified_per_group"`
	CreatedAt              time.Time  `db:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at"`
}

type sportRulesetTableModel struct {
	ID               int64     `db:"id"`
	CompetitionID    int64     `db:"competition_id"`
	SegmentType      string    `db:"segment_type"`
	RegularSegments  int       `db:"regular_segments"`
	OvertimeSegments int       `db:"overtime_segments"`
	PenaltySegments  int       `db:"penalty_segments"`
	HasBreaks        bool      `db:"has_breaks"`
	CreatedAt        time.Time `db:"created_at"`
}

type teamTableModel struct {
	ID            int64     `db:"id"`
	CompetitionID int64     `db:"competition_id"`
	Name          string    `db:"name"`
	CaptainID     *int64    `db:"captain_id"`
	CreatedAt     time.Time `db:"created_at"`
}

type playerTableModel struct {
	ID        int64     `db:"id"`
	TeamID    int64     `db:"team_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type groupTableModel struct {
	ID            int64     `db:"id"`
	CompetitionID int64     `db:"competition_id"`
	Name          string    `db:"name"`
	CreatedAt     time.Time `db:"created_at"`
}

type groupInsertModel struct {
	CompetitionID int64  `db:"competition_id"`
	Name          string `db:"name"`
}

type roundTableModel struct {
	ID            int64     `db:"id"`
	CompetitionID int64     `db:"competition_id"`
	GroupID       *int64    `db:"group_id"`
	Name          string    `db:"name"`
	Sequence      int       `db:"sequence"`
	CreatedAt     time.Time `db:"created_at"`
}

type roundInsertModel struct {
	CompetitionID int64  `db:"competition_id"`
	GroupID       *int64 `db:"group_id"`
	Name          string `db:"name"`
	Sequence      int    `db:"sequence"`
}

type matchTableModel struct {
	ID                int64      `db:"id"`
	CompetitionID     int64      `db:"competition_id"`
	GroupID           *int64     `db:"group_id"`
	RoundID           int64      `db:"round_id"`
	Sequence          int        `db:"sequence"`
	HomeTeamID        *int64     `db:"home_team_id"`
	AwayTeamID        *int64     `db:"away_team_id"`
	HomeFeederMatchID *int64     `db:"home_feeder_match_id"`
	AwayFeederMatchID *int64     `db:"away_feeder_match_id"`
	Local             string     `db:"local"`
	ScheduledAt       *time.Time `db:"scheduled_at"`
	Status            string     `db:"status"`
	HomeScore         int        `db:"home_score"`
	AwayScore         int        `db:"away_score"`
	HasOvertime       bool       `db:"has_overtime"`
	HasPenalties      bool       `db:"has_penalties"`
	WinnerTeamID      *int64     `db:"winner_team_id"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

type insertedMatchRow struct {
	ID       int64 `db:"id"`
	RoundID  int64 `db:"round_id"`
	Sequence int   `db:"sequence"`
}

type segmentTableModel struct {
	ID        int64     `db:"id"`
	MatchID   int64     `db:"match_id"`
	Sequence  int       `db:"sequence"`
	Type      string    `db:"segment_type"`
	HomeScore int       `db:"home_score"`
	AwayScore int       `db:"away_score"`
	Finished  bool      `db:"finished"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type classificationTableModel struct {
	ID            int64     `db:"id"`
	CompetitionID int64     `db:"competition_id"`
	GroupID       *int64    `db:"group_id"`
	TeamID        int64     `db:"team_id"`
	Points        int       `db:"points"`
	GamesPlayed   int       `db:"games_played"`
	Wins          int       `db:"wins"`
	Draws         int       `db:"draws"`
	Losses        int       `db:"losses"`
	GoalsFor      int       `db:"goals_for"`
	GoalsAgainst  int       `db:"goals_against"`
	GoalBalance   int       `db:"goal_balance"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type statsRulesetTableModel struct {
	ID            int64     `db:"id"`
	CompetitionID int64     `db:"competition_id"`
	CreatedAt     time.Time `db:"created_at"`
}

type statsTypeTableModel struct {
	ID             int64     `db:"id"`
	StatsRulesetID int64     `db:"stats_ruleset_id"`
	Name           string    `db:"name"`
	Abbreviation   string    `db:"abbreviation"`
	CreatedAt      time.Time `db:"created_at"`
}

type playerStatTableModel struct {
	MatchID     int64     `db:"match_id"`
	PlayerID    int64     `db:"player_id"`
	StatsTypeID int64     `db:"stats_type_id"`
	Value       int       `db:"value"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type playerRankingRow struct {
	PlayerID   int64  `db:"player_id"`
	PlayerName string `db:"player_name"`
	TeamID     int64  `db:"team_id"`
	TeamName   string `db:"team_name"`
	Total      int    `db:"total"`
}
