package httpapi

import (
	"time"

	"github.com/riskibarqy/tournament-engine/internal/domain/match"
	"github.com/riskibarqy/tournament-engine/internal/domain/stats"
	"github.com/riskibarqy/tournament-engine/internal/usecase"
)

type registerScoreRequest struct {
	Side      string `json:"side" validate:"required,oneof=HOME AWAY home away"`
	Increment int    `json:"increment" validate:"required"`
	SegmentID *int64 `json:"segment_id,omitempty" validate:"omitempty,gt=0"`
	Metric    string `json:"metric,omitempty" validate:"omitempty,max=16"`
	PlayerID  *int64 `json:"player_id,omitempty" validate:"omitempty,gt=0"`
}

type segmentScoreRequest struct {
	SegmentID int64 `json:"segment_id" validate:"required,gt=0"`
	HomeScore int   `json:"home_score" validate:"gte=0"`
	AwayScore int   `json:"away_score" validate:"gte=0"`
	Finished  *bool `json:"finished,omitempty"`
}

type statsEventRequest struct {
	PlayerID int64  `json:"player_id" validate:"required,gt=0"`
	Metric   string `json:"metric" validate:"required,max=16"`
	Value    int    `json:"value" validate:"required"`
}

type setScoreRequest struct {
	HomeScore   int                   `json:"home_score" validate:"gte=0"`
	AwayScore   int                   `json:"away_score" validate:"gte=0"`
	Segments    []segmentScoreRequest `json:"segments,omitempty" validate:"omitempty,dive"`
	StatsEvents []statsEventRequest   `json:"stats_events,omitempty" validate:"omitempty,dive"`
}

type generateBatchRequest struct {
	CompetitionIDs []int64 `json:"competition_ids" validate:"required,min=1,dive,gt=0"`
	Workers        int     `json:"workers,omitempty" validate:"omitempty,gte=1,lte=32"`
}

type slotDTO struct {
	Kind          string `json:"kind"`
	TeamID        *int64 `json:"team_id,omitempty"`
	FeederMatchID *int64 `json:"feeder_match_id,omitempty"`
}

type matchDTO struct {
	ID            int64      `json:"id"`
	CompetitionID int64      `json:"competition_id"`
	GroupID       *int64     `json:"group_id,omitempty"`
	RoundID       int64      `json:"round_id"`
	Sequence      int        `json:"sequence"`
	Home          slotDTO    `json:"home"`
	Away          slotDTO    `json:"away"`
	Local         string     `json:"local,omitempty"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	Status        string     `json:"status"`
	HomeScore     int        `json:"home_score"`
	AwayScore     int        `json:"away_score"`
	HasOvertime   bool       `json:"has_overtime"`
	HasPenalties  bool       `json:"has_penalties"`
	WinnerTeamID  *int64     `json:"winner_team_id,omitempty"`
}

type segmentDTO struct {
	ID        int64  `json:"id"`
	Sequence  int    `json:"sequence"`
	Type      string `json:"type"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Finished  bool   `json:"finished"`
}

type matchStatDTO struct {
	PlayerID int64  `json:"player_id"`
	Metric   string `json:"metric"`
	Value    int    `json:"value"`
}

type matchSheetDTO struct {
	Match    matchDTO       `json:"match"`
	Segments []segmentDTO   `json:"segments"`
	Stats    []matchStatDTO `json:"stats"`
}

type generateResultDTO struct {
	CompetitionID   int64  `json:"competition_id"`
	System          string `json:"system"`
	Groups          int    `json:"groups"`
	Rounds          int    `json:"rounds"`
	Matches         int    `json:"matches"`
	Classifications int    `json:"classifications"`
}

type batchItemDTO struct {
	CompetitionID int64  `json:"competition_id"`
	Status        string `json:"status"`
	System        string `json:"system,omitempty"`
	Matches       int    `json:"matches"`
	Message       string `json:"message,omitempty"`
	DurationMs    int64  `json:"duration_ms"`
}

type batchResultDTO struct {
	RunID     string         `json:"run_id"`
	Workers   int            `json:"workers"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Items     []batchItemDTO `json:"items"`
}

type pairingDTO struct {
	MatchID    int64  `json:"match_id"`
	HomeLabel  string `json:"home_label"`
	AwayLabel  string `json:"away_label"`
	HomeTeamID int64  `json:"home_team_id"`
	AwayTeamID int64  `json:"away_team_id"`
}

type advanceResultDTO struct {
	CompetitionID  int64        `json:"competition_id"`
	QualifiedCount int          `json:"qualified_count"`
	MatchesUpdated int          `json:"matches_updated"`
	RoundName      string       `json:"round_name"`
	Pairings       []pairingDTO `json:"pairings"`
}

type finishResultDTO struct {
	Match    matchDTO   `json:"match"`
	Advanced []matchDTO `json:"advanced"`
}

type standingRowDTO struct {
	Position     int    `json:"position"`
	TeamID       int64  `json:"team_id"`
	TeamName     string `json:"team_name"`
	Points       int    `json:"points"`
	GamesPlayed  int    `json:"games_played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	GoalBalance  int    `json:"goal_balance"`
}

type standingsTableDTO struct {
	GroupID   *int64           `json:"group_id,omitempty"`
	GroupName string           `json:"group_name,omitempty"`
	Rows      []standingRowDTO `json:"rows"`
}

type bracketRoundDTO struct {
	RoundID  int64      `json:"round_id"`
	Name     string     `json:"name"`
	Sequence int        `json:"sequence"`
	Matches  []matchDTO `json:"matches"`
}

type standingsDTO struct {
	CompetitionID int64               `json:"competition_id"`
	System        string              `json:"system"`
	Phase         string              `json:"phase,omitempty"`
	Tables        []standingsTableDTO `json:"tables,omitempty"`
	Bracket       []bracketRoundDTO   `json:"bracket,omitempty"`
}

type playerRankingDTO struct {
	Position   int    `json:"position"`
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamID     int64  `json:"team_id"`
	TeamName   string `json:"team_name"`
	Total      int    `json:"total"`
}

type playerRankingsDTO struct {
	CompetitionID int64              `json:"competition_id"`
	Metric        string             `json:"metric"`
	MetricName    string             `json:"metric_name"`
	Rows          []playerRankingDTO `json:"rows"`
}

func slotToDTO(ref match.ParticipantRef) slotDTO {
	teamID, feederID := ref.Columns()
	return slotDTO{Kind: ref.Kind().String(), TeamID: teamID, FeederMatchID: feederID}
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:            m.ID,
		CompetitionID: m.CompetitionID,
		GroupID:       m.GroupID,
		RoundID:       m.RoundID,
		Sequence:      m.Sequence,
		Home:          slotToDTO(m.Home),
		Away:          slotToDTO(m.Away),
		Local:         m.Local,
		ScheduledAt:   m.ScheduledAt,
		Status:        m.Status,
		HomeScore:     m.HomeScore,
		AwayScore:     m.AwayScore,
		HasOvertime:   m.HasOvertime,
		HasPenalties:  m.HasPenalties,
		WinnerTeamID:  m.WinnerTeamID,
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchToDTO(m))
	}
	return out
}

func matchSheetToDTO(sheet usecase.MatchSheet) matchSheetDTO {
	segments := make([]segmentDTO, 0, len(sheet.Segments))
	for _, seg := range sheet.Segments {
		segments = append(segments, segmentDTO{
			ID:        seg.ID,
			Sequence:  seg.Sequence,
			Type:      seg.Type,
			HomeScore: seg.HomeScore,
			AwayScore: seg.AwayScore,
			Finished:  seg.Finished,
		})
	}
	rows := make([]matchStatDTO, 0, len(sheet.Stats))
	for _, row := range sheet.Stats {
		rows = append(rows, matchStatDTO{PlayerID: row.PlayerID, Metric: row.Metric, Value: row.Value})
	}
	return matchSheetDTO{Match: matchToDTO(sheet.Match), Segments: segments, Stats: rows}
}

func generateResultToDTO(r usecase.GenerateResult) generateResultDTO {
	return generateResultDTO{
		CompetitionID:   r.CompetitionID,
		System:          r.System,
		Groups:          r.Groups,
		Rounds:          r.Rounds,
		Matches:         r.Matches,
		Classifications: r.Classifications,
	}
}

func batchResultToDTO(r usecase.BatchResult) batchResultDTO {
	items := make([]batchItemDTO, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, batchItemDTO{
			CompetitionID: item.CompetitionID,
			Status:        item.Status,
			System:        item.System,
			Matches:       item.Matches,
			Message:       item.Message,
			DurationMs:    item.DurationMs,
		})
	}
	return batchResultDTO{
		RunID:     r.RunID,
		Workers:   r.Workers,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Items:     items,
	}
}

func advanceResultToDTO(r usecase.AdvanceResult) advanceResultDTO {
	pairings := make([]pairingDTO, 0, len(r.Pairings))
	for _, p := range r.Pairings {
		pairings = append(pairings, pairingDTO{
			MatchID:    p.MatchID,
			HomeLabel:  p.HomeLabel,
			AwayLabel:  p.AwayLabel,
			HomeTeamID: p.HomeTeamID,
			AwayTeamID: p.AwayTeamID,
		})
	}
	return advanceResultDTO{
		CompetitionID:  r.CompetitionID,
		QualifiedCount: r.QualifiedCount,
		MatchesUpdated: r.MatchesUpdated,
		RoundName:      r.RoundName,
		Pairings:       pairings,
	}
}

func standingsToDTO(s usecase.Standings) standingsDTO {
	out := standingsDTO{
		CompetitionID: s.CompetitionID,
		System:        s.System,
		Phase:         s.Phase,
	}
	for _, table := range s.Tables {
		rows := make([]standingRowDTO, 0, len(table.Rows))
		for _, row := range table.Rows {
			rows = append(rows, standingRowDTO{
				Position:     row.Position,
				TeamID:       row.TeamID,
				TeamName:     row.TeamName,
				Points:       row.Points,
				GamesPlayed:  row.GamesPlayed,
				Wins:         row.Wins,
				Draws:        row.Draws,
				Losses:       row.Losses,
				GoalsFor:     row.GoalsFor,
				GoalsAgainst: row.GoalsAgainst,
				GoalBalance:  row.GoalBalance,
			})
		}
		out.Tables = append(out.Tables, standingsTableDTO{
			GroupID:   table.GroupID,
			GroupName: table.GroupName,
			Rows:      rows,
		})
	}
	for _, br := range s.Bracket {
		out.Bracket = append(out.Bracket, bracketRoundDTO{
			RoundID:  br.Round.ID,
			Name:     br.Round.Name,
			Sequence: br.Round.Sequence,
			Matches:  matchesToDTO(br.Matches),
		})
	}
	return out
}

func playerRankingsToDTO(r usecase.PlayerRankings) playerRankingsDTO {
	rows := make([]playerRankingDTO, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, playerRankingToDTO(row))
	}
	return playerRankingsDTO{
		CompetitionID: r.CompetitionID,
		Metric:        r.Metric,
		MetricName:    r.MetricName,
		Rows:          rows,
	}
}

func playerRankingToDTO(row stats.PlayerRanking) playerRankingDTO {
	return playerRankingDTO{
		Position:   row.Position,
		PlayerID:   row.PlayerID,
		PlayerName: row.PlayerName,
		TeamID:     row.TeamID,
		TeamName:   row.TeamName,
		Total:      row.Total,
	}
}
