package match

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusPending   = "PENDING"
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCanceled  = "CANCELED"
)

const (
	SegmentOvertime = "OVERTIME"
	SegmentPenalty  = "PENALTY"
)

const (
	SideHome = "HOME"
	SideAway = "AWAY"
)

// Group is a pool of teams playing each other before the knockout stage.
type Group struct {
	ID            int64
	CompetitionID int64
	Name          string
}

// Round is a named batch of matches. GroupID is set for group-stage rounds.
type Round struct {
	ID            int64
	CompetitionID int64
	GroupID       *int64
	Name          string
	Sequence      int
}

func (r Round) IsKnockout() bool {
	return r.GroupID == nil
}

// Match is one fixture of the competition structure.
type Match struct {
	ID            int64
	CompetitionID int64
	GroupID       *int64
	RoundID       int64
	Sequence      int
	Home          ParticipantRef
	Away          ParticipantRef
	Local         string
	ScheduledAt   *time.Time
	Status        string
	HomeScore     int
	AwayScore     int
	HasOvertime   bool
	HasPenalties  bool
	WinnerTeamID  *int64
}

// Segment is a scored subdivision of a match.
type Segment struct {
	ID        int64
	MatchID   int64
	Sequence  int
	Type      string
	HomeScore int
	AwayScore int
	Finished  bool
}

func (m Match) HasBothTeams() bool {
	return m.Home.Kind() == SlotTeam && m.Away.Kind() == SlotTeam
}

// InitialStatus is SCHEDULED when both sides are known teams and PENDING otherwise.
func InitialStatus(home, away ParticipantRef) string {
	if home.Kind() == SlotTeam && away.Kind() == SlotTeam {
		return StatusScheduled
	}
	return StatusPending
}

func (m Match) Validate() error {
	if m.CompetitionID <= 0 {
		return fmt.Errorf("match competition id must be greater than zero")
	}
	if m.RoundID <= 0 {
		return fmt.Errorf("match round id must be greater than zero")
	}
	if m.Sequence < 1 {
		return fmt.Errorf("match sequence must be >= 1")
	}
	if m.HomeScore < 0 || m.AwayScore < 0 {
		return fmt.Errorf("match score cannot be negative")
	}
	switch m.Status {
	case StatusScheduled, StatusLive, StatusFinished:
		if !m.HasBothTeams() {
			return fmt.Errorf("match status %s requires two teams, got home=%s away=%s", m.Status, m.Home, m.Away)
		}
	case StatusPending, StatusCanceled:
	default:
		return fmt.Errorf("unknown match status %q", m.Status)
	}
	if home, ok := m.Home.TeamID(); ok {
		if away, ok := m.Away.TeamID(); ok && home == away {
			return fmt.Errorf("match cannot pair team %d against itself", home)
		}
	}

	return nil
}

// TeamIDs returns the concrete teams currently on the match.
func (m Match) TeamIDs() []int64 {
	out := make([]int64, 0, 2)
	if id, ok := m.Home.TeamID(); ok {
		out = append(out, id)
	}
	if id, ok := m.Away.TeamID(); ok {
		out = append(out, id)
	}
	return out
}

// Winner returns the team ahead on score. Draws have no winner.
func (m Match) Winner() (int64, bool) {
	if !m.HasBothTeams() || m.HomeScore == m.AwayScore {
		return 0, false
	}
	if m.HomeScore > m.AwayScore {
		id, _ := m.Home.TeamID()
		return id, true
	}
	id, _ := m.Away.TeamID()
	return id, true
}

func NormalizeSide(value string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case SideHome, "H":
		return SideHome, true
	case SideAway, "A":
		return SideAway, true
	default:
		return "", false
	}
}

// NormalizeStatus upper-cases status and reports whether it is a known match status.
func NormalizeStatus(status string) (string, bool) {
	switch v := strings.ToUpper(strings.TrimSpace(status)); v {
	case StatusPending, StatusScheduled, StatusLive, StatusFinished, StatusCanceled:
		return v, true
	default:
		return "", false
	}
}

func IsLiveStatus(status string) bool {
	return strings.ToUpper(strings.TrimSpace(status)) == StatusLive
}

// SumSegments totals the per-side scores of all segments.
func SumSegments(segments []Segment) (home, away int) {
	for _, s := range segments {
		home += s.HomeScore
		away += s.AwayScore
	}
	return home, away
}

// ClampScore keeps a running score from dropping below zero.
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
