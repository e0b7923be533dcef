package competition

import (
	"fmt"
	"strings"
	"time"
)

const (
	SystemPoints      = "POINTS"
	SystemElimination = "ELIMINATION"
	SystemMixed       = "MIXED"
)

const (
	StatusPending  = "PENDING"
	StatusStarted  = "STARTED"
	StatusFinished = "FINISHED"
)

const (
	PhaseNone        = ""
	PhaseGroup       = "GROUP"
	PhaseElimination = "ELIMINATION"
)

// Competition is a tournament whose structure is produced by the engine.
// Only Status and CurrentPhase are ever changed here; everything else is owned
// by competition administration.
type Competition struct {
	ID                     int64
	ModalityID             int64
	Name                   string
	StartDate              time.Time
	EndDate                time.Time
	System                 string
	Status                 string
	CurrentPhase           string
	MinMembersPerTeam      int
	MaxMembersPerTeam      int
	TeamsPerGroup          int
	TeamsQualifiedPerGroup int
	Ruleset                *SportRuleset
}

// SportRuleset describes how a match of this modality is divided into segments.
type SportRuleset struct {
	ID               int64
	CompetitionID    int64
	SegmentType      string
	RegularSegments  int
	OvertimeSegments int
	PenaltySegments  int
	HasBreaks        bool
}

func (r SportRuleset) HasOvertime() bool {
	return r.OvertimeSegments > 0
}

func (r SportRuleset) HasPenalties() bool {
	return r.PenaltySegments > 0
}

func (c Competition) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("competition id must be greater than zero")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("competition name is required")
	}
	if !IsKnownSystem(c.System) {
		return fmt.Errorf("unknown competition system %q", c.System)
	}
	if !c.EndDate.IsZero() && c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("competition end date is before start date")
	}
	if c.MaxMembersPerTeam > 0 && c.MaxMembersPerTeam < c.MinMembersPerTeam {
		return fmt.Errorf("max members per team is lower than min members per team")
	}

	return nil
}

// InGroupPhase reports whether a MIXED competition is still playing its groups.
func (c Competition) InGroupPhase() bool {
	return c.System == SystemMixed && c.CurrentPhase == PhaseGroup
}

// ShowsBracket reports whether standings are rendered as a knockout bracket.
func (c Competition) ShowsBracket() bool {
	switch c.System {
	case SystemElimination:
		return true
	case SystemMixed:
		return c.CurrentPhase == PhaseElimination
	default:
		return false
	}
}

func NormalizeSystem(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func IsKnownSystem(system string) bool {
	switch NormalizeSystem(system) {
	case SystemPoints, SystemElimination, SystemMixed:
		return true
	default:
		return false
	}
}
