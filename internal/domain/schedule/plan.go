package schedule

import (
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
)

var (
	ErrTooFewTeams             = crerr.New("too few teams")
	ErrInvalidGroupSettings    = crerr.New("invalid group settings")
	ErrQualifiersNotPowerOfTwo = crerr.New("qualifier count is not a power of two")
)

// NoGroup marks knockout rounds in a plan.
const NoGroup = -1

// SlotPlan is a match side before anything is persisted. Feeder slots point at
// plan coordinates; the committer swaps them for stored match ids.
type SlotPlan struct {
	Kind        match.SlotKind
	TeamID      int64
	FeederRound int
	FeederMatch int
}

func TeamSlot(teamID int64) SlotPlan {
	return SlotPlan{Kind: match.SlotTeam, TeamID: teamID}
}

func FeederSlot(round, index int) SlotPlan {
	return SlotPlan{Kind: match.SlotFeeder, FeederRound: round, FeederMatch: index}
}

func OpenSlot() SlotPlan {
	return SlotPlan{Kind: match.SlotUnresolved}
}

type MatchPlan struct {
	Sequence     int
	Home         SlotPlan
	Away         SlotPlan
	HasOvertime  bool
	HasPenalties bool
	Segments     []match.Segment
}

// Status is SCHEDULED when both sides are teams and PENDING otherwise.
func (m MatchPlan) Status() string {
	if m.Home.Kind == match.SlotTeam && m.Away.Kind == match.SlotTeam {
		return match.StatusScheduled
	}
	return match.StatusPending
}

type RoundPlan struct {
	Name    string
	Group   int
	Matches []MatchPlan
}

func (r RoundPlan) IsKnockout() bool {
	return r.Group == NoGroup
}

type GroupPlan struct {
	Name    string
	TeamIDs []int64
}

// Plan is a complete structure in dependency order: every feeder slot refers to
// a round that appears earlier in Rounds.
type Plan struct {
	Groups []GroupPlan
	Rounds []RoundPlan
}

func (p Plan) MatchCount() int {
	total := 0
	for _, r := range p.Rounds {
		total += len(r.Matches)
	}
	return total
}

// FirstKnockoutRound returns the index of the first round without a group.
func (p Plan) FirstKnockoutRound() (int, bool) {
	for i, r := range p.Rounds {
		if r.IsKnockout() {
			return i, true
		}
	}
	return 0, false
}
