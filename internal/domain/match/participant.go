package match

import "fmt"

// SlotKind tells what currently occupies one side of a match.
type SlotKind uint8

const (
	SlotUnresolved SlotKind = iota
	SlotTeam
	SlotFeeder
)

func (k SlotKind) String() string {
	switch k {
	case SlotTeam:
		return "team"
	case SlotFeeder:
		return "feeder"
	default:
		return "unresolved"
	}
}

// ParticipantRef is one side of a match: a known team, the winner of an
// earlier match, or a placeholder resolved later by group qualification.
// A resolved feeder keeps its feeder match id so the bracket lineage stays
// visible after the winner is known.
type ParticipantRef struct {
	teamID        int64
	feederMatchID int64
}

func TeamRef(teamID int64) ParticipantRef {
	return ParticipantRef{teamID: teamID}
}

func FeederRef(matchID int64) ParticipantRef {
	return ParticipantRef{feederMatchID: matchID}
}

func Unresolved() ParticipantRef {
	return ParticipantRef{}
}

// RefFromColumns rebuilds a slot from its nullable storage columns.
func RefFromColumns(teamID, feederMatchID *int64) ParticipantRef {
	var ref ParticipantRef
	if teamID != nil {
		ref.teamID = *teamID
	}
	if feederMatchID != nil {
		ref.feederMatchID = *feederMatchID
	}
	return ref
}

func (p ParticipantRef) Kind() SlotKind {
	switch {
	case p.teamID > 0:
		return SlotTeam
	case p.feederMatchID > 0:
		return SlotFeeder
	default:
		return SlotUnresolved
	}
}

func (p ParticipantRef) TeamID() (int64, bool) {
	return p.teamID, p.teamID > 0
}

func (p ParticipantRef) FeederMatchID() (int64, bool) {
	return p.feederMatchID, p.feederMatchID > 0
}

// Resolve fills the slot with a concrete team.
func (p ParticipantRef) Resolve(teamID int64) ParticipantRef {
	p.teamID = teamID
	return p
}

// Columns returns the nullable team and feeder columns for storage.
func (p ParticipantRef) Columns() (teamID, feederMatchID *int64) {
	if p.teamID > 0 {
		v := p.teamID
		teamID = &v
	}
	if p.feederMatchID > 0 {
		v := p.feederMatchID
		feederMatchID = &v
	}
	return teamID, feederMatchID
}

func (p ParticipantRef) String() string {
	switch p.Kind() {
	case SlotTeam:
		return fmt.Sprintf("team(%d)", p.teamID)
	case SlotFeeder:
		return fmt.Sprintf("winner(match %d)", p.feederMatchID)
	default:
		return "unresolved"
	}
}
