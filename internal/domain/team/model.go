package team

import "fmt"

// Team is a registered roster taking part in one competition.
type Team struct {
	ID            int64
	CompetitionID int64
	Name          string
	CaptainID     int64
	Players       []Player
}

// Player is a member of a team roster.
type Player struct {
	ID     int64
	TeamID int64
	Name   string
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id must be greater than zero")
	}
	if t.CompetitionID <= 0 {
		return fmt.Errorf("team competition id must be greater than zero")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.CaptainID > 0 && len(t.Players) > 0 && !t.HasPlayer(t.CaptainID) {
		return fmt.Errorf("team captain %d is not on the roster", t.CaptainID)
	}

	return nil
}

func (t Team) HasPlayer(playerID int64) bool {
	for _, p := range t.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// IDs returns the team ids in input order.
func IDs(teams []Team) []int64 {
	out := make([]int64, 0, len(teams))
	for _, t := range teams {
		out = append(out, t.ID)
	}
	return out
}
