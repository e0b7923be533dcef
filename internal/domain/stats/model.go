package stats

import (
	"fmt"
	"strings"
)

// Ruleset is the optional per-competition metric catalogue.
type Ruleset struct {
	ID            int64
	CompetitionID int64
	Types         []Type
}

// Type is one tracked metric such as "GOL" or "PTS".
type Type struct {
	ID           int64
	RulesetID    int64
	Name         string
	Abbreviation string
}

// PlayerStat is the accumulated value of one metric for a player in a match.
type PlayerStat struct {
	MatchID  int64
	PlayerID int64
	TypeID   int64
	Value    int
}

// PlayerRanking is a player's total for one metric across a competition.
type PlayerRanking struct {
	Position   int
	PlayerID   int64
	PlayerName string
	TeamID     int64
	TeamName   string
	Total      int
}

func NormalizeAbbreviation(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// TypeByAbbreviation finds the metric case-insensitively.
func (r Ruleset) TypeByAbbreviation(abbreviation string) (Type, bool) {
	want := NormalizeAbbreviation(abbreviation)
	if want == "" {
		return Type{}, false
	}
	for _, t := range r.Types {
		if NormalizeAbbreviation(t.Abbreviation) == want {
			return t, true
		}
	}
	return Type{}, false
}

func (t Type) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("stats type name is required")
	}
	if NormalizeAbbreviation(t.Abbreviation) == "" {
		return fmt.Errorf("stats type abbreviation is required")
	}
	return nil
}
