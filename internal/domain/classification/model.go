package classification

import "sort"

// Classification is a standings row for one team, scoped to a group in MIXED
// competitions.
type Classification struct {
	ID            int64
	CompetitionID int64
	GroupID       *int64
	TeamID        int64
	Points        int
	GamesPlayed   int
	Wins          int
	Draws         int
	Losses        int
	GoalsFor      int
	GoalsAgainst  int
	GoalBalance   int
}

// Zero returns an empty row for a team.
func Zero(competitionID int64, groupID *int64, teamID int64) Classification {
	return Classification{
		CompetitionID: competitionID,
		GroupID:       groupID,
		TeamID:        teamID,
	}
}

// Less orders rows by points desc, wins desc, balance desc, goals against asc
// and goals for desc. Team id breaks any remaining tie so the order is total.
func Less(a, b Classification) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	if a.GoalBalance != b.GoalBalance {
		return a.GoalBalance > b.GoalBalance
	}
	if a.GoalsAgainst != b.GoalsAgainst {
		return a.GoalsAgainst < b.GoalsAgainst
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	return a.TeamID < b.TeamID
}

// Sort returns a ranked copy of rows.
func Sort(rows []Classification) []Classification {
	out := append([]Classification(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// RankedRow is a classification with its table position.
type RankedRow struct {
	Position int
	Classification
}

// Rank sorts rows and assigns 1-based positions, capped by limit when limit > 0.
func Rank(rows []Classification, limit int) []RankedRow {
	sorted := Sort(rows)
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]RankedRow, 0, len(sorted))
	for i, row := range sorted {
		out = append(out, RankedRow{Position: i + 1, Classification: row})
	}
	return out
}
