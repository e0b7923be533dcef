package schedule

import (
	"fmt"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
)

// byeSlot fills the odd seat in the circle; team ids are always positive.
const byeSlot int64 = 0

// RoundRobin builds a single-table league where every team meets every other
// team once.
func RoundRobin(teamIDs []int64, ruleset competition.SportRuleset) (Plan, error) {
	if len(teamIDs) < 2 {
		return Plan{}, fmt.Errorf("%w: round robin needs 2 teams, got %d", ErrTooFewTeams, len(teamIDs))
	}
	return Plan{Rounds: roundRobinRounds(teamIDs, ruleset, NoGroup, "")}, nil
}

// roundRobinRounds runs the circle method: position 0 stays fixed while the
// rest rotate one seat per round, and seat i meets seat n-1-i.
func roundRobinRounds(teamIDs []int64, ruleset competition.SportRuleset, group int, groupName string) []RoundPlan {
	seats := append([]int64(nil), teamIDs...)
	if len(seats)%2 == 1 {
		seats = append(seats, byeSlot)
	}
	n := len(seats)
	if n < 2 {
		return nil
	}

	rounds := make([]RoundPlan, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := RoundPlan{
			Name:    LeagueRoundName(groupName, r+1),
			Group:   group,
			Matches: make([]MatchPlan, 0, n/2),
		}
		for i := 0; i < n/2; i++ {
			home, away := seats[i], seats[n-1-i]
			if home == byeSlot || away == byeSlot {
				continue
			}
			round.Matches = append(round.Matches, MatchPlan{
				Sequence: len(round.Matches) + 1,
				Home:     TeamSlot(home),
				Away:     TeamSlot(away),
				Segments: BuildSegments(ruleset),
			})
		}
		if len(round.Matches) > 0 {
			rounds = append(rounds, round)
		}

		last := seats[n-1]
		copy(seats[2:], seats[1:n-1])
		seats[1] = last
	}
	return rounds
}
