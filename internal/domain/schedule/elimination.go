package schedule

import (
	"fmt"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
)

// SingleElimination builds a knockout bracket. Teams are shuffled first; when
// the count is not a power of two, the first P-N teams skip the preliminary
// round, where P is the next power of two.
func SingleElimination(teamIDs []int64, ruleset competition.SportRuleset, shuffler Shuffler) (Plan, error) {
	n := len(teamIDs)
	if n < 2 {
		return Plan{}, fmt.Errorf("%w: elimination needs 2 teams, got %d", ErrTooFewTeams, n)
	}

	order := shuffled(teamIDs, shuffler)
	byes := NextPowerOfTwo(n) - n

	var plan Plan
	entries := make([]SlotPlan, 0, n)
	if byes > 0 {
		for _, id := range order[:byes] {
			entries = append(entries, TeamSlot(id))
		}
		contenders := make([]SlotPlan, 0, n-byes)
		for _, id := range order[byes:] {
			contenders = append(contenders, TeamSlot(id))
		}
		plan.Rounds = append(plan.Rounds, pairRound(PreliminaryRoundName, contenders, ruleset))
		for i := range plan.Rounds[0].Matches {
			entries = append(entries, FeederSlot(0, i))
		}
	} else {
		for _, id := range order {
			entries = append(entries, TeamSlot(id))
		}
	}

	plan.Rounds = append(plan.Rounds, bracketRounds(entries, len(plan.Rounds), EliminationRoundName, ruleset)...)
	return plan, nil
}

// bracketRounds pairs consecutive entries round after round until the final.
// firstIndex is the plan index the first produced round will occupy.
func bracketRounds(entries []SlotPlan, firstIndex int, name func(int) string, ruleset competition.SportRuleset) []RoundPlan {
	var rounds []RoundPlan
	for len(entries) > 1 {
		round := pairRound(name(len(entries)), entries, ruleset)
		next := make([]SlotPlan, 0, len(round.Matches))
		for i := range round.Matches {
			next = append(next, FeederSlot(firstIndex+len(rounds), i))
		}
		rounds = append(rounds, round)
		entries = next
	}
	return rounds
}

func pairRound(name string, entries []SlotPlan, ruleset competition.SportRuleset) RoundPlan {
	round := RoundPlan{
		Name:    name,
		Group:   NoGroup,
		Matches: make([]MatchPlan, 0, len(entries)/2),
	}
	for i := 0; i+1 < len(entries); i += 2 {
		round.Matches = append(round.Matches, MatchPlan{
			Sequence:     len(round.Matches) + 1,
			Home:         entries[i],
			Away:         entries[i+1],
			HasOvertime:  ruleset.HasOvertime(),
			HasPenalties: ruleset.HasPenalties(),
			Segments:     BuildSegments(ruleset),
		})
	}
	return round
}
