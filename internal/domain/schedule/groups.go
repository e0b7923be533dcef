package schedule

import (
	"fmt"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
)

// GroupSettings sizes a group stage.
type GroupSettings struct {
	TeamsPerGroup          int
	TeamsQualifiedPerGroup int
}

func (s GroupSettings) Validate() error {
	if s.TeamsPerGroup < 2 {
		return fmt.Errorf("%w: teams per group must be >= 2, got %d", ErrInvalidGroupSettings, s.TeamsPerGroup)
	}
	if s.TeamsQualifiedPerGroup < 1 || s.TeamsQualifiedPerGroup > s.TeamsPerGroup {
		return fmt.Errorf("%w: qualified per group must be between 1 and %d, got %d",
			ErrInvalidGroupSettings, s.TeamsPerGroup, s.TeamsQualifiedPerGroup)
	}
	return nil
}

// GroupCount is ceil(teams / teams per group).
func (s GroupSettings) GroupCount(teams int) int {
	if s.TeamsPerGroup <= 0 {
		return 0
	}
	return (teams + s.TeamsPerGroup - 1) / s.TeamsPerGroup
}

// GroupStage shuffles teams into consecutive groups, schedules a round robin
// inside each group and appends an empty knockout bracket for the qualifiers.
func GroupStage(teamIDs []int64, settings GroupSettings, ruleset competition.SportRuleset, shuffler Shuffler) (Plan, error) {
	if err := settings.Validate(); err != nil {
		return Plan{}, err
	}
	n := len(teamIDs)
	if n < settings.TeamsPerGroup {
		return Plan{}, fmt.Errorf("%w: %d teams registered, %d needed to fill one group",
			ErrTooFewTeams, n, settings.TeamsPerGroup)
	}

	numGroups := settings.GroupCount(n)
	totalQualified := numGroups * settings.TeamsQualifiedPerGroup
	if totalQualified < 2 || !IsPowerOfTwo(totalQualified) {
		return Plan{}, fmt.Errorf("%w: %d groups x %d qualified = %d",
			ErrQualifiersNotPowerOfTwo, numGroups, settings.TeamsQualifiedPerGroup, totalQualified)
	}

	order := shuffled(teamIDs, shuffler)
	var plan Plan
	for g := 0; g < numGroups; g++ {
		lo := g * settings.TeamsPerGroup
		hi := min(lo+settings.TeamsPerGroup, n)
		members := order[lo:hi]
		if len(members) < settings.TeamsQualifiedPerGroup {
			return Plan{}, fmt.Errorf("%w: %s has %d teams but %d qualify",
				ErrTooFewTeams, GroupName(g), len(members), settings.TeamsQualifiedPerGroup)
		}
		group := GroupPlan{Name: GroupName(g), TeamIDs: append([]int64(nil), members...)}
		plan.Groups = append(plan.Groups, group)
		plan.Rounds = append(plan.Rounds, roundRobinRounds(group.TeamIDs, ruleset, g, group.Name)...)
	}

	plan.Rounds = append(plan.Rounds, KnockoutSkeleton(totalQualified, len(plan.Rounds), ruleset)...)
	return plan, nil
}

// KnockoutSkeleton builds a bracket for qualifiers not yet known: the first
// round has open slots on both sides and every later slot feeds from the round
// before it.
func KnockoutSkeleton(participants, firstIndex int, ruleset competition.SportRuleset) []RoundPlan {
	entries := make([]SlotPlan, participants)
	for i := range entries {
		entries[i] = OpenSlot()
	}
	return bracketRounds(entries, firstIndex, KnockoutRoundName, ruleset)
}
