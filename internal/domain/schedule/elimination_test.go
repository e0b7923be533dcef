package schedule

import (
	"fmt"
	"testing"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
)

func TestSingleElimination_Shape(t *testing.T) {
	t.Parallel()

	for n := 2; n <= 33; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			t.Parallel()

			plan, err := SingleElimination(sequentialTeams(n), testRuleset, NewRandShuffler(uint64(n)))
			if err != nil {
				t.Fatalf("elimination: %v", err)
			}
			if got := plan.MatchCount(); got != n-1 {
				t.Fatalf("expected %d matches, got %d", n-1, got)
			}
			last := plan.Rounds[len(plan.Rounds)-1]
			if last.Name != "Final" || len(last.Matches) != 1 {
				t.Fatalf("expected a single-match Final, got %q with %d matches", last.Name, len(last.Matches))
			}

			byes := NextPowerOfTwo(n) - n
			if byes > 0 {
				if plan.Rounds[0].Name != PreliminaryRoundName {
					t.Fatalf("expected preliminary round first, got %q", plan.Rounds[0].Name)
				}
				playing := 2 * len(plan.Rounds[0].Matches)
				if n-playing != byes {
					t.Fatalf("expected %d byes, got %d", byes, n-playing)
				}
			} else if plan.Rounds[0].Name == PreliminaryRoundName {
				t.Fatalf("power of two bracket must not have a preliminary round")
			}

			assertFeedersPointBackwards(t, plan)
			assertEveryTeamEntersOnce(t, plan, n)
		})
	}
}

func TestSingleElimination_FiveTeams(t *testing.T) {
	t.Parallel()

	plan, err := SingleElimination(sequentialTeams(5), testRuleset, NoShuffle)
	if err != nil {
		t.Fatalf("elimination: %v", err)
	}
	if len(plan.Rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(plan.Rounds))
	}

	prelim := plan.Rounds[0]
	if prelim.Name != PreliminaryRoundName || len(prelim.Matches) != 1 {
		t.Fatalf("unexpected preliminary round: %+v", prelim)
	}
	if prelim.Matches[0].Home.TeamID != 4 || prelim.Matches[0].Away.TeamID != 5 {
		t.Fatalf("expected teams 4 and 5 to play the preliminary, got %+v", prelim.Matches[0])
	}

	semis := plan.Rounds[1]
	if semis.Name != "Semifinais" || len(semis.Matches) != 2 {
		t.Fatalf("unexpected second round: %q with %d matches", semis.Name, len(semis.Matches))
	}
	if semis.Matches[0].Status() != match.StatusScheduled {
		t.Fatalf("bye teams 1 and 2 should meet in a scheduled match, got %s", semis.Matches[0].Status())
	}
	feeder := semis.Matches[1].Away
	if semis.Matches[1].Home.TeamID != 3 || feeder.Kind != match.SlotFeeder || feeder.FeederRound != 0 || feeder.FeederMatch != 0 {
		t.Fatalf("expected team 3 against the preliminary winner, got %+v", semis.Matches[1])
	}
	if semis.Matches[1].Status() != match.StatusPending {
		t.Fatalf("match waiting on a feeder must be PENDING")
	}

	final := plan.Rounds[2]
	if final.Name != "Final" || len(final.Matches) != 1 {
		t.Fatalf("unexpected final: %+v", final)
	}
}

func TestSingleElimination_UsesShuffler(t *testing.T) {
	t.Parallel()

	reverse := ShuffleFunc(func(ids []int64) {
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
	})
	input := sequentialTeams(4)
	plan, err := SingleElimination(input, testRuleset, reverse)
	if err != nil {
		t.Fatalf("elimination: %v", err)
	}
	if input[0] != 1 {
		t.Fatalf("input order must not be mutated")
	}
	first := plan.Rounds[0].Matches[0]
	if first.Home.TeamID != 4 || first.Away.TeamID != 3 {
		t.Fatalf("expected shuffled order to drive pairing, got %+v", first)
	}
}

func TestSingleElimination_KnockoutFlags(t *testing.T) {
	t.Parallel()

	ruleset := competition.SportRuleset{SegmentType: "HALF", RegularSegments: 2, OvertimeSegments: 2, PenaltySegments: 1}
	plan, err := SingleElimination(sequentialTeams(4), ruleset, NoShuffle)
	if err != nil {
		t.Fatalf("elimination: %v", err)
	}
	for _, round := range plan.Rounds {
		for _, m := range round.Matches {
			if !m.HasOvertime || !m.HasPenalties {
				t.Fatalf("expected knockout flags from ruleset, got %+v", m)
			}
			if len(m.Segments) != 5 {
				t.Fatalf("expected 5 segments, got %d", len(m.Segments))
			}
		}
	}

	plain, err := SingleElimination(sequentialTeams(4), testRuleset, NoShuffle)
	if err != nil {
		t.Fatalf("elimination: %v", err)
	}
	if m := plain.Rounds[0].Matches[0]; m.HasOvertime || m.HasPenalties {
		t.Fatalf("expected no overtime or penalties without ruleset segments")
	}
}

func TestSingleElimination_RequiresTwoTeams(t *testing.T) {
	t.Parallel()

	if _, err := SingleElimination(nil, testRuleset, NoShuffle); err == nil {
		t.Fatalf("expected error for empty roster")
	}
}

func assertFeedersPointBackwards(t *testing.T, plan Plan) {
	t.Helper()

	consumed := make(map[[2]int]bool)
	for r, round := range plan.Rounds {
		for _, m := range round.Matches {
			for _, slot := range []SlotPlan{m.Home, m.Away} {
				if slot.Kind != match.SlotFeeder {
					continue
				}
				if slot.FeederRound >= r {
					t.Fatalf("round %d references round %d", r, slot.FeederRound)
				}
				if slot.FeederMatch >= len(plan.Rounds[slot.FeederRound].Matches) {
					t.Fatalf("feeder points past round %d", slot.FeederRound)
				}
				key := [2]int{slot.FeederRound, slot.FeederMatch}
				if consumed[key] {
					t.Fatalf("match %v feeds two slots", key)
				}
				consumed[key] = true
			}
		}
	}
	if len(consumed) != plan.MatchCount()-1 {
		t.Fatalf("every match except the final must feed exactly once: %d of %d", len(consumed), plan.MatchCount()-1)
	}
}

func assertEveryTeamEntersOnce(t *testing.T, plan Plan, n int) {
	t.Helper()

	seen := make(map[int64]int)
	for _, round := range plan.Rounds {
		for _, m := range round.Matches {
			for _, slot := range []SlotPlan{m.Home, m.Away} {
				if slot.Kind == match.SlotTeam {
					seen[slot.TeamID]++
				}
			}
		}
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct teams, got %d", n, len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("team %d placed %d times", id, count)
		}
	}
}
