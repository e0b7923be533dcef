package schedule

import (
	"fmt"
	"testing"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
)

var testRuleset = competition.SportRuleset{
	SegmentType:     "HALF",
	RegularSegments: 2,
}

func sequentialTeams(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

func TestRoundRobin_EveryPairOnce(t *testing.T) {
	t.Parallel()

	for n := 2; n <= 16; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			t.Parallel()

			plan, err := RoundRobin(sequentialTeams(n), testRuleset)
			if err != nil {
				t.Fatalf("round robin: %v", err)
			}

			want := n * (n - 1) / 2
			if got := plan.MatchCount(); got != want {
				t.Fatalf("expected %d matches, got %d", want, got)
			}

			seats := n
			if n%2 == 1 {
				seats++
			}
			if len(plan.Rounds) != seats-1 {
				t.Fatalf("expected %d rounds, got %d", seats-1, len(plan.Rounds))
			}

			seen := make(map[[2]int64]int)
			for r, round := range plan.Rounds {
				if round.Name != fmt.Sprintf("Rodada %d", r+1) {
					t.Fatalf("unexpected round name %q", round.Name)
				}
				playing := make(map[int64]bool)
				for i, m := range round.Matches {
					if m.Sequence != i+1 {
						t.Fatalf("round %d: expected sequence %d, got %d", r+1, i+1, m.Sequence)
					}
					if m.Home.Kind != match.SlotTeam || m.Away.Kind != match.SlotTeam {
						t.Fatalf("league match must have two teams: %+v", m)
					}
					if playing[m.Home.TeamID] || playing[m.Away.TeamID] {
						t.Fatalf("round %d: team plays twice", r+1)
					}
					playing[m.Home.TeamID] = true
					playing[m.Away.TeamID] = true

					a, b := m.Home.TeamID, m.Away.TeamID
					if a > b {
						a, b = b, a
					}
					seen[[2]int64{a, b}]++
				}
			}
			for a := int64(1); a <= int64(n); a++ {
				for b := a + 1; b <= int64(n); b++ {
					if seen[[2]int64{a, b}] != 1 {
						t.Fatalf("pair %d-%d played %d times", a, b, seen[[2]int64{a, b}])
					}
				}
			}
		})
	}
}

func TestRoundRobin_FourTeams(t *testing.T) {
	t.Parallel()

	plan, err := RoundRobin(sequentialTeams(4), testRuleset)
	if err != nil {
		t.Fatalf("round robin: %v", err)
	}
	if len(plan.Rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(plan.Rounds))
	}

	appearances := make(map[int64]int)
	for _, round := range plan.Rounds {
		if len(round.Matches) != 2 {
			t.Fatalf("expected 2 matches in %s, got %d", round.Name, len(round.Matches))
		}
		for _, m := range round.Matches {
			appearances[m.Home.TeamID]++
			appearances[m.Away.TeamID]++
			if m.Status() != match.StatusScheduled {
				t.Fatalf("expected SCHEDULED league match, got %s", m.Status())
			}
			if len(m.Segments) != 2 {
				t.Fatalf("expected 2 segments, got %d", len(m.Segments))
			}
		}
	}
	for id, count := range appearances {
		if count != 3 {
			t.Fatalf("team %d appears in %d matches, expected 3", id, count)
		}
	}

	first := plan.Rounds[0].Matches
	if first[0].Home.TeamID != 1 || first[0].Away.TeamID != 4 || first[1].Home.TeamID != 2 || first[1].Away.TeamID != 3 {
		t.Fatalf("unexpected first round pairing: %+v", first)
	}
	second := plan.Rounds[1].Matches
	if second[0].Home.TeamID != 1 || second[0].Away.TeamID != 3 || second[1].Home.TeamID != 4 || second[1].Away.TeamID != 2 {
		t.Fatalf("unexpected rotation in second round: %+v", second)
	}
}

func TestRoundRobin_RequiresTwoTeams(t *testing.T) {
	t.Parallel()

	if _, err := RoundRobin([]int64{1}, testRuleset); err == nil {
		t.Fatalf("expected error for a single team")
	}
}
