package schedule

import (
	"testing"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
)

func TestEliminationRoundName(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		2:  "Final",
		4:  "Semifinais",
		8:  "Quartas de Final",
		16: "Oitavas de Final",
		32: "Fase de 32",
		6:  "Fase de 6",
	}
	for participants, want := range cases {
		if got := EliminationRoundName(participants); got != want {
			t.Fatalf("participants=%d: expected %q, got %q", participants, want, got)
		}
	}
	if got := KnockoutRoundName(8); got != "Fase Final - Quartas de Final" {
		t.Fatalf("unexpected knockout name %q", got)
	}
}

func TestGroupName(t *testing.T) {
	t.Parallel()

	cases := map[int]string{0: "Grupo A", 1: "Grupo B", 25: "Grupo Z", 26: "Grupo AA", 27: "Grupo AB"}
	for index, want := range cases {
		if got := GroupName(index); got != want {
			t.Fatalf("index=%d: expected %q, got %q", index, want, got)
		}
	}
	if got := QualifierLabel(1, "Grupo A"); got != "1º Grupo A" {
		t.Fatalf("unexpected qualifier label %q", got)
	}
}

func TestBuildSegments(t *testing.T) {
	t.Parallel()

	segments := BuildSegments(competition.SportRuleset{
		SegmentType:      "QUARTER",
		RegularSegments:  4,
		OvertimeSegments: 1,
		PenaltySegments:  1,
	})
	wantTypes := []string{"QUARTER", "QUARTER", "QUARTER", "QUARTER", match.SegmentOvertime, match.SegmentPenalty}
	if len(segments) != len(wantTypes) {
		t.Fatalf("expected %d segments, got %d", len(wantTypes), len(segments))
	}
	for i, s := range segments {
		if s.Sequence != i+1 || s.Type != wantTypes[i] {
			t.Fatalf("segment %d: unexpected %+v", i, s)
		}
		if s.HomeScore != 0 || s.AwayScore != 0 || s.Finished {
			t.Fatalf("segment %d must start zeroed", i)
		}
	}

	if got := BuildSegments(competition.SportRuleset{}); len(got) != 0 {
		t.Fatalf("expected no segments for an empty ruleset, got %d", len(got))
	}
}

func TestPowerOfTwoHelpers(t *testing.T) {
	t.Parallel()

	next := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 8: 8, 9: 16}
	for n, want := range next {
		if got := NextPowerOfTwo(n); got != want {
			t.Fatalf("NextPowerOfTwo(%d): expected %d, got %d", n, want, got)
		}
	}
	for _, n := range []int{1, 2, 4, 64} {
		if !IsPowerOfTwo(n) {
			t.Fatalf("expected %d to be a power of two", n)
		}
	}
	for _, n := range []int{0, 3, 6, -4} {
		if IsPowerOfTwo(n) {
			t.Fatalf("expected %d not to be a power of two", n)
		}
	}
}
