package schedule

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
)

const (
	PreliminaryRoundName = "Rodada Preliminar"
	KnockoutPrefix       = "Fase Final - "
)

// EliminationRoundName labels a knockout round by how many participants enter it.
func EliminationRoundName(participants int) string {
	switch participants {
	case 2:
		return "Final"
	case 4:
		return "Semifinais"
	case 8:
		return "Quartas de Final"
	case 16:
		return "Oitavas de Final"
	default:
		return fmt.Sprintf("Fase de %d", participants)
	}
}

// KnockoutRoundName is the name used for knockout rounds that follow a group stage.
func KnockoutRoundName(participants int) string {
	return KnockoutPrefix + EliminationRoundName(participants)
}

// LeagueRoundName labels round r (1-based), optionally inside a group.
func LeagueRoundName(groupName string, r int) string {
	if strings.TrimSpace(groupName) == "" {
		return fmt.Sprintf("Rodada %d", r)
	}
	return fmt.Sprintf("%s - Rodada %d", groupName, r)
}

// GroupName returns "Grupo A", "Grupo B", ... for a 0-based index. Past Z the
// letters continue as AA, AB, ...
func GroupName(index int) string {
	return "Grupo " + groupLetters(index)
}

// QualifierLabel is the placeholder key of a qualified team, e.g. "1º Grupo A".
func QualifierLabel(position int, groupName string) string {
	return fmt.Sprintf("%dº %s", position, groupName)
}

func groupLetters(index int) string {
	if index < 0 {
		index = 0
	}
	var b []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// BuildSegments returns the zeroed segment set for one match: regular segments
// first, then overtime, then penalties, numbered from 1.
func BuildSegments(ruleset competition.SportRuleset) []match.Segment {
	total := max(ruleset.RegularSegments, 0) + max(ruleset.OvertimeSegments, 0) + max(ruleset.PenaltySegments, 0)
	out := make([]match.Segment, 0, total)
	appendN := func(n int, segmentType string) {
		for i := 0; i < n; i++ {
			out = append(out, match.Segment{
				Sequence: len(out) + 1,
				Type:     segmentType,
			})
		}
	}
	appendN(ruleset.RegularSegments, ruleset.SegmentType)
	appendN(ruleset.OvertimeSegments, match.SegmentOvertime)
	appendN(ruleset.PenaltySegments, match.SegmentPenalty)
	return out
}

func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
