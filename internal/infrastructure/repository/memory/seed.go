package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/stats"
	"github.com/riskibarqy/tournament-engine/internal/domain/team"
)

const (
	CompetitionIDLeague    int64 = 1
	CompetitionIDKnockout  int64 = 2
	CompetitionIDGroupsCup int64 = 3
)

const seedPlayersPerTeam = 5

// seedFirstDynamicID keeps generated ids clear of the fixed competition ids.
const seedFirstDynamicID int64 = 1000

// SeedCompetitions returns demo competitions, one per system, all PENDING.
func SeedCompetitions() []competition.Competition {
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	football := competition.SportRuleset{
		SegmentType:      "Tempo",
		RegularSegments:  2,
		OvertimeSegments: 2,
		PenaltySegments:  1,
		HasBreaks:        true,
	}
	basketball := competition.SportRuleset{
		SegmentType:      "Quarto",
		RegularSegments:  4,
		OvertimeSegments: 1,
	}

	return []competition.Competition{
		{
			ID:                CompetitionIDLeague,
			Name:              "Copa Interclasses de Futsal",
			StartDate:         start,
			EndDate:           start.AddDate(0, 1, 0),
			System:            competition.SystemPoints,
			MinMembersPerTeam: 5,
			MaxMembersPerTeam: 12,
			Ruleset:           rulesetPtr(football),
		},
		{
			ID:                CompetitionIDKnockout,
			Name:              "Torneio Relâmpago de Basquete",
			StartDate:         start,
			EndDate:           start.AddDate(0, 0, 7),
			System:            competition.SystemElimination,
			MinMembersPerTeam: 5,
			MaxMembersPerTeam: 10,
			Ruleset:           rulesetPtr(basketball),
		},
		{
			ID:                     CompetitionIDGroupsCup,
			Name:                   "Taça das Escolas",
			StartDate:              start,
			EndDate:                start.AddDate(0, 2, 0),
			System:                 competition.SystemMixed,
			MinMembersPerTeam:      5,
			MaxMembersPerTeam:      14,
			TeamsPerGroup:          4,
			TeamsQualifiedPerGroup: 2,
			Ruleset:                rulesetPtr(football),
		},
	}
}

// SeedTeams returns rosters for the demo competitions: 4, 5 and 8 teams.
func SeedTeams() []team.Team {
	counts := map[int64]int{
		CompetitionIDLeague:    4,
		CompetitionIDKnockout:  5,
		CompetitionIDGroupsCup: 8,
	}
	out := make([]team.Team, 0, 17)
	for _, compID := range []int64{CompetitionIDLeague, CompetitionIDKnockout, CompetitionIDGroupsCup} {
		for i := 1; i <= counts[compID]; i++ {
			players := make([]team.Player, 0, seedPlayersPerTeam)
			for p := 1; p <= seedPlayersPerTeam; p++ {
				players = append(players, team.Player{Name: fmt.Sprintf("Jogador %d-%d-%d", compID, i, p)})
			}
			out = append(out, team.Team{
				CompetitionID: compID,
				Name:          fmt.Sprintf("Equipe %c%d", 'A'+rune(compID-1), i),
				Players:       players,
			})
		}
	}
	return out
}

// SeedStatsRulesets tracks goals in the league and points in the knockout.
func SeedStatsRulesets() []stats.Ruleset {
	return []stats.Ruleset{
		{
			CompetitionID: CompetitionIDLeague,
			Types: []stats.Type{
				{Name: "Gols", Abbreviation: "GOL"},
				{Name: "Assistências", Abbreviation: "AST"},
			},
		},
		{
			CompetitionID: CompetitionIDKnockout,
			Types: []stats.Type{
				{Name: "Pontos", Abbreviation: "PTS"},
			},
		},
	}
}

// NewSeededStore returns a store loaded with the demo dataset.
func NewSeededStore() *Store {
	s := NewStore()
	for _, c := range SeedCompetitions() {
		s.AddCompetition(c)
	}
	s.mu.Lock()
	if s.data.nextID < seedFirstDynamicID {
		s.data.nextID = seedFirstDynamicID
	}
	s.mu.Unlock()
	for _, t := range SeedTeams() {
		s.AddTeam(t)
	}
	for _, r := range SeedStatsRulesets() {
		s.AddStatsRuleset(r)
	}
	return s
}

func rulesetPtr(r competition.SportRuleset) *competition.SportRuleset {
	return &r
}
