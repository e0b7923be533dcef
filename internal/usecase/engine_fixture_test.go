package usecase

import (
	"fmt"
	"testing"

	"github.com/riskibarqy/tournament-engine/internal/domain/classification"
	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
	"github.com/riskibarqy/tournament-engine/internal/domain/schedule"
	"github.com/riskibarqy/tournament-engine/internal/domain/team"
	"github.com/riskibarqy/tournament-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-engine/internal/platform/logging"
)

type engine struct {
	store     *memory.Store
	structure *StructureService
	groups    *GroupPhaseService
	matches   *MatchService
	standings *StandingsService
}

func newEngine() *engine {
	store := memory.NewStore()
	logger := logging.NewNop()
	repos := store.Repositories()
	return &engine{
		store:     store,
		structure: NewStructureService(store, schedule.NoShuffle, logger, nil),
		groups:    NewGroupPhaseService(store, logger, nil),
		matches:   NewMatchService(store, logger, nil),
		standings: NewStandingsService(repos.Competitions, repos.Teams, repos.Matches, repos.Classifications, repos.Stats, nil),
	}
}

func twoHalves() *competition.SportRuleset {
	return &competition.SportRuleset{SegmentType: "Tempo", RegularSegments: 2}
}

func knockoutRuleset() *competition.SportRuleset {
	return &competition.SportRuleset{SegmentType: "Tempo", RegularSegments: 2, OvertimeSegments: 2, PenaltySegments: 1}
}

// addCompetition registers a PENDING competition with teamCount two-player teams.
func (e *engine) addCompetition(comp competition.Competition, teamCount int) (competition.Competition, []team.Team) {
	if comp.Name == "" {
		comp.Name = fmt.Sprintf("Copa %s", comp.System)
	}
	stored := e.store.AddCompetition(comp)
	teams := make([]team.Team, 0, teamCount)
	for i := 1; i <= teamCount; i++ {
		teams = append(teams, e.store.AddTeam(team.Team{
			CompetitionID: stored.ID,
			Name:          fmt.Sprintf("Time %d", i),
			Players: []team.Player{
				{Name: fmt.Sprintf("Atleta %d-1", i)},
				{Name: fmt.Sprintf("Atleta %d-2", i)},
			},
		}))
	}
	return stored, teams
}

func (e *engine) getCompetition(t *testing.T, competitionID int64) competition.Competition {
	t.Helper()
	comp, ok, err := e.store.Repositories().Competitions.GetByID(t.Context(), competitionID)
	if err != nil || !ok {
		t.Fatalf("get competition %d: ok=%v err=%v", competitionID, ok, err)
	}
	return comp
}

func (e *engine) allMatches(t *testing.T, competitionID int64) []match.Match {
	t.Helper()
	out, err := e.store.Repositories().Matches.ListMatchesByCompetition(t.Context(), competitionID)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	return out
}

func (e *engine) roundMatches(t *testing.T, competitionID int64, roundName string) []match.Match {
	t.Helper()
	repo := e.store.Repositories().Matches
	round, ok, err := repo.GetRoundByName(t.Context(), competitionID, roundName)
	if err != nil || !ok {
		t.Fatalf("round %q: ok=%v err=%v", roundName, ok, err)
	}
	out, err := repo.ListMatchesByRound(t.Context(), round.ID)
	if err != nil {
		t.Fatalf("list matches of %q: %v", roundName, err)
	}
	return out
}

// setPoints overwrites the points of a team's standings row.
func (e *engine) setPoints(t *testing.T, competitionID, teamID int64, points int) {
	t.Helper()
	rows, err := e.store.Repositories().Classifications.ListByCompetition(t.Context(), competitionID)
	if err != nil {
		t.Fatalf("list classifications: %v", err)
	}
	for _, row := range rows {
		if row.TeamID == teamID {
			row.Points = points
			e.store.SetClassification(row)
			return
		}
	}
	t.Fatalf("no classification row for team %d", teamID)
}

// playMatch starts a scheduled match, scores it directly and finishes it.
func (e *engine) playMatch(t *testing.T, matchID int64, home, away int) FinishResult {
	t.Helper()
	ctx := t.Context()
	if _, err := e.matches.StartMatch(ctx, matchID); err != nil {
		t.Fatalf("start match %d: %v", matchID, err)
	}
	if _, err := e.matches.SetScore(ctx, SetScoreInput{MatchID: matchID, HomeScore: home, AwayScore: away}); err != nil {
		t.Fatalf("set score of match %d: %v", matchID, err)
	}
	res, err := e.matches.FinishMatch(ctx, matchID)
	if err != nil {
		t.Fatalf("finish match %d: %v", matchID, err)
	}
	return res
}

func classificationTeams(rows []classification.Classification) map[int64]int {
	out := make(map[int64]int, len(rows))
	for _, row := range rows {
		out[row.TeamID]++
	}
	return out
}
