package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
	"github.com/riskibarqy/tournament-engine/internal/domain/stats"
	"github.com/riskibarqy/tournament-engine/internal/domain/team"
	"github.com/riskibarqy/tournament-engine/internal/domain/uow"
)

func TestStore_WithinTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	store := NewStore()
	comp := store.AddCompetition(competition.Competition{Name: "Copa", System: competition.SystemPoints})

	boom := errors.New("boom")
	err := store.WithinTx(t.Context(), func(ctx context.Context, repos uow.Repositories) error {
		if _, err := repos.Matches.CreateGroup(ctx, match.Group{CompetitionID: comp.ID, Name: "Grupo A"}); err != nil {
			return err
		}
		moved, err := repos.Competitions.TransitionStatus(ctx, comp.ID, competition.StatusPending, competition.StatusStarted, competition.PhaseNone)
		if err != nil || !moved {
			t.Fatalf("transition inside tx: moved=%v err=%v", moved, err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected tx error to propagate, got %v", err)
	}

	repos := store.Repositories()
	got, _, _ := repos.Competitions.GetByID(t.Context(), comp.ID)
	if got.Status != competition.StatusPending {
		t.Fatalf("status not rolled back: %s", got.Status)
	}
	groups, _ := repos.Matches.ListGroups(t.Context(), comp.ID)
	if len(groups) != 0 {
		t.Fatalf("groups not rolled back: %d", len(groups))
	}
}

func TestStore_WithinTxCommits(t *testing.T) {
	t.Parallel()

	store := NewStore()
	comp := store.AddCompetition(competition.Competition{Name: "Copa", System: competition.SystemPoints})

	err := store.WithinTx(t.Context(), func(ctx context.Context, repos uow.Repositories) error {
		_, err := repos.Matches.CreateGroup(ctx, match.Group{CompetitionID: comp.ID, Name: "Grupo A"})
		return err
	})
	if err != nil {
		t.Fatalf("commit tx: %v", err)
	}
	groups, _ := store.Repositories().Matches.ListGroups(t.Context(), comp.ID)
	if len(groups) != 1 || groups[0].Name != "Grupo A" {
		t.Fatalf("unexpected groups after commit: %+v", groups)
	}
}

func TestCompetitionRepository_TransitionIsCompareAndSwap(t *testing.T) {
	t.Parallel()

	store := NewStore()
	comp := store.AddCompetition(competition.Competition{Name: "Copa", System: competition.SystemMixed})
	repo := store.Repositories().Competitions

	moved, err := repo.TransitionStatus(t.Context(), comp.ID, competition.StatusPending, competition.StatusStarted, competition.PhaseGroup)
	if err != nil || !moved {
		t.Fatalf("first transition: moved=%v err=%v", moved, err)
	}
	moved, err = repo.TransitionStatus(t.Context(), comp.ID, competition.StatusPending, competition.StatusStarted, competition.PhaseGroup)
	if err != nil || moved {
		t.Fatalf("second transition should lose the swap: moved=%v err=%v", moved, err)
	}

	moved, _ = repo.TransitionPhase(t.Context(), comp.ID, competition.PhaseElimination, competition.PhaseGroup)
	if moved {
		t.Fatalf("phase moved from unexpected phase")
	}
	moved, _ = repo.TransitionPhase(t.Context(), comp.ID, competition.PhaseGroup, competition.PhaseElimination)
	if !moved {
		t.Fatalf("phase did not move from GROUP")
	}
}

func TestMatchRepository_FeederLookupAndOrdering(t *testing.T) {
	t.Parallel()

	store := NewStore()
	repo := store.Repositories().Matches
	ctx := t.Context()

	round1, _ := repo.CreateRound(ctx, match.Round{CompetitionID: 1, Name: "Semifinais", Sequence: 1})
	semis, err := repo.CreateMatches(ctx, []match.Match{
		{CompetitionID: 1, RoundID: round1.ID, Sequence: 1, Home: match.TeamRef(11), Away: match.TeamRef(12)},
		{CompetitionID: 1, RoundID: round1.ID, Sequence: 2, Home: match.TeamRef(13), Away: match.TeamRef(14)},
	})
	if err != nil {
		t.Fatalf("create semis: %v", err)
	}
	round2, _ := repo.CreateRound(ctx, match.Round{CompetitionID: 1, Name: "Final", Sequence: 2})
	final, err := repo.CreateMatches(ctx, []match.Match{
		{CompetitionID: 1, RoundID: round2.ID, Sequence: 1, Home: match.FeederRef(semis[0].ID), Away: match.FeederRef(semis[1].ID)},
	})
	if err != nil {
		t.Fatalf("create final: %v", err)
	}

	dependents, _ := repo.ListMatchesByFeeder(ctx, semis[1].ID)
	if len(dependents) != 1 || dependents[0].ID != final[0].ID {
		t.Fatalf("unexpected dependents: %+v", dependents)
	}

	all, _ := repo.ListMatchesByCompetition(ctx, 1)
	if len(all) != 3 || all[2].ID != final[0].ID {
		t.Fatalf("matches not ordered by round: %+v", all)
	}

	if _, err := repo.CreateMatches(ctx, []match.Match{
		{CompetitionID: 1, RoundID: round2.ID, Sequence: 2, Home: match.FeederRef(9999), Away: match.Unresolved()},
	}); err == nil {
		t.Fatalf("expected missing feeder to be rejected")
	}

	byName, ok, _ := repo.GetRoundByName(ctx, 1, "Final")
	if !ok || byName.ID != round2.ID {
		t.Fatalf("round by name: ok=%v round=%+v", ok, byName)
	}
}

func TestStatsRepository_IncrementClampsAndRanks(t *testing.T) {
	t.Parallel()

	store := NewStore()
	comp := store.AddCompetition(competition.Competition{Name: "Copa", System: competition.SystemPoints})
	home := store.AddTeam(team.Team{CompetitionID: comp.ID, Name: "Leões", Players: []team.Player{{Name: "Ana"}, {Name: "Bia"}}})
	ruleset := store.AddStatsRuleset(stats.Ruleset{CompetitionID: comp.ID, Types: []stats.Type{{Name: "Gols", Abbreviation: "GOL"}}})
	goals := ruleset.Types[0].ID

	ctx := t.Context()
	repos := store.Repositories()
	round, _ := repos.Matches.CreateRound(ctx, match.Round{CompetitionID: comp.ID, Name: "Rodada 1", Sequence: 1})
	created, _ := repos.Matches.CreateMatches(ctx, []match.Match{
		{CompetitionID: comp.ID, RoundID: round.ID, Sequence: 1, Home: match.TeamRef(home.ID), Away: match.TeamRef(home.ID + 100)},
	})
	matchID := created[0].ID

	ana, bia := home.Players[0].ID, home.Players[1].ID
	_ = repos.Stats.Increment(ctx, stats.PlayerStat{MatchID: matchID, PlayerID: ana, TypeID: goals, Value: 2})
	_ = repos.Stats.Increment(ctx, stats.PlayerStat{MatchID: matchID, PlayerID: bia, TypeID: goals, Value: 1})
	_ = repos.Stats.Increment(ctx, stats.PlayerStat{MatchID: matchID, PlayerID: bia, TypeID: goals, Value: -5})

	rows, err := repos.Stats.ListByMatch(ctx, matchID)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	for _, row := range rows {
		if row.Value < 0 {
			t.Fatalf("stat value below zero: %+v", row)
		}
	}

	ranking, err := repos.Stats.RankPlayers(ctx, comp.ID, goals, 1)
	if err != nil {
		t.Fatalf("rank players: %v", err)
	}
	if len(ranking) != 1 || ranking[0].PlayerID != ana || ranking[0].Total != 2 || ranking[0].Position != 1 {
		t.Fatalf("unexpected ranking: %+v", ranking)
	}
	if ranking[0].TeamName != "Leões" || ranking[0].PlayerName != "Ana" {
		t.Fatalf("ranking missing names: %+v", ranking[0])
	}
}

func TestNewSeededStore(t *testing.T) {
	t.Parallel()

	store := NewSeededStore()
	ctx := t.Context()
	repos := store.Repositories()

	for _, c := range SeedCompetitions() {
		got, ok, _ := repos.Competitions.GetByID(ctx, c.ID)
		if !ok || got.Status != competition.StatusPending || got.Ruleset == nil {
			t.Fatalf("seed competition %d: ok=%v got=%+v", c.ID, ok, got)
		}
	}
	teams, _ := repos.Teams.ListByCompetition(ctx, CompetitionIDGroupsCup)
	if len(teams) != 8 {
		t.Fatalf("groups cup teams: got=%d want=8", len(teams))
	}
	if teams[0].ID <= seedFirstDynamicID {
		t.Fatalf("team ids should follow the fixed competition ids, got %d", teams[0].ID)
	}
	if _, ok, _ := repos.Stats.GetRulesetByCompetition(ctx, CompetitionIDLeague); !ok {
		t.Fatalf("league should track player stats")
	}
}
