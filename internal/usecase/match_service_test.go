package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
	"github.com/riskibarqy/tournament-engine/internal/domain/stats"
	"github.com/riskibarqy/tournament-engine/internal/domain/team"
)

// startedLeague generates a four-team league and returns its first match, already LIVE.
func startedLeague(t *testing.T, e *engine) (competition.Competition, []team.Team, match.Match) {
	t.Helper()
	comp, teams := e.addCompetition(competition.Competition{System: competition.SystemPoints, Ruleset: twoHalves()}, 4)
	if _, err := e.structure.GenerateStructure(t.Context(), comp.ID); err != nil {
		t.Fatalf("generate structure: %v", err)
	}
	first := e.allMatches(t, comp.ID)[0]
	live, err := e.matches.StartMatch(t.Context(), first.ID)
	if err != nil {
		t.Fatalf("start match: %v", err)
	}
	return comp, teams, live
}

func segmentIDs(t *testing.T, e *engine, matchID int64) []int64 {
	t.Helper()
	segments, err := e.store.Repositories().Matches.ListSegments(t.Context(), matchID)
	if err != nil {
		t.Fatalf("list segments: %v", err)
	}
	out := make([]int64, 0, len(segments))
	for _, s := range segments {
		out = append(out, s.ID)
	}
	return out
}

func assertTotalsMatchSegments(t *testing.T, e *engine, m match.Match) {
	t.Helper()
	segments, _ := e.store.Repositories().Matches.ListSegments(t.Context(), m.ID)
	home, away := match.SumSegments(segments)
	stored, _, _ := e.store.Repositories().Matches.GetMatch(t.Context(), m.ID)
	if stored.HomeScore != home || stored.AwayScore != away {
		t.Fatalf("totals %d-%d differ from segment sum %d-%d", stored.HomeScore, stored.AwayScore, home, away)
	}
}

func TestMatchService_RegisterScore_RejectsMatchNotLive(t *testing.T) {
	t.Parallel()

	e := newEngine()
	comp, _ := e.addCompetition(competition.Competition{System: competition.SystemPoints, Ruleset: twoHalves()}, 4)
	if _, err := e.structure.GenerateStructure(t.Context(), comp.ID); err != nil {
		t.Fatalf("generate structure: %v", err)
	}
	scheduled := e.allMatches(t, comp.ID)[0]

	_, err := e.matches.RegisterScore(t.Context(), RegisterScoreInput{MatchID: scheduled.ID, Side: "home", Increment: 1})
	if !errors.Is(err, ErrInvalidMatchState) {
		t.Fatalf("expected ErrInvalidMatchState, got %v", err)
	}
	stored, _, _ := e.store.Repositories().Matches.GetMatch(t.Context(), scheduled.ID)
	if stored.HomeScore != 0 || stored.AwayScore != 0 {
		t.Fatalf("rejected score changed the match: %+v", stored)
	}
}

func TestMatchService_RegisterScore_SegmentsDriveTotals(t *testing.T) {
	t.Parallel()

	e := newEngine()
	_, _, live := startedLeague(t, e)
	segs := segmentIDs(t, e, live.ID)
	ctx := t.Context()

	steps := []RegisterScoreInput{
		{MatchID: live.ID, Side: "HOME", Increment: 2, SegmentID: &segs[0]},
		{MatchID: live.ID, Side: "away", Increment: 1, SegmentID: &segs[1]},
		{MatchID: live.ID, Side: "home", Increment: 1, SegmentID: &segs[1]},
		{MatchID: live.ID, Side: "home", Increment: -5, SegmentID: &segs[0]},
	}
	var got match.Match
	for i, in := range steps {
		var err error
		got, err = e.matches.RegisterScore(ctx, in)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		assertTotalsMatchSegments(t, e, got)
	}
	if got.HomeScore != 1 || got.AwayScore != 1 {
		t.Fatalf("final score: got=%d-%d want=1-1", got.HomeScore, got.AwayScore)
	}
}

func TestMatchService_RegisterScore_DirectIncrementClamps(t *testing.T) {
	t.Parallel()

	e := newEngine()
	_, _, live := startedLeague(t, e)

	got, err := e.matches.RegisterScore(t.Context(), RegisterScoreInput{MatchID: live.ID, Side: "away", Increment: -3})
	if err != nil {
		t.Fatalf("register score: %v", err)
	}
	if got.AwayScore != 0 {
		t.Fatalf("score dropped below zero: %d", got.AwayScore)
	}
}

func TestMatchService_RegisterScore_InvalidInput(t *testing.T) {
	t.Parallel()

	e := newEngine()
	_, _, live := startedLeague(t, e)
	missing := int64(999999)

	tests := []struct {
		name    string
		in      RegisterScoreInput
		wantErr error
	}{
		{name: "zero increment", in: RegisterScoreInput{MatchID: live.ID, Side: "home"}, wantErr: ErrInvalidInput},
		{name: "bad side", in: RegisterScoreInput{MatchID: live.ID, Side: "middle", Increment: 1}, wantErr: ErrInvalidInput},
		{name: "missing match", in: RegisterScoreInput{MatchID: missing, Side: "home", Increment: 1}, wantErr: ErrNotFound},
		{name: "missing segment", in: RegisterScoreInput{MatchID: live.ID, Side: "home", Increment: 1, SegmentID: &missing}, wantErr: ErrNotFound},
	}
	for _, tc := range tests {
		if _, err := e.matches.RegisterScore(t.Context(), tc.in); !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestMatchService_RegisterScore_TracksPlayerStats(t *testing.T) {
	t.Parallel()

	e := newEngine()
	comp, teams, live := startedLeague(t, e)
	e.store.AddStatsRuleset(stats.Ruleset{CompetitionID: comp.ID, Types: []stats.Type{{Name: "Gols", Abbreviation: "GOL"}}})

	ids := live.TeamIDs()
	var scorer, outsider team.Player
	for _, tm := range teams {
		switch tm.ID {
		case ids[0]:
			scorer = tm.Players[0]
		case ids[1]:
		default:
			outsider = tm.Players[0]
		}
	}
	ctx := t.Context()

	if _, err := e.matches.RegisterScore(ctx, RegisterScoreInput{MatchID: live.ID, Side: "home", Increment: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing player: expected ErrInvalidInput, got %v", err)
	}
	if _, err := e.matches.RegisterScore(ctx, RegisterScoreInput{MatchID: live.ID, Side: "home", Increment: 1, Metric: "AST", PlayerID: &scorer.ID}); !errors.Is(err, ErrInvalidMetric) {
		t.Fatalf("unknown metric: expected ErrInvalidMetric, got %v", err)
	}
	if _, err := e.matches.RegisterScore(ctx, RegisterScoreInput{MatchID: live.ID, Side: "home", Increment: 1, Metric: "GOL", PlayerID: &outsider.ID}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("outsider: expected ErrInvalidInput, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := e.matches.RegisterScore(ctx, RegisterScoreInput{MatchID: live.ID, Side: "home", Increment: 1, Metric: "gol", PlayerID: &scorer.ID}); err != nil {
			t.Fatalf("goal %d: %v", i, err)
		}
	}

	rankings, err := e.standings.GetPlayerRankings(ctx, comp.ID, "GOL", 0)
	if err != nil {
		t.Fatalf("player rankings: %v", err)
	}
	if len(rankings.Rows) != 1 || rankings.Rows[0].PlayerID != scorer.ID || rankings.Rows[0].Total != 2 {
		t.Fatalf("unexpected rankings: %+v", rankings.Rows)
	}
	stored, _, _ := e.store.Repositories().Matches.GetMatch(ctx, live.ID)
	if stored.HomeScore != 2 {
		t.Fatalf("home score: got=%d want=2", stored.HomeScore)
	}
}

func TestMatchService_SetScore(t *testing.T) {
	t.Parallel()

	e := newEngine()
	_, _, live := startedLeague(t, e)
	segs := segmentIDs(t, e, live.ID)
	finished := true

	got, err := e.matches.SetScore(t.Context(), SetScoreInput{
		MatchID: live.ID,
		Segments: []SegmentScore{
			{SegmentID: segs[0], HomeScore: 3, AwayScore: 1, Finished: &finished},
			{SegmentID: segs[1], HomeScore: 0, AwayScore: 2},
		},
	})
	if err != nil {
		t.Fatalf("set score: %v", err)
	}
	if got.HomeScore != 3 || got.AwayScore != 3 {
		t.Fatalf("score: got=%d-%d want=3-3", got.HomeScore, got.AwayScore)
	}
	assertTotalsMatchSegments(t, e, got)

	got, err = e.matches.SetScore(t.Context(), SetScoreInput{MatchID: live.ID, HomeScore: 4, AwayScore: 0})
	if err != nil {
		t.Fatalf("set totals: %v", err)
	}
	if got.HomeScore != 4 || got.AwayScore != 0 {
		t.Fatalf("totals: got=%d-%d want=4-0", got.HomeScore, got.AwayScore)
	}

	if _, err := e.matches.SetScore(t.Context(), SetScoreInput{MatchID: live.ID, HomeScore: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative score: expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_SetScore_StatsEvents(t *testing.T) {
	t.Parallel()

	e := newEngine()
	comp, teams, live := startedLeague(t, e)
	e.store.AddStatsRuleset(stats.Ruleset{CompetitionID: comp.ID, Types: []stats.Type{{Name: "Gols", Abbreviation: "GOL"}}})
	segs := segmentIDs(t, e, live.ID)
	ctx := t.Context()

	home := live.TeamIDs()[0]
	var scorer team.Player
	for _, tm := range teams {
		if tm.ID == home {
			scorer = tm.Players[0]
		}
	}

	if _, err := e.matches.SetScore(ctx, SetScoreInput{
		MatchID:     live.ID,
		HomeScore:   2,
		StatsEvents: []StatsEvent{{PlayerID: scorer.ID, Metric: "gol", Value: 2}},
	}); err != nil {
		t.Fatalf("set score with stats: %v", err)
	}

	assertSheet := func(step string) {
		t.Helper()
		sheet, err := e.standings.GetMatchSheet(ctx, live.ID)
		if err != nil {
			t.Fatalf("%s: match sheet: %v", step, err)
		}
		if sheet.Match.HomeScore != 2 || sheet.Match.AwayScore != 0 {
			t.Fatalf("%s: score got=%d-%d want=2-0", step, sheet.Match.HomeScore, sheet.Match.AwayScore)
		}
		for _, seg := range sheet.Segments {
			if seg.HomeScore != 0 || seg.AwayScore != 0 {
				t.Fatalf("%s: segment %d got=%d-%d want=0-0", step, seg.ID, seg.HomeScore, seg.AwayScore)
			}
		}
		if len(sheet.Stats) != 1 {
			t.Fatalf("%s: stats rows got=%d want=1: %+v", step, len(sheet.Stats), sheet.Stats)
		}
		row := sheet.Stats[0]
		if row.PlayerID != scorer.ID || row.Metric != "GOL" || row.Value != 2 {
			t.Fatalf("%s: unexpected stat row %+v", step, row)
		}
	}
	assertSheet("valid event")

	_, err := e.matches.SetScore(ctx, SetScoreInput{
		MatchID:  live.ID,
		Segments: []SegmentScore{{SegmentID: segs[0], HomeScore: 4, AwayScore: 1}},
		StatsEvents: []StatsEvent{
			{PlayerID: scorer.ID, Metric: "GOL", Value: 3},
			{PlayerID: scorer.ID, Metric: "AST", Value: 1},
		},
	})
	if !errors.Is(err, ErrInvalidMetric) {
		t.Fatalf("unknown metric in batch: expected ErrInvalidMetric, got %v", err)
	}
	assertSheet("unknown metric")

	_, err = e.matches.SetScore(ctx, SetScoreInput{
		MatchID: live.ID,
		Segments: []SegmentScore{
			{SegmentID: segs[0], HomeScore: 5, AwayScore: 5},
			{SegmentID: 999999, HomeScore: 1, AwayScore: 0},
		},
		StatsEvents: []StatsEvent{{PlayerID: scorer.ID, Metric: "GOL", Value: 1}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown segment: expected ErrNotFound, got %v", err)
	}
	assertSheet("unknown segment")
}

func TestMatchService_StartMatch(t *testing.T) {
	t.Parallel()

	e := newEngine()
	comp, _ := e.addCompetition(competition.Competition{System: competition.SystemElimination, Ruleset: twoHalves()}, 4)
	if _, err := e.structure.GenerateStructure(t.Context(), comp.ID); err != nil {
		t.Fatalf("generate structure: %v", err)
	}
	kickoff := time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)
	e.matches.now = func() time.Time { return kickoff }

	final := e.roundMatches(t, comp.ID, "Final")[0]
	if _, err := e.matches.StartMatch(t.Context(), final.ID); !errors.Is(err, ErrInvalidMatchState) {
		t.Fatalf("pending final: expected ErrInvalidMatchState, got %v", err)
	}

	semi := e.roundMatches(t, comp.ID, "Semifinais")[0]
	live, err := e.matches.StartMatch(t.Context(), semi.ID)
	if err != nil {
		t.Fatalf("start semifinal: %v", err)
	}
	if live.Status != match.StatusLive || live.ScheduledAt == nil || !live.ScheduledAt.Equal(kickoff) {
		t.Fatalf("unexpected live match: %+v", live)
	}
	if _, err := e.matches.StartMatch(t.Context(), semi.ID); !errors.Is(err, ErrInvalidMatchState) {
		t.Fatalf("restart: expected ErrInvalidMatchState, got %v", err)
	}
}

func TestMatchService_FinishMatch(t *testing.T) {
	t.Parallel()

	t.Run("league draw has no winner", func(t *testing.T) {
		t.Parallel()

		e := newEngine()
		_, _, live := startedLeague(t, e)
		res, err := e.matches.FinishMatch(t.Context(), live.ID)
		if err != nil {
			t.Fatalf("finish match: %v", err)
		}
		if res.Match.Status != match.StatusFinished || res.Match.WinnerTeamID != nil || len(res.Advanced) != 0 {
			t.Fatalf("unexpected result: %+v", res)
		}
		segments, _ := e.store.Repositories().Matches.ListSegments(t.Context(), live.ID)
		for _, s := range segments {
			if !s.Finished {
				t.Fatalf("segment %d left open", s.ID)
			}
		}
	})

	t.Run("knockout draw rejected", func(t *testing.T) {
		t.Parallel()

		e := newEngine()
		comp, _ := e.addCompetition(competition.Competition{System: competition.SystemElimination, Ruleset: twoHalves()}, 4)
		if _, err := e.structure.GenerateStructure(t.Context(), comp.ID); err != nil {
			t.Fatalf("generate structure: %v", err)
		}
		semi := e.roundMatches(t, comp.ID, "Semifinais")[0]
		if _, err := e.matches.StartMatch(t.Context(), semi.ID); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := e.matches.FinishMatch(t.Context(), semi.ID); !errors.Is(err, ErrInvalidMatchState) {
			t.Fatalf("expected ErrInvalidMatchState, got %v", err)
		}
		stored, _, _ := e.store.Repositories().Matches.GetMatch(t.Context(), semi.ID)
		if stored.Status != match.StatusLive {
			t.Fatalf("rejected finish changed status to %s", stored.Status)
		}
	})

	t.Run("preliminary winner fills the bye bracket", func(t *testing.T) {
		t.Parallel()

		e := newEngine()
		comp, teams := e.addCompetition(competition.Competition{System: competition.SystemElimination, Ruleset: twoHalves()}, 3)
		if _, err := e.structure.GenerateStructure(t.Context(), comp.ID); err != nil {
			t.Fatalf("generate structure: %v", err)
		}
		prelim := e.roundMatches(t, comp.ID, "Rodada Preliminar")[0]
		res := e.playMatch(t, prelim.ID, 1, 4)
		if res.Match.WinnerTeamID == nil || *res.Match.WinnerTeamID != teams[2].ID {
			t.Fatalf("winner: %+v", res.Match.WinnerTeamID)
		}
		if len(res.Advanced) != 1 {
			t.Fatalf("advanced=%d want=1", len(res.Advanced))
		}
		final := res.Advanced[0]
		away, ok := final.Away.TeamID()
		if !ok || away != teams[2].ID || final.Status != match.StatusScheduled {
			t.Fatalf("unexpected final: %+v", final)
		}
	})
}
