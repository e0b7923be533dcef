package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-engine/internal/domain/classification"
	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
	"github.com/riskibarqy/tournament-engine/internal/domain/stats"
	"github.com/riskibarqy/tournament-engine/internal/domain/team"
	"github.com/riskibarqy/tournament-engine/internal/platform/metrics"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"
)

const standingsFanOut = 8

// StandingsService is the read side: ranked tables, bracket views and player
// stat rankings.
type StandingsService struct {
	competitionRepo    competition.Repository
	teamRepo           team.Repository
	matchRepo          match.Repository
	classificationRepo classification.Repository
	statsRepo          stats.Repository
	metrics            *metrics.Recorder
}

type StandingRow struct {
	classification.RankedRow
	TeamName string
}

type StandingsTable struct {
	GroupID   *int64
	GroupName string
	Rows      []StandingRow
}

type BracketRound struct {
	Round   match.Round
	Matches []match.Match
}

// Standings holds either Tables or Bracket depending on system and phase.
type Standings struct {
	CompetitionID int64
	System        string
	Phase         string
	Tables        []StandingsTable
	Bracket       []BracketRound
}

type PlayerRankings struct {
	CompetitionID int64
	Metric        string
	MetricName    string
	Rows          []stats.PlayerRanking
}

func NewStandingsService(
	competitionRepo competition.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	classificationRepo classification.Repository,
	statsRepo stats.Repository,
	recorder *metrics.Recorder,
) *StandingsService {
	return &StandingsService{
		competitionRepo:    competitionRepo,
		teamRepo:           teamRepo,
		matchRepo:          matchRepo,
		classificationRepo: classificationRepo,
		statsRepo:          statsRepo,
		metrics:            recorder,
	}
}

// GetStandings returns one table for POINTS, one table per group while a MIXED
// competition is in its group phase, and the knockout bracket otherwise.
// limit > 0 caps every table.
func (s *StandingsService) GetStandings(ctx context.Context, competitionID int64, limit int) (out Standings, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.GetStandings")
	start := time.Now()
	defer func() { finishOperation(span, s.metrics, "get_standings", start, err) }()

	if competitionID <= 0 {
		return Standings{}, fmt.Errorf("%w: competition id must be greater than zero", ErrInvalidInput)
	}
	if limit < 0 {
		return Standings{}, fmt.Errorf("%w: limit cannot be negative", ErrInvalidInput)
	}

	comp, exists, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return Standings{}, fmt.Errorf("get competition: %w", err)
	}
	if !exists {
		return Standings{}, fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
	}

	out = Standings{
		CompetitionID: comp.ID,
		System:        comp.System,
		Phase:         comp.CurrentPhase,
	}

	switch {
	case comp.ShowsBracket():
		out.Bracket, err = s.bracket(ctx, comp)
	case comp.System == competition.SystemMixed:
		out.Tables, err = s.groupTables(ctx, comp, limit)
	case comp.System == competition.SystemPoints:
		out.Tables, err = s.leagueTable(ctx, comp, limit)
	default:
		err = fmt.Errorf("%w: competition=%d system=%q", ErrUnsupportedSystem, comp.ID, comp.System)
	}
	if err != nil {
		return Standings{}, err
	}
	return out, nil
}

func (s *StandingsService) leagueTable(ctx context.Context, comp competition.Competition, limit int) ([]StandingsTable, error) {
	rows, err := s.classificationRepo.ListByCompetition(ctx, comp.ID)
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	names, err := s.teamNames(ctx, comp.ID)
	if err != nil {
		return nil, err
	}
	return []StandingsTable{{Rows: withTeamNames(classification.Rank(rows, limit), names)}}, nil
}

// groupTables ranks every group concurrently; tables keep group order.
func (s *StandingsService) groupTables(ctx context.Context, comp competition.Competition, limit int) ([]StandingsTable, error) {
	groups, err := s.matchRepo.ListGroups(ctx, comp.ID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	names, err := s.teamNames(ctx, comp.ID)
	if err != nil {
		return nil, err
	}

	tables := make([]StandingsTable, len(groups))
	p := pool.New().WithMaxGoroutines(standingsFanOut).WithErrors().WithContext(ctx)
	for i, g := range groups {
		i, g := i, g
		p.Go(func(ctx context.Context) error {
			rows, err := s.classificationRepo.ListByGroup(ctx, g.ID)
			if err != nil {
				return fmt.Errorf("list classifications for %s: %w", g.Name, err)
			}
			groupID := g.ID
			tables[i] = StandingsTable{
				GroupID:   &groupID,
				GroupName: g.Name,
				Rows:      withTeamNames(classification.Rank(rows, limit), names),
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// bracket lists knockout rounds in creation order with their matches. Group
// rounds of a MIXED competition are left out.
func (s *StandingsService) bracket(ctx context.Context, comp competition.Competition) ([]BracketRound, error) {
	rounds, err := s.matchRepo.ListRounds(ctx, comp.ID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	knockout := make([]match.Round, 0, len(rounds))
	for _, r := range rounds {
		if comp.System == competition.SystemMixed && !r.IsKnockout() {
			continue
		}
		knockout = append(knockout, r)
	}
	sort.SliceStable(knockout, func(i, j int) bool { return knockout[i].Sequence < knockout[j].Sequence })

	out := make([]BracketRound, len(knockout))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(standingsFanOut)
	for i, r := range knockout {
		i, r := i, r
		g.Go(func() error {
			matches, err := s.matchRepo.ListMatchesByRound(gctx, r.ID)
			if err != nil {
				return fmt.Errorf("list matches for %s: %w", r.Name, err)
			}
			sort.SliceStable(matches, func(a, b int) bool { return matches[a].Sequence < matches[b].Sequence })
			out[i] = BracketRound{Round: r, Matches: matches}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPlayerRankings sums a metric per player across the competition.
func (s *StandingsService) GetPlayerRankings(ctx context.Context, competitionID int64, metric string, limit int) (out PlayerRankings, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.GetPlayerRankings")
	start := time.Now()
	defer func() { finishOperation(span, s.metrics, "get_player_rankings", start, err) }()

	if competitionID <= 0 {
		return PlayerRankings{}, fmt.Errorf("%w: competition id must be greater than zero", ErrInvalidInput)
	}
	metric = strings.TrimSpace(metric)
	if metric == "" {
		return PlayerRankings{}, fmt.Errorf("%w: metric is required", ErrInvalidInput)
	}
	if limit < 0 {
		return PlayerRankings{}, fmt.Errorf("%w: limit cannot be negative", ErrInvalidInput)
	}

	_, exists, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return PlayerRankings{}, fmt.Errorf("get competition: %w", err)
	}
	if !exists {
		return PlayerRankings{}, fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
	}

	ruleset, tracked, err := s.statsRepo.GetRulesetByCompetition(ctx, competitionID)
	if err != nil {
		return PlayerRankings{}, fmt.Errorf("get stats ruleset: %w", err)
	}
	if !tracked {
		return PlayerRankings{}, fmt.Errorf("%w: competition=%d has no stats ruleset", ErrMissingConfiguration, competitionID)
	}
	statType, ok := ruleset.TypeByAbbreviation(metric)
	if !ok {
		return PlayerRankings{}, fmt.Errorf("%w: metric=%q competition=%d", ErrInvalidMetric, metric, competitionID)
	}

	rows, err := s.statsRepo.RankPlayers(ctx, competitionID, statType.ID, limit)
	if err != nil {
		return PlayerRankings{}, fmt.Errorf("rank players: %w", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Position = i + 1
	}

	return PlayerRankings{
		CompetitionID: competitionID,
		Metric:        stats.NormalizeAbbreviation(statType.Abbreviation),
		MetricName:    statType.Name,
		Rows:          rows,
	}, nil
}

func (s *StandingsService) teamNames(ctx context.Context, competitionID int64) (map[int64]string, error) {
	teams, err := s.teamRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	out := make(map[int64]string, len(teams))
	for _, t := range teams {
		out[t.ID] = t.Name
	}
	return out, nil
}

func withTeamNames(rows []classification.RankedRow, names map[int64]string) []StandingRow {
	out := make([]StandingRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, StandingRow{RankedRow: row, TeamName: names[row.TeamID]})
	}
	return out
}

// MatchSheet is one match with its segments and the player stats recorded in it.
type MatchSheet struct {
	Match    match.Match
	Segments []match.Segment
	Stats    []MatchStat
}

type MatchStat struct {
	stats.PlayerStat
	Metric string
}

// GetMatchSheet returns a match with its segments in order. Player stats are
// listed only when the competition tracks them.
func (s *StandingsService) GetMatchSheet(ctx context.Context, matchID int64) (out MatchSheet, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.GetMatchSheet")
	start := time.Now()
	defer func() { finishOperation(span, s.metrics, "get_match_sheet", start, err) }()

	if matchID <= 0 {
		return MatchSheet{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetMatch(ctx, matchID)
	if err != nil {
		return MatchSheet{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return MatchSheet{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}

	segments, err := s.matchRepo.ListSegments(ctx, m.ID)
	if err != nil {
		return MatchSheet{}, fmt.Errorf("list segments: %w", err)
	}
	sort.SliceStable(segments, func(i, j int) bool { return segments[i].Sequence < segments[j].Sequence })

	out = MatchSheet{Match: m, Segments: segments, Stats: []MatchStat{}}

	ruleset, tracked, err := s.statsRepo.GetRulesetByCompetition(ctx, m.CompetitionID)
	if err != nil {
		return MatchSheet{}, fmt.Errorf("get stats ruleset: %w", err)
	}
	if !tracked {
		return out, nil
	}

	rows, err := s.statsRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return MatchSheet{}, fmt.Errorf("list player stats: %w", err)
	}
	abbreviations := make(map[int64]string, len(ruleset.Types))
	for _, t := range ruleset.Types {
		abbreviations[t.ID] = stats.NormalizeAbbreviation(t.Abbreviation)
	}
	for _, row := range rows {
		out.Stats = append(out.Stats, MatchStat{PlayerStat: row, Metric: abbreviations[row.TypeID]})
	}
	return out, nil
}

// ListFixtures lists every match of a competition by round order, then by
// sequence. A non-empty status keeps only matches in that status.
func (s *StandingsService) ListFixtures(ctx context.Context, competitionID int64, status string) (out []match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListFixtures")
	start := time.Now()
	defer func() { finishOperation(span, s.metrics, "list_fixtures", start, err) }()

	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id must be greater than zero", ErrInvalidInput)
	}
	if strings.TrimSpace(status) != "" {
		normalized, ok := match.NormalizeStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, status)
		}
		status = normalized
	}

	_, exists, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("get competition: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
	}

	rounds, err := s.matchRepo.ListRounds(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	order := make(map[int64]int, len(rounds))
	for _, r := range rounds {
		order[r.ID] = r.Sequence
	}

	matches, err := s.matchRepo.ListMatchesByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out = make([]match.Match, 0, len(matches))
	for _, m := range matches {
		if status != "" && m.Status != status {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order[out[i].RoundID] != order[out[j].RoundID] {
			return order[out[i].RoundID] < order[out[j].RoundID]
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out, nil
}
