package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
	"github.com/riskibarqy/tournament-engine/internal/domain/stats"
	"github.com/riskibarqy/tournament-engine/internal/domain/uow"
	"github.com/riskibarqy/tournament-engine/internal/platform/logging"
	"github.com/riskibarqy/tournament-engine/internal/platform/metrics"
)

const (
	scoreModeIncrement = "increment"
	scoreModeAbsolute  = "absolute"
)

// MatchService applies live score updates and moves matches through their
// lifecycle.
type MatchService struct {
	runner  uow.Runner
	logger  *logging.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

type RegisterScoreInput struct {
	MatchID   int64
	Side      string
	Increment int
	SegmentID *int64
	Metric    string
	PlayerID  *int64
}

type SegmentScore struct {
	SegmentID int64
	HomeScore int
	AwayScore int
	Finished  *bool
}

type StatsEvent struct {
	PlayerID int64
	Metric   string
	Value    int
}

type SetScoreInput struct {
	MatchID     int64
	HomeScore   int
	AwayScore   int
	Segments    []SegmentScore
	StatsEvents []StatsEvent
}

type FinishResult struct {
	Match    match.Match
	Advanced []match.Match
}

func NewMatchService(runner uow.Runner, logger *logging.Logger, recorder *metrics.Recorder) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		runner:  runner,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// RegisterScore adds an increment for one side. With a segment the segment is
// changed and the match total recomputed from all segments; without one the
// match total is changed directly. Scores never drop below zero. A zero
// increment changes nothing and is rejected as invalid input.
func (s *MatchService) RegisterScore(ctx context.Context, input RegisterScoreInput) (updated match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RegisterScore")
	start := time.Now()
	defer func() { finishOperation(span, s.metrics, "register_score", start, err) }()

	if input.MatchID <= 0 {
		return match.Match{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}
	side, ok := match.NormalizeSide(input.Side)
	if !ok {
		return match.Match{}, fmt.Errorf("%w: team side must be %s or %s, got %q", ErrInvalidInput, match.SideHome, match.SideAway, input.Side)
	}
	if input.Increment == 0 {
		return match.Match{}, fmt.Errorf("%w: increment must not be zero", ErrInvalidInput)
	}

	err = s.runner.WithinTx(ctx, func(ctx context.Context, repos uow.Repositories) error {
		m, err := loadLiveMatch(ctx, repos, input.MatchID)
		if err != nil {
			return err
		}

		var event *resolvedStat
		ruleset, tracked, err := repos.Stats.GetRulesetByCompetition(ctx, m.CompetitionID)
		if err != nil {
			return fmt.Errorf("get stats ruleset: %w", err)
		}
		if tracked {
			if input.PlayerID == nil || strings.TrimSpace(input.Metric) == "" {
				return fmt.Errorf("%w: competition=%d tracks player stats, player_id and stats_metric are required",
					ErrInvalidInput, m.CompetitionID)
			}
			resolved, err := resolveStatsEvent(ctx, repos, ruleset, m, StatsEvent{
				PlayerID: *input.PlayerID,
				Metric:   input.Metric,
				Value:    input.Increment,
			})
			if err != nil {
				return err
			}
			event = &resolved
		}

		if input.SegmentID != nil {
			segments, err := repos.Matches.ListSegments(ctx, m.ID)
			if err != nil {
				return fmt.Errorf("list segments: %w", err)
			}
			idx := segmentIndex(segments, *input.SegmentID)
			if idx < 0 {
				return fmt.Errorf("%w: segment=%d match=%d", ErrNotFound, *input.SegmentID, m.ID)
			}
			seg := &segments[idx]
			if side == match.SideHome {
				seg.HomeScore = match.ClampScore(seg.HomeScore + input.Increment)
			} else {
				seg.AwayScore = match.ClampScore(seg.AwayScore + input.Increment)
			}
			if err := repos.Matches.UpdateSegment(ctx, *seg); err != nil {
				return fmt.Errorf("update segment %d: %w", seg.ID, err)
			}
			m.HomeScore, m.AwayScore = match.SumSegments(segments)
		} else if side == match.SideHome {
			m.HomeScore = match.ClampScore(m.HomeScore + input.Increment)
		} else {
			m.AwayScore = match.ClampScore(m.AwayScore + input.Increment)
		}

		if err := repos.Matches.UpdateMatch(ctx, m); err != nil {
			return fmt.Errorf("update match %d: %w", m.ID, err)
		}
		if event != nil {
			if err := repos.Stats.Increment(ctx, event.stat); err != nil {
				return fmt.Errorf("increment player stat: %w", err)
			}
		}

		updated = m
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "register score rejected", "match_id", input.MatchID, "error", err)
		return match.Match{}, err
	}

	s.metrics.RecordScoreUpdate(scoreModeIncrement)
	s.logger.InfoContext(ctx, "score registered",
		"match_id", updated.ID,
		"side", side,
		"increment", input.Increment,
		"home_score", updated.HomeScore,
		"away_score", updated.AwayScore,
	)
	return updated, nil
}

// SetScore overwrites the score. Named segments are set to absolute values and
// the match total becomes their sum; otherwise the totals are set directly.
// Stats events add their value to each player's stat row.
func (s *MatchService) SetScore(ctx context.Context, input SetScoreInput) (updated match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SetScore")
	start := time.Now()
	defer func() { finishOperation(span, s.metrics, "set_score", start, err) }()

	if input.MatchID <= 0 {
		return match.Match{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return match.Match{}, fmt.Errorf("%w: scores cannot be negative", ErrInvalidInput)
	}
	for _, seg := range input.Segments {
		if seg.SegmentID <= 0 {
			return match.Match{}, fmt.Errorf("%w: segment id must be greater than zero", ErrInvalidInput)
		}
		if seg.HomeScore < 0 || seg.AwayScore < 0 {
			return match.Match{}, fmt.Errorf("%w: segment=%d scores cannot be negative", ErrInvalidInput, seg.SegmentID)
		}
	}

	err = s.runner.WithinTx(ctx, func(ctx context.Context, repos uow.Repositories) error {
		m, err := loadLiveMatch(ctx, repos, input.MatchID)
		if err != nil {
			return err
		}

		var events []resolvedStat
		if len(input.StatsEvents) > 0 {
			ruleset, tracked, err := repos.Stats.GetRulesetByCompetition(ctx, m.CompetitionID)
			if err != nil {
				return fmt.Errorf("get stats ruleset: %w", err)
			}
			if tracked {
				events = make([]resolvedStat, 0, len(input.StatsEvents))
				for _, ev := range input.StatsEvents {
					resolved, err := resolveStatsEvent(ctx, repos, ruleset, m, ev)
					if err != nil {
						return err
					}
					events = append(events, resolved)
				}
			}
		}

		if len(input.Segments) > 0 {
			segments, err := repos.Matches.ListSegments(ctx, m.ID)
			if err != nil {
				return fmt.Errorf("list segments: %w", err)
			}
			for _, in := range input.Segments {
				idx := segmentIndex(segments, in.SegmentID)
				if idx < 0 {
					return fmt.Errorf("%w: segment=%d match=%d", ErrNotFound, in.SegmentID, m.ID)
				}
				seg := &segments[idx]
				seg.HomeScore = in.HomeScore
				seg.AwayScore = in.AwayScore
				if in.Finished != nil {
					seg.Finished = *in.Finished
				}
				if err := repos.Matches.UpdateSegment(ctx, *seg); err != nil {
					return fmt.Errorf("update segment %d: %w", seg.ID, err)
				}
			}
			m.HomeScore, m.AwayScore = match.SumSegments(segments)
		} else {
			m.HomeScore, m.AwayScore = input.HomeScore, input.AwayScore
		}

		if err := repos.Matches.UpdateMatch(ctx, m); err != nil {
			return fmt.Errorf("update match %d: %w", m.ID, err)
		}
		for _, ev := range events {
			if err := repos.Stats.Increment(ctx, ev.stat); err != nil {
				return fmt.Errorf("increment player stat: %w", err)
			}
		}

		updated = m
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "set score rejected", "match_id", input.MatchID, "error", err)
		return match.Match{}, err
	}

	s.metrics.RecordScoreUpdate(scoreModeAbsolute)
	s.logger.InfoContext(ctx, "score set",
		"match_id", updated.ID,
		"home_score", updated.HomeScore,
		"away_score", updated.AwayScore,
		"segments", len(input.Segments),
		"stats_events", len(input.StatsEvents),
	)
	return updated, nil
}

// StartMatch moves a scheduled match with two known teams to LIVE.
func (s *MatchService) StartMatch(ctx context.Context, matchID int64) (updated match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.StartMatch")
	start := time.Now()
	defer func() { finishOperation(span, s.metrics, "start_match", start, err) }()

	if matchID <= 0 {
		return match.Match{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}

	err = s.runner.WithinTx(ctx, func(ctx context.Context, repos uow.Repositories) error {
		m, exists, err := repos.Matches.GetMatchForUpdate(ctx, matchID)
		if err != nil {
			return fmt.Errorf("get match: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
		}
		if m.Status != match.StatusScheduled || !m.HasBothTeams() {
			return fmt.Errorf("%w: match=%d status=%s expected=%s", ErrInvalidMatchState, matchID, m.Status, match.StatusScheduled)
		}
		if m.ScheduledAt == nil {
			now := s.now().UTC()
			m.ScheduledAt = &now
		}
		m.Status = match.StatusLive
		if err := repos.Matches.UpdateMatch(ctx, m); err != nil {
			return fmt.Errorf("update match %d: %w", m.ID, err)
		}
		updated = m
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match started", "match_id", updated.ID)
	return updated, nil
}

// FinishMatch closes a live match, records the winner and places the winner
// into every match fed by this one. Knockout matches cannot end level.
func (s *MatchService) FinishMatch(ctx context.Context, matchID int64) (result FinishResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.FinishMatch")
	start := time.Now()
	defer func() { finishOperation(span, s.metrics, "finish_match", start, err) }()

	if matchID <= 0 {
		return FinishResult{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}

	err = s.runner.WithinTx(ctx, func(ctx context.Context, repos uow.Repositories) error {
		m, err := loadLiveMatch(ctx, repos, matchID)
		if err != nil {
			return err
		}
		comp, exists, err := repos.Competitions.GetByID(ctx, m.CompetitionID)
		if err != nil {
			return fmt.Errorf("get competition: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: competition=%d", ErrNotFound, m.CompetitionID)
		}
		dependents, err := repos.Matches.ListMatchesByFeeder(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("list dependent matches: %w", err)
		}

		winner, decided := m.Winner()
		if !decided && (isKnockoutMatch(comp, m) || len(dependents) > 0) {
			return fmt.Errorf("%w: knockout match=%d cannot finish level at %d-%d",
				ErrInvalidMatchState, m.ID, m.HomeScore, m.AwayScore)
		}

		segments, err := repos.Matches.ListSegments(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("list segments: %w", err)
		}
		for _, seg := range segments {
			if seg.Finished {
				continue
			}
			seg.Finished = true
			if err := repos.Matches.UpdateSegment(ctx, seg); err != nil {
				return fmt.Errorf("close segment %d: %w", seg.ID, err)
			}
		}

		m.Status = match.StatusFinished
		if decided {
			m.WinnerTeamID = &winner
		}
		if err := repos.Matches.UpdateMatch(ctx, m); err != nil {
			return fmt.Errorf("update match %d: %w", m.ID, err)
		}

		advanced := make([]match.Match, 0, len(dependents))
		for _, next := range dependents {
			if id, ok := next.Home.FeederMatchID(); ok && id == m.ID {
				next.Home = next.Home.Resolve(winner)
			}
			if id, ok := next.Away.FeederMatchID(); ok && id == m.ID {
				next.Away = next.Away.Resolve(winner)
			}
			if next.Status == match.StatusPending && next.HasBothTeams() {
				next.Status = match.StatusScheduled
			}
			if err := next.Validate(); err != nil {
				return fmt.Errorf("%w: match=%d: %v", ErrInconsistency, next.ID, err)
			}
			if err := repos.Matches.UpdateMatch(ctx, next); err != nil {
				return fmt.Errorf("advance winner into match %d: %w", next.ID, err)
			}
			advanced = append(advanced, next)
		}

		result = FinishResult{Match: m, Advanced: advanced}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "finish match rejected", "match_id", matchID, "error", err)
		return FinishResult{}, err
	}

	s.logger.InfoContext(ctx, "match finished",
		"match_id", result.Match.ID,
		"home_score", result.Match.HomeScore,
		"away_score", result.Match.AwayScore,
		"advanced", len(result.Advanced),
	)
	return result, nil
}

func loadLiveMatch(ctx context.Context, repos uow.Repositories, matchID int64) (match.Match, error) {
	m, exists, err := repos.Matches.GetMatchForUpdate(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}
	if !match.IsLiveStatus(m.Status) {
		return match.Match{}, fmt.Errorf("%w: match=%d status=%s expected=%s", ErrInvalidMatchState, matchID, m.Status, match.StatusLive)
	}
	return m, nil
}

type resolvedStat struct {
	stat stats.PlayerStat
}

// resolveStatsEvent checks the metric against the ruleset and the player
// against the two teams on the match.
func resolveStatsEvent(ctx context.Context, repos uow.Repositories, ruleset stats.Ruleset, m match.Match, ev StatsEvent) (resolvedStat, error) {
	if ev.PlayerID <= 0 {
		return resolvedStat{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}
	statType, ok := ruleset.TypeByAbbreviation(ev.Metric)
	if !ok {
		return resolvedStat{}, fmt.Errorf("%w: metric=%q competition=%d", ErrInvalidMetric, ev.Metric, m.CompetitionID)
	}

	player, exists, err := repos.Teams.GetPlayer(ctx, ev.PlayerID)
	if err != nil {
		return resolvedStat{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return resolvedStat{}, fmt.Errorf("%w: player=%d", ErrNotFound, ev.PlayerID)
	}
	onMatch := false
	for _, teamID := range m.TeamIDs() {
		if teamID == player.TeamID {
			onMatch = true
			break
		}
	}
	if !onMatch {
		return resolvedStat{}, fmt.Errorf("%w: player=%d team=%d is not playing match=%d", ErrInvalidInput, player.ID, player.TeamID, m.ID)
	}

	return resolvedStat{stat: stats.PlayerStat{
		MatchID:  m.ID,
		PlayerID: player.ID,
		TypeID:   statType.ID,
		Value:    ev.Value,
	}}, nil
}

func segmentIndex(segments []match.Segment, segmentID int64) int {
	for i, seg := range segments {
		if seg.ID == segmentID {
			return i
		}
	}
	return -1
}

func isKnockoutMatch(comp competition.Competition, m match.Match) bool {
	switch comp.System {
	case competition.SystemElimination:
		return true
	case competition.SystemMixed:
		return m.GroupID == nil
	default:
		return false
	}
}
