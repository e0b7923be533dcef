package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tournament-engine/internal/domain/classification"
	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
	"github.com/riskibarqy/tournament-engine/internal/domain/schedule"
	"github.com/riskibarqy/tournament-engine/internal/domain/uow"
	"github.com/riskibarqy/tournament-engine/internal/platform/logging"
	"github.com/riskibarqy/tournament-engine/internal/platform/metrics"
)

// GroupPhaseService promotes group qualifiers into the pre-built knockout bracket.
type GroupPhaseService struct {
	runner  uow.Runner
	logger  *logging.Logger
	metrics *metrics.Recorder
}

type AdvanceResult struct {
	CompetitionID  int64
	QualifiedCount int
	MatchesUpdated int
	RoundName      string
	Pairings       []Pairing
}

// Pairing is one resolved first-round knockout match.
type Pairing struct {
	MatchID    int64
	HomeLabel  string
	AwayLabel  string
	HomeTeamID int64
	AwayTeamID int64
}

type qualifier struct {
	Label  string
	TeamID int64
}

func NewGroupPhaseService(runner uow.Runner, logger *logging.Logger, recorder *metrics.Recorder) *GroupPhaseService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GroupPhaseService{
		runner:  runner,
		logger:  logger,
		metrics: recorder,
	}
}

// AdvanceGroupPhase ranks every group, pairs the qualifiers across groups and
// fills the first knockout round. Whether all group matches are finished is
// the caller's concern.
func (s *GroupPhaseService) AdvanceGroupPhase(ctx context.Context, competitionID int64) (result AdvanceResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupPhaseService.AdvanceGroupPhase")
	start := time.Now()
	defer func() { finishOperation(span, s.metrics, "advance_group_phase", start, err) }()

	if competitionID <= 0 {
		return AdvanceResult{}, fmt.Errorf("%w: competition id must be greater than zero", ErrInvalidInput)
	}

	err = s.runner.WithinTx(ctx, func(ctx context.Context, repos uow.Repositories) error {
		comp, exists, err := repos.Competitions.GetForUpdate(ctx, competitionID)
		if err != nil {
			return fmt.Errorf("get competition: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
		}
		if !comp.InGroupPhase() {
			return fmt.Errorf("%w: competition=%d system=%s phase=%q, expected %s in phase %s",
				ErrInvalidState, competitionID, comp.System, comp.CurrentPhase, competition.SystemMixed, competition.PhaseGroup)
		}
		perGroup := comp.TeamsQualifiedPerGroup
		if perGroup < 1 {
			return fmt.Errorf("%w: competition=%d teams_qualified_per_group=%d", ErrInvalidConfiguration, competitionID, perGroup)
		}

		groups, err := repos.Matches.ListGroups(ctx, competitionID)
		if err != nil {
			return fmt.Errorf("list groups: %w", err)
		}
		if len(groups) == 0 {
			return fmt.Errorf("%w: competition=%d has no groups", ErrNotFound, competitionID)
		}

		byGroup := make([][]qualifier, 0, len(groups))
		labels := make(map[string]int64, len(groups)*perGroup)
		for _, g := range groups {
			rows, err := repos.Classifications.ListByGroup(ctx, g.ID)
			if err != nil {
				return fmt.Errorf("list classifications for %s: %w", g.Name, err)
			}
			ranked := classification.Sort(rows)
			if len(ranked) < perGroup {
				return fmt.Errorf("%w: competition=%d group=%q rows=%d qualified_per_group=%d",
					ErrInsufficientParticipants, competitionID, g.Name, len(ranked), perGroup)
			}
			top := make([]qualifier, 0, perGroup)
			for pos, row := range ranked[:perGroup] {
				q := qualifier{Label: schedule.QualifierLabel(pos+1, g.Name), TeamID: row.TeamID}
				labels[q.Label] = q.TeamID
				top = append(top, q)
			}
			byGroup = append(byGroup, top)
		}

		totalQualified := len(groups) * perGroup
		roundName := schedule.KnockoutRoundName(totalQualified)
		round, exists, err := repos.Matches.GetRoundByName(ctx, competitionID, roundName)
		if err != nil {
			return fmt.Errorf("get knockout round: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: competition=%d round=%q", ErrNotFound, competitionID, roundName)
		}

		matches, err := repos.Matches.ListMatchesByRound(ctx, round.ID)
		if err != nil {
			return fmt.Errorf("list knockout matches: %w", err)
		}
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Sequence < matches[j].Sequence })

		pairs := crossoverPairings(byGroup, perGroup)
		if len(pairs) != len(matches) {
			return crerr.Wrapf(ErrInconsistency, "competition=%d round=%q pairings=%d matches=%d",
				competitionID, roundName, len(pairs), len(matches))
		}

		pairings := make([]Pairing, 0, len(pairs))
		for i, pair := range pairs {
			homeID, ok := labels[pair[0].Label]
			if !ok {
				return fmt.Errorf("%w: competition=%d placeholder=%q", ErrNotFound, competitionID, pair[0].Label)
			}
			awayID, ok := labels[pair[1].Label]
			if !ok {
				return fmt.Errorf("%w: competition=%d placeholder=%q", ErrNotFound, competitionID, pair[1].Label)
			}

			m := matches[i]
			m.Home = m.Home.Resolve(homeID)
			m.Away = m.Away.Resolve(awayID)
			m.Status = match.StatusScheduled
			if err := m.Validate(); err != nil {
				return crerr.Wrapf(ErrInconsistency, "competition=%d match=%d: %v", competitionID, m.ID, err)
			}
			if err := repos.Matches.UpdateMatch(ctx, m); err != nil {
				return fmt.Errorf("update knockout match %d: %w", m.ID, err)
			}
			pairings = append(pairings, Pairing{
				MatchID:    m.ID,
				HomeLabel:  pair[0].Label,
				AwayLabel:  pair[1].Label,
				HomeTeamID: homeID,
				AwayTeamID: awayID,
			})
		}

		moved, err := repos.Competitions.TransitionPhase(ctx, competitionID, competition.PhaseGroup, competition.PhaseElimination)
		if err != nil {
			return fmt.Errorf("update competition phase: %w", err)
		}
		if !moved {
			return fmt.Errorf("%w: competition=%d left phase %s concurrently", ErrInvalidState, competitionID, competition.PhaseGroup)
		}

		result = AdvanceResult{
			CompetitionID:  competitionID,
			QualifiedCount: totalQualified,
			MatchesUpdated: len(pairings),
			RoundName:      roundName,
			Pairings:       pairings,
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "advance group phase rejected", "competition_id", competitionID, "error", err)
		return AdvanceResult{}, err
	}

	s.logger.InfoContext(ctx, "group phase advanced",
		"competition_id", competitionID,
		"qualified", result.QualifiedCount,
		"matches_updated", result.MatchesUpdated,
		"round", result.RoundName,
	)
	return result, nil
}

// crossoverPairings seeds the first knockout round. With two qualifiers per
// group the runners-up are rotated right by one so every group winner meets a
// runner-up from another group. Any other count lists seeds position by
// position, reverses the second half and zips it against the first.
func crossoverPairings(byGroup [][]qualifier, perGroup int) [][2]qualifier {
	if perGroup == 2 {
		n := len(byGroup)
		pairs := make([][2]qualifier, 0, n)
		for i := range byGroup {
			runnerUp := byGroup[(i-1+n)%n][1]
			pairs = append(pairs, [2]qualifier{byGroup[i][0], runnerUp})
		}
		return pairs
	}

	seeds := make([]qualifier, 0, len(byGroup)*perGroup)
	for pos := 0; pos < perGroup; pos++ {
		for _, group := range byGroup {
			seeds = append(seeds, group[pos])
		}
	}
	half := len(seeds) / 2
	pairs := make([][2]qualifier, 0, half)
	for i := 0; i < half; i++ {
		pairs = append(pairs, [2]qualifier{seeds[i], seeds[len(seeds)-1-i]})
	}
	return pairs
}
