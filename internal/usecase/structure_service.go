package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tournament-engine/internal/domain/classification"
	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
	"github.com/riskibarqy/tournament-engine/internal/domain/schedule"
	"github.com/riskibarqy/tournament-engine/internal/domain/team"
	"github.com/riskibarqy/tournament-engine/internal/domain/uow"
	"github.com/riskibarqy/tournament-engine/internal/platform/logging"
	"github.com/riskibarqy/tournament-engine/internal/platform/metrics"
)

const minTeamsForStructure = 2

// StructureService turns a registered roster into rounds, matches, segments
// and standings rows.
type StructureService struct {
	runner   uow.Runner
	shuffler schedule.Shuffler
	logger   *logging.Logger
	metrics  *metrics.Recorder
}

type GenerateResult struct {
	CompetitionID   int64
	System          string
	Groups          int
	Rounds          int
	Matches         int
	Classifications int
}

func NewStructureService(runner uow.Runner, shuffler schedule.Shuffler, logger *logging.Logger, recorder *metrics.Recorder) *StructureService {
	if shuffler == nil {
		shuffler = schedule.NewRandShuffler(0)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StructureService{
		runner:   runner,
		shuffler: shuffler,
		logger:   logger,
		metrics:  recorder,
	}
}

// GenerateStructure builds the whole competition structure in one transaction
// and moves the competition from PENDING to STARTED.
func (s *StructureService) GenerateStructure(ctx context.Context, competitionID int64) (result GenerateResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StructureService.GenerateStructure")
	start := time.Now()
	defer func() { finishOperation(span, s.metrics, "generate_structure", start, err) }()

	if competitionID <= 0 {
		return GenerateResult{}, fmt.Errorf("%w: competition id must be greater than zero", ErrInvalidInput)
	}

	err = s.runner.WithinTx(ctx, func(ctx context.Context, repos uow.Repositories) error {
		comp, exists, err := repos.Competitions.GetForUpdate(ctx, competitionID)
		if err != nil {
			return fmt.Errorf("get competition: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
		}
		if comp.Status != competition.StatusPending {
			return fmt.Errorf("%w: competition=%d status=%s expected=%s",
				ErrInvalidState, competitionID, comp.Status, competition.StatusPending)
		}
		if comp.Ruleset == nil {
			return fmt.Errorf("%w: competition=%d has no sport ruleset", ErrMissingConfiguration, competitionID)
		}

		teams, err := repos.Teams.ListByCompetition(ctx, competitionID)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		if len(teams) < minTeamsForStructure {
			return fmt.Errorf("%w: competition=%d teams=%d required=%d",
				ErrInsufficientParticipants, competitionID, len(teams), minTeamsForStructure)
		}

		plan, err := s.buildPlan(comp, teams)
		if err != nil {
			return err
		}

		committed, err := commitPlan(ctx, repos.Matches, comp.ID, plan)
		if err != nil {
			return err
		}

		rows, err := initializeStandings(ctx, repos.Classifications, comp, teams, plan, committed)
		if err != nil {
			return err
		}

		phase := competition.PhaseNone
		if comp.System == competition.SystemMixed {
			phase = competition.PhaseGroup
		}
		moved, err := repos.Competitions.TransitionStatus(ctx, comp.ID, competition.StatusPending, competition.StatusStarted, phase)
		if err != nil {
			return fmt.Errorf("update competition status: %w", err)
		}
		if !moved {
			return fmt.Errorf("%w: competition=%d is no longer %s", ErrInvalidState, comp.ID, competition.StatusPending)
		}

		result = GenerateResult{
			CompetitionID:   comp.ID,
			System:          comp.System,
			Groups:          len(plan.Groups),
			Rounds:          len(plan.Rounds),
			Matches:         plan.MatchCount(),
			Classifications: rows,
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "generate structure rejected", "competition_id", competitionID, "error", err)
		return GenerateResult{}, err
	}

	s.metrics.RecordGeneratedMatches(result.System, result.Matches)
	s.logger.InfoContext(ctx, "competition structure generated",
		"competition_id", result.CompetitionID,
		"system", result.System,
		"groups", result.Groups,
		"rounds", result.Rounds,
		"matches", result.Matches,
	)
	return result, nil
}

func (s *StructureService) buildPlan(comp competition.Competition, teams []team.Team) (schedule.Plan, error) {
	ids := team.IDs(teams)

	var (
		plan schedule.Plan
		err  error
	)
	switch comp.System {
	case competition.SystemPoints:
		plan, err = schedule.RoundRobin(ids, *comp.Ruleset)
	case competition.SystemElimination:
		plan, err = schedule.SingleElimination(ids, *comp.Ruleset, s.shuffler)
	case competition.SystemMixed:
		plan, err = schedule.GroupStage(ids, schedule.GroupSettings{
			TeamsPerGroup:          comp.TeamsPerGroup,
			TeamsQualifiedPerGroup: comp.TeamsQualifiedPerGroup,
		}, *comp.Ruleset, s.shuffler)
	default:
		return schedule.Plan{}, fmt.Errorf("%w: competition=%d system=%q", ErrUnsupportedSystem, comp.ID, comp.System)
	}
	if err != nil {
		return schedule.Plan{}, translateScheduleError(comp.ID, err)
	}
	return plan, nil
}

func translateScheduleError(competitionID int64, err error) error {
	switch {
	case errors.Is(err, schedule.ErrTooFewTeams):
		return fmt.Errorf("%w: competition=%d: %w", ErrInsufficientParticipants, competitionID, err)
	case errors.Is(err, schedule.ErrInvalidGroupSettings), errors.Is(err, schedule.ErrQualifiersNotPowerOfTwo):
		return fmt.Errorf("%w: competition=%d: %w", ErrInvalidConfiguration, competitionID, err)
	default:
		return fmt.Errorf("build structure plan: %w", err)
	}
}

// committedPlan maps plan coordinates to stored ids.
type committedPlan struct {
	groupIDs []int64
	matchIDs [][]int64
}

// commitPlan stores the plan round by round. A round's matches are written
// only after every round they feed from has ids, so feeder coordinates can be
// swapped for stored match ids.
func commitPlan(ctx context.Context, repo match.Repository, competitionID int64, plan schedule.Plan) (committedPlan, error) {
	out := committedPlan{
		groupIDs: make([]int64, len(plan.Groups)),
		matchIDs: make([][]int64, len(plan.Rounds)),
	}

	for i, g := range plan.Groups {
		stored, err := repo.CreateGroup(ctx, match.Group{CompetitionID: competitionID, Name: g.Name})
		if err != nil {
			return committedPlan{}, fmt.Errorf("create group %s: %w", g.Name, err)
		}
		out.groupIDs[i] = stored.ID
	}

	for r, rp := range plan.Rounds {
		var groupID *int64
		if !rp.IsKnockout() {
			if rp.Group < 0 || rp.Group >= len(out.groupIDs) {
				return committedPlan{}, crerr.Wrapf(ErrInconsistency, "round %q references group %d of %d", rp.Name, rp.Group, len(out.groupIDs))
			}
			id := out.groupIDs[rp.Group]
			groupID = &id
		}

		round, err := repo.CreateRound(ctx, match.Round{
			CompetitionID: competitionID,
			GroupID:       groupID,
			Name:          rp.Name,
			Sequence:      r + 1,
		})
		if err != nil {
			return committedPlan{}, fmt.Errorf("create round %s: %w", rp.Name, err)
		}

		matches := make([]match.Match, 0, len(rp.Matches))
		for _, mp := range rp.Matches {
			home, err := resolvePlannedSlot(mp.Home, r, out.matchIDs)
			if err != nil {
				return committedPlan{}, err
			}
			away, err := resolvePlannedSlot(mp.Away, r, out.matchIDs)
			if err != nil {
				return committedPlan{}, err
			}
			m := match.Match{
				CompetitionID: competitionID,
				GroupID:       groupID,
				RoundID:       round.ID,
				Sequence:      mp.Sequence,
				Home:          home,
				Away:          away,
				Status:        match.InitialStatus(home, away),
				HasOvertime:   mp.HasOvertime,
				HasPenalties:  mp.HasPenalties,
			}
			if err := m.Validate(); err != nil {
				return committedPlan{}, crerr.Wrapf(ErrInconsistency, "round %q match %d: %v", rp.Name, mp.Sequence, err)
			}
			matches = append(matches, m)
		}
		if len(matches) == 0 {
			continue
		}

		stored, err := repo.CreateMatches(ctx, matches)
		if err != nil {
			return committedPlan{}, fmt.Errorf("create matches for %s: %w", rp.Name, err)
		}
		if len(stored) != len(matches) {
			return committedPlan{}, crerr.Wrapf(ErrInconsistency, "round %q stored %d matches, expected %d", rp.Name, len(stored), len(matches))
		}

		ids := make([]int64, len(stored))
		segments := make([]match.Segment, 0, len(stored)*len(rp.Matches[0].Segments))
		for i, m := range stored {
			ids[i] = m.ID
			for _, seg := range rp.Matches[i].Segments {
				seg.MatchID = m.ID
				segments = append(segments, seg)
			}
		}
		out.matchIDs[r] = ids

		if len(segments) > 0 {
			if err := repo.CreateSegments(ctx, segments); err != nil {
				return committedPlan{}, fmt.Errorf("create segments for %s: %w", rp.Name, err)
			}
		}
	}

	return out, nil
}

func resolvePlannedSlot(slot schedule.SlotPlan, current int, matchIDs [][]int64) (match.ParticipantRef, error) {
	switch slot.Kind {
	case match.SlotTeam:
		return match.TeamRef(slot.TeamID), nil
	case match.SlotFeeder:
		if slot.FeederRound < 0 || slot.FeederRound >= current {
			return match.ParticipantRef{}, crerr.Wrapf(ErrInconsistency, "round %d feeds from round %d", current, slot.FeederRound)
		}
		ids := matchIDs[slot.FeederRound]
		if slot.FeederMatch < 0 || slot.FeederMatch >= len(ids) {
			return match.ParticipantRef{}, crerr.Wrapf(ErrInconsistency, "round %d feeds from missing match %d of round %d", current, slot.FeederMatch, slot.FeederRound)
		}
		return match.FeederRef(ids[slot.FeederMatch]), nil
	default:
		return match.Unresolved(), nil
	}
}

// initializeStandings creates one zeroed row per team, scoped to its group for
// MIXED competitions.
func initializeStandings(
	ctx context.Context,
	repo classification.Repository,
	comp competition.Competition,
	teams []team.Team,
	plan schedule.Plan,
	committed committedPlan,
) (int, error) {
	rows := make([]classification.Classification, 0, len(teams))
	if comp.System == competition.SystemMixed {
		for i, g := range plan.Groups {
			groupID := committed.groupIDs[i]
			for _, teamID := range g.TeamIDs {
				gid := groupID
				rows = append(rows, classification.Zero(comp.ID, &gid, teamID))
			}
		}
	} else {
		for _, t := range teams {
			rows = append(rows, classification.Zero(comp.ID, nil, t.ID))
		}
	}

	if err := repo.CreateBatch(ctx, rows); err != nil {
		return 0, fmt.Errorf("initialize classifications: %w", err)
	}
	return len(rows), nil
}
