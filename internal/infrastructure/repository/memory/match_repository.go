package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/tournament-engine/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

func (r *MatchRepository) CreateGroup(_ context.Context, group match.Group) (match.Group, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	group.ID = r.store.nextID()
	r.store.data.groups[group.ID] = group
	return group, nil
}

func (r *MatchRepository) CreateRound(_ context.Context, round match.Round) (match.Round, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if round.GroupID != nil {
		if _, ok := r.store.data.groups[*round.GroupID]; !ok {
			return match.Round{}, fmt.Errorf("group %d does not exist", *round.GroupID)
		}
	}
	round.ID = r.store.nextID()
	r.store.data.rounds[round.ID] = round
	return round, nil
}

func (r *MatchRepository) CreateMatches(_ context.Context, matches []match.Match) ([]match.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		if _, ok := r.store.data.rounds[m.RoundID]; !ok {
			return nil, fmt.Errorf("round %d does not exist", m.RoundID)
		}
		for _, ref := range []match.ParticipantRef{m.Home, m.Away} {
			if feeder, ok := ref.FeederMatchID(); ok {
				if _, exists := r.store.data.matches[feeder]; !exists {
					return nil, fmt.Errorf("feeder match %d does not exist", feeder)
				}
			}
		}
		m.ID = r.store.nextID()
		r.store.data.matches[m.ID] = m
		out = append(out, m)
	}
	return out, nil
}

func (r *MatchRepository) CreateSegments(_ context.Context, segments []match.Segment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, seg := range segments {
		if _, ok := r.store.data.matches[seg.MatchID]; !ok {
			return fmt.Errorf("match %d does not exist", seg.MatchID)
		}
		seg.ID = r.store.nextID()
		r.store.data.segments[seg.ID] = seg
	}
	return nil
}

func (r *MatchRepository) ListGroups(_ context.Context, competitionID int64) ([]match.Group, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Group, 0)
	for _, g := range r.store.data.groups {
		if g.CompetitionID == competitionID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MatchRepository) ListRounds(_ context.Context, competitionID int64) ([]match.Round, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Round, 0)
	for _, round := range r.store.data.rounds {
		if round.CompetitionID == competitionID {
			out = append(out, round)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MatchRepository) GetRoundByName(_ context.Context, competitionID int64, name string) (match.Round, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var (
		found match.Round
		ok    bool
	)
	for _, round := range r.store.data.rounds {
		if round.CompetitionID != competitionID || round.Name != name {
			continue
		}
		if !ok || round.ID < found.ID {
			found, ok = round, true
		}
	}
	return found, ok, nil
}

func (r *MatchRepository) ListMatchesByRound(_ context.Context, roundID int64) ([]match.Match, error) {
	return r.filterMatches(func(m match.Match) bool { return m.RoundID == roundID }), nil
}

func (r *MatchRepository) ListMatchesByCompetition(_ context.Context, competitionID int64) ([]match.Match, error) {
	return r.filterMatches(func(m match.Match) bool { return m.CompetitionID == competitionID }), nil
}

func (r *MatchRepository) ListMatchesByFeeder(_ context.Context, feederMatchID int64) ([]match.Match, error) {
	return r.filterMatches(func(m match.Match) bool {
		home, _ := m.Home.FeederMatchID()
		away, _ := m.Away.FeederMatchID()
		return home == feederMatchID || away == feederMatchID
	}), nil
}

func (r *MatchRepository) GetMatch(_ context.Context, matchID int64) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m, ok := r.store.data.matches[matchID]
	return m, ok, nil
}

// GetMatchForUpdate relies on WithinTx serializing transactions.
func (r *MatchRepository) GetMatchForUpdate(ctx context.Context, matchID int64) (match.Match, bool, error) {
	return r.GetMatch(ctx, matchID)
}

func (r *MatchRepository) UpdateMatch(_ context.Context, m match.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.matches[m.ID]; !ok {
		return fmt.Errorf("match %d does not exist", m.ID)
	}
	r.store.data.matches[m.ID] = m
	return nil
}

func (r *MatchRepository) ListSegments(_ context.Context, matchID int64) ([]match.Segment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Segment, 0)
	for _, seg := range r.store.data.segments {
		if seg.MatchID == matchID {
			out = append(out, seg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *MatchRepository) UpdateSegment(_ context.Context, segment match.Segment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.segments[segment.ID]; !ok {
		return fmt.Errorf("segment %d does not exist", segment.ID)
	}
	r.store.data.segments[segment.ID] = segment
	return nil
}

func (r *MatchRepository) filterMatches(keep func(match.Match) bool) []match.Match {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.store.data.matches {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoundID != out[j].RoundID {
			return out[i].RoundID < out[j].RoundID
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out
}
