package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/riskibarqy/tournament-engine/internal/domain/classification"
	"github.com/riskibarqy/tournament-engine/internal/domain/competition"
	"github.com/riskibarqy/tournament-engine/internal/domain/match"
	"github.com/riskibarqy/tournament-engine/internal/domain/stats"
	"github.com/riskibarqy/tournament-engine/internal/domain/team"
	"github.com/riskibarqy/tournament-engine/internal/domain/uow"
)

type statKey struct {
	matchID  int64
	playerID int64
	typeID   int64
}

type state struct {
	nextID          int64
	competitions    map[int64]competition.Competition
	teams           map[int64]team.Team
	players         map[int64]team.Player
	groups          map[int64]match.Group
	rounds          map[int64]match.Round
	matches         map[int64]match.Match
	segments        map[int64]match.Segment
	classifications map[int64]classification.Classification
	statsRulesets   map[int64]stats.Ruleset
	playerStats     map[statKey]int
}

func newState() state {
	return state{
		competitions:    make(map[int64]competition.Competition),
		teams:           make(map[int64]team.Team),
		players:         make(map[int64]team.Player),
		groups:          make(map[int64]match.Group),
		rounds:          make(map[int64]match.Round),
		matches:         make(map[int64]match.Match),
		segments:        make(map[int64]match.Segment),
		classifications: make(map[int64]classification.Classification),
		statsRulesets:   make(map[int64]stats.Ruleset),
		playerStats:     make(map[statKey]int),
	}
}

// clone copies every table. Stored values are never mutated in place, so a
// shallow copy of each map is a full snapshot.
func (s state) clone() state {
	return state{
		nextID:          s.nextID,
		competitions:    maps.Clone(s.competitions),
		teams:           maps.Clone(s.teams),
		players:         maps.Clone(s.players),
		groups:          maps.Clone(s.groups),
		rounds:          maps.Clone(s.rounds),
		matches:         maps.Clone(s.matches),
		segments:        maps.Clone(s.segments),
		classifications: maps.Clone(s.classifications),
		statsRulesets:   maps.Clone(s.statsRulesets),
		playerStats:     maps.Clone(s.playerStats),
	}
}

// Store keeps the whole engine dataset in memory. Transactions are serialized
// and roll back by restoring a snapshot taken when they began.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) nextID() int64 {
	s.data.nextID++
	return s.data.nextID
}

// Repositories returns repositories reading and writing the store directly.
func (s *Store) Repositories() uow.Repositories {
	return uow.Repositories{
		Competitions:    &CompetitionRepository{store: s},
		Teams:           &TeamRepository{store: s},
		Matches:         &MatchRepository{store: s},
		Classifications: &ClassificationRepository{store: s},
		Stats:           &StatsRepository{store: s},
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos uow.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx, s.Repositories()); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// AddCompetition stores a competition; a zero id is assigned from the sequence.
func (s *Store) AddCompetition(c competition.Competition) competition.Competition {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == 0 {
		c.ID = s.nextID()
	} else if c.ID > s.data.nextID {
		s.data.nextID = c.ID
	}
	if c.Status == "" {
		c.Status = competition.StatusPending
	}
	if c.Ruleset != nil {
		ruleset := *c.Ruleset
		if ruleset.ID == 0 {
			ruleset.ID = s.nextID()
		}
		ruleset.CompetitionID = c.ID
		c.Ruleset = &ruleset
	}
	s.data.competitions[c.ID] = c
	return c
}

// AddTeam stores a team and its roster.
func (s *Store) AddTeam(t team.Team) team.Team {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == 0 {
		t.ID = s.nextID()
	} else if t.ID > s.data.nextID {
		s.data.nextID = t.ID
	}
	players := make([]team.Player, 0, len(t.Players))
	for _, p := range t.Players {
		if p.ID == 0 {
			p.ID = s.nextID()
		} else if p.ID > s.data.nextID {
			s.data.nextID = p.ID
		}
		p.TeamID = t.ID
		s.data.players[p.ID] = p
		players = append(players, p)
	}
	t.Players = players
	s.data.teams[t.ID] = t
	return t
}

// AddStatsRuleset attaches a metric catalogue to a competition.
func (s *Store) AddStatsRuleset(r stats.Ruleset) stats.Ruleset {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == 0 {
		r.ID = s.nextID()
	}
	types := make([]stats.Type, 0, len(r.Types))
	for _, t := range r.Types {
		if t.ID == 0 {
			t.ID = s.nextID()
		}
		t.RulesetID = r.ID
		types = append(types, t)
	}
	r.Types = types
	s.data.statsRulesets[r.CompetitionID] = r
	return r
}

// SetClassification overwrites a standings row, keyed by its id.
func (s *Store) SetClassification(row classification.Classification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.classifications[row.ID] = row
}
