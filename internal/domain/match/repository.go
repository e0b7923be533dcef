package match

import "context"

// Repository covers groups, rounds, matches and segments of one competition
// structure.
type Repository interface {
	CreateGroup(ctx context.Context, group Group) (Group, error)
	CreateRound(ctx context.Context, round Round) (Round, error)
	// CreateMatches stores the matches and returns them with ids, in input order.
	CreateMatches(ctx context.Context, matches []Match) ([]Match, error)
	CreateSegments(ctx context.Context, segments []Segment) error

	ListGroups(ctx context.Context, competitionID int64) ([]Group, error)
	ListRounds(ctx context.Context, competitionID int64) ([]Round, error)
	GetRoundByName(ctx context.Context, competitionID int64, name string) (Round, bool, error)
	ListMatchesByRound(ctx context.Context, roundID int64) ([]Match, error)
	ListMatchesByCompetition(ctx context.Context, competitionID int64) ([]Match, error)
	ListMatchesByFeeder(ctx context.Context, feederMatchID int64) ([]Match, error)

	GetMatch(ctx context.Context, matchID int64) (Match, bool, error)
	// GetMatchForUpdate reads the match and holds its row lock until the
	// surrounding transaction ends.
	GetMatchForUpdate(ctx context.Context, matchID int64) (Match, bool, error)
	UpdateMatch(ctx context.Context, m Match) error

	ListSegments(ctx context.Context, matchID int64) ([]Segment, error)
	UpdateSegment(ctx context.Context, segment Segment) error
}
