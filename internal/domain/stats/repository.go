package stats

import "context"

type Repository interface {
	GetRulesetByCompetition(ctx context.Context, competitionID int64) (Ruleset, bool, error)
	// Increment adds delta to the player's per-match value, creating the row when
	// missing. The stored value never drops below zero.
	Increment(ctx context.Context, stat PlayerStat) error
	ListByMatch(ctx context.Context, matchID int64) ([]PlayerStat, error)
	// RankPlayers sums each player's values for typeID across the competition,
	// highest first with player id breaking ties. limit <= 0 returns every player.
	RankPlayers(ctx context.Context, competitionID, typeID int64, limit int) ([]PlayerRanking, error)
}
