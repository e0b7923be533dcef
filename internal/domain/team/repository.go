package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListByCompetition(ctx context.Context, competitionID int64) ([]Team, error)
	// GetPlayer returns the player together with the team it is registered to.
	GetPlayer(ctx context.Context, playerID int64) (Player, bool, error)
}
