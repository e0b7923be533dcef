package competition

import "context"

// Repository describes competition persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, competitionID int64) (Competition, bool, error)
	// GetForUpdate reads the competition and holds its row lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, competitionID int64) (Competition, bool, error)
	// TransitionStatus moves the competition from expectedStatus to nextStatus and
	// sets its phase. It reports false without error when the stored status no
	// longer matches expectedStatus.
	TransitionStatus(ctx context.Context, competitionID int64, expectedStatus, nextStatus, phase string) (bool, error)
	// TransitionPhase moves the current phase when it still equals expectedPhase.
	TransitionPhase(ctx context.Context, competitionID int64, expectedPhase, nextPhase string) (bool, error)
}
