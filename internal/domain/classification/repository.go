package classification

import "context"

type Repository interface {
	CreateBatch(ctx context.Context, rows []Classification) error
	ListByCompetition(ctx context.Context, competitionID int64) ([]Classification, error)
	ListByGroup(ctx context.Context, groupID int64) ([]Classification, error)
}
