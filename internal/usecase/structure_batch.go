package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/tournament-engine/internal/platform/id"
)

const (
	BatchStatusGenerated = "generated"
	BatchStatusFailed    = "failed"

	defaultBatchWorkers = 4
	maxBatchWorkers     = 32
)

type BatchItem struct {
	CompetitionID int64
	Status        string
	System        string
	Matches       int
	Message       string
	DurationMs    int64
	Err           error
}

type BatchResult struct {
	RunID     string
	Workers   int
	Succeeded int
	Failed    int
	Items     []BatchItem
}

// GenerateBatch generates several competitions concurrently. Each competition
// keeps its own transaction, so one failure does not affect the others.
func (s *StructureService) GenerateBatch(ctx context.Context, competitionIDs []int64, workers int, ids id.Generator) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StructureService.GenerateBatch")
	defer span.End()

	targets, err := normalizeCompetitionIDs(competitionIDs)
	if err != nil {
		return BatchResult{}, err
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	runID, err := ids.NewID()
	if err != nil {
		return BatchResult{}, fmt.Errorf("create batch run id: %w", err)
	}

	workerCount := normalizeBatchWorkerCount(workers, len(targets))
	result := BatchResult{
		RunID:   runID,
		Workers: workerCount,
		Items:   make([]BatchItem, 0, len(targets)),
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu        sync.Mutex
		workersWG sync.WaitGroup
		succeeded atomic.Int32
		failed    atomic.Int32
	)
	for _, competitionID := range targets {
		competitionID := competitionID
		workersWG.Add(1)
		if err := pool.Submit(func() {
			defer workersWG.Done()

			started := time.Now()
			item := BatchItem{CompetitionID: competitionID}
			generated, genErr := s.GenerateStructure(ctx, competitionID)
			item.DurationMs = time.Since(started).Milliseconds()
			if genErr != nil {
				item.Status = BatchStatusFailed
				item.Message = genErr.Error()
				item.Err = genErr
				failed.Add(1)
			} else {
				item.Status = BatchStatusGenerated
				item.System = generated.System
				item.Matches = generated.Matches
				succeeded.Add(1)
			}

			mu.Lock()
			result.Items = append(result.Items, item)
			mu.Unlock()
		}); err != nil {
			workersWG.Done()
			workersWG.Wait()
			return BatchResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workersWG.Wait()

	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].CompetitionID < result.Items[j].CompetitionID
	})
	result.Succeeded = int(succeeded.Load())
	result.Failed = int(failed.Load())

	s.logger.InfoContext(ctx, "batch structure generation finished",
		"run_id", result.RunID,
		"workers", result.Workers,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

func normalizeCompetitionIDs(in []int64) ([]int64, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: at least one competition id is required", ErrInvalidInput)
	}
	seen := make(map[int64]struct{}, len(in))
	out := make([]int64, 0, len(in))
	for _, v := range in {
		if v <= 0 {
			return nil, fmt.Errorf("%w: competition id must be greater than zero, got %d", ErrInvalidInput, v)
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

func normalizeBatchWorkerCount(requested, tasks int) int {
	workers := requested
	if workers <= 0 {
		workers = defaultBatchWorkers
	}
	if workers > maxBatchWorkers {
		workers = maxBatchWorkers
	}
	if tasks > 0 && workers > tasks {
		workers = tasks
	}
	return workers
}
