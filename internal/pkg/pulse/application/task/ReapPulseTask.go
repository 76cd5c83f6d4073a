package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	qport "github.com/Backora/pulse-app/internal/infrastructure/queue/port"
	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	"github.com/Backora/pulse-app/internal/pkg/pulse/application/usecase"
	repoAdapter "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/adapter"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReapPulseTaskType is the queue task name for reclaiming an expired pulse.
const ReapPulseTaskType = "pulse:reap"

// ReapQueue is the logical queue reap tasks are scheduled on.
const ReapQueue = "pulse"

// ReapPulsePayload is the JSON payload transported via the queue.
type ReapPulsePayload struct {
	PulseCode string `json:"pulseCode"`
}

// ScheduleReap enqueues a reap task to fire at the pulse's expiry instant.
// Reaping is storage reclamation only: read paths already treat the expired
// row as gone, so a missed or late reap never changes observable behavior.
func ScheduleReap(ctx context.Context, client qport.Client, p pulse.Pulse) error {
	payload, err := json.Marshal(ReapPulsePayload{PulseCode: p.Code})
	if err != nil {
		return err
	}
	_, err = client.Enqueue(ctx, qport.Task{Type: ReapPulseTaskType, Payload: payload}, qport.EnqueueOption{
		Queue:     ReapQueue,
		ProcessAt: p.ExpiresAt,
		MaxRetry:  5,
	})
	return err
}

// RegisterReapPulseTask binds the reap handler to the provided server.
func RegisterReapPulseTask(srv qport.Server, pool *pgxpool.Pool) {
	srv.Register(ReapPulseTaskType, func(ctx context.Context, t qport.Task) error {
		var p ReapPulsePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return err
		}
		if p.PulseCode == "" {
			return fmt.Errorf("reap: empty pulse code")
		}

		repo := repoAdapter.NewPgPulseRepository(pool)

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		// A still-live row means the clock drifted or the task fired early;
		// leave it alone and let the retry policy re-run later.
		row, err := repo.GetPulseByCode(ctx, p.PulseCode)
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}
		if row.Live(time.Now().UTC()) {
			return fmt.Errorf("reap: pulse %s still live", p.PulseCode)
		}

		uc := usecase.NewDeletePulseUseCase(repo, nil)
		return uc.Execute(ctx, usecase.DeletePulseInput{Code: p.PulseCode})
	})
}
