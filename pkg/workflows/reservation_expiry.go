package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

const (
	// ReservationExpiryTaskQueue is the task queue for reservation expiry timers.
	ReservationExpiryTaskQueue = "inventory-reservation-expiry"

	reservationExpiryWorkflowName = "ReservationExpiry"
	expireReservationActivityName = "ExpireReservation"
)

// ReservationExpiryInput is the workflow argument.
type ReservationExpiryInput struct {
	ReservationID string    `json:"reservation_id"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// ReservationExpirer expires one reservation. Implementations must return nil
// when the reservation has already left the active state.
type ReservationExpirer interface {
	ExpireReservation(ctx context.Context, id uuid.UUID) error
}

// ReservationExpiryWorkflow sleeps until the reservation's expiry and then
// expires it. It is a durable backup to the in-process sweeper.
func ReservationExpiryWorkflow(ctx workflow.Context, in ReservationExpiryInput) error {
	if wait := in.ExpiresAt.Sub(workflow.Now(ctx)); wait > 0 {
		if err := workflow.Sleep(ctx, wait); err != nil {
			return err
		}
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    10,
		},
	})
	return workflow.ExecuteActivity(ctx, expireReservationActivityName, in.ReservationID).Get(ctx, nil)
}

// ExpiryActivities hosts the activity side of ReservationExpiryWorkflow.
type ExpiryActivities struct {
	Expirer ReservationExpirer
}

// ExpireReservation parses id and hands it to the expirer.
func (a *ExpiryActivities) ExpireReservation(ctx context.Context, id string) error {
	rid, err := uuid.Parse(id)
	if err != nil {
		return temporal.NewNonRetryableApplicationError("invalid reservation id", "InvalidID", err)
	}
	return a.Expirer.ExpireReservation(ctx, rid)
}

// RegisterReservationExpiry registers the workflow and its activity on w.
func RegisterReservationExpiry(w worker.Registry, expirer ReservationExpirer) {
	w.RegisterWorkflowWithOptions(ReservationExpiryWorkflow, workflow.RegisterOptions{Name: reservationExpiryWorkflowName})
	acts := &ExpiryActivities{Expirer: expirer}
	w.RegisterActivityWithOptions(acts.ExpireReservation, activity.RegisterOptions{Name: expireReservationActivityName})
}

// NewReservationExpiryWorker returns a worker on ReservationExpiryTaskQueue
// with the expiry workflow registered. The caller starts and stops it.
func (tc *TemporalClient) NewReservationExpiryWorker(expirer ReservationExpirer) worker.Worker {
	w := worker.New(tc.Client, ReservationExpiryTaskQueue, worker.Options{})
	RegisterReservationExpiry(w, expirer)
	return w
}

// ExpiryScheduler starts one ReservationExpiryWorkflow per reservation.
type ExpiryScheduler struct {
	client client.Client
}

// NewExpiryScheduler returns a scheduler using tc's client.
func NewExpiryScheduler(tc *TemporalClient) *ExpiryScheduler {
	return &ExpiryScheduler{client: tc.Client}
}

// ScheduleExpiry starts the timer workflow. The workflow id is derived from
// the reservation id, so scheduling twice is rejected by Temporal.
func (s *ExpiryScheduler) ScheduleExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	opts := client.StartWorkflowOptions{
		ID:        "reservation-expiry-" + id.String(),
		TaskQueue: ReservationExpiryTaskQueue,
	}
	in := ReservationExpiryInput{ReservationID: id.String(), ExpiresAt: expiresAt}
	if _, err := s.client.ExecuteWorkflow(ctx, opts, reservationExpiryWorkflowName, in); err != nil {
		return fmt.Errorf("start reservation expiry workflow: %w", err)
	}
	return nil
}
