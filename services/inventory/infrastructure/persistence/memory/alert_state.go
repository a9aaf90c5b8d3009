package memory

import (
	"context"
	"sync"

	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// AlertState implements repositories.AlertStateStore for a single process.
type AlertState struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func NewAlertState() *AlertState {
	return &AlertState{}
}

func (s *AlertState) LoadAlerts(_ context.Context) ([]models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Alert(nil), s.alerts...), nil
}

func (s *AlertState) SaveAlerts(_ context.Context, alerts []models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append([]models.Alert(nil), alerts...)
	return nil
}
