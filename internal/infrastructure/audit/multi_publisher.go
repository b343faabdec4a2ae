package audit

import (
	"context"
	"errors"

	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service"
)

// MultiPublisher delivers each decision to every sink and joins their errors.
type MultiPublisher struct {
	sinks []service.DecisionPublisher
}

// NewMultiPublisher drops nil sinks.
func NewMultiPublisher(sinks ...service.DecisionPublisher) *MultiPublisher {
	m := &MultiPublisher{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Len returns the number of configured sinks.
func (m *MultiPublisher) Len() int {
	return len(m.sinks)
}

// PublishDecision implements service.DecisionPublisher.
func (m *MultiPublisher) PublishDecision(ctx context.Context, record *models.DecisionRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.PublishDecision(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
