package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fleetrelay/support-service/internal/domain"
	"github.com/fleetrelay/support-service/internal/events"
	"github.com/fleetrelay/support-service/internal/repository"
	"github.com/fleetrelay/support-service/internal/sla"
	apperrors "github.com/fleetrelay/support-service/pkg/util"
)

// SettingsService reads and writes keyed configuration, including the SLA
// policy consumed by the calculator.
type SettingsService struct {
	settings   repository.SettingRepository
	dispatcher events.Dispatcher
}

// NewSettingsService constructs the service.
func NewSettingsService(settings repository.SettingRepository, dispatcher events.Dispatcher) *SettingsService {
	return &SettingsService{settings: settings, dispatcher: dispatcher}
}

// LoadSLAPolicy reads the SLA settings keys and parses them with defaults.
// The policy is a per-request snapshot: no caching, so edits apply to every
// ticket on the next read, including tickets created before the change.
func (s *SettingsService) LoadSLAPolicy(ctx context.Context) (sla.Policy, error) {
	values, err := s.settings.GetByKeys(ctx, []string{
		sla.SettingKeyUrgentThresholdMinutes,
		sla.SettingKeyNormalThresholdMinutes,
		sla.SettingKeyComplianceTarget,
	})
	if err != nil {
		return sla.DefaultPolicy(), apperrors.MapError(err)
	}
	return sla.PolicyFromSettings(values), nil
}

// ListSettings returns all stored settings.
func (s *SettingsService) ListSettings(ctx context.Context) ([]domain.Setting, error) {
	settings, err := s.settings.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return settings, nil
}

// UpdateSettings upserts the given key/value pairs. Admin only.
func (s *SettingsService) UpdateSettings(ctx context.Context, actor *domain.User, values map[string]string) error {
	if actor == nil || actor.Role != domain.UserRoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	if len(values) == 0 {
		return apperrors.NewValidationError("no settings provided", nil)
	}
	keys := make([]string, 0, len(values))
	for key, value := range values {
		if err := s.settings.Upsert(ctx, key, value); err != nil {
			return apperrors.MapError(err)
		}
		keys = append(keys, key)
	}

	if s.dispatcher != nil {
		s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSettingsUpdated,
			Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
			Timestamp: time.Now(),
			Payload:   events.SettingsUpdatedPayload{Keys: keys},
		})
	}
	return nil
}
