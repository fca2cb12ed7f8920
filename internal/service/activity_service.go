package service

import (
	"context"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/mapper"
	"github.com/julesapp/crm-api/internal/repository"
	"go.uber.org/zap"
)

// ActivityService writes the user's audit trail. Logging never fails the calling operation.
type ActivityService struct {
	activityRepo *repository.OwnedRepository[domain.Activity, *domain.Activity]
	logger       *zap.Logger
}

func NewActivityService(activityRepo *repository.OwnedRepository[domain.Activity, *domain.Activity], logger *zap.Logger) *ActivityService {
	return &ActivityService{activityRepo: activityRepo, logger: logger}
}

// Log records an action; errors are logged and dropped
func (s *ActivityService) Log(ctx context.Context, action string, details map[string]interface{}) {
	activity := &domain.Activity{
		Action:  action,
		Details: domain.JSONMap(details),
	}
	if _, err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// Recent returns the newest entries of the user's trail
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]domain.ActivityDTO, error) {
	items, err := s.activityRepo.ListNewest(ctx, limit)
	if err != nil {
		return nil, err
	}
	return mapper.ToActivityDTOs(items), nil
}
