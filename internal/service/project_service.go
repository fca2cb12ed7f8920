package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/mapper"
	"github.com/julesapp/crm-api/internal/repository"
	"go.uber.org/zap"
)

// ProjectService manages projects. The profit margin is recomputed on every write.
type ProjectService struct {
	projectRepo *repository.OwnedRepository[domain.Project, *domain.Project]
	activity    *ActivityService
	logger      *zap.Logger
}

func NewProjectService(
	projectRepo *repository.OwnedRepository[domain.Project, *domain.Project],
	activity *ActivityService,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		activity:    activity,
		logger:      logger,
	}
}

func validateProjectDates(req *domain.ProjectRequest) error {
	if req.StartDate.Valid && req.DeliveryDate.Valid && req.DeliveryDate.Time.Before(req.StartDate.Time) {
		return invalid("deliveryDate", "Delivery date cannot be before the start date")
	}
	return nil
}

func projectStatus(s domain.ProjectStatus) domain.ProjectStatus {
	if s == "" {
		return domain.ProjectStatusPending
	}
	return domain.ParseProjectStatus(string(s))
}

func (s *ProjectService) List(ctx context.Context) ([]domain.ProjectDTO, error) {
	projects, err := s.projectRepo.ListNewest(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return mapper.ToProjectDTOs(projects), nil
}

func (s *ProjectService) GetByID(ctx context.Context, id string) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

func (s *ProjectService) Create(ctx context.Context, req *domain.ProjectRequest) (*domain.ProjectDTO, error) {
	if err := validateProjectDates(req); err != nil {
		return nil, err
	}

	project := &domain.Project{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		StartDate:      req.StartDate,
		DeliveryDate:   req.DeliveryDate,
		OperatingCost:  req.OperatingCost,
		ProductionCost: req.ProductionCost,
		TotalAmount:    req.TotalAmount,
		ProfitMargin:   domain.ProfitMargin(req.TotalAmount, req.OperatingCost, req.ProductionCost),
		ClientID:       req.ClientID,
		ContactID:      req.ContactID,
		Status:         projectStatus(req.Status),
	}

	created, err := s.projectRepo.Create(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.activity.Log(ctx, domain.ActionProjectCreated, map[string]interface{}{
		"proyectoId":     created.ID,
		"nombre":         created.Name,
		"margenGanancia": created.ProfitMargin,
	})

	dto := mapper.ToProjectDTO(created)
	return &dto, nil
}

// Update overwrites the editable fields and stores the recomputed margin
func (s *ProjectService) Update(ctx context.Context, id string, req *domain.ProjectRequest) (*domain.ProjectDTO, error) {
	if err := validateProjectDates(req); err != nil {
		return nil, err
	}

	updated, err := s.projectRepo.Update(ctx, id, map[string]interface{}{
		domain.FieldName:           strings.TrimSpace(req.Name),
		domain.FieldDescription:    req.Description,
		domain.FieldStartDate:      req.StartDate,
		domain.FieldDeliveryDate:   req.DeliveryDate,
		domain.FieldOperatingCost:  req.OperatingCost,
		domain.FieldProductionCost: req.ProductionCost,
		domain.FieldTotalAmount:    req.TotalAmount,
		domain.FieldProfitMargin:   domain.ProfitMargin(req.TotalAmount, req.OperatingCost, req.ProductionCost),
		domain.FieldClientID:       req.ClientID,
		domain.FieldContactID:      req.ContactID,
		domain.FieldStatus:         projectStatus(req.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.activity.Log(ctx, domain.ActionProjectUpdated, map[string]interface{}{
		"proyectoId":     updated.ID,
		"nombre":         updated.Name,
		"margenGanancia": updated.ProfitMargin,
	})

	dto := mapper.ToProjectDTO(updated)
	return &dto, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	deleted, err := s.projectRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.activity.Log(ctx, domain.ActionProjectDeleted, map[string]interface{}{
		"proyectoId": deleted.ID,
		"nombre":     deleted.Name,
	})
	return nil
}
