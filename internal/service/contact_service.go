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

// ContactService manages the people working at a client
type ContactService struct {
	contactRepo *repository.OwnedRepository[domain.Contact, *domain.Contact]
	clientRepo  *repository.OwnedRepository[domain.Client, *domain.Client]
	activity    *ActivityService
	logger      *zap.Logger
}

func NewContactService(
	contactRepo *repository.OwnedRepository[domain.Contact, *domain.Contact],
	clientRepo *repository.OwnedRepository[domain.Client, *domain.Client],
	activity *ActivityService,
	logger *zap.Logger,
) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		clientRepo:  clientRepo,
		activity:    activity,
		logger:      logger,
	}
}

func (s *ContactService) ListByClient(ctx context.Context, clientID string) ([]domain.ContactDTO, error) {
	if _, err := s.clientRepo.Get(ctx, clientID); err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}

	contacts, err := s.contactRepo.ListNewest(ctx, 0, repository.Eq(domain.FieldClientID, clientID))
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return mapper.ToContactDTOs(contacts), nil
}

func (s *ContactService) Create(ctx context.Context, clientID string, req *domain.ContactRequest) (*domain.ContactDTO, error) {
	client, err := s.clientRepo.Get(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}

	contact := &domain.Contact{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Position:  strings.TrimSpace(req.Position),
		ClientID:  client.ID,
	}

	created, err := s.contactRepo.Create(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.activity.Log(ctx, domain.ActionContactCreated, map[string]interface{}{
		"clienteId":  client.ID,
		"contactoId": created.ID,
		"nombre":     created.FullName(),
	})

	dto := mapper.ToContactDTO(created)
	return &dto, nil
}

func (s *ContactService) Update(ctx context.Context, id string, req *domain.ContactRequest) (*domain.ContactDTO, error) {
	updated, err := s.contactRepo.Update(ctx, id, map[string]interface{}{
		domain.FieldName:     strings.TrimSpace(req.FirstName),
		domain.FieldLastName: strings.TrimSpace(req.LastName),
		domain.FieldEmail:    strings.TrimSpace(req.Email),
		domain.FieldPhone:    strings.TrimSpace(req.Phone),
		domain.FieldPosition: strings.TrimSpace(req.Position),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	dto := mapper.ToContactDTO(updated)
	return &dto, nil
}

func (s *ContactService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if _, err := s.contactRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}
