package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/mapper"
	"github.com/julesapp/crm-api/internal/repository"
	"go.uber.org/zap"
)

type ClientService struct {
	clientRepo *repository.OwnedRepository[domain.Client, *domain.Client]
	activity   *ActivityService
	logger     *zap.Logger
}

func NewClientService(
	clientRepo *repository.OwnedRepository[domain.Client, *domain.Client],
	activity *ActivityService,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		activity:   activity,
		logger:     logger,
	}
}

// List returns the user's clients, newest first
func (s *ClientService) List(ctx context.Context) ([]domain.ClientDTO, error) {
	clients, err := s.clientRepo.ListNewest(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return mapper.ToClientDTOs(clients), nil
}

// Search matches name, e-mail, phone and company, case-insensitively
func (s *ClientService) Search(ctx context.Context, query string) ([]domain.ClientDTO, error) {
	clients, err := s.clientRepo.ListNewest(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return mapper.ToClientDTOs(clients), nil
	}

	matches := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		for _, field := range []string{c.Name, c.Email, c.Phone, c.Company} {
			if strings.Contains(strings.ToLower(field), q) {
				matches = append(matches, c)
				break
			}
		}
	}
	return mapper.ToClientDTOs(matches), nil
}

func (s *ClientService) GetByID(ctx context.Context, id string) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) Create(ctx context.Context, req *domain.ClientRequest) (*domain.ClientDTO, error) {
	client := &domain.Client{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Company:     strings.TrimSpace(req.Company),
		ProjectName: strings.TrimSpace(req.ProjectName),
	}

	created, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.activity.Log(ctx, domain.ActionClientCreated, map[string]interface{}{
		"clienteId": created.ID,
		"nombre":    created.Name,
	})

	dto := mapper.ToClientDTO(created)
	return &dto, nil
}

func (s *ClientService) Update(ctx context.Context, id string, req *domain.ClientRequest) (*domain.ClientDTO, error) {
	updated, err := s.clientRepo.Update(ctx, id, map[string]interface{}{
		domain.FieldName:        strings.TrimSpace(req.Name),
		domain.FieldEmail:       strings.TrimSpace(req.Email),
		domain.FieldPhone:       strings.TrimSpace(req.Phone),
		domain.FieldCompany:     strings.TrimSpace(req.Company),
		domain.FieldProjectName: strings.TrimSpace(req.ProjectName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	s.activity.Log(ctx, domain.ActionClientUpdated, map[string]interface{}{
		"clienteId": updated.ID,
		"nombre":    updated.Name,
	})

	dto := mapper.ToClientDTO(updated)
	return &dto, nil
}

func (s *ClientService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	deleted, err := s.clientRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.activity.Log(ctx, domain.ActionClientDeleted, map[string]interface{}{
		"clienteId": deleted.ID,
		"nombre":    deleted.Name,
	})
	return nil
}

// Watch streams the user's client list, newest first
func (s *ClientService) Watch(ctx context.Context) (*repository.Subscription[domain.Client], error) {
	return s.clientRepo.WatchNewest(ctx)
}

// ProjectOptions returns the distinct project names recorded on clients, sorted
func (s *ClientService) ProjectOptions(ctx context.Context) ([]string, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load project options: %w", err)
	}

	seen := make(map[string]bool)
	options := make([]string, 0)
	for _, c := range clients {
		name := strings.TrimSpace(c.ProjectName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		options = append(options, name)
	}
	sort.Strings(options)
	return options, nil
}
