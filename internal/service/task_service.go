package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/mapper"
	"github.com/julesapp/crm-api/internal/repository"
	"go.uber.org/zap"
)

// TaskFilter selects tasks by completion
type TaskFilter string

const (
	TaskFilterAll       TaskFilter = "all"
	TaskFilterCompleted TaskFilter = "completed"
	TaskFilterPending   TaskFilter = "pending"
)

// ParseTaskFilter defaults unknown values to all
func ParseTaskFilter(s string) TaskFilter {
	switch TaskFilter(strings.ToLower(s)) {
	case TaskFilterCompleted:
		return TaskFilterCompleted
	case TaskFilterPending:
		return TaskFilterPending
	default:
		return TaskFilterAll
	}
}

func (f TaskFilter) filters() []repository.Filter {
	switch f {
	case TaskFilterCompleted:
		return []repository.Filter{repository.Eq(domain.FieldCompleted, true)}
	case TaskFilterPending:
		return []repository.Filter{repository.Eq(domain.FieldCompleted, false)}
	default:
		return nil
	}
}

type TaskService struct {
	taskRepo   *repository.OwnedRepository[domain.Task, *domain.Task]
	clientRepo *repository.OwnedRepository[domain.Client, *domain.Client]
	activity   *ActivityService
	logger     *zap.Logger
	now        func() time.Time
}

func NewTaskService(
	taskRepo *repository.OwnedRepository[domain.Task, *domain.Task],
	clientRepo *repository.OwnedRepository[domain.Client, *domain.Client],
	activity *ActivityService,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		clientRepo: clientRepo,
		activity:   activity,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskService) List(ctx context.Context, filter TaskFilter) ([]domain.TaskDTO, error) {
	tasks, err := s.taskRepo.ListNewest(ctx, 0, filter.filters()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return mapper.ToTaskDTOs(tasks), nil
}

// Watch streams the user's tasks matching filter, newest first
func (s *TaskService) Watch(ctx context.Context, filter TaskFilter) (*repository.Subscription[domain.Task], error) {
	return s.taskRepo.WatchNewest(ctx, filter.filters()...)
}

func (s *TaskService) GetByID(ctx context.Context, id string) (*domain.TaskDTO, error) {
	task, err := s.taskRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

func (s *TaskService) Create(ctx context.Context, req *domain.TaskRequest) (*domain.TaskDTO, error) {
	task := &domain.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	}

	created, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.activity.Log(ctx, domain.ActionTaskCreated, map[string]interface{}{
		"tareaId": created.ID,
		"titulo":  created.Title,
	})

	dto := mapper.ToTaskDTO(created)
	return &dto, nil
}

// Update overwrites title, description, due date and completion. The assignment is kept.
func (s *TaskService) Update(ctx context.Context, id string, req *domain.TaskRequest) (*domain.TaskDTO, error) {
	updated, err := s.taskRepo.Update(ctx, id, map[string]interface{}{
		domain.FieldTitle:       strings.TrimSpace(req.Title),
		domain.FieldDescription: req.Description,
		domain.FieldDueDate:     req.DueDate,
		domain.FieldCompleted:   req.Completed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.activity.Log(ctx, domain.ActionTaskUpdated, map[string]interface{}{
		"tareaId": updated.ID,
		"titulo":  updated.Title,
	})

	dto := mapper.ToTaskDTO(updated)
	return &dto, nil
}

// Toggle flips the completion flag
func (s *TaskService) Toggle(ctx context.Context, id string) (*domain.TaskDTO, error) {
	task, err := s.taskRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	completed := !task.Completed
	updated, err := s.taskRepo.Update(ctx, id, map[string]interface{}{
		domain.FieldCompleted: completed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	action := domain.ActionTaskReopened
	if completed {
		action = domain.ActionTaskCompleted
	}
	s.activity.Log(ctx, action, map[string]interface{}{
		"tareaId": updated.ID,
		"titulo":  updated.Title,
	})

	dto := mapper.ToTaskDTO(updated)
	return &dto, nil
}

func (s *TaskService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	deleted, err := s.taskRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.activity.Log(ctx, domain.ActionTaskDeleted, map[string]interface{}{
		"tareaId": deleted.ID,
		"titulo":  deleted.Title,
	})
	return nil
}

// Assign delegates the task to an existing client or to a new contact, which is stored
// as a client first. The method is e-mail when an address is known, WhatsApp otherwise.
func (s *TaskService) Assign(ctx context.Context, id string, req *domain.AssignTaskRequest) (*domain.TaskDTO, error) {
	if _, err := s.taskRepo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	var contact domain.ContactInfo
	switch {
	case req.NewContact != nil:
		contact = domain.ContactInfo{
			Name:  strings.TrimSpace(req.NewContact.Name),
			Email: strings.TrimSpace(req.NewContact.Email),
			Phone: strings.TrimSpace(req.NewContact.Phone),
		}
		if contact.Name == "" {
			return nil, invalid("name", "This field is required")
		}
	case req.ClientID != "":
		client, err := s.clientRepo.Get(ctx, req.ClientID)
		if err != nil {
			return nil, fmt.Errorf("client not found: %w", err)
		}
		contact = domain.ContactInfo{Name: client.Name, Email: client.Email, Phone: client.Phone}
	default:
		return nil, invalid("clientId", "Select a client or enter a new contact")
	}

	// nothing is stored until the contact is known to be reachable
	assignment, err := domain.ResolveAssignment(contact)
	if errors.Is(err, domain.ErrNoContactChannel) {
		return nil, invalid("contact", "The contact needs an email or phone number")
	}
	if err != nil {
		return nil, err
	}

	if req.NewContact != nil {
		client, err := s.clientRepo.Create(ctx, &domain.Client{
			Name:  contact.Name,
			Email: contact.Email,
			Phone: contact.Phone,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create contact: %w", err)
		}
		s.activity.Log(ctx, domain.ActionClientCreated, map[string]interface{}{
			"clienteId": client.ID,
			"nombre":    client.Name,
		})
	}

	name := contact.Name
	updated, err := s.taskRepo.Update(ctx, id, map[string]interface{}{
		domain.FieldAssignmentMethod:  string(assignment.Method),
		domain.FieldAssignmentContact: assignment.Contact,
		domain.FieldAssignmentSent:    false,
		domain.FieldAssignmentSentAt:  nil,
		domain.FieldAssignedTo:        &name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	dto := mapper.ToTaskDTO(updated)
	return &dto, nil
}

// SendAssignment builds the mail or chat deep link for the assignment and marks it sent
// right away. Whether the message is actually delivered is not tracked.
func (s *TaskService) SendAssignment(ctx context.Context, id string) (*domain.AssignmentLinkDTO, error) {
	task, err := s.taskRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task.Assignment.Method == domain.AssignmentMethodNone || task.Assignment.Contact == "" {
		return nil, ErrNoAssignment
	}

	link, err := domain.AssignmentLink(task)
	if errors.Is(err, domain.ErrNoContactChannel) {
		return nil, invalid("contact", "The contact phone number has no digits")
	}
	if err != nil {
		return nil, err
	}

	sentAt := s.now()
	updated, err := s.taskRepo.Update(ctx, id, map[string]interface{}{
		domain.FieldAssignmentSent:   true,
		domain.FieldAssignmentSentAt: sentAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mark assignment sent: %w", err)
	}

	s.activity.Log(ctx, domain.ActionTaskAssignmentSent, map[string]interface{}{
		"tareaId":  updated.ID,
		"titulo":   updated.Title,
		"metodo":   string(updated.Assignment.Method),
		"contacto": updated.Assignment.Contact,
	})

	dto := mapper.ToAssignmentLinkDTO(updated, link)
	return &dto, nil
}
