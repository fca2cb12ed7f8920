package mapper

import (
	"time"

	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatDate(d domain.DateValue) *string {
	return formatTimePtr(d.Ptr())
}

// ToClientDTO converts Client to ClientDTO
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:          client.ID,
		Name:        client.Name,
		Email:       client.Email,
		Phone:       client.Phone,
		Company:     client.Company,
		ProjectName: client.ProjectName,
		CreatedAt:   formatTime(client.CreatedAt),
		UpdatedAt:   formatTime(client.UpdatedAt),
	}
}

// ToContactDTO converts Contact to ContactDTO
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	return domain.ContactDTO{
		ID:        contact.ID,
		ClientID:  contact.ClientID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		FullName:  contact.FullName(),
		Email:     contact.Email,
		Phone:     contact.Phone,
		Position:  contact.Position,
		CreatedAt: formatTime(contact.CreatedAt),
	}
}

// ToProjectDTO converts Project to ProjectDTO
func ToProjectDTO(project *domain.Project) domain.ProjectDTO {
	return domain.ProjectDTO{
		ID:             project.ID,
		Name:           project.Name,
		Description:    project.Description,
		StartDate:      formatDate(project.StartDate),
		DeliveryDate:   formatDate(project.DeliveryDate),
		OperatingCost:  project.OperatingCost,
		ProductionCost: project.ProductionCost,
		TotalAmount:    project.TotalAmount,
		ProfitMargin:   project.ProfitMargin,
		ClientID:       project.ClientID,
		ContactID:      project.ContactID,
		Status:         project.Status,
		CreatedAt:      formatTime(project.CreatedAt),
		UpdatedAt:      formatTime(project.UpdatedAt),
	}
}

// ToTaskDTO converts Task to TaskDTO
func ToTaskDTO(task *domain.Task) domain.TaskDTO {
	return domain.TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     formatDate(task.DueDate),
		Completed:   task.Completed,
		Assignment: domain.TaskAssignmentDTO{
			Method:  task.Assignment.Method,
			Contact: task.Assignment.Contact,
			Sent:    task.Assignment.Sent,
			SentAt:  formatTimePtr(task.Assignment.SentAt),
		},
		AssignedTo: task.AssignedTo,
		CreatedAt:  formatTime(task.CreatedAt),
		UpdatedAt:  formatTime(task.UpdatedAt),
	}
}

// ToSaleDTO converts Sale to SaleDTO
func ToSaleDTO(sale *domain.Sale) domain.SaleDTO {
	return domain.SaleDTO{
		ID:          sale.ID,
		Amount:      sale.Amount,
		ProjectName: sale.ProjectName,
		Comment:     sale.Comment,
		Month:       sale.Month,
		Date:        formatTime(sale.CreatedAt),
	}
}

// ToDocumentDTO converts Document to DocumentDTO
func ToDocumentDTO(doc *domain.Document) domain.DocumentDTO {
	return domain.DocumentDTO{
		ID:          doc.ID,
		Name:        doc.Name,
		ContentType: doc.ContentType,
		Size:        doc.Size,
		ClientID:    doc.ClientID,
		ProjectID:   doc.ProjectID,
		CreatedAt:   formatTime(doc.CreatedAt),
	}
}

// ToCalendarEventDTO converts CalendarEvent to CalendarEventDTO
func ToCalendarEventDTO(event *domain.CalendarEvent) domain.CalendarEventDTO {
	return domain.CalendarEventDTO{
		ID:          event.ID,
		Title:       event.Title,
		Start:       formatDate(event.Start),
		End:         formatDate(event.End),
		AllDay:      event.AllDay,
		Description: event.Description,
		ProjectID:   event.ProjectID,
		Type:        event.Type,
		CreatedAt:   formatTime(event.CreatedAt),
	}
}

// ToCalendarItemDTO converts a merged calendar entry
func ToCalendarItemDTO(item *domain.CalendarItem) domain.CalendarItemDTO {
	return domain.CalendarItemDTO{
		ID:          item.ID,
		Title:       item.Title,
		Start:       formatTime(item.Start),
		End:         formatTime(item.End),
		AllDay:      item.AllDay,
		Type:        item.Type,
		Status:      item.Status,
		Description: item.Description,
		Source:      item.Source,
		SourceID:    item.SourceID,
		ClientID:    item.ClientID,
		Style:       item.Style,
	}
}

// ToActivityDTO converts Activity to ActivityDTO
func ToActivityDTO(activity *domain.Activity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:      activity.ID,
		Action:  activity.Action,
		Details: activity.Details,
		Read:    activity.Read,
		Date:    formatTime(activity.CreatedAt),
	}
}

// ToAssignmentLinkDTO describes a prepared delegation message
func ToAssignmentLinkDTO(task *domain.Task, link string) domain.AssignmentLinkDTO {
	return domain.AssignmentLinkDTO{
		TaskID:  task.ID,
		Method:  task.Assignment.Method,
		Contact: task.Assignment.Contact,
		Link:    link,
		Sent:    task.Assignment.Sent,
		SentAt:  formatTimePtr(task.Assignment.SentAt),
	}
}

// ToUserDTO converts an account record
func ToUserDTO(user *auth.UserRecord) domain.UserDTO {
	dto := domain.UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   formatTime(user.CreatedAt),
	}
	if user.LastLoginAt != nil {
		dto.LastLoginAt = formatTime(*user.LastLoginAt)
	}
	return dto
}

// ToSessionDTO converts a signed-in session
func ToSessionDTO(session *auth.Session) domain.SessionDTO {
	return domain.SessionDTO{
		Token:     session.Token,
		ExpiresAt: formatTime(session.ExpiresAt),
		User:      ToCurrentUserDTO(&session.User),
	}
}

// ToCurrentUserDTO converts the user of a request
func ToCurrentUserDTO(user *auth.UserContext) domain.UserDTO {
	return domain.UserDTO{
		ID:          user.UserID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// Slice helpers used by list endpoints

func ToClientDTOs(items []domain.Client) []domain.ClientDTO {
	out := make([]domain.ClientDTO, len(items))
	for i := range items {
		out[i] = ToClientDTO(&items[i])
	}
	return out
}

func ToContactDTOs(items []domain.Contact) []domain.ContactDTO {
	out := make([]domain.ContactDTO, len(items))
	for i := range items {
		out[i] = ToContactDTO(&items[i])
	}
	return out
}

func ToProjectDTOs(items []domain.Project) []domain.ProjectDTO {
	out := make([]domain.ProjectDTO, len(items))
	for i := range items {
		out[i] = ToProjectDTO(&items[i])
	}
	return out
}

func ToTaskDTOs(items []domain.Task) []domain.TaskDTO {
	out := make([]domain.TaskDTO, len(items))
	for i := range items {
		out[i] = ToTaskDTO(&items[i])
	}
	return out
}

func ToSaleDTOs(items []domain.Sale) []domain.SaleDTO {
	out := make([]domain.SaleDTO, len(items))
	for i := range items {
		out[i] = ToSaleDTO(&items[i])
	}
	return out
}

func ToDocumentDTOs(items []domain.Document) []domain.DocumentDTO {
	out := make([]domain.DocumentDTO, len(items))
	for i := range items {
		out[i] = ToDocumentDTO(&items[i])
	}
	return out
}

func ToCalendarEventDTOs(items []domain.CalendarEvent) []domain.CalendarEventDTO {
	out := make([]domain.CalendarEventDTO, len(items))
	for i := range items {
		out[i] = ToCalendarEventDTO(&items[i])
	}
	return out
}

func ToCalendarItemDTOs(items []domain.CalendarItem) []domain.CalendarItemDTO {
	out := make([]domain.CalendarItemDTO, len(items))
	for i := range items {
		out[i] = ToCalendarItemDTO(&items[i])
	}
	return out
}

func ToActivityDTOs(items []domain.Activity) []domain.ActivityDTO {
	out := make([]domain.ActivityDTO, len(items))
	for i := range items {
		out[i] = ToActivityDTO(&items[i])
	}
	return out
}
