package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BaseModel carries the id, owner and timestamps shared by every owned record
type BaseModel struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	OwnerID   string    `gorm:"type:varchar(128);not null;index;column:owner_id"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (b *BaseModel) GetID() string             { return b.ID }
func (b *BaseModel) SetID(id string)           { b.ID = id }
func (b *BaseModel) GetOwnerID() string        { return b.OwnerID }
func (b *BaseModel) SetOwnerID(ownerID string) { b.OwnerID = ownerID }
func (b *BaseModel) GetCreatedAt() time.Time   { return b.CreatedAt }

// SetTimestamps is used by document decoders
func (b *BaseModel) SetTimestamps(created, updated time.Time) {
	b.CreatedAt = created
	b.UpdatedAt = updated
}

// Client is a customer of the signed-in user
type Client struct {
	BaseModel
	Name        string `gorm:"type:varchar(200);not null;index"`
	Email       string `gorm:"type:varchar(255)"`
	Phone       string `gorm:"type:varchar(50)"`
	Company     string `gorm:"type:varchar(200)"`
	ProjectName string `gorm:"type:varchar(200);column:project_name"`
}

func (Client) TableName() string { return "clients" }

func (c *Client) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldName:        c.Name,
		FieldEmail:       c.Email,
		FieldPhone:       c.Phone,
		FieldCompany:     c.Company,
		FieldProjectName: c.ProjectName,
	}
}

func (c *Client) FromDocument(data map[string]interface{}) {
	c.Name = DocString(data, FieldName)
	c.Email = DocString(data, FieldEmail)
	c.Phone = DocString(data, FieldPhone)
	c.Company = DocString(data, FieldCompany)
	c.ProjectName = DocString(data, FieldProjectName)
}

// Contact is a person working at a client
type Contact struct {
	BaseModel
	FirstName string `gorm:"type:varchar(100);not null;column:first_name"`
	LastName  string `gorm:"type:varchar(100);column:last_name"`
	Email     string `gorm:"type:varchar(255)"`
	Phone     string `gorm:"type:varchar(50)"`
	Position  string `gorm:"type:varchar(100)"`
	ClientID  string `gorm:"type:varchar(64);index;column:client_id"`
}

func (Contact) TableName() string { return "contacts" }

// FullName joins first and last name
func (c *Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

func (c *Contact) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldName:     c.FirstName,
		FieldLastName: c.LastName,
		FieldEmail:    c.Email,
		FieldPhone:    c.Phone,
		FieldPosition: c.Position,
		FieldClientID: c.ClientID,
	}
}

func (c *Contact) FromDocument(data map[string]interface{}) {
	c.FirstName = DocString(data, FieldName)
	c.LastName = DocString(data, FieldLastName)
	c.Email = DocString(data, FieldEmail)
	c.Phone = DocString(data, FieldPhone)
	c.Position = DocString(data, FieldPosition)
	c.ClientID = DocString(data, FieldClientID)
}

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

var storedProjectStatus = map[ProjectStatus]string{
	ProjectStatusPending:    "pendiente",
	ProjectStatusInProgress: "en_progreso",
	ProjectStatusCompleted:  "completado",
	ProjectStatusCancelled:  "cancelado",
}

// ParseProjectStatus accepts API and stored spellings; unknown values become pending
func ParseProjectStatus(s string) ProjectStatus {
	for status, stored := range storedProjectStatus {
		if s == string(status) || s == stored {
			return status
		}
	}
	return ProjectStatusPending
}

// DocumentValue returns the spelling kept in the document store
func (s ProjectStatus) DocumentValue() interface{} {
	if stored, ok := storedProjectStatus[s]; ok {
		return stored
	}
	return storedProjectStatus[ProjectStatusPending]
}

// Project is a piece of work sold to a client
type Project struct {
	BaseModel
	Name           string        `gorm:"type:varchar(200);not null"`
	Description    string        `gorm:"type:text"`
	StartDate      DateValue     `gorm:"type:varchar(64);column:start_date"`
	DeliveryDate   DateValue     `gorm:"type:varchar(64);column:delivery_date"`
	OperatingCost  float64       `gorm:"not null;default:0;column:operating_cost"`
	ProductionCost float64       `gorm:"not null;default:0;column:production_cost"`
	TotalAmount    float64       `gorm:"not null;default:0;column:total_amount"`
	ProfitMargin   float64       `gorm:"not null;default:0;column:profit_margin"`
	ClientID       string        `gorm:"type:varchar(64);index;column:client_id"`
	ContactID      string        `gorm:"type:varchar(64);column:contact_id"`
	Status         ProjectStatus `gorm:"type:varchar(50);not null;default:'pending'"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldName:           p.Name,
		FieldDescription:    p.Description,
		FieldStartDate:      p.StartDate,
		FieldDeliveryDate:   p.DeliveryDate,
		FieldOperatingCost:  p.OperatingCost,
		FieldProductionCost: p.ProductionCost,
		FieldTotalAmount:    p.TotalAmount,
		FieldProfitMargin:   p.ProfitMargin,
		FieldClientID:       p.ClientID,
		FieldContactID:      p.ContactID,
		FieldStatus:         p.Status,
	}
}

func (p *Project) FromDocument(data map[string]interface{}) {
	p.Name = DocString(data, FieldName)
	p.Description = DocString(data, FieldDescription)
	p.StartDate = DocDate(data, FieldStartDate)
	p.DeliveryDate = DocDate(data, FieldDeliveryDate)
	p.OperatingCost = DocFloat(data, FieldOperatingCost)
	p.ProductionCost = DocFloat(data, FieldProductionCost)
	p.TotalAmount = DocFloat(data, FieldTotalAmount)
	p.ProfitMargin = DocFloat(data, FieldProfitMargin)
	p.ClientID = DocString(data, FieldClientID)
	p.ContactID = DocString(data, FieldContactID)
	p.Status = ParseProjectStatus(DocString(data, FieldStatus))
}

// AssignmentMethod is the channel a task assignment is sent through
type AssignmentMethod string

const (
	AssignmentMethodNone     AssignmentMethod = ""
	AssignmentMethodEmail    AssignmentMethod = "email"
	AssignmentMethodWhatsApp AssignmentMethod = "whatsapp"
)

// TaskAssignment records who a task was delegated to and whether the message went out
type TaskAssignment struct {
	Method  AssignmentMethod `gorm:"type:varchar(20)"`
	Contact string           `gorm:"type:varchar(255)"`
	Sent    bool             `gorm:"not null;default:false"`
	SentAt  *time.Time
}

// Task is a to-do item, optionally delegated to a contact
type Task struct {
	BaseModel
	Title       string         `gorm:"type:varchar(300);not null"`
	Description string         `gorm:"type:text"`
	DueDate     DateValue      `gorm:"type:varchar(64);column:due_date"`
	Completed   bool           `gorm:"not null;default:false;index"`
	Assignment  TaskAssignment `gorm:"embedded;embeddedPrefix:assignment_"`
	AssignedTo  *string        `gorm:"type:varchar(200);column:assigned_to"`
}

func (Task) TableName() string { return "tasks" }

func (t *Task) Fields() map[string]interface{} {
	var sentAt interface{}
	if t.Assignment.SentAt != nil {
		sentAt = *t.Assignment.SentAt
	}
	return map[string]interface{}{
		FieldTitle:             t.Title,
		FieldDescription:       t.Description,
		FieldDueDate:           t.DueDate,
		FieldCompleted:         t.Completed,
		FieldAssignmentMethod:  string(t.Assignment.Method),
		FieldAssignmentContact: t.Assignment.Contact,
		FieldAssignmentSent:    t.Assignment.Sent,
		FieldAssignmentSentAt:  sentAt,
		FieldAssignedTo:        t.AssignedTo,
	}
}

func (t *Task) FromDocument(data map[string]interface{}) {
	t.Title = DocString(data, FieldTitle)
	t.Description = DocString(data, FieldDescription)
	t.DueDate = DocDate(data, FieldDueDate)
	t.Completed = DocBool(data, FieldCompleted)
	t.AssignedTo = DocStringPtr(data, FieldAssignedTo)

	a := DocMap(data, FieldAssignment)
	t.Assignment = TaskAssignment{
		Method:  AssignmentMethod(DocString(a, "metodo")),
		Contact: DocString(a, "contacto"),
		Sent:    DocBool(a, "enviado"),
	}
	if sent, err := NormalizeDate(a["fechaEnvio"]); err == nil {
		t.Assignment.SentAt = &sent
	}
}

// Sale is a payment received for a project
type Sale struct {
	BaseModel
	Amount      float64 `gorm:"not null"`
	ProjectName string  `gorm:"type:varchar(200);not null;column:project_name"`
	Comment     string  `gorm:"type:text"`
	Month       string  `gorm:"type:varchar(7);not null;index"`
}

func (Sale) TableName() string { return "sales" }

func (s *Sale) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldAmount:      s.Amount,
		FieldProjectName: s.ProjectName,
		FieldComment:     s.Comment,
		FieldMonth:       s.Month,
	}
}

func (s *Sale) FromDocument(data map[string]interface{}) {
	s.Amount = DocFloat(data, FieldAmount)
	s.ProjectName = DocString(data, FieldProjectName)
	s.Comment = DocString(data, FieldComment)
	s.Month = DocString(data, FieldMonth)
}

// Document is an uploaded file's metadata; the bytes live in file storage
type Document struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null"`
	ContentType string `gorm:"type:varchar(100);column:content_type"`
	Size        int64  `gorm:"not null;default:0"`
	StoragePath string `gorm:"type:varchar(500);not null;column:storage_path"`
	ClientID    string `gorm:"type:varchar(64);index;column:client_id"`
	ProjectID   string `gorm:"type:varchar(64);index;column:project_id"`
}

func (Document) TableName() string { return "documents" }

func (d *Document) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldName:        d.Name,
		FieldContentType: d.ContentType,
		FieldSize:        d.Size,
		FieldStoragePath: d.StoragePath,
		FieldClientID:    d.ClientID,
		FieldProjectID:   d.ProjectID,
	}
}

func (d *Document) FromDocument(data map[string]interface{}) {
	d.Name = DocString(data, FieldName)
	d.ContentType = DocString(data, FieldContentType)
	d.Size = DocInt(data, FieldSize)
	d.StoragePath = DocString(data, FieldStoragePath)
	d.ClientID = DocString(data, FieldClientID)
	d.ProjectID = DocString(data, FieldProjectID)
}

// EventType classifies calendar events
type EventType string

const (
	EventTypeGeneral  EventType = "general"
	EventTypeMeeting  EventType = "meeting"
	EventTypeTask     EventType = "task"
	EventTypeReminder EventType = "reminder"
	// EventTypeProject is only produced by the calendar aggregator
	EventTypeProject EventType = "project"
)

var storedEventType = map[EventType]string{
	EventTypeGeneral:  "general",
	EventTypeMeeting:  "reunion",
	EventTypeTask:     "tarea",
	EventTypeReminder: "recordatorio",
	EventTypeProject:  "proyecto",
}

// ParseEventType accepts API and stored spellings; unknown values become general
func ParseEventType(s string) EventType {
	for t, stored := range storedEventType {
		if s == string(t) || s == stored {
			return t
		}
	}
	return EventTypeGeneral
}

func (t EventType) DocumentValue() interface{} {
	if stored, ok := storedEventType[t]; ok {
		return stored
	}
	return storedEventType[EventTypeGeneral]
}

// CalendarEvent is a user-created appointment
type CalendarEvent struct {
	BaseModel
	Title       string    `gorm:"type:varchar(300);not null"`
	Start       DateValue `gorm:"type:varchar(64);column:start_at"`
	End         DateValue `gorm:"type:varchar(64);column:end_at"`
	AllDay      bool      `gorm:"not null;default:false;column:all_day"`
	Description string    `gorm:"type:text"`
	ProjectID   string    `gorm:"type:varchar(64);column:project_id"`
	Type        EventType `gorm:"type:varchar(50);not null;default:'general'"`
}

func (CalendarEvent) TableName() string { return "calendar_events" }

func (e *CalendarEvent) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldTitle:       e.Title,
		FieldStartDate:   e.Start,
		FieldEndDate:     e.End,
		FieldAllDay:      e.AllDay,
		FieldDescription: e.Description,
		FieldProjectID:   e.ProjectID,
		FieldEventType:   e.Type,
	}
}

func (e *CalendarEvent) FromDocument(data map[string]interface{}) {
	e.Title = DocString(data, FieldTitle)
	e.Start = DocDate(data, FieldStartDate)
	e.End = DocDate(data, FieldEndDate)
	e.AllDay = DocBool(data, FieldAllDay)
	e.Description = DocString(data, FieldDescription)
	e.ProjectID = DocString(data, FieldProjectID)
	e.Type = ParseEventType(DocString(data, FieldEventType))
}

// JSONMap is a free-form object stored as JSON text in SQL
type JSONMap map[string]interface{}

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = JSONMap{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", src)
	}
	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

func (m JSONMap) DocumentValue() interface{} {
	return map[string]interface{}(m)
}

// Activity is an entry in the user's audit trail
type Activity struct {
	BaseModel
	Action  string  `gorm:"type:varchar(100);not null"`
	Details JSONMap `gorm:"type:text"`
	Read    bool    `gorm:"not null;default:false"`
}

func (Activity) TableName() string { return "activities" }

func (a *Activity) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldAction:  a.Action,
		FieldDetails: a.Details,
		FieldRead:    a.Read,
	}
}

func (a *Activity) FromDocument(data map[string]interface{}) {
	a.Action = DocString(data, FieldAction)
	a.Details = JSONMap(DocMap(data, FieldDetails))
	a.Read = DocBool(data, FieldRead)
}

// User is an account of the local auth provider
type User struct {
	ID           string     `gorm:"type:varchar(64);primaryKey"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash"`
	DisplayName  string     `gorm:"type:varchar(200);column:display_name"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

func (User) TableName() string { return "users" }

// RevokedSession blocks a signed-out local session token until it expires
type RevokedSession struct {
	TokenID   string    `gorm:"type:varchar(64);primaryKey;column:token_id"`
	UserID    string    `gorm:"type:varchar(64);not null;index;column:user_id"`
	ExpiresAt time.Time `gorm:"not null;index;column:expires_at"`
	CreatedAt time.Time `gorm:"not null"`
}

func (RevokedSession) TableName() string { return "revoked_sessions" }
