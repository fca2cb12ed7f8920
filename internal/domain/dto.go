package domain

// DTOs returned by the API. Timestamps are ISO 8601 strings.

type ClientDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Company     string `json:"company,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type ContactDTO struct {
	ID        string `json:"id"`
	ClientID  string `json:"clientId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	FullName  string `json:"fullName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Position  string `json:"position,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type ProjectDTO struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	StartDate      *string       `json:"startDate"`
	DeliveryDate   *string       `json:"deliveryDate"`
	OperatingCost  float64       `json:"operatingCost"`
	ProductionCost float64       `json:"productionCost"`
	TotalAmount    float64       `json:"totalAmount"`
	ProfitMargin   float64       `json:"profitMargin"`
	ClientID       string        `json:"clientId,omitempty"`
	ContactID      string        `json:"contactId,omitempty"`
	Status         ProjectStatus `json:"status"`
	CreatedAt      string        `json:"createdAt"`
	UpdatedAt      string        `json:"updatedAt,omitempty"`
}

type TaskAssignmentDTO struct {
	Method  AssignmentMethod `json:"method"`
	Contact string           `json:"contact"`
	Sent    bool             `json:"sent"`
	SentAt  *string          `json:"sentAt"`
}

type TaskDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	DueDate     *string           `json:"dueDate"`
	Completed   bool              `json:"completed"`
	Assignment  TaskAssignmentDTO `json:"assignment"`
	AssignedTo  *string           `json:"assignedTo"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt,omitempty"`
}

type SaleDTO struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	ProjectName string  `json:"projectName"`
	Comment     string  `json:"comment,omitempty"`
	Month       string  `json:"month"`
	Date        string  `json:"date"`
}

type MonthlySalesDTO struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type DocumentDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	ClientID    string `json:"clientId,omitempty"`
	ProjectID   string `json:"projectId,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

type CalendarEventDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       *string   `json:"start"`
	End         *string   `json:"end"`
	AllDay      bool      `json:"allDay"`
	Description string    `json:"description,omitempty"`
	ProjectID   string    `json:"projectId,omitempty"`
	Type        EventType `json:"type"`
	CreatedAt   string    `json:"createdAt"`
}

type CalendarItemDTO struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Start       string         `json:"start"`
	End         string         `json:"end"`
	AllDay      bool           `json:"allDay"`
	Type        EventType      `json:"type"`
	Status      ProjectStatus  `json:"status,omitempty"`
	Description string         `json:"description,omitempty"`
	Source      CalendarSource `json:"source"`
	SourceID    string         `json:"sourceId"`
	ClientID    string         `json:"clientId,omitempty"`
	Style       CalendarStyle  `json:"style"`
}

type ActivityDTO struct {
	ID      string                 `json:"id"`
	Action  string                 `json:"action"`
	Details map[string]interface{} `json:"details,omitempty"`
	Read    bool                   `json:"read"`
	Date    string                 `json:"date"`
}

type DashboardDTO struct {
	TotalClients     int64         `json:"totalClients"`
	Month            string        `json:"month"`
	MonthlySales     float64       `json:"monthlySales"`
	TotalTasks       int64         `json:"totalTasks"`
	CompletedTasks   int64         `json:"completedTasks"`
	CompletionRate   int           `json:"completionRate"`
	ProjectOptions   []string      `json:"projectOptions"`
	RecentActivities []ActivityDTO `json:"recentActivities"`
}

// AssignmentLinkDTO is returned when a delegation message is prepared
type AssignmentLinkDTO struct {
	TaskID  string           `json:"taskId"`
	Method  AssignmentMethod `json:"method"`
	Contact string           `json:"contact"`
	Link    string           `json:"link"`
	Sent    bool             `json:"sent"`
	SentAt  *string          `json:"sentAt"`
}

type UserDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	LastLoginAt string `json:"lastLoginAt,omitempty"`
}

type SessionDTO struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

// SnapshotDTO is one message on a live list stream; it replaces the previous list
type SnapshotDTO struct {
	Collection string      `json:"collection"`
	Items      interface{} `json:"items"`
}

// Requests

type ClientRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone       string `json:"phone,omitempty" validate:"max=50"`
	Company     string `json:"company,omitempty" validate:"max=200"`
	ProjectName string `json:"projectName,omitempty" validate:"max=200"`
}

type ContactRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName,omitempty" validate:"max=100"`
	Email     string `json:"email,omitempty" validate:"required_without=Phone,omitempty,email,max=255"`
	Phone     string `json:"phone,omitempty" validate:"required_without=Email,max=50"`
	Position  string `json:"position,omitempty" validate:"max=100"`
}

type ProjectRequest struct {
	Name           string        `json:"name" validate:"required,max=200"`
	Description    string        `json:"description,omitempty" validate:"max=2000"`
	StartDate      DateValue     `json:"startDate"`
	DeliveryDate   DateValue     `json:"deliveryDate"`
	OperatingCost  float64       `json:"operatingCost" validate:"gte=0"`
	ProductionCost float64       `json:"productionCost" validate:"gte=0"`
	TotalAmount    float64       `json:"totalAmount" validate:"gte=0"`
	ClientID       string        `json:"clientId,omitempty" validate:"max=64"`
	ContactID      string        `json:"contactId,omitempty" validate:"max=64"`
	Status         ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed cancelled"`
}

type TaskRequest struct {
	Title       string    `json:"title" validate:"required,max=300"`
	Description string    `json:"description,omitempty" validate:"max=2000"`
	DueDate     DateValue `json:"dueDate"`
	Completed   bool      `json:"completed"`
}

// NewContactRequest creates a client on the fly while assigning a task
type NewContactRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email,omitempty" validate:"required_without=Phone,omitempty,email,max=255"`
	Phone string `json:"phone,omitempty" validate:"required_without=Email,max=50"`
}

type AssignTaskRequest struct {
	ClientID   string             `json:"clientId,omitempty" validate:"required_without=NewContact,max=64"`
	NewContact *NewContactRequest `json:"newContact,omitempty" validate:"omitempty"`
}

type SaleRequest struct {
	Amount      *float64 `json:"amount" validate:"required,gte=0"`
	ProjectName string   `json:"projectName" validate:"required,max=200"`
	Comment     string   `json:"comment,omitempty" validate:"max=1000"`
}

type DocumentUpdateRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	ClientID  string `json:"clientId,omitempty" validate:"max=64"`
	ProjectID string `json:"projectId,omitempty" validate:"max=64"`
}

type CalendarEventRequest struct {
	Title       string    `json:"title" validate:"max=300"`
	Start       DateValue `json:"start"`
	End         DateValue `json:"end"`
	AllDay      bool      `json:"allDay"`
	Description string    `json:"description,omitempty" validate:"max=2000"`
	ProjectID   string    `json:"projectId,omitempty" validate:"max=64"`
	Type        EventType `json:"type,omitempty" validate:"omitempty,oneof=general meeting task reminder"`
}

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}
