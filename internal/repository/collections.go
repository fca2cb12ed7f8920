package repository

import "github.com/julesapp/crm-api/internal/domain"

// withBase adds the owner and timestamp columns every table has
func withBase(ownerField, createdField string, columns map[string]string) map[string]string {
	columns[ownerField] = "owner_id"
	columns[createdField] = "created_at"
	columns[domain.FieldUpdatedAt] = "updated_at"
	return columns
}

var (
	ClientsCollection = Collection{
		Name:         domain.CollectionClients,
		OwnerField:   domain.FieldOwnerID,
		CreatedField: domain.FieldCreatedAt,
		UpdatedField: domain.FieldUpdatedAt,
		Columns: withBase(domain.FieldOwnerID, domain.FieldCreatedAt, map[string]string{
			domain.FieldName:        "name",
			domain.FieldEmail:       "email",
			domain.FieldPhone:       "phone",
			domain.FieldCompany:     "company",
			domain.FieldProjectName: "project_name",
		}),
	}

	ContactsCollection = Collection{
		Name:         domain.CollectionContacts,
		OwnerField:   domain.FieldOwnerID,
		CreatedField: domain.FieldCreatedAt,
		UpdatedField: domain.FieldUpdatedAt,
		Columns: withBase(domain.FieldOwnerID, domain.FieldCreatedAt, map[string]string{
			domain.FieldName:     "first_name",
			domain.FieldLastName: "last_name",
			domain.FieldEmail:    "email",
			domain.FieldPhone:    "phone",
			domain.FieldPosition: "position",
			domain.FieldClientID: "client_id",
		}),
	}

	ProjectsCollection = Collection{
		Name:         domain.CollectionProjects,
		OwnerField:   domain.FieldOwnerID,
		CreatedField: domain.FieldCreatedAt,
		UpdatedField: domain.FieldUpdatedAt,
		Columns: withBase(domain.FieldOwnerID, domain.FieldCreatedAt, map[string]string{
			domain.FieldName:           "name",
			domain.FieldDescription:    "description",
			domain.FieldStartDate:      "start_date",
			domain.FieldDeliveryDate:   "delivery_date",
			domain.FieldOperatingCost:  "operating_cost",
			domain.FieldProductionCost: "production_cost",
			domain.FieldTotalAmount:    "total_amount",
			domain.FieldProfitMargin:   "profit_margin",
			domain.FieldClientID:       "client_id",
			domain.FieldContactID:      "contact_id",
			domain.FieldStatus:         "status",
		}),
	}

	TasksCollection = Collection{
		Name:         domain.CollectionTasks,
		OwnerField:   domain.FieldOwnerID,
		CreatedField: domain.FieldCreatedAt,
		UpdatedField: domain.FieldUpdatedAt,
		Columns: withBase(domain.FieldOwnerID, domain.FieldCreatedAt, map[string]string{
			domain.FieldTitle:             "title",
			domain.FieldDescription:       "description",
			domain.FieldDueDate:           "due_date",
			domain.FieldCompleted:         "completed",
			domain.FieldAssignmentMethod:  "assignment_method",
			domain.FieldAssignmentContact: "assignment_contact",
			domain.FieldAssignmentSent:    "assignment_sent",
			domain.FieldAssignmentSentAt:  "assignment_sent_at",
			domain.FieldAssignedTo:        "assigned_to",
		}),
	}

	// Sales are stamped with fecha; month stays fixed after creation
	SalesCollection = Collection{
		Name:         domain.CollectionSales,
		OwnerField:   domain.FieldOwnerID,
		CreatedField: domain.FieldDate,
		UpdatedField: domain.FieldUpdatedAt,
		Columns: withBase(domain.FieldOwnerID, domain.FieldDate, map[string]string{
			domain.FieldAmount:      "amount",
			domain.FieldProjectName: "project_name",
			domain.FieldComment:     "comment",
			domain.FieldMonth:       "month",
		}),
	}

	DocumentsCollection = Collection{
		Name:         domain.CollectionDocuments,
		OwnerField:   domain.FieldOwnerID,
		CreatedField: domain.FieldCreatedAt,
		UpdatedField: domain.FieldUpdatedAt,
		Columns: withBase(domain.FieldOwnerID, domain.FieldCreatedAt, map[string]string{
			domain.FieldName:        "name",
			domain.FieldContentType: "content_type",
			domain.FieldSize:        "size",
			domain.FieldStoragePath: "storage_path",
			domain.FieldClientID:    "client_id",
			domain.FieldProjectID:   "project_id",
		}),
	}

	EventsCollection = Collection{
		Name:         domain.CollectionEvents,
		OwnerField:   domain.FieldEventOwnerID,
		CreatedField: domain.FieldCreatedAt,
		UpdatedField: domain.FieldUpdatedAt,
		Columns: withBase(domain.FieldEventOwnerID, domain.FieldCreatedAt, map[string]string{
			domain.FieldTitle:       "title",
			domain.FieldStartDate:   "start_at",
			domain.FieldEndDate:     "end_at",
			domain.FieldAllDay:      "all_day",
			domain.FieldDescription: "description",
			domain.FieldProjectID:   "project_id",
			domain.FieldEventType:   "type",
		}),
	}

	ActivitiesCollection = Collection{
		Name:         domain.CollectionActivities,
		OwnerField:   domain.FieldOwnerID,
		CreatedField: domain.FieldDate,
		Columns: withBase(domain.FieldOwnerID, domain.FieldDate, map[string]string{
			domain.FieldAction:  "action",
			domain.FieldDetails: "details",
			domain.FieldRead:    "read",
		}),
	}
)

// Stores holds one store per collection
type Stores struct {
	Clients    Store[domain.Client]
	Contacts   Store[domain.Contact]
	Projects   Store[domain.Project]
	Tasks      Store[domain.Task]
	Sales      Store[domain.Sale]
	Documents  Store[domain.Document]
	Events     Store[domain.CalendarEvent]
	Activities Store[domain.Activity]
}
