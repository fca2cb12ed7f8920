package repository

import (
	"cloud.google.com/go/firestore"
	"github.com/julesapp/crm-api/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewGormStores keeps every collection in SQL tables sharing one change hub
func NewGormStores(db *gorm.DB, hub *ChangeHub) *Stores {
	return &Stores{
		Clients:    NewGormStore[domain.Client](db, ClientsCollection, hub),
		Contacts:   NewGormStore[domain.Contact](db, ContactsCollection, hub),
		Projects:   NewGormStore[domain.Project](db, ProjectsCollection, hub),
		Tasks:      NewGormStore[domain.Task](db, TasksCollection, hub),
		Sales:      NewGormStore[domain.Sale](db, SalesCollection, hub),
		Documents:  NewGormStore[domain.Document](db, DocumentsCollection, hub),
		Events:     NewGormStore[domain.CalendarEvent](db, EventsCollection, hub),
		Activities: NewGormStore[domain.Activity](db, ActivitiesCollection, hub),
	}
}

// NewFirestoreStores keeps every collection in Firestore
func NewFirestoreStores(client *firestore.Client) *Stores {
	return &Stores{
		Clients:    NewFirestoreStore[domain.Client](client, ClientsCollection),
		Contacts:   NewFirestoreStore[domain.Contact](client, ContactsCollection),
		Projects:   NewFirestoreStore[domain.Project](client, ProjectsCollection),
		Tasks:      NewFirestoreStore[domain.Task](client, TasksCollection),
		Sales:      NewFirestoreStore[domain.Sale](client, SalesCollection),
		Documents:  NewFirestoreStore[domain.Document](client, DocumentsCollection),
		Events:     NewFirestoreStore[domain.CalendarEvent](client, EventsCollection),
		Activities: NewFirestoreStore[domain.Activity](client, ActivitiesCollection),
	}
}

// Repositories wraps every store in owner scoping
type Repositories struct {
	Clients    *OwnedRepository[domain.Client, *domain.Client]
	Contacts   *OwnedRepository[domain.Contact, *domain.Contact]
	Projects   *OwnedRepository[domain.Project, *domain.Project]
	Tasks      *OwnedRepository[domain.Task, *domain.Task]
	Sales      *OwnedRepository[domain.Sale, *domain.Sale]
	Documents  *OwnedRepository[domain.Document, *domain.Document]
	Events     *OwnedRepository[domain.CalendarEvent, *domain.CalendarEvent]
	Activities *OwnedRepository[domain.Activity, *domain.Activity]
}

func NewRepositories(stores *Stores, logger *zap.Logger) *Repositories {
	return &Repositories{
		Clients:    NewOwnedRepository[domain.Client](stores.Clients, logger),
		Contacts:   NewOwnedRepository[domain.Contact](stores.Contacts, logger),
		Projects:   NewOwnedRepository[domain.Project](stores.Projects, logger),
		Tasks:      NewOwnedRepository[domain.Task](stores.Tasks, logger),
		Sales:      NewOwnedRepository[domain.Sale](stores.Sales, logger),
		Documents:  NewOwnedRepository[domain.Document](stores.Documents, logger),
		Events:     NewOwnedRepository[domain.CalendarEvent](stores.Events, logger),
		Activities: NewOwnedRepository[domain.Activity](stores.Activities, logger),
	}
}
