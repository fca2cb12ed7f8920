package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned for missing records and for records owned by someone else
	ErrNotFound = errors.New("record not found")
	// ErrIndexRequired is returned when the backend cannot serve an ordered query without an index
	ErrIndexRequired = errors.New("query requires an index")
	// ErrNoOwner is returned when a request carries no signed-in user
	ErrNoOwner = errors.New("no signed-in user")
)

// Entity is implemented by every record kept in a Store
type Entity interface {
	GetID() string
	SetID(id string)
	GetOwnerID() string
	SetOwnerID(ownerID string)
	GetCreatedAt() time.Time
	SetTimestamps(created, updated time.Time)
	// Fields returns the editable fields keyed by document field name
	Fields() map[string]interface{}
	// FromDocument loads the editable fields from a stored document
	FromDocument(data map[string]interface{})
}

// Filter is an equality condition on a document field
type Filter struct {
	Field string
	Value interface{}
}

// Eq builds an equality filter
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Value: value}
}

// Query selects documents of one collection
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Collection describes where a record type lives in each backend
type Collection struct {
	Name         string
	OwnerField   string
	CreatedField string
	// UpdatedField is empty for append-only collections
	UpdatedField string
	// Columns maps document field names to SQL columns
	Columns map[string]string
}

// Column returns the SQL column of a document field
func (c Collection) Column(field string) (string, error) {
	col, ok := c.Columns[field]
	if !ok {
		return "", fmt.Errorf("collection %s has no field %q", c.Name, field)
	}
	return col, nil
}

// Store is a collection in a remote document database
type Store[T any] interface {
	Collection() Collection
	Find(ctx context.Context, q Query) ([]T, error)
	Count(ctx context.Context, q Query) (int64, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, doc *T) (*T, error)
	// Update merges the given fields into the document and stamps its update time
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	// Watch streams a full result snapshot now and after every change
	Watch(ctx context.Context, q Query) (*Subscription[T], error)
}
