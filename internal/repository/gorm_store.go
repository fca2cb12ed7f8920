package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore keeps a collection in a SQL table. Watchers are re-queried after every write
// made through any GormStore sharing the same hub.
type GormStore[T any, PT interface {
	*T
	Entity
}] struct {
	db   *gorm.DB
	coll Collection
	hub  *ChangeHub
}

func NewGormStore[T any, PT interface {
	*T
	Entity
}](db *gorm.DB, coll Collection, hub *ChangeHub) *GormStore[T, PT] {
	return &GormStore[T, PT]{db: db, coll: coll, hub: hub}
}

func (s *GormStore[T, PT]) Collection() Collection {
	return s.coll
}

func (s *GormStore[T, PT]) query(ctx context.Context, q Query) (*gorm.DB, error) {
	tx := s.db.WithContext(ctx).Model(new(T))
	for _, f := range q.Filters {
		col, err := s.coll.Column(f.Field)
		if err != nil {
			return nil, err
		}
		if f.Value == nil {
			tx = tx.Where(col + " IS NULL")
			continue
		}
		tx = tx.Where(col+" = ?", f.Value)
	}
	if q.OrderBy != "" {
		col, err := s.coll.Column(q.OrderBy)
		if err != nil {
			return nil, err
		}
		dir := " ASC"
		if q.Desc {
			dir = " DESC"
		}
		tx = tx.Order(col + dir)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx, nil
}

func (s *GormStore[T, PT]) Find(ctx context.Context, q Query) ([]T, error) {
	tx, err := s.query(ctx, q)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := tx.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.coll.Name, err)
	}
	return items, nil
}

func (s *GormStore[T, PT]) Count(ctx context.Context, q Query) (int64, error) {
	q.OrderBy = ""
	q.Limit = 0
	tx, err := s.query(ctx, q)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.coll.Name, err)
	}
	return total, nil
}

func (s *GormStore[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s/%s: %w", s.coll.Name, id, err)
	}
	return &item, nil
}

func (s *GormStore[T, PT]) Create(ctx context.Context, doc *T) (*T, error) {
	p := PT(doc)
	if p.GetID() == "" {
		p.SetID(uuid.NewString())
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.coll.Name, err)
	}
	s.hub.Publish(s.coll.Name)
	return doc, nil
}

func (s *GormStore[T, PT]) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	columns := make(map[string]interface{}, len(fields)+1)
	for field, value := range fields {
		col, err := s.coll.Column(field)
		if err != nil {
			return err
		}
		columns[col] = value
	}
	if s.coll.UpdatedField != "" {
		if col, err := s.coll.Column(s.coll.UpdatedField); err == nil {
			columns[col] = time.Now().UTC()
		}
	}

	result := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s/%s: %w", s.coll.Name, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.hub.Publish(s.coll.Name)
	return nil
}

func (s *GormStore[T, PT]) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", s.coll.Name, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.hub.Publish(s.coll.Name)
	return nil
}

func (s *GormStore[T, PT]) Watch(ctx context.Context, q Query) (*Subscription[T], error) {
	if _, err := s.query(ctx, q); err != nil {
		return nil, err
	}

	sub, subCtx := NewSubscription[T](ctx)
	changes, release := s.hub.Subscribe(s.coll.Name)

	go func() {
		defer sub.Close()
		defer release()

		for {
			items, err := s.Find(subCtx, q)
			if subCtx.Err() != nil {
				return
			}
			sub.Publish(Snapshot[T]{Items: items, Err: err})
			if err != nil {
				return
			}

			select {
			case <-subCtx.Done():
				return
			case <-changes:
			}
		}
	}()

	return sub, nil
}
