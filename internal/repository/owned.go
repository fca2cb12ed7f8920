package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/julesapp/crm-api/internal/auth"
	"go.uber.org/zap"
)

// OwnedRepository scopes every query and write of a Store to the signed-in user.
// Records of other users behave exactly like missing records.
type OwnedRepository[T any, PT interface {
	*T
	Entity
}] struct {
	store  Store[T]
	logger *zap.Logger
}

func NewOwnedRepository[T any, PT interface {
	*T
	Entity
}](store Store[T], logger *zap.Logger) *OwnedRepository[T, PT] {
	return &OwnedRepository[T, PT]{store: store, logger: logger}
}

func (r *OwnedRepository[T, PT]) Collection() Collection {
	return r.store.Collection()
}

func (r *OwnedRepository[T, PT]) scope(ctx context.Context, filters []Filter) (Query, error) {
	ownerID, ok := auth.OwnerID(ctx)
	if !ok {
		return Query{}, ErrNoOwner
	}
	scoped := make([]Filter, 0, len(filters)+1)
	scoped = append(scoped, Eq(r.store.Collection().OwnerField, ownerID))
	scoped = append(scoped, filters...)
	return Query{Filters: scoped}, nil
}

// List returns the user's records matching filters in no particular order
func (r *OwnedRepository[T, PT]) List(ctx context.Context, filters ...Filter) ([]T, error) {
	q, err := r.scope(ctx, filters)
	if err != nil {
		return nil, err
	}
	return r.store.Find(ctx, q)
}

// ListNewest returns the user's records newest first. When the backend cannot order the
// query it falls back to an unordered fetch sorted in memory. limit <= 0 means all.
func (r *OwnedRepository[T, PT]) ListNewest(ctx context.Context, limit int, filters ...Filter) ([]T, error) {
	q, err := r.scope(ctx, filters)
	if err != nil {
		return nil, err
	}
	ordered := q
	ordered.OrderBy = r.store.Collection().CreatedField
	ordered.Desc = true
	ordered.Limit = limit

	items, err := r.store.Find(ctx, ordered)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, ErrIndexRequired) {
		return nil, err
	}

	r.logger.Warn("ordered query needs an index, sorting in memory",
		zap.String("collection", r.store.Collection().Name),
		zap.Error(err),
	)
	items, err = r.store.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	SortNewestFirst[T, PT](items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *OwnedRepository[T, PT]) Count(ctx context.Context, filters ...Filter) (int64, error) {
	q, err := r.scope(ctx, filters)
	if err != nil {
		return 0, err
	}
	return r.store.Count(ctx, q)
}

// Get returns ErrNotFound for records owned by someone else
func (r *OwnedRepository[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	ownerID, ok := auth.OwnerID(ctx)
	if !ok {
		return nil, ErrNoOwner
	}
	item, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if PT(item).GetOwnerID() != ownerID {
		return nil, ErrNotFound
	}
	return item, nil
}

// Create stamps the owner onto doc and stores it
func (r *OwnedRepository[T, PT]) Create(ctx context.Context, doc *T) (*T, error) {
	ownerID, ok := auth.OwnerID(ctx)
	if !ok {
		return nil, ErrNoOwner
	}
	PT(doc).SetOwnerID(ownerID)
	return r.store.Create(ctx, doc)
}

// Update merges fields into the user's record and returns the stored result.
// The owner and creation time cannot be changed.
func (r *OwnedRepository[T, PT]) Update(ctx context.Context, id string, fields map[string]interface{}) (*T, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}

	coll := r.store.Collection()
	clean := make(map[string]interface{}, len(fields))
	for field, value := range fields {
		if field == coll.OwnerField || field == coll.CreatedField {
			continue
		}
		clean[field] = value
	}

	if err := r.store.Update(ctx, id, clean); err != nil {
		return nil, err
	}
	return r.store.Get(ctx, id)
}

// Delete removes the user's record and returns what was deleted
func (r *OwnedRepository[T, PT]) Delete(ctx context.Context, id string) (*T, error) {
	item, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return nil, err
	}
	return item, nil
}

// WatchNewest streams the user's records newest first. An index error from the backend,
// either at subscribe time or in a snapshot, switches to an unordered watch sorted in memory.
func (r *OwnedRepository[T, PT]) WatchNewest(ctx context.Context, filters ...Filter) (*Subscription[T], error) {
	q, err := r.scope(ctx, filters)
	if err != nil {
		return nil, err
	}
	ordered := q
	ordered.OrderBy = r.store.Collection().CreatedField
	ordered.Desc = true

	inner, err := r.store.Watch(ctx, ordered)
	if errors.Is(err, ErrIndexRequired) {
		r.logIndexFallback(err)
		return r.watchSorted(ctx, q)
	}
	if err != nil {
		return nil, err
	}

	sub, subCtx := NewSubscription[T](ctx)
	go func() {
		defer sub.Close()
		current := inner
		sorted := false
		defer func() { current.Cancel() }()

		for {
			select {
			case <-subCtx.Done():
				return
			case snap, ok := <-current.Updates():
				if !ok {
					return
				}
				if !sorted && errors.Is(snap.Err, ErrIndexRequired) {
					r.logIndexFallback(snap.Err)
					current.Cancel()
					next, err := r.store.Watch(subCtx, q)
					if err != nil {
						sub.Publish(Snapshot[T]{Err: err})
						return
					}
					current = next
					sorted = true
					continue
				}
				if sorted && snap.Err == nil {
					SortNewestFirst[T, PT](snap.Items)
				}
				sub.Publish(snap)
			}
		}
	}()

	return sub, nil
}

func (r *OwnedRepository[T, PT]) watchSorted(ctx context.Context, q Query) (*Subscription[T], error) {
	inner, err := r.store.Watch(ctx, q)
	if err != nil {
		return nil, err
	}

	sub, subCtx := NewSubscription[T](ctx)
	go func() {
		defer sub.Close()
		defer inner.Cancel()
		for {
			select {
			case <-subCtx.Done():
				return
			case snap, ok := <-inner.Updates():
				if !ok {
					return
				}
				if snap.Err == nil {
					SortNewestFirst[T, PT](snap.Items)
				}
				sub.Publish(snap)
			}
		}
	}()
	return sub, nil
}

func (r *OwnedRepository[T, PT]) logIndexFallback(err error) {
	r.logger.Warn("ordered watch needs an index, sorting in memory",
		zap.String("collection", r.store.Collection().Name),
		zap.Error(err),
	)
}

// SortNewestFirst orders items by creation time, newest first. Records without a
// creation time sort last and ties keep their order.
func SortNewestFirst[T any, PT interface {
	*T
	Entity
}](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return PT(&items[i]).GetCreatedAt().After(PT(&items[j]).GetCreatedAt())
	})
}
