package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/julesapp/crm-api/internal/domain"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps a collection in Cloud Firestore
type FirestoreStore[T any, PT interface {
	*T
	Entity
}] struct {
	client *firestore.Client
	coll   Collection
}

func NewFirestoreStore[T any, PT interface {
	*T
	Entity
}](client *firestore.Client, coll Collection) *FirestoreStore[T, PT] {
	return &FirestoreStore[T, PT]{client: client, coll: coll}
}

func (s *FirestoreStore[T, PT]) Collection() Collection {
	return s.coll
}

func (s *FirestoreStore[T, PT]) ref() *firestore.CollectionRef {
	return s.client.Collection(s.coll.Name)
}

func (s *FirestoreStore[T, PT]) query(q Query) firestore.Query {
	fq := s.ref().Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, "==", domain.EncodeDocumentValue(f.Value))
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq
}

func (s *FirestoreStore[T, PT]) decode(snap *firestore.DocumentSnapshot) T {
	var item T
	data := snap.Data()
	p := PT(&item)
	p.FromDocument(data)
	p.SetID(snap.Ref.ID)
	p.SetOwnerID(domain.DocString(data, s.coll.OwnerField))
	var updated = domain.DocTime(data, s.coll.CreatedField)
	if s.coll.UpdatedField != "" {
		if t := domain.DocTime(data, s.coll.UpdatedField); !t.IsZero() {
			updated = t
		}
	}
	p.SetTimestamps(domain.DocTime(data, s.coll.CreatedField), updated)
	return item
}

func (s *FirestoreStore[T, PT]) decodeAll(snaps []*firestore.DocumentSnapshot) []T {
	items := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		items = append(items, s.decode(snap))
	}
	return items
}

func (s *FirestoreStore[T, PT]) Find(ctx context.Context, q Query) ([]T, error) {
	snaps, err := s.query(q).Documents(ctx).GetAll()
	if err != nil {
		return nil, classifyFirestoreError(s.coll.Name, err)
	}
	return s.decodeAll(snaps), nil
}

func (s *FirestoreStore[T, PT]) Count(ctx context.Context, q Query) (int64, error) {
	q.OrderBy = ""
	q.Limit = 0
	fq := s.query(q)
	res, err := fq.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, classifyFirestoreError(s.coll.Name, err)
	}

	switch v := res["total"].(type) {
	case *firestorepb.Value:
		return v.GetIntegerValue(), nil
	case int64:
		return v, nil
	default:
		return 0, fmt.Errorf("unexpected count result %T for %s", v, s.coll.Name)
	}
}

func (s *FirestoreStore[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	snap, err := s.ref().Doc(id).Get(ctx)
	if err != nil {
		return nil, classifyFirestoreError(s.coll.Name, err)
	}
	item := s.decode(snap)
	return &item, nil
}

func (s *FirestoreStore[T, PT]) Create(ctx context.Context, doc *T) (*T, error) {
	p := PT(doc)
	data := make(map[string]interface{})
	for field, value := range p.Fields() {
		setPath(data, field, domain.EncodeDocumentValue(value))
	}
	data[s.coll.OwnerField] = p.GetOwnerID()
	data[s.coll.CreatedField] = firestore.ServerTimestamp
	if s.coll.UpdatedField != "" {
		data[s.coll.UpdatedField] = firestore.ServerTimestamp
	}

	ref, _, err := s.ref().Add(ctx, data)
	if err != nil {
		return nil, classifyFirestoreError(s.coll.Name, err)
	}
	// read back to resolve the server timestamps
	return s.Get(ctx, ref.ID)
}

func (s *FirestoreStore[T, PT]) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for field, value := range fields {
		updates = append(updates, firestore.Update{Path: field, Value: domain.EncodeDocumentValue(value)})
	}
	if s.coll.UpdatedField != "" {
		updates = append(updates, firestore.Update{Path: s.coll.UpdatedField, Value: firestore.ServerTimestamp})
	}

	if _, err := s.ref().Doc(id).Update(ctx, updates); err != nil {
		return classifyFirestoreError(s.coll.Name, err)
	}
	return nil
}

func (s *FirestoreStore[T, PT]) Delete(ctx context.Context, id string) error {
	if _, err := s.ref().Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return classifyFirestoreError(s.coll.Name, err)
	}
	return nil
}

func (s *FirestoreStore[T, PT]) Watch(ctx context.Context, q Query) (*Subscription[T], error) {
	sub, subCtx := NewSubscription[T](ctx)
	it := s.query(q).Snapshots(subCtx)

	go func() {
		defer sub.Close()
		defer it.Stop()

		for {
			qs, err := it.Next()
			if subCtx.Err() != nil {
				return
			}
			if err != nil {
				sub.Publish(Snapshot[T]{Err: classifyFirestoreError(s.coll.Name, err)})
				return
			}

			snaps, err := qs.Documents.GetAll()
			if err != nil {
				sub.Publish(Snapshot[T]{Err: classifyFirestoreError(s.coll.Name, err)})
				return
			}
			sub.Publish(Snapshot[T]{Items: s.decodeAll(snaps)})
		}
	}()

	return sub, nil
}

// setPath stores value under a dotted field path, creating nested maps
func setPath(data map[string]interface{}, path string, value interface{}) {
	parts := strings.Split(path, ".")
	m := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// classifyFirestoreError maps gRPC status codes onto the package's sentinel errors
func classifyFirestoreError(collection string, err error) error {
	if errors.Is(err, iterator.Done) {
		return err
	}
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.FailedPrecondition:
		if strings.Contains(strings.ToLower(err.Error()), "index") {
			return fmt.Errorf("%w: %s: %v", ErrIndexRequired, collection, err)
		}
	}
	return fmt.Errorf("firestore %s: %w", collection, err)
}
