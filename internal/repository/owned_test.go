package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/repository"
	"github.com/julesapp/crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupClientRepo(t *testing.T) (*repository.OwnedRepository[domain.Client, *domain.Client], repository.Store[domain.Client]) {
	db := testutil.SetupTestDB(t)
	store := repository.NewGormStore[domain.Client](db, repository.ClientsCollection, repository.NewChangeHub())
	return repository.NewOwnedRepository[domain.Client](store, zap.NewNop()), store
}

func createClientAt(t *testing.T, ctx context.Context, repo *repository.OwnedRepository[domain.Client, *domain.Client], name string, created time.Time) *domain.Client {
	t.Helper()
	c := &domain.Client{Name: name}
	c.SetTimestamps(created, created)
	saved, err := repo.Create(ctx, c)
	require.NoError(t, err)
	return saved
}

func TestOwnedRepository_CreateStampsOwner(t *testing.T) {
	repo, _ := setupClientRepo(t)
	ctx := testutil.UserContext("user-a")

	in := &domain.Client{Name: "Acme"}
	in.OwnerID = "someone-else"
	c, err := repo.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "user-a", c.OwnerID)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestOwnedRepository_TenantIsolation(t *testing.T) {
	repo, _ := setupClientRepo(t)
	ctxA := testutil.UserContext("user-a")
	ctxB := testutil.UserContext("user-b")

	c := createClientAt(t, ctxA, repo, "Acme", time.Now())

	list, err := repo.List(ctxB)
	require.NoError(t, err)
	assert.Empty(t, list)

	count, err := repo.Count(ctxB)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = repo.Get(ctxB, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Update(ctxB, c.ID, map[string]interface{}{domain.FieldName: "Stolen"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Delete(ctxB, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	found, err := repo.Get(ctxA, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", found.Name)
}

func TestOwnedRepository_RequiresSignedInUser(t *testing.T) {
	repo, _ := setupClientRepo(t)

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, repository.ErrNoOwner)

	_, err = repo.Create(context.Background(), &domain.Client{Name: "Acme"})
	assert.ErrorIs(t, err, repository.ErrNoOwner)
}

func TestOwnedRepository_ListNewest(t *testing.T) {
	repo, _ := setupClientRepo(t)
	ctx := testutil.UserContext("user-a")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	createClientAt(t, ctx, repo, "Oldest", base)
	createClientAt(t, ctx, repo, "Newest", base.Add(2*time.Hour))
	createClientAt(t, ctx, repo, "Middle", base.Add(time.Hour))

	items, err := repo.ListNewest(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Newest", items[0].Name)
	assert.Equal(t, "Middle", items[1].Name)
	assert.Equal(t, "Oldest", items[2].Name)

	limited, err := repo.ListNewest(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestOwnedRepository_UpdateKeepsOwnerAndCreation(t *testing.T) {
	repo, _ := setupClientRepo(t)
	ctx := testutil.UserContext("user-a")
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := createClientAt(t, ctx, repo, "Acme", created)

	updated, err := repo.Update(ctx, c.ID, map[string]interface{}{
		domain.FieldName:      "Acme Ltd",
		domain.FieldOwnerID:   "user-b",
		domain.FieldCreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", updated.Name)
	assert.Equal(t, "user-a", updated.OwnerID)
	assert.True(t, created.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created))
}

func TestOwnedRepository_DeleteReturnsRecord(t *testing.T) {
	repo, _ := setupClientRepo(t)
	ctx := testutil.UserContext("user-a")
	c := createClientAt(t, ctx, repo, "Acme", time.Now())

	deleted, err := repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", deleted.Name)

	_, err = repo.Get(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// indexlessStore rejects ordered queries the way Firestore does without a composite index
type indexlessStore struct {
	repository.Store[domain.Client]
	orderedCalls int
}

func (s *indexlessStore) Find(ctx context.Context, q repository.Query) ([]domain.Client, error) {
	if q.OrderBy != "" {
		s.orderedCalls++
		return nil, repository.ErrIndexRequired
	}
	return s.Store.Find(ctx, q)
}

func (s *indexlessStore) Watch(ctx context.Context, q repository.Query) (*repository.Subscription[domain.Client], error) {
	if q.OrderBy == "" {
		return s.Store.Watch(ctx, q)
	}
	s.orderedCalls++
	sub, _ := repository.NewSubscription[domain.Client](ctx)
	go func() {
		defer sub.Close()
		sub.Publish(repository.Snapshot[domain.Client]{Err: repository.ErrIndexRequired})
	}()
	return sub, nil
}

func TestOwnedRepository_ListNewestFallsBackWithoutIndex(t *testing.T) {
	_, store := setupClientRepo(t)
	fake := &indexlessStore{Store: store}
	repo := repository.NewOwnedRepository[domain.Client](fake, zap.NewNop())
	ctx := testutil.UserContext("user-a")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	createClientAt(t, ctx, repo, "B", base.Add(time.Hour))
	createClientAt(t, ctx, repo, "C", base.Add(2*time.Hour))
	createClientAt(t, ctx, repo, "A", base)
	createClientAt(t, testutil.UserContext("user-b"), repo, "Other", base.Add(3*time.Hour))

	items, err := repo.ListNewest(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.orderedCalls)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{items[0].Name, items[1].Name, items[2].Name})

	limited, err := repo.ListNewest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "C", limited[0].Name)
}

func TestOwnedRepository_ListNewestPropagatesOtherErrors(t *testing.T) {
	repo := repository.NewOwnedRepository[domain.Client](failingStore{}, zap.NewNop())

	_, err := repo.ListNewest(testutil.UserContext("user-a"), 0)
	assert.ErrorIs(t, err, assert.AnError)
}

type failingStore struct {
	repository.Store[domain.Client]
}

func (failingStore) Collection() repository.Collection { return repository.ClientsCollection }

func (failingStore) Find(context.Context, repository.Query) ([]domain.Client, error) {
	return nil, assert.AnError
}

func TestSortNewestFirst_MissingTimestampsLast(t *testing.T) {
	items := []domain.Client{{Name: "no-date"}, {Name: "old"}, {Name: "new"}}
	items[1].CreatedAt = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	items[2].CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	repository.SortNewestFirst[domain.Client](items)

	assert.Equal(t, "new", items[0].Name)
	assert.Equal(t, "old", items[1].Name)
	assert.Equal(t, "no-date", items[2].Name)
}

func nextSnapshot(t *testing.T, sub *repository.Subscription[domain.Client]) repository.Snapshot[domain.Client] {
	t.Helper()
	select {
	case snap, ok := <-sub.Updates():
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return repository.Snapshot[domain.Client]{}
}

func TestOwnedRepository_WatchNewest(t *testing.T) {
	repo, _ := setupClientRepo(t)
	ctx := testutil.UserContext("user-a")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	createClientAt(t, ctx, repo, "First", base)

	sub, err := repo.WatchNewest(ctx)
	require.NoError(t, err)
	defer sub.Cancel()

	snap := nextSnapshot(t, sub)
	require.NoError(t, snap.Err)
	require.Len(t, snap.Items, 1)

	createClientAt(t, ctx, repo, "Second", base.Add(time.Hour))

	snap = nextSnapshot(t, sub)
	require.NoError(t, snap.Err)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "Second", snap.Items[0].Name)
}

func TestOwnedRepository_WatchNewestFallsBackWithoutIndex(t *testing.T) {
	_, store := setupClientRepo(t)
	fake := &indexlessStore{Store: store}
	repo := repository.NewOwnedRepository[domain.Client](fake, zap.NewNop())
	ctx := testutil.UserContext("user-a")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	createClientAt(t, ctx, repo, "Old", base)
	createClientAt(t, ctx, repo, "New", base.Add(time.Hour))

	sub, err := repo.WatchNewest(ctx)
	require.NoError(t, err)
	defer sub.Cancel()

	snap := nextSnapshot(t, sub)
	require.NoError(t, snap.Err)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "New", snap.Items[0].Name)
	assert.Equal(t, 1, fake.orderedCalls)
}

func TestSubscription_CancelIsIdempotent(t *testing.T) {
	repo, _ := setupClientRepo(t)
	ctx := testutil.UserContext("user-a")

	sub, err := repo.WatchNewest(ctx)
	require.NoError(t, err)
	nextSnapshot(t, sub)

	assert.NotPanics(t, func() {
		sub.Cancel()
		sub.Cancel()
	})

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription not cancelled")
	}

	// the producer closes the channel once it notices the cancellation
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.Updates():
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubscription_PublishKeepsLatest(t *testing.T) {
	sub, _ := repository.NewSubscription[domain.Client](context.Background())
	defer sub.Cancel()

	sub.Publish(repository.Snapshot[domain.Client]{Items: []domain.Client{{Name: "first"}}})
	sub.Publish(repository.Snapshot[domain.Client]{Items: []domain.Client{{Name: "second"}}})

	snap := nextSnapshot(t, sub)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "second", snap.Items[0].Name)
}

func TestChangeHub_CoalescesAndReleases(t *testing.T) {
	hub := repository.NewChangeHub()
	ch, release := hub.Subscribe("clientes")

	hub.Publish("clientes")
	hub.Publish("clientes")
	hub.Publish("tareas")

	select {
	case <-ch:
	default:
		t.Fatal("expected a change notification")
	}
	select {
	case <-ch:
		t.Fatal("notifications should be coalesced")
	default:
	}

	release()
	release()
	hub.Publish("clientes")
	select {
	case <-ch:
		t.Fatal("released subscriber should not be notified")
	default:
	}
}

func TestGormStore_TaskAssignmentFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repository.NewGormStore[domain.Task](db, repository.TasksCollection, repository.NewChangeHub())
	repo := repository.NewOwnedRepository[domain.Task](store, zap.NewNop())
	ctx := testutil.UserContext("user-a")

	task, err := repo.Create(ctx, &domain.Task{Title: "Call"})
	require.NoError(t, err)

	sentAt := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	updated, err := repo.Update(ctx, task.ID, map[string]interface{}{
		domain.FieldAssignmentMethod:  string(domain.AssignmentMethodEmail),
		domain.FieldAssignmentContact: "ana@example.com",
		domain.FieldAssignmentSent:    true,
		domain.FieldAssignmentSentAt:  sentAt,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentMethodEmail, updated.Assignment.Method)
	assert.Equal(t, "ana@example.com", updated.Assignment.Contact)
	assert.True(t, updated.Assignment.Sent)
	require.NotNil(t, updated.Assignment.SentAt)
	assert.True(t, sentAt.Equal(*updated.Assignment.SentAt))

	pending, err := repo.List(ctx, repository.Eq(domain.FieldCompleted, false))
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestGormStore_UnknownFieldIsRejected(t *testing.T) {
	_, store := setupClientRepo(t)

	_, err := store.Find(context.Background(), repository.Query{Filters: []repository.Filter{repository.Eq("bogus", 1)}})
	assert.Error(t, err)
}
