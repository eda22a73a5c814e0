package eav

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memRecord struct {
	entityType string
	id         int64
	fields     map[string]any
}

func (r *memRecord) EntityType() string {
	return r.entityType
}

func (r *memRecord) EntityID() int64 {
	return r.id
}

// memStore is an in-memory RecordStore for exercising the manager contract.
type memStore struct {
	mu         sync.Mutex
	entityType string
	records    []*memRecord
}

func newMemStore(entityType string) *memStore {
	return &memStore{entityType: entityType}
}

func (s *memStore) Create(_ context.Context, fields map[string]any) (Addressable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}

	record := &memRecord{
		entityType: s.entityType,
		id:         nextEntityID(),
		fields:     copied,
	}

	s.records = append(s.records, record)

	return record, nil
}

func (s *memStore) Find(_ context.Context, criteria map[string]any) (Addressable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		matches := true

		for key, value := range criteria {
			if record.fields[key] != value {
				matches = false

				break
			}
		}

		if matches {
			return record, nil
		}
	}

	return nil, sql.ErrNoRows
}

func (s *memStore) FindForUpdate(ctx context.Context, criteria map[string]any) (Addressable, error) {
	return s.Find(ctx, criteria)
}

func (s *memStore) Update(_ context.Context, record Addressable, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, candidate := range s.records {
		if candidate.id == record.EntityID() {
			for key, value := range fields {
				candidate.fields[key] = value
			}

			return nil
		}
	}

	return sql.ErrNoRows
}

func (s *memStore) WithTx(fn func(RecordStore) error) error {
	return fn(s)
}

func TestManagerCreateSplitsEAVFields(t *testing.T) {
	t.Parallel()

	s := createRepository(t)
	registry := NewRegistry(s)

	ctx := context.Background()

	attr := createAttribute(t, s, TypeText)
	entityType := createHost(t, registry, HostConfig{Attributes: staticAttributes(attr)})

	store := newMemStore(entityType)
	manager := NewManager(registry, entityType, store)

	record, err := manager.Create(ctx, map[string]any{
		"name":                "patient zero",
		EAVPrefix + attr.Slug: "red",
	})
	require.NoError(t, err)

	mem, ok := record.(*memRecord)
	require.True(t, ok)
	require.Equal(t, "patient zero", mem.fields["name"])
	require.NotContains(t, mem.fields, EAVPrefix+attr.Slug)

	values, err := s.Values(ctx, record)
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Equal(t, "red", values[0].Value)
}

func TestManagerCreateValidatesBeforeHostWrite(t *testing.T) {
	t.Parallel()

	s := createRepository(t)
	registry := NewRegistry(s)

	attr := createAttribute(t, s, TypeText)
	attr.Required = true
	require.NoError(t, s.SaveAttribute(context.Background(), &attr))

	entityType := createHost(t, registry, HostConfig{
		PreSaveValidation: true,
		Attributes:        staticAttributes(attr),
	})

	store := newMemStore(entityType)
	manager := NewManager(registry, entityType, store)

	_, err := manager.Create(context.Background(), map[string]any{"name": "incomplete"})

	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Empty(t, store.records)
}

func TestManagerGetOrCreate(t *testing.T) {
	t.Parallel()

	s := createRepository(t)
	registry := NewRegistry(s)

	ctx := context.Background()

	attr := createAttribute(t, s, TypeText)
	entityType := createHost(t, registry, HostConfig{Attributes: staticAttributes(attr)})

	store := newMemStore(entityType)
	manager := NewManager(registry, entityType, store)

	name := uuid.New().String()
	criteria := map[string]any{"name": name}

	record, created, err := manager.GetOrCreate(ctx, criteria, map[string]any{
		EAVPrefix + attr.Slug: "blue",
	})
	require.NoError(t, err)
	require.True(t, created)

	again, created, err := manager.GetOrCreate(ctx, criteria, nil)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, record.EntityID(), again.EntityID())
}

func TestManagerUpdateOrCreate(t *testing.T) {
	t.Parallel()

	s := createRepository(t)
	registry := NewRegistry(s)

	ctx := context.Background()

	attr := createAttribute(t, s, TypeText)
	entityType := createHost(t, registry, HostConfig{Attributes: staticAttributes(attr)})

	store := newMemStore(entityType)
	manager := NewManager(registry, entityType, store)

	name := uuid.New().String()
	criteria := map[string]any{"name": name}

	record, created, err := manager.UpdateOrCreate(ctx, criteria, map[string]any{
		"status":              "new",
		EAVPrefix + attr.Slug: "green",
	})
	require.NoError(t, err)
	require.True(t, created)

	// the update applies the defaults map, not the lookup criteria
	again, created, err := manager.UpdateOrCreate(ctx, criteria, map[string]any{
		"status":              "seen",
		EAVPrefix + attr.Slug: "yellow",
	})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, record.EntityID(), again.EntityID())

	mem, ok := again.(*memRecord)
	require.True(t, ok)
	require.Equal(t, "seen", mem.fields["status"])

	values, err := s.Values(ctx, again)
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Equal(t, "yellow", values[0].Value)
}

func TestManagerOnlyBypassesProxy(t *testing.T) {
	t.Parallel()

	s := createRepository(t)
	registry := NewRegistry(s)

	entityType := createHost(t, registry, HostConfig{ManagerOnly: true})

	store := newMemStore(entityType)
	manager := NewManager(registry, entityType, store)

	record, err := manager.Create(context.Background(), map[string]any{"name": "raw"})
	require.NoError(t, err)

	mem, ok := record.(*memRecord)
	require.True(t, ok)
	require.Equal(t, "raw", mem.fields["name"])
}
