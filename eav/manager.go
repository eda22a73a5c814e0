package eav

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// EAVPrefix namespaces EAV fields inside a host's field map.
const EAVPrefix = "eav__"

// RecordStore is the collaborator contract a host record type implements for
// manager-level operations. Find and FindForUpdate return sql.ErrNoRows when
// no record matches; FindForUpdate must hold an exclusive row lock inside the
// transaction opened by WithTx.
type RecordStore interface {
	Create(ctx context.Context, fields map[string]any) (Addressable, error)
	Find(ctx context.Context, criteria map[string]any) (Addressable, error)
	FindForUpdate(ctx context.Context, criteria map[string]any) (Addressable, error)
	Update(ctx context.Context, record Addressable, fields map[string]any) error
	WithTx(fn func(RecordStore) error) error
}

// Manager routes host record creation through the EAV layer: EAV-prefixed
// fields are split off, staged on the proxy, validated before the host write
// and saved after it.
type Manager struct {
	registry   *Registry
	store      RecordStore
	entityType string
}

func NewManager(registry *Registry, entityType string, store RecordStore) *Manager {
	return &Manager{
		registry:   registry,
		store:      store,
		entityType: entityType,
	}
}

// SplitFields separates native host fields from EAV-prefixed ones. The
// prefix is stripped from the EAV keys.
func SplitFields(fields map[string]any) (map[string]any, map[string]any) {
	native := make(map[string]any, len(fields))
	eavFields := make(map[string]any)

	for key, value := range fields {
		if strings.HasPrefix(key, EAVPrefix) {
			eavFields[strings.TrimPrefix(key, EAVPrefix)] = value
		} else {
			native[key] = value
		}
	}

	return native, eavFields
}

func (m *Manager) Create(ctx context.Context, fields map[string]any) (Addressable, error) {
	return m.create(ctx, m.store, fields)
}

func (m *Manager) create(ctx context.Context, store RecordStore, fields map[string]any) (Addressable, error) {
	config, ok := m.registry.Config(m.entityType)
	if !ok {
		return nil, fmt.Errorf("%w: `%s`", ErrHostNotRegistered, m.entityType)
	}

	if config.ManagerOnly {
		return store.Create(ctx, fields)
	}

	native, eavFields := SplitFields(fields)

	if config.PreSaveValidation {
		// Validation runs against an unsaved reference so it completes
		// before the host row exists.
		staging, err := m.registry.Entity(EntityRef{Type: m.entityType})
		if err != nil {
			return nil, err
		}

		for slug, value := range eavFields {
			staging.Set(slug, value)
		}

		if err := staging.ValidateAttributes(ctx); err != nil {
			return nil, err
		}
	}

	record, err := store.Create(ctx, native)
	if err != nil {
		return nil, err
	}

	entity, err := m.registry.Entity(record)
	if err != nil {
		return nil, err
	}

	for slug, value := range eavFields {
		entity.Set(slug, value)
	}

	if err := entity.Save(ctx); err != nil {
		return nil, err
	}

	logrus.Debugf("created %s `%d` with %d EAV fields", m.entityType, record.EntityID(), len(eavFields))

	return record, nil
}

// GetOrCreate fetches by exact criteria, creating the record (with EAV field
// splitting) when none exists. The bool result reports whether creation
// occurred.
func (m *Manager) GetOrCreate(
	ctx context.Context, criteria map[string]any, defaults map[string]any,
) (Addressable, bool, error) {
	record, err := m.store.Find(ctx, criteria)
	if err == nil {
		return record, false, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	record, err = m.create(ctx, m.store, mergeFields(criteria, defaults))

	return record, err == nil, err
}

// UpdateOrCreate locks and fetches a matching record inside one transaction,
// applying defaults in place when found, creating otherwise. The update uses
// the explicit defaults map, never the lookup criteria.
func (m *Manager) UpdateOrCreate(
	ctx context.Context, criteria map[string]any, defaults map[string]any,
) (Addressable, bool, error) {
	var (
		record  Addressable
		created bool
	)

	err := m.store.WithTx(func(txStore RecordStore) error {
		var err error

		record, err = txStore.FindForUpdate(ctx, criteria)
		if errors.Is(err, sql.ErrNoRows) {
			record, err = m.create(ctx, txStore, mergeFields(criteria, defaults))
			created = err == nil

			return err
		}

		if err != nil {
			return err
		}

		native, eavFields := SplitFields(defaults)

		if len(native) > 0 {
			if err := txStore.Update(ctx, record, native); err != nil {
				return err
			}
		}

		if len(eavFields) == 0 {
			return nil
		}

		entity, err := m.registry.Entity(record)
		if err != nil {
			return err
		}

		for slug, value := range eavFields {
			entity.Set(slug, value)
		}

		return entity.Save(ctx)
	})
	if err != nil {
		return nil, false, err
	}

	return record, created, nil
}

func mergeFields(criteria map[string]any, defaults map[string]any) map[string]any {
	merged := make(map[string]any, len(criteria)+len(defaults))

	for key, value := range criteria {
		merged[key] = value
	}

	for key, value := range defaults {
		merged[key] = value
	}

	return merged
}
