package eav

import (
	"context"
	"fmt"
)

// Addressable is the capability a host record exposes to the EAV layer: a
// type tag and an opaque identifier. An identifier of zero means the record
// has not been persisted yet.
type Addressable interface {
	EntityType() string
	EntityID() int64
}

// EntityRef is a plain (type, id) reference to a host record.
type EntityRef struct {
	Type string
	ID   int64
}

func (r EntityRef) EntityType() string {
	return r.Type
}

func (r EntityRef) EntityID() int64 {
	return r.ID
}

// AttributesResolver returns the ordered set of attribute definitions
// applicable to a host instance.
type AttributesResolver func(ctx context.Context, repo *Repository, instance Addressable) ([]Attribute, error)

// HostConfig declares how a host record type participates in the EAV layer.
type HostConfig struct {
	// ManagerOnly hosts use catalog access only; the manager skips the
	// proxy conveniences for them.
	ManagerOnly bool
	// PreSaveValidation makes the manager run ValidateAttributes before
	// the host record's own write.
	PreSaveValidation bool
	// Attributes resolves the applicable attribute set. Nil falls back to
	// Repository.AttributesFor.
	Attributes AttributesResolver
}

// Registry maps host type tags to their configuration. It is populated at
// startup and read-only afterwards; registration is not safe for concurrent
// use with lookups.
type Registry struct {
	repo  *Repository
	hosts map[string]HostConfig
}

func NewRegistry(repo *Repository) *Registry {
	return &Registry{
		repo:  repo,
		hosts: make(map[string]HostConfig),
	}
}

func (r *Registry) Register(entityType string, config HostConfig) error {
	if _, ok := r.hosts[entityType]; ok {
		return fmt.Errorf("%w: `%s`", ErrHostAlreadyRegistered, entityType)
	}

	r.hosts[entityType] = config

	return nil
}

func (r *Registry) Unregister(entityType string) {
	delete(r.hosts, entityType)
}

func (r *Registry) Config(entityType string) (HostConfig, bool) {
	config, ok := r.hosts[entityType]

	return config, ok
}

// Entity builds the proxy for a registered host instance.
func (r *Registry) Entity(instance Addressable) (*Entity, error) {
	config, ok := r.hosts[instance.EntityType()]
	if !ok {
		return nil, fmt.Errorf("%w: `%s`", ErrHostNotRegistered, instance.EntityType())
	}

	return &Entity{
		repo:     r.repo,
		config:   config,
		instance: instance,
		pending:  make(map[string]any),
	}, nil
}
