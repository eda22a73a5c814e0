package eav

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dubizzle/goeav/schema"
)

// Entity gives a host instance attribute-style access to its EAV values.
// Writes are staged in a pending bag and persisted only by an explicit Save;
// callers integrating with a host's own persistence run ValidateAttributes
// before the host write commits and Save after it.
type Entity struct {
	repo        *Repository
	config      HostConfig
	instance    Addressable
	pending     map[string]any
	attrs       []Attribute
	attrsLoaded bool
}

func (e *Entity) Instance() Addressable {
	return e.instance
}

// Set stages a pending assignment for slug. Nothing is persisted until Save.
func (e *Entity) Set(slug string, value any) {
	e.pending[slug] = value
}

// Pending returns the staged assignment for slug, if any.
func (e *Entity) Pending(slug string) (any, bool) {
	value, ok := e.pending[slug]

	return value, ok
}

// Attributes resolves the attribute definitions applicable to the host
// instance, ordered by display order. The set is cached per proxy.
func (e *Entity) Attributes(ctx context.Context) ([]Attribute, error) {
	if e.attrsLoaded {
		return e.attrs, nil
	}

	var (
		attrs []Attribute
		err   error
	)

	if e.config.Attributes != nil {
		attrs, err = e.config.Attributes(ctx, e.repo, e.instance)
	} else {
		attrs, err = e.repo.AttributesFor(ctx, e.instance)
	}

	if err != nil {
		return nil, err
	}

	e.attrs = attrs
	e.attrsLoaded = true

	return attrs, nil
}

func (e *Entity) attributeBySlug(ctx context.Context, slug string) (*Attribute, error) {
	attrs, err := e.Attributes(ctx)
	if err != nil {
		return nil, err
	}

	for idx := range attrs {
		if attrs[idx].Slug == slug {
			return &attrs[idx], nil
		}
	}

	return nil, fmt.Errorf(
		"%w: %s has no EAV attribute named `%s`", ErrUnknownAttribute, e.instance.EntityType(), slug,
	)
}

// Get reads the value under slug. A staged pending assignment shadows the
// stored value. The bool result is false when the attribute exists but holds
// no value; a slug outside the host's attribute set is an error.
func (e *Entity) Get(ctx context.Context, slug string) (any, bool, error) {
	if value, ok := e.pending[slug]; ok {
		return value, true, nil
	}

	attr, err := e.attributeBySlug(ctx, slug)
	if err != nil {
		return nil, false, err
	}

	found, row, err := e.repo.Value(ctx, e.instance, attr.ID)
	if err != nil {
		return nil, false, err
	}

	if !found {
		return nil, false, nil
	}

	value, err := e.repo.decodeValue(ctx, attr, &row)
	if err != nil {
		return nil, false, err
	}

	return value, true, nil
}

// Save persists every pending assignment through the owning attribute.
// Raw choice assignments are resolved to saved tokens first; a string with
// no matching token fails rather than creating one. Attributes without a
// pending assignment are left untouched.
func (e *Entity) Save(ctx context.Context) error {
	attrs, err := e.Attributes(ctx)
	if err != nil {
		return err
	}

	for idx := range attrs {
		attr := &attrs[idx]

		value, ok := e.pending[attr.Slug]
		if !ok {
			continue
		}

		value, err = e.resolveChoices(ctx, attr, value)
		if err != nil {
			return err
		}

		if err := e.repo.SaveValue(ctx, attr, e.instance, value); err != nil {
			return err
		}
	}

	return nil
}

func (e *Entity) resolveChoices(ctx context.Context, attr *Attribute, value any) (any, error) {
	switch attr.Type() {
	case TypeEnum:
		str, ok := value.(string)
		if !ok || str == "" {
			return value, nil
		}

		row, err := e.repo.EnumValueByValue(ctx, str)
		if err != nil {
			return nil, err
		}

		return &row, nil
	case TypeEnumMulti:
		items, err := collectionItems(value)
		if err != nil {
			return value, nil
		}

		resolved := make([]*schema.EnumValueRow, 0, len(items))

		for _, item := range items {
			switch v := item.(type) {
			case string:
				row, err := e.repo.EnumValueByValue(ctx, v)
				if err != nil {
					return nil, err
				}

				resolved = append(resolved, &row)
			case schema.EnumValueRow:
				resolved = append(resolved, &v)
			case *schema.EnumValueRow:
				resolved = append(resolved, v)
			default:
				return nil, ValidationError{
					Attr:   attr.Slug,
					Reason: "must be a saved enum value or a string",
				}
			}
		}

		return resolved, nil
	default:
		return value, nil
	}
}

// ValidateAttributes checks every applicable attribute before the host
// record's own persistence commits. The pending assignment wins over the
// stored value; an absent value on a required attribute fails; leftover
// stored slugs or pending keys outside the attribute set are an illegal
// assignment.
func (e *Entity) ValidateAttributes(ctx context.Context) error {
	attrs, err := e.Attributes(ctx)
	if err != nil {
		return err
	}

	stored, err := e.repo.Values(ctx, e.instance)
	if err != nil {
		return err
	}

	storedValues := make(map[string]any, len(stored))
	for _, sv := range stored {
		storedValues[sv.Attribute.Slug] = sv.Value
	}

	known := make(map[string]bool, len(attrs))

	for idx := range attrs {
		attr := &attrs[idx]
		known[attr.Slug] = true

		value, ok := e.pending[attr.Slug]
		if !ok {
			value = storedValues[attr.Slug]
		}

		delete(storedValues, attr.Slug)

		if value == nil {
			if attr.Required {
				return ValidationError{Attr: attr.Slug, Reason: "EAV field cannot be blank"}
			}

			continue
		}

		if err := e.repo.ValidateValue(ctx, attr, value); err != nil {
			return err
		}
	}

	illegal := make([]string, 0)

	for slug := range storedValues {
		illegal = append(illegal, slug)
	}

	for slug := range e.pending {
		if !known[slug] {
			illegal = append(illegal, slug)
		}
	}

	if len(illegal) > 0 {
		sort.Strings(illegal)

		return IllegalAssignmentError{
			EntityType: e.instance.EntityType(),
			Slugs:      illegal,
		}
	}

	return nil
}

// Values returns the host's currently stored values. Pending, unsaved
// assignments are not included.
func (e *Entity) Values(ctx context.Context) ([]StoredValue, error) {
	return e.repo.Values(ctx, e.instance)
}

// IsIllegalAssignment reports whether err is an illegal-assignment failure.
func IsIllegalAssignment(err error) bool {
	var iaErr IllegalAssignmentError

	return errors.As(err, &iaErr)
}
