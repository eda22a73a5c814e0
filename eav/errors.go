package eav

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownAttribute      = errors.New("unknown EAV attribute")
	ErrEnumValueNotFound     = errors.New("enum value not found")
	ErrAttributeHasValues    = errors.New("attribute has values")
	ErrDatatypeChange        = errors.New("datatype of an attribute in use cannot be changed")
	ErrHostNotRegistered     = errors.New("host type not registered")
	ErrHostAlreadyRegistered = errors.New("host type already registered")
)

// ValidationError reports a value that does not satisfy its attribute, or an
// inconsistent attribute definition. Attr is empty while the error travels
// through a bare validator and is filled in by the caller that knows the slug.
type ValidationError struct {
	Attr   string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Attr == "" {
		return e.Reason
	}

	return fmt.Sprintf("%s: %s", e.Attr, e.Reason)
}

// IllegalAssignmentError reports pending or stored values under slugs that
// are not attribute definitions of the host. It signals a caller bug rather
// than a bad value.
type IllegalAssignmentError struct {
	EntityType string
	Slugs      []string
}

func (e IllegalAssignmentError) Error() string {
	return fmt.Sprintf(
		"instance of %s cannot have values for attributes: %s",
		e.EntityType, strings.Join(e.Slugs, ", "),
	)
}
