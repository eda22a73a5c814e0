package eav

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/dubizzle/goeav/schema"
)

// Attribute is a typed field definition from the catalog.
type Attribute struct {
	schema.AttributeRow
}

func (a *Attribute) Type() Datatype {
	return Datatype(a.Datatype)
}

func (a *Attribute) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Type().DisplayName())
}

func attributeSelect(db *goqu.Database) *goqu.SelectDataset {
	return db.Select(
		schema.AttributeTableIDCol, schema.AttributeTableNameCol, schema.AttributeTableSlugCol,
		schema.AttributeTableDescriptionCol, schema.AttributeTableDatatypeCol, schema.AttributeTableRequiredCol,
		schema.AttributeTableDisplayOrderCol, schema.AttributeTableEnumGroupIDCol,
		schema.AttributeTableEntityTypeCol, schema.AttributeTableEntityIDCol,
	).From(schema.AttributeTable)
}

func (s *Repository) Attribute(ctx context.Context, id int64) (bool, Attribute, error) {
	var row Attribute

	success, err := attributeSelect(s.db).
		Where(schema.AttributeTableIDCol.Eq(id)).
		ScanStructContext(ctx, &row)

	return success, row, err
}

func (s *Repository) AttributeBySlug(ctx context.Context, slug string) (bool, Attribute, error) {
	var row Attribute

	success, err := attributeSelect(s.db).
		Where(schema.AttributeTableSlugCol.Eq(slug)).
		ScanStructContext(ctx, &row)

	return success, row, err
}

// Attributes returns every attribute definition ordered for display.
func (s *Repository) Attributes(ctx context.Context) ([]Attribute, error) {
	rows := make([]Attribute, 0)

	err := attributeSelect(s.db).
		Order(schema.AttributeTableDisplayOrderCol.Asc(), schema.AttributeTableNameCol.Asc()).
		ScanStructsContext(ctx, &rows)

	return rows, err
}

// AttributesFor returns the attributes applicable to the entity: global
// definitions plus definitions scoped to the entity's type or to the entity
// itself, ordered by display order.
func (s *Repository) AttributesFor(ctx context.Context, entity Addressable) ([]Attribute, error) {
	rows := make([]Attribute, 0)

	err := attributeSelect(s.db).
		Where(goqu.Or(
			schema.AttributeTableEntityTypeCol.IsNull(),
			goqu.And(
				schema.AttributeTableEntityTypeCol.Eq(entity.EntityType()),
				schema.AttributeTableEntityIDCol.IsNull(),
			),
			goqu.And(
				schema.AttributeTableEntityTypeCol.Eq(entity.EntityType()),
				schema.AttributeTableEntityIDCol.Eq(entity.EntityID()),
			),
		)).
		Order(schema.AttributeTableDisplayOrderCol.Asc(), schema.AttributeTableNameCol.Asc()).
		ScanStructsContext(ctx, &rows)

	return rows, err
}

// SaveAttribute creates or updates an attribute definition. A blank slug is
// derived from the name, then the definition is validated before any write.
// The datatype of an attribute that already has values must not change.
func (s *Repository) SaveAttribute(ctx context.Context, attr *Attribute) error {
	if attr.Slug == "" {
		attr.Slug = Slugify(attr.Name)
	}

	if err := cleanAttribute(attr); err != nil {
		return err
	}

	if attr.ID == 0 {
		res, err := s.db.Insert(schema.AttributeTable).Rows(goqu.Record{
			schema.AttributeTableNameColName:         attr.Name,
			schema.AttributeTableSlugColName:         attr.Slug,
			schema.AttributeTableDescriptionColName:  attr.Description,
			schema.AttributeTableDatatypeColName:     attr.Datatype,
			schema.AttributeTableRequiredColName:     attr.Required,
			schema.AttributeTableDisplayOrderColName: attr.DisplayOrder,
			schema.AttributeTableEnumGroupIDColName:  attr.EnumGroupID,
			schema.AttributeTableEntityTypeColName:   attr.EntityType,
			schema.AttributeTableEntityIDColName:     attr.EntityID,
			schema.AttributeTableCreatedColName:      goqu.Func("NOW"),
			schema.AttributeTableModifiedColName:     goqu.Func("NOW"),
		}).Executor().ExecContext(ctx)
		if err != nil {
			return err
		}

		attr.ID, err = res.LastInsertId()

		return err
	}

	found, current, err := s.Attribute(ctx, attr.ID)
	if err != nil {
		return err
	}

	if found && current.Datatype != attr.Datatype {
		hasValues, err := s.HasValues(ctx, attr.ID)
		if err != nil {
			return err
		}

		if hasValues {
			return fmt.Errorf("%w: `%s`", ErrDatatypeChange, attr.Slug)
		}
	}

	_, err = s.db.Update(schema.AttributeTable).Set(goqu.Record{
		schema.AttributeTableNameColName:         attr.Name,
		schema.AttributeTableDescriptionColName:  attr.Description,
		schema.AttributeTableDatatypeColName:     attr.Datatype,
		schema.AttributeTableRequiredColName:     attr.Required,
		schema.AttributeTableDisplayOrderColName: attr.DisplayOrder,
		schema.AttributeTableEnumGroupIDColName:  attr.EnumGroupID,
		schema.AttributeTableEntityTypeColName:   attr.EntityType,
		schema.AttributeTableEntityIDColName:     attr.EntityID,
		schema.AttributeTableModifiedColName:     goqu.Func("NOW"),
	}).Where(schema.AttributeTableIDCol.Eq(attr.ID)).Executor().ExecContext(ctx)

	return err
}

func cleanAttribute(attr *Attribute) error {
	if attr.Name == "" {
		return ValidationError{Attr: attr.Slug, Reason: "name cannot be blank"}
	}

	if !IsValidSlug(attr.Slug) {
		return ValidationError{Attr: attr.Slug, Reason: "slug is not a valid identifier"}
	}

	if !attr.Type().IsValid() {
		return ValidationError{Attr: attr.Slug, Reason: fmt.Sprintf("unknown datatype `%s`", attr.Datatype)}
	}

	if attr.Type().IsChoice() && !attr.EnumGroupID.Valid {
		return ValidationError{Attr: attr.Slug, Reason: "choice attributes must have an enum group"}
	}

	if !attr.Type().IsChoice() && attr.EnumGroupID.Valid {
		return ValidationError{Attr: attr.Slug, Reason: "only choice attributes may have an enum group"}
	}

	return nil
}

// DeleteAttribute removes an attribute definition. Deletion is protected: it
// refuses while any value still references the attribute.
func (s *Repository) DeleteAttribute(ctx context.Context, id int64) error {
	hasValues, err := s.HasValues(ctx, id)
	if err != nil {
		return err
	}

	if hasValues {
		return fmt.Errorf("%w: %d", ErrAttributeHasValues, id)
	}

	_, err = s.db.Delete(schema.AttributeTable).
		Where(schema.AttributeTableIDCol.Eq(id)).
		Executor().ExecContext(ctx)

	return err
}

func (s *Repository) HasValues(ctx context.Context, attributeID int64) (bool, error) {
	var result bool

	success, err := s.db.Select(goqu.L("1")).
		From(schema.ValueTable).
		Where(schema.ValueTableAttributeIDCol.Eq(attributeID)).
		Limit(1).
		ScanValContext(ctx, &result)

	return success && result, err
}

// Validators returns the validators for a datatype. A slice so that
// attribute-specific validators can join the built-in one later.
func (s *Repository) Validators(datatype Datatype) []Validator {
	validator, ok := datatypeValidators[datatype]
	if !ok {
		return nil
	}

	return []Validator{validator}
}

// ValidateValue checks value against the attribute's datatype validator and,
// for choice datatypes, against the enum group's token set.
func (s *Repository) ValidateValue(ctx context.Context, attr *Attribute, value any) error {
	for _, validator := range s.Validators(attr.Type()) {
		if err := validator(value); err != nil {
			var vErr ValidationError
			if errors.As(err, &vErr) {
				vErr.Attr = attr.Slug

				return vErr
			}

			return err
		}
	}

	switch attr.Type() {
	case TypeEnum:
		str := enumString(value)

		in, err := s.InGroup(ctx, attr.EnumGroupID.Int64, str)
		if err != nil {
			return err
		}

		if !in {
			return ValidationError{
				Attr:   attr.Slug,
				Reason: fmt.Sprintf("`%s` is not a valid choice for %s", str, attr),
			}
		}
	case TypeEnumMulti:
		items, err := collectionItems(value)
		if err != nil {
			return err
		}

		values := make([]string, 0, len(items))
		for _, item := range items {
			values = append(values, enumString(item))
		}

		matched, err := s.GroupMemberCount(ctx, attr.EnumGroupID.Int64, values)
		if err != nil {
			return err
		}

		if matched != int64(len(values)) {
			return ValidationError{
				Attr:   attr.Slug,
				Reason: fmt.Sprintf("%v is not a valid choice for %s", values, attr),
			}
		}
	}

	return nil
}

// enumString extracts the string form of a choice value.
func enumString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case schema.EnumValueRow:
		return v.Value
	case *schema.EnumValueRow:
		if v != nil {
			return v.Value
		}
	}

	return ""
}

// Choices returns the token set of a choice attribute. The second result is
// false when the datatype has no choices.
func (s *Repository) Choices(ctx context.Context, attr *Attribute) ([]schema.EnumValueRow, bool, error) {
	if !attr.Type().IsChoice() {
		return nil, false, nil
	}

	rows, err := s.GroupValues(ctx, attr.EnumGroupID.Int64)

	return rows, true, err
}

// SaveValue persists value for the (entity, attr) pair. A nil value, empty
// string or empty collection deletes the stored row. The row is fetched under
// an exclusive lock before the update-or-insert decision so concurrent savers
// cannot race on the pair's uniqueness constraint.
func (s *Repository) SaveValue(ctx context.Context, attr *Attribute, entity Addressable, value any) error {
	if isEmptyValue(value) {
		return s.deleteValue(ctx, attr.ID, entity)
	}

	if attr.Type() == TypeEnumMulti {
		return s.saveMultiValue(ctx, attr, entity, value)
	}

	record, err := typedRecord(attr.Type(), value)
	if err != nil {
		var vErr ValidationError
		if errors.As(err, &vErr) {
			vErr.Attr = attr.Slug

			return vErr
		}

		return err
	}

	return s.db.WithTx(func(tx *goqu.TxDatabase) error {
		var valueID int64

		found, err := tx.Select(schema.ValueTableIDCol).
			From(schema.ValueTable).
			Where(
				schema.ValueTableEntityTypeCol.Eq(entity.EntityType()),
				schema.ValueTableEntityIDCol.Eq(entity.EntityID()),
				schema.ValueTableAttributeIDCol.Eq(attr.ID),
			).
			ForUpdate(exp.Wait).
			ScanValContext(ctx, &valueID)
		if err != nil {
			return err
		}

		if found {
			record[schema.ValueTableModifiedColName] = goqu.Func("NOW")

			_, err = tx.Update(schema.ValueTable).Set(record).
				Where(schema.ValueTableIDCol.Eq(valueID)).
				Executor().ExecContext(ctx)

			return err
		}

		record[schema.ValueTableEntityTypeColName] = entity.EntityType()
		record[schema.ValueTableEntityIDColName] = entity.EntityID()
		record[schema.ValueTableAttributeIDColName] = attr.ID
		record[schema.ValueTableCreatedColName] = goqu.Func("NOW")
		record[schema.ValueTableModifiedColName] = goqu.Func("NOW")

		_, err = tx.Insert(schema.ValueTable).Rows(record).Executor().ExecContext(ctx)

		return err
	})
}

// saveMultiValue replaces the associative token set of a multi-choice value.
// A full replace, not a merge: an existing set is cleared first.
func (s *Repository) saveMultiValue(ctx context.Context, attr *Attribute, entity Addressable, value any) error {
	ids, err := enumValueIDs(value)
	if err != nil {
		var vErr ValidationError
		if errors.As(err, &vErr) {
			vErr.Attr = attr.Slug

			return vErr
		}

		return err
	}

	return s.db.WithTx(func(tx *goqu.TxDatabase) error {
		var valueID int64

		found, err := tx.Select(schema.ValueTableIDCol).
			From(schema.ValueTable).
			Where(
				schema.ValueTableEntityTypeCol.Eq(entity.EntityType()),
				schema.ValueTableEntityIDCol.Eq(entity.EntityID()),
				schema.ValueTableAttributeIDCol.Eq(attr.ID),
			).
			ForUpdate(exp.Wait).
			ScanValContext(ctx, &valueID)
		if err != nil {
			return err
		}

		if found {
			_, err = tx.Delete(schema.ValueEnumTable).
				Where(schema.ValueEnumTableValueIDCol.Eq(valueID)).
				Executor().ExecContext(ctx)
			if err != nil {
				return err
			}
		} else {
			res, err := tx.Insert(schema.ValueTable).Rows(goqu.Record{
				schema.ValueTableEntityTypeColName:  entity.EntityType(),
				schema.ValueTableEntityIDColName:    entity.EntityID(),
				schema.ValueTableAttributeIDColName: attr.ID,
				schema.ValueTableCreatedColName:     goqu.Func("NOW"),
				schema.ValueTableModifiedColName:    goqu.Func("NOW"),
			}).Executor().ExecContext(ctx)
			if err != nil {
				return err
			}

			valueID, err = res.LastInsertId()
			if err != nil {
				return err
			}
		}

		records := make([]goqu.Record, 0, len(ids))
		for _, id := range ids {
			records = append(records, goqu.Record{
				schema.ValueEnumTableValueIDColName:     valueID,
				schema.ValueEnumTableEnumValueIDColName: id,
			})
		}

		_, err = tx.Insert(schema.ValueEnumTable).Rows(records).Executor().ExecContext(ctx)

		return err
	})
}

// deleteValue drops the stored row for the pair. A no-op when none exists.
func (s *Repository) deleteValue(ctx context.Context, attributeID int64, entity Addressable) error {
	return s.db.WithTx(func(tx *goqu.TxDatabase) error {
		var valueID int64

		found, err := tx.Select(schema.ValueTableIDCol).
			From(schema.ValueTable).
			Where(
				schema.ValueTableEntityTypeCol.Eq(entity.EntityType()),
				schema.ValueTableEntityIDCol.Eq(entity.EntityID()),
				schema.ValueTableAttributeIDCol.Eq(attributeID),
			).
			ForUpdate(exp.Wait).
			ScanValContext(ctx, &valueID)
		if err != nil || !found {
			return err
		}

		_, err = tx.Delete(schema.ValueEnumTable).
			Where(schema.ValueEnumTableValueIDCol.Eq(valueID)).
			Executor().ExecContext(ctx)
		if err != nil {
			return err
		}

		_, err = tx.Delete(schema.ValueTable).
			Where(schema.ValueTableIDCol.Eq(valueID)).
			Executor().ExecContext(ctx)

		return err
	})
}
