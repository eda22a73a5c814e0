package eav

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/dubizzle/goeav/schema"
)

// StoredValue is one persisted value together with its attribute definition
// and the decoded typed value.
type StoredValue struct {
	Attribute Attribute
	Row       schema.ValueRow
	Value     any
}

// typedRecord builds the column set for one value write. Every typed column
// appears in the record so an update nulls whatever a previous datatype left
// behind; exactly one is populated, selected by the attribute datatype.
func typedRecord(datatype Datatype, value any) (goqu.Record, error) {
	record := goqu.Record{
		schema.ValueTableValueTextColName:        nil,
		schema.ValueTableValueFloatColName:       nil,
		schema.ValueTableValueDecimalColName:     nil,
		schema.ValueTableValueIntColName:         nil,
		schema.ValueTableValueDateColName:        nil,
		schema.ValueTableValueBoolColName:        nil,
		schema.ValueTableValueEnumIDColName:      nil,
		schema.ValueTableGenericValueTypeColName: nil,
		schema.ValueTableGenericValueIDColName:   nil,
	}

	switch datatype {
	case TypeText:
		str, ok := value.(string)
		if !ok {
			return nil, ValidationError{Reason: "must be a string"}
		}

		record[schema.ValueTableValueTextColName] = str
	case TypeJSON:
		mapping, ok := value.(map[string]any)
		if !ok {
			return nil, ValidationError{Reason: "must be a mapping"}
		}

		encoded, err := json.Marshal(mapping)
		if err != nil {
			return nil, err
		}

		record[schema.ValueTableValueTextColName] = string(encoded)
	case TypeFloat:
		f, ok := toFloat64(value)
		if !ok {
			return nil, ValidationError{Reason: "must be a float"}
		}

		record[schema.ValueTableValueFloatColName] = f
	case TypeDecimal:
		d, ok := toDecimal(value)
		if !ok {
			return nil, ValidationError{Reason: "must be a decimal"}
		}

		record[schema.ValueTableValueDecimalColName] = d
	case TypeInt:
		i, ok := toInt64(value)
		if !ok {
			return nil, ValidationError{Reason: "must be an integer"}
		}

		record[schema.ValueTableValueIntColName] = i
	case TypeDate:
		t, ok := value.(time.Time)
		if !ok {
			return nil, ValidationError{Reason: "must be a date or datetime"}
		}

		record[schema.ValueTableValueDateColName] = t
	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, ValidationError{Reason: "must be a boolean"}
		}

		record[schema.ValueTableValueBoolColName] = b
	case TypeObject:
		ref, ok := value.(Addressable)
		if !ok {
			return nil, ValidationError{Reason: "must be an addressable record"}
		}

		record[schema.ValueTableGenericValueTypeColName] = ref.EntityType()
		record[schema.ValueTableGenericValueIDColName] = ref.EntityID()
	case TypeEnum:
		id, err := enumValueID(value)
		if err != nil {
			return nil, err
		}

		record[schema.ValueTableValueEnumIDColName] = id
	default:
		return nil, ValidationError{Reason: fmt.Sprintf("cannot store datatype `%s`", datatype)}
	}

	return record, nil
}

func enumValueID(value any) (int64, error) {
	switch v := value.(type) {
	case schema.EnumValueRow:
		if v.ID != 0 {
			return v.ID, nil
		}
	case *schema.EnumValueRow:
		if v != nil && v.ID != 0 {
			return v.ID, nil
		}
	case int64:
		if v != 0 {
			return v, nil
		}
	}

	return 0, ValidationError{Reason: "must be a saved enum value"}
}

func enumValueIDs(value any) ([]int64, error) {
	items, err := collectionItems(value)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))

	for _, item := range items {
		id, err := enumValueID(item)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// isEmptyValue reports whether value means "no value": nil, the empty string
// or an empty collection. Legitimate falsy values (false, 0) are not empty.
func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}

	if str, ok := value.(string); ok {
		return str == ""
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice {
		return rv.Len() == 0
	}

	return false
}

// RowJSON decodes the text column of a json-datatype row as a mapping. An
// empty column decodes as an empty mapping.
func RowJSON(row *schema.ValueRow) (map[string]any, error) {
	if !row.ValueText.Valid || row.ValueText.String == "" {
		return map[string]any{}, nil
	}

	mapping := map[string]any{}
	err := json.Unmarshal([]byte(row.ValueText.String), &mapping)

	return mapping, err
}

// Value fetches the stored row for the pair, if any.
func (s *Repository) Value(ctx context.Context, entity Addressable, attributeID int64) (bool, schema.ValueRow, error) {
	var row schema.ValueRow

	success, err := valueSelect(s.db).
		Where(
			schema.ValueTableEntityTypeCol.Eq(entity.EntityType()),
			schema.ValueTableEntityIDCol.Eq(entity.EntityID()),
			schema.ValueTableAttributeIDCol.Eq(attributeID),
		).
		ScanStructContext(ctx, &row)

	return success, row, err
}

// Values returns all stored values of the entity with their attributes and
// decoded typed values.
func (s *Repository) Values(ctx context.Context, entity Addressable) ([]StoredValue, error) {
	rows := make([]schema.ValueRow, 0)

	err := valueSelect(s.db).
		Where(
			schema.ValueTableEntityTypeCol.Eq(entity.EntityType()),
			schema.ValueTableEntityIDCol.Eq(entity.EntityID()),
		).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, err
	}

	result := make([]StoredValue, 0, len(rows))

	for idx := range rows {
		row := rows[idx]

		found, attr, err := s.Attribute(ctx, row.AttributeID)
		if err != nil {
			return nil, err
		}

		if !found {
			continue
		}

		value, err := s.decodeValue(ctx, &attr, &row)
		if err != nil {
			return nil, err
		}

		result = append(result, StoredValue{
			Attribute: attr,
			Row:       row,
			Value:     value,
		})
	}

	return result, nil
}

func valueSelect(db *goqu.Database) *goqu.SelectDataset {
	return db.Select(
		schema.ValueTableIDCol, schema.ValueTableEntityTypeCol, schema.ValueTableEntityIDCol,
		schema.ValueTableAttributeIDCol, schema.ValueTableValueTextCol, schema.ValueTableValueFloatCol,
		schema.ValueTableValueDecimalCol, schema.ValueTableValueIntCol, schema.ValueTableValueDateCol,
		schema.ValueTableValueBoolCol, schema.ValueTableValueEnumIDCol,
		schema.ValueTableGenericValueTypeCol, schema.ValueTableGenericValueIDCol,
	).From(schema.ValueTable)
}

// decodeValue reads whichever typed column matches the attribute datatype.
// Dispatch is by datatype, never by which column happens to be populated.
func (s *Repository) decodeValue(ctx context.Context, attr *Attribute, row *schema.ValueRow) (any, error) {
	switch attr.Type() {
	case TypeText:
		if row.ValueText.Valid {
			return row.ValueText.String, nil
		}
	case TypeJSON:
		return RowJSON(row)
	case TypeFloat:
		if row.ValueFloat.Valid {
			return row.ValueFloat.Float64, nil
		}
	case TypeDecimal:
		if row.ValueDecimal.Valid {
			return row.ValueDecimal.Decimal, nil
		}
	case TypeInt:
		if row.ValueInt.Valid {
			return row.ValueInt.Int64, nil
		}
	case TypeDate:
		if row.ValueDate.Valid {
			return row.ValueDate.Time, nil
		}
	case TypeBoolean:
		if row.ValueBool.Valid {
			return row.ValueBool.Bool, nil
		}
	case TypeObject:
		if row.GenericValueType.Valid && row.GenericValueID.Valid {
			return EntityRef{
				Type: row.GenericValueType.String,
				ID:   row.GenericValueID.Int64,
			}, nil
		}
	case TypeEnum:
		if row.ValueEnumID.Valid {
			found, enumRow, err := s.EnumValue(ctx, row.ValueEnumID.Int64)
			if err != nil || !found {
				return nil, err
			}

			return &enumRow, nil
		}
	case TypeEnumMulti:
		enumRows := make([]*schema.EnumValueRow, 0)

		err := s.db.Select(
			schema.EnumValueTableIDCol, schema.EnumValueTableValueCol, schema.EnumValueTableLegacyValueCol,
		).
			From(schema.EnumValueTable).
			Join(
				schema.ValueEnumTable,
				goqu.On(schema.EnumValueTableIDCol.Eq(schema.ValueEnumTableEnumValueIDCol)),
			).
			Where(schema.ValueEnumTableValueIDCol.Eq(row.ID)).
			Order(schema.EnumValueTableValueCol.Asc()).
			ScanStructsContext(ctx, &enumRows)
		if err != nil {
			return nil, err
		}

		return enumRows, nil
	}

	return nil, nil
}
