package schema

import (
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

const (
	ValueTableName                    = "eav_values"
	ValueTableIDColName               = "id"
	ValueTableEntityTypeColName       = "entity_type"
	ValueTableEntityIDColName         = "entity_id"
	ValueTableAttributeIDColName      = "attribute_id"
	ValueTableValueTextColName        = "value_text"
	ValueTableValueFloatColName       = "value_float"
	ValueTableValueDecimalColName     = "value_decimal"
	ValueTableValueIntColName         = "value_int"
	ValueTableValueDateColName        = "value_date"
	ValueTableValueBoolColName        = "value_bool"
	ValueTableValueEnumIDColName      = "value_enum_id"
	ValueTableGenericValueTypeColName = "generic_value_type"
	ValueTableGenericValueIDColName   = "generic_value_id"
	ValueTableCreatedColName          = "created"
	ValueTableModifiedColName         = "modified"
)

var (
	ValueTable                    = goqu.T(ValueTableName)
	ValueTableIDCol               = ValueTable.Col(ValueTableIDColName)
	ValueTableEntityTypeCol       = ValueTable.Col(ValueTableEntityTypeColName)
	ValueTableEntityIDCol         = ValueTable.Col(ValueTableEntityIDColName)
	ValueTableAttributeIDCol      = ValueTable.Col(ValueTableAttributeIDColName)
	ValueTableValueTextCol        = ValueTable.Col(ValueTableValueTextColName)
	ValueTableValueFloatCol       = ValueTable.Col(ValueTableValueFloatColName)
	ValueTableValueDecimalCol     = ValueTable.Col(ValueTableValueDecimalColName)
	ValueTableValueIntCol         = ValueTable.Col(ValueTableValueIntColName)
	ValueTableValueDateCol        = ValueTable.Col(ValueTableValueDateColName)
	ValueTableValueBoolCol        = ValueTable.Col(ValueTableValueBoolColName)
	ValueTableValueEnumIDCol      = ValueTable.Col(ValueTableValueEnumIDColName)
	ValueTableGenericValueTypeCol = ValueTable.Col(ValueTableGenericValueTypeColName)
	ValueTableGenericValueIDCol   = ValueTable.Col(ValueTableGenericValueIDColName)
)

// ValueRow holds the value of one attribute for one entity. As with most EAV
// layouts, all but one of the value_* columns of a row are NULL.
type ValueRow struct {
	ID               int64               `db:"id"`
	EntityType       string              `db:"entity_type"`
	EntityID         int64               `db:"entity_id"`
	AttributeID      int64               `db:"attribute_id"`
	ValueText        sql.NullString      `db:"value_text"`
	ValueFloat       sql.NullFloat64     `db:"value_float"`
	ValueDecimal     decimal.NullDecimal `db:"value_decimal"`
	ValueInt         sql.NullInt64       `db:"value_int"`
	ValueDate        sql.NullTime        `db:"value_date"`
	ValueBool        sql.NullBool        `db:"value_bool"`
	ValueEnumID      sql.NullInt64       `db:"value_enum_id"`
	GenericValueType sql.NullString      `db:"generic_value_type"`
	GenericValueID   sql.NullInt64       `db:"generic_value_id"`
	Created          time.Time           `db:"created"`
	Modified         time.Time           `db:"modified"`
}
