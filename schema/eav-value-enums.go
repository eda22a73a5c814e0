package schema

import "github.com/doug-martin/goqu/v9"

const (
	ValueEnumTableName               = "eav_value_enums"
	ValueEnumTableValueIDColName     = "value_id"
	ValueEnumTableEnumValueIDColName = "enum_value_id"
)

var (
	ValueEnumTable               = goqu.T(ValueEnumTableName)
	ValueEnumTableValueIDCol     = ValueEnumTable.Col(ValueEnumTableValueIDColName)
	ValueEnumTableEnumValueIDCol = ValueEnumTable.Col(ValueEnumTableEnumValueIDColName)
)

// ValueEnumRow is the associative set backing multi-choice values.
type ValueEnumRow struct {
	ValueID     int64 `db:"value_id"`
	EnumValueID int64 `db:"enum_value_id"`
}
