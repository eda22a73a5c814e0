package schema

import (
	"database/sql"

	"github.com/doug-martin/goqu/v9"
)

const (
	EnumValueTableName               = "eav_enum_values"
	EnumValueTableIDColName          = "id"
	EnumValueTableValueColName       = "value"
	EnumValueTableLegacyValueColName = "legacy_value"
)

var (
	EnumValueTable               = goqu.T(EnumValueTableName)
	EnumValueTableIDCol          = EnumValueTable.Col(EnumValueTableIDColName)
	EnumValueTableValueCol       = EnumValueTable.Col(EnumValueTableValueColName)
	EnumValueTableLegacyValueCol = EnumValueTable.Col(EnumValueTableLegacyValueColName)
)

type EnumValueRow struct {
	ID          int64          `db:"id"`
	Value       string         `db:"value"`
	LegacyValue sql.NullString `db:"legacy_value"`
}
