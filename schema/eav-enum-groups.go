package schema

import "github.com/doug-martin/goqu/v9"

const (
	EnumGroupTableName        = "eav_enum_groups"
	EnumGroupTableIDColName   = "id"
	EnumGroupTableNameColName = "name"

	EnumGroupValueTableName               = "eav_enum_group_values"
	EnumGroupValueTableGroupIDColName     = "group_id"
	EnumGroupValueTableEnumValueIDColName = "enum_value_id"
)

var (
	EnumGroupTable        = goqu.T(EnumGroupTableName)
	EnumGroupTableIDCol   = EnumGroupTable.Col(EnumGroupTableIDColName)
	EnumGroupTableNameCol = EnumGroupTable.Col(EnumGroupTableNameColName)

	EnumGroupValueTable               = goqu.T(EnumGroupValueTableName)
	EnumGroupValueTableGroupIDCol     = EnumGroupValueTable.Col(EnumGroupValueTableGroupIDColName)
	EnumGroupValueTableEnumValueIDCol = EnumGroupValueTable.Col(EnumGroupValueTableEnumValueIDColName)
)

type EnumGroupRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type EnumGroupValueRow struct {
	GroupID     int64 `db:"group_id"`
	EnumValueID int64 `db:"enum_value_id"`
}
