package schema

import (
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
)

const (
	AttributeTableName                = "eav_attributes"
	AttributeTableIDColName           = "id"
	AttributeTableNameColName         = "name"
	AttributeTableSlugColName         = "slug"
	AttributeTableDescriptionColName  = "description"
	AttributeTableDatatypeColName     = "datatype"
	AttributeTableRequiredColName     = "required"
	AttributeTableDisplayOrderColName = "display_order"
	AttributeTableEnumGroupIDColName  = "enum_group_id"
	AttributeTableEntityTypeColName   = "entity_type"
	AttributeTableEntityIDColName     = "entity_id"
	AttributeTableCreatedColName      = "created"
	AttributeTableModifiedColName     = "modified"
)

var (
	AttributeTable                = goqu.T(AttributeTableName)
	AttributeTableIDCol           = AttributeTable.Col(AttributeTableIDColName)
	AttributeTableNameCol         = AttributeTable.Col(AttributeTableNameColName)
	AttributeTableSlugCol         = AttributeTable.Col(AttributeTableSlugColName)
	AttributeTableDescriptionCol  = AttributeTable.Col(AttributeTableDescriptionColName)
	AttributeTableDatatypeCol     = AttributeTable.Col(AttributeTableDatatypeColName)
	AttributeTableRequiredCol     = AttributeTable.Col(AttributeTableRequiredColName)
	AttributeTableDisplayOrderCol = AttributeTable.Col(AttributeTableDisplayOrderColName)
	AttributeTableEnumGroupIDCol  = AttributeTable.Col(AttributeTableEnumGroupIDColName)
	AttributeTableEntityTypeCol   = AttributeTable.Col(AttributeTableEntityTypeColName)
	AttributeTableEntityIDCol     = AttributeTable.Col(AttributeTableEntityIDColName)
)

type AttributeRow struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	Slug         string         `db:"slug"`
	Description  sql.NullString `db:"description"`
	Datatype     string         `db:"datatype"`
	Required     bool           `db:"required"`
	DisplayOrder int32          `db:"display_order"`
	EnumGroupID  sql.NullInt64  `db:"enum_group_id"`
	EntityType   sql.NullString `db:"entity_type"`
	EntityID     sql.NullInt64  `db:"entity_id"`
	Created      time.Time      `db:"created"`
	Modified     time.Time      `db:"modified"`
}
