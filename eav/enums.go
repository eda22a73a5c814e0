package eav

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/dubizzle/goeav/schema"
)

// CreateEnumValue creates a choice token. Tokens are global and are meant to
// be shared between groups, so a "yes" used by two groups is created once.
func (s *Repository) CreateEnumValue(ctx context.Context, value string, legacyValue string) (int64, error) {
	res, err := s.db.Insert(schema.EnumValueTable).Rows(goqu.Record{
		schema.EnumValueTableValueColName: value,
		schema.EnumValueTableLegacyValueColName: sql.NullString{
			String: legacyValue,
			Valid:  legacyValue != "",
		},
	}).Executor().ExecContext(ctx)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (s *Repository) EnumValue(ctx context.Context, id int64) (bool, schema.EnumValueRow, error) {
	var row schema.EnumValueRow

	success, err := s.db.Select(
		schema.EnumValueTableIDCol, schema.EnumValueTableValueCol, schema.EnumValueTableLegacyValueCol,
	).
		From(schema.EnumValueTable).
		Where(schema.EnumValueTableIDCol.Eq(id)).
		ScanStructContext(ctx, &row)

	return success, row, err
}

// EnumValueByValue resolves a raw string to its saved token by exact value
// match. It never creates a token on a miss.
func (s *Repository) EnumValueByValue(ctx context.Context, value string) (schema.EnumValueRow, error) {
	var row schema.EnumValueRow

	success, err := s.db.Select(
		schema.EnumValueTableIDCol, schema.EnumValueTableValueCol, schema.EnumValueTableLegacyValueCol,
	).
		From(schema.EnumValueTable).
		Where(schema.EnumValueTableValueCol.Eq(value)).
		ScanStructContext(ctx, &row)
	if err != nil {
		return row, err
	}

	if !success {
		return row, fmt.Errorf("%w: `%s`", ErrEnumValueNotFound, value)
	}

	return row, nil
}

func (s *Repository) CreateEnumGroup(ctx context.Context, name string) (int64, error) {
	res, err := s.db.Insert(schema.EnumGroupTable).Rows(goqu.Record{
		schema.EnumGroupTableNameColName: name,
	}).Executor().ExecContext(ctx)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// AddEnumValuesToGroup associates tokens with a group. Re-adding an existing
// member is a no-op.
func (s *Repository) AddEnumValuesToGroup(ctx context.Context, groupID int64, enumValueIDs ...int64) error {
	for _, enumValueID := range enumValueIDs {
		_, err := s.db.Insert(schema.EnumGroupValueTable).Rows(goqu.Record{
			schema.EnumGroupValueTableGroupIDColName:     groupID,
			schema.EnumGroupValueTableEnumValueIDColName: enumValueID,
		}).OnConflict(goqu.DoNothing()).Executor().ExecContext(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Repository) EnumGroup(ctx context.Context, id int64) (bool, schema.EnumGroupRow, error) {
	var row schema.EnumGroupRow

	success, err := s.db.Select(schema.EnumGroupTableIDCol, schema.EnumGroupTableNameCol).
		From(schema.EnumGroupTable).
		Where(schema.EnumGroupTableIDCol.Eq(id)).
		ScanStructContext(ctx, &row)

	return success, row, err
}

// GroupValues returns the token set of a group.
func (s *Repository) GroupValues(ctx context.Context, groupID int64) ([]schema.EnumValueRow, error) {
	rows := make([]schema.EnumValueRow, 0)

	err := s.db.Select(
		schema.EnumValueTableIDCol, schema.EnumValueTableValueCol, schema.EnumValueTableLegacyValueCol,
	).
		From(schema.EnumValueTable).
		Join(
			schema.EnumGroupValueTable,
			goqu.On(schema.EnumValueTableIDCol.Eq(schema.EnumGroupValueTableEnumValueIDCol)),
		).
		Where(schema.EnumGroupValueTableGroupIDCol.Eq(groupID)).
		Order(schema.EnumValueTableValueCol.Asc()).
		ScanStructsContext(ctx, &rows)

	return rows, err
}

// InGroup reports whether the token with the given string form is a member
// of the group.
func (s *Repository) InGroup(ctx context.Context, groupID int64, value string) (bool, error) {
	var result bool

	success, err := s.db.Select(goqu.L("1")).
		From(schema.EnumGroupValueTable).
		Join(
			schema.EnumValueTable,
			goqu.On(schema.EnumGroupValueTableEnumValueIDCol.Eq(schema.EnumValueTableIDCol)),
		).
		Where(
			schema.EnumGroupValueTableGroupIDCol.Eq(groupID),
			schema.EnumValueTableValueCol.Eq(value),
		).ScanValContext(ctx, &result)

	return success && result, err
}

// GroupMemberCount counts the group members whose string form appears in
// values. Because membership rows are distinct, duplicates in values collapse
// and the count comes back short.
func (s *Repository) GroupMemberCount(ctx context.Context, groupID int64, values []string) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}

	var result int64

	success, err := s.db.Select(goqu.COUNT(goqu.Star())).
		From(schema.EnumGroupValueTable).
		Join(
			schema.EnumValueTable,
			goqu.On(schema.EnumGroupValueTableEnumValueIDCol.Eq(schema.EnumValueTableIDCol)),
		).
		Where(
			schema.EnumGroupValueTableGroupIDCol.Eq(groupID),
			schema.EnumValueTableValueCol.In(values),
		).ScanValContext(ctx, &result)
	if err != nil {
		return 0, err
	}

	if !success {
		return 0, sql.ErrNoRows
	}

	return result, nil
}
