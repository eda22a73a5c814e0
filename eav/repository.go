package eav

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/dubizzle/goeav/schema"
)

// Repository Main Object.
type Repository struct {
	db *goqu.Database
}

// NewRepository constructor.
func NewRepository(db *goqu.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (s *Repository) TotalValues(ctx context.Context) (int32, error) {
	var result int32

	sqSelect := s.db.Select(goqu.COUNT(goqu.Star())).From(schema.ValueTable)

	success, err := sqSelect.ScanValContext(ctx, &result)
	if err != nil {
		return 0, err
	}

	if !success {
		return 0, sql.ErrNoRows
	}

	return result, nil
}
