package util

import (
	"database/sql"
	"io"

	"github.com/sirupsen/logrus"
)

// Close resource and prints error.
func Close(c io.Closer) {
	if err := c.Close(); err != nil {
		logrus.Error(err)
	}
}

func NullStringToString(v sql.NullString) string {
	if v.Valid {
		return v.String
	}

	return ""
}

func NullInt64ToScalar(v sql.NullInt64) int64 {
	if v.Valid {
		return v.Int64
	}

	return 0
}
