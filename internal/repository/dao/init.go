package dao

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&ActivityPeriod{},
		&Direction{},
		&School{},
		&Event{},
		&EventPhoto{},
		&EventVideo{},
		&EventHero{},
		&Notification{},
		&AuditLog{},
		&AboutPage{},
	)
}

// uniqueViolation reports whether err is a unique constraint failure and
// returns whatever names the constraint or column, for Postgres and SQLite.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UniqueViolation {
			return pgErr.ConstraintName + " " + pgErr.Message, true
		}
		return "", false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return err.Error(), true
	}

	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
		return msg, true
	}

	return "", false
}
