package gormpersistence

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry is the MySQL server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// isDuplicateEntryError recognises unique violations from either driver.
// gorm translates Postgres errors to ErrDuplicatedKey when TranslateError is on.
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
