package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Branches is a list of branch names. Postgres stores it as text[]; other
// dialects store the same array literal in a text column.
type Branches pq.StringArray

func (b Branches) Value() (driver.Value, error) {
	return pq.StringArray(b).Value()
}

func (b *Branches) Scan(src any) error {
	return (*pq.StringArray)(b).Scan(src)
}

func (Branches) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
