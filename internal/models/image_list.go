package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ImageList is stored as a native text[] on postgres and as the same array
// literal in a text column elsewhere.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *ImageList) Scan(src any) error {
	return (*pq.StringArray)(l).Scan(src)
}

// GormDataType lets gorm parse the field; the column type comes from
// GormDBDataType.
func (ImageList) GormDataType() string {
	return "text"
}

func (ImageList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
