package postgres

import (
	"github.com/yoockh/placementcell/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the relational schema, including the
// (student_id, job_id) unique index on applications.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Student{},
		&models.StudentSkill{},
		&models.Job{},
		&models.Resume{},
		&models.Application{},
	)
}
