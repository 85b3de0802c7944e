package postgres

import (
	"context"

	"github.com/yoockh/placementcell/internal/models"
	"gorm.io/gorm"
)

type SkillRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentSkill, error)
	Insert(ctx context.Context, s *models.StudentSkill) error
	Delete(ctx context.Context, studentID, id string) error
	Replace(ctx context.Context, studentID string, skills []models.StudentSkill) error
}

type skillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) SkillRepository {
	return &skillRepo{db: db}
}

func (r *skillRepo) ListByStudent(ctx context.Context, studentID string) ([]models.StudentSkill, error) {
	var rows []models.StudentSkill
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *skillRepo) Insert(ctx context.Context, s *models.StudentSkill) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *skillRepo) Delete(ctx context.Context, studentID, id string) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", id, studentID).
		Delete(&models.StudentSkill{}))
}

func (r *skillRepo) Replace(ctx context.Context, studentID string, skills []models.StudentSkill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&models.StudentSkill{}).Error; err != nil {
			return err
		}
		if len(skills) == 0 {
			return nil
		}
		return translate(tx.Create(&skills).Error)
	})
}
