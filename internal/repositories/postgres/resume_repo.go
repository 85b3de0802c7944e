package postgres

import (
	"context"

	"github.com/yoockh/placementcell/internal/models"
	"gorm.io/gorm"
)

type ResumeRepository interface {
	Insert(ctx context.Context, f *models.Resume) error
	GetByID(ctx context.Context, id string) (*models.Resume, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Resume, error)
	CountByStudent(ctx context.Context, studentID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type resumeRepo struct {
	db *gorm.DB
}

func NewResumeRepo(db *gorm.DB) ResumeRepository {
	return &resumeRepo{db: db}
}

func (r *resumeRepo) Insert(ctx context.Context, f *models.Resume) error {
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *resumeRepo) GetByID(ctx context.Context, id string) (*models.Resume, error) {
	var row models.Resume
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *resumeRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Resume, error) {
	var rows []models.Resume
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("uploaded_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *resumeRepo) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Resume{}).
		Where("student_id = ?", studentID).
		Count(&n).Error
	return n, err
}

func (r *resumeRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Resume{}))
}
