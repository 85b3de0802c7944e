package postgres

import (
	"context"
	"time"

	"github.com/yoockh/placementcell/internal/models"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	// Create relies on the (student_id, job_id) unique index; a second
	// writer gets utils.ErrDuplicate.
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	FindByStudentAndJob(ctx context.Context, studentID, jobID string) (*models.Application, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	CountByJob(ctx context.Context, jobID string) (int64, error)
	CountByStatus(ctx context.Context, studentID string) ([]models.StatusCount, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, at time.Time) error
	UpdateSelectedResume(ctx context.Context, id string, resumeID *string, at time.Time) error
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, a *models.Application) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *applicationRepo) FindByStudentAndJob(ctx context.Context, studentID, jobID string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND job_id = ?", studentID, jobID).
		Take(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *applicationRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("applied_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("applied_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) CountByJob(ctx context.Context, jobID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("job_id = ?", jobID).
		Count(&n).Error
	return n, err
}

func (r *applicationRepo) CountByStatus(ctx context.Context, studentID string) ([]models.StatusCount, error) {
	var rows []models.StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Where("student_id = ?", studentID).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, at time.Time) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": at}))
}

func (r *applicationRepo) UpdateSelectedResume(ctx context.Context, id string, resumeID *string, at time.Time) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{"selected_resume_id": resumeID, "updated_at": at}))
}
