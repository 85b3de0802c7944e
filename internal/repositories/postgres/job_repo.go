package postgres

import (
	"context"

	"github.com/yoockh/placementcell/internal/models"
	"gorm.io/gorm"
)

type JobFilter struct {
	Status models.JobStatus
	Limit  int
	Offset int
}

type JobRepository interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Job, error)
	Update(ctx context.Context, j *models.Job) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f JobFilter) ([]models.Job, error)
	ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, j *models.Job) error {
	return translate(r.db.WithContext(ctx).Create(j).Error)
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&j).Error; err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

func (r *jobRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Job
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// Update writes every column of an existing job. A missing row is
// ErrNotFound; the job is never re-created.
func (r *jobRepo) Update(ctx context.Context, j *models.Job) error {
	return affected(r.db.WithContext(ctx).
		Model(j).
		Where("id = ?", j.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(j))
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Job{}))
}

func (r *jobRepo) List(ctx context.Context, f JobFilter) ([]models.Job, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	q := r.db.WithContext(ctx).Model(&models.Job{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var rows []models.Job
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error
	return rows, err
}

func (r *jobRepo) ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	var rows []models.Job
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("application_closed ASC").
		Find(&rows).Error
	return rows, err
}
