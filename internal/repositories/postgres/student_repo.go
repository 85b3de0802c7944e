package postgres

import (
	"context"
	"time"

	"github.com/yoockh/placementcell/internal/models"
	"gorm.io/gorm"
)

type StudentFilter struct {
	Branch      string
	CurrentYear int
	Active      *bool
	Limit       int
	Offset      int
}

type StudentRepository interface {
	Create(ctx context.Context, s *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetByRollNumber(ctx context.Context, roll string) (*models.Student, error)
	Update(ctx context.Context, s *models.Student) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, f StudentFilter) ([]models.Student, error)
}

type studentRepo struct {
	db *gorm.DB
}

func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, s *models.Student) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*models.Student, error) {
	return r.takeWhere(ctx, "id = ?", id)
}

func (r *studentRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Student
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *studentRepo) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.takeWhere(ctx, "email = ?", email)
}

func (r *studentRepo) GetByRollNumber(ctx context.Context, roll string) (*models.Student, error) {
	return r.takeWhere(ctx, "roll_number = ?", roll)
}

func (r *studentRepo) takeWhere(ctx context.Context, query string, arg any) (*models.Student, error) {
	var s models.Student
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// Update writes profile and academic columns. Credentials and is_active
// have their own writers and are left untouched.
func (r *studentRepo) Update(ctx context.Context, s *models.Student) error {
	return affected(r.db.WithContext(ctx).
		Model(s).
		Where("id = ?", s.ID).
		Select("*").
		Omit("id", "created_at", "password_hash", "is_active", "email", "roll_number").
		Updates(s))
}

func (r *studentRepo) SetActive(ctx context.Context, id string, active bool) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": active, "updated_at": time.Now().UTC()}))
}

func (r *studentRepo) List(ctx context.Context, f StudentFilter) ([]models.Student, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	q := r.db.WithContext(ctx).Model(&models.Student{})
	if f.Branch != "" {
		q = q.Where("branch = ?", f.Branch)
	}
	if f.CurrentYear > 0 {
		q = q.Where("current_year = ?", f.CurrentYear)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}

	var rows []models.Student
	err := q.Order("roll_number ASC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error
	return rows, err
}
