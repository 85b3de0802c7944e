package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/yoockh/placementcell/internal/export"
	"github.com/yoockh/placementcell/internal/models"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/utils"
	"gorm.io/datatypes"
)

type ProfileInfo struct {
	RollNumber string `json:"rollNumber"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	IsActive   bool   `json:"isActive"`
}

type PersonalInfo struct {
	Gender      models.Gender   `json:"gender"`
	DateOfBirth *datatypes.Date `json:"dateOfBirth,omitempty"`
	Address     string          `json:"address"`
	IsPWD       bool            `json:"isPwd"`
}

type AcademicInfo struct {
	Degree       models.Degree `json:"degree"`
	Branch       string        `json:"branch"`
	CurrentYear  int           `json:"currentYear"`
	GPA          float64       `json:"gpa"`
	CGPA         float64       `json:"cgpa"`
	TenthMarks   *float64      `json:"tenthMarks"`
	TwelfthMarks *float64      `json:"twelfthMarks"`
	UGPercentage *float64      `json:"ugPercentage"`
	Backlogs     int           `json:"backlogs"`
}

// Patches: nil fields are left untouched.
type ProfilePatch struct {
	Name  *string
	Phone *string
}

type PersonalPatch struct {
	Gender      *models.Gender
	DateOfBirth *datatypes.Date
	Address     *string
	IsPWD       *bool
}

type AcademicPatch struct {
	Degree       *models.Degree
	Branch       *string
	CurrentYear  *int
	GPA          *float64
	CGPA         *float64
	TenthMarks   *float64
	TwelfthMarks *float64
	UGPercentage *float64
	Backlogs     *int
}

type SkillInput struct {
	Name  string
	Level models.SkillLevel
}

// StudentDetail is the admin view of one student.
type StudentDetail struct {
	*models.Student
	Skills []models.StudentSkill `json:"skills"`
}

type StudentService interface {
	Profile(ctx context.Context, studentID string) (*ProfileInfo, error)
	UpdateProfile(ctx context.Context, studentID string, p ProfilePatch) (*ProfileInfo, error)
	Personal(ctx context.Context, studentID string) (*PersonalInfo, error)
	UpdatePersonal(ctx context.Context, studentID string, p PersonalPatch) (*PersonalInfo, error)
	Academic(ctx context.Context, studentID string) (*AcademicInfo, error)
	UpdateAcademic(ctx context.Context, studentID string, p AcademicPatch) (*AcademicInfo, error)

	Skills(ctx context.Context, studentID string) ([]models.StudentSkill, error)
	ReplaceSkills(ctx context.Context, studentID string, in []SkillInput) ([]models.StudentSkill, error)
	AddSkill(ctx context.Context, studentID string, in SkillInput) (*models.StudentSkill, error)
	DeleteSkill(ctx context.Context, studentID, skillID string) error

	// admin
	List(ctx context.Context, f pgrepo.StudentFilter) ([]models.Student, error)
	Get(ctx context.Context, studentID string) (*StudentDetail, error)
	SetActive(ctx context.Context, studentID string, active bool) error
	ExportCSV(ctx context.Context, f pgrepo.StudentFilter, w io.Writer) error
}

type studentService struct {
	students pgrepo.StudentRepository
	skills   pgrepo.SkillRepository
	clock    Clock
}

func NewStudentService(students pgrepo.StudentRepository, skills pgrepo.SkillRepository, clock Clock) StudentService {
	return &studentService{students: students, skills: skills, clock: clock}
}

func (s *studentService) load(ctx context.Context, op, studentID string) (*models.Student, error) {
	if studentID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "student_id is required", nil)
	}
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, repoErr(op, err, "student not found")
	}
	return st, nil
}

func (s *studentService) loadActive(ctx context.Context, op, studentID string) (*models.Student, error) {
	return activeStudent(ctx, s.students, op, studentID)
}

func (s *studentService) save(ctx context.Context, op string, st *models.Student) error {
	st.UpdatedAt = s.clock.Now()
	if err := s.students.Update(ctx, st); err != nil {
		return repoErr(op, err, "student not found")
	}
	return nil
}

func profileOf(st *models.Student) *ProfileInfo {
	return &ProfileInfo{RollNumber: st.RollNumber, Email: st.Email, Name: st.Name, Phone: st.Phone, IsActive: st.IsActive}
}

func personalOf(st *models.Student) *PersonalInfo {
	return &PersonalInfo{Gender: st.Gender, DateOfBirth: st.DateOfBirth, Address: st.Address, IsPWD: st.IsPWD}
}

func academicOf(st *models.Student) *AcademicInfo {
	return &AcademicInfo{
		Degree:       st.Degree,
		Branch:       st.Branch,
		CurrentYear:  st.CurrentYear,
		GPA:          st.GPA,
		CGPA:         st.CGPA,
		TenthMarks:   st.TenthMarks,
		TwelfthMarks: st.TwelfthMarks,
		UGPercentage: st.UGPercentage,
		Backlogs:     st.Backlogs,
	}
}

func (s *studentService) Profile(ctx context.Context, studentID string) (*ProfileInfo, error) {
	st, err := s.load(ctx, "StudentService.Profile", studentID)
	if err != nil {
		return nil, err
	}
	return profileOf(st), nil
}

func (s *studentService) UpdateProfile(ctx context.Context, studentID string, p ProfilePatch) (*ProfileInfo, error) {
	const op = "StudentService.UpdateProfile"

	st, err := s.loadActive(ctx, op, studentID)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		st.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		st.Phone = strings.TrimSpace(*p.Phone)
	}
	if err := s.save(ctx, op, st); err != nil {
		return nil, err
	}
	return profileOf(st), nil
}

func (s *studentService) Personal(ctx context.Context, studentID string) (*PersonalInfo, error) {
	st, err := s.load(ctx, "StudentService.Personal", studentID)
	if err != nil {
		return nil, err
	}
	return personalOf(st), nil
}

func (s *studentService) UpdatePersonal(ctx context.Context, studentID string, p PersonalPatch) (*PersonalInfo, error) {
	const op = "StudentService.UpdatePersonal"

	st, err := s.loadActive(ctx, op, studentID)
	if err != nil {
		return nil, err
	}
	if p.Gender != nil {
		st.Gender = *p.Gender
	}
	if p.DateOfBirth != nil {
		st.DateOfBirth = p.DateOfBirth
	}
	if p.Address != nil {
		st.Address = strings.TrimSpace(*p.Address)
	}
	if p.IsPWD != nil {
		st.IsPWD = *p.IsPWD
	}
	if err := s.save(ctx, op, st); err != nil {
		return nil, err
	}
	return personalOf(st), nil
}

func (s *studentService) Academic(ctx context.Context, studentID string) (*AcademicInfo, error) {
	st, err := s.load(ctx, "StudentService.Academic", studentID)
	if err != nil {
		return nil, err
	}
	return academicOf(st), nil
}

func (s *studentService) UpdateAcademic(ctx context.Context, studentID string, p AcademicPatch) (*AcademicInfo, error) {
	const op = "StudentService.UpdateAcademic"

	if p.Degree != nil && !p.Degree.Valid() {
		return nil, utils.Invalid(op, "invalid academic record", map[string]string{"degree": "unknown degree"})
	}

	st, err := s.loadActive(ctx, op, studentID)
	if err != nil {
		return nil, err
	}
	if p.Degree != nil {
		st.Degree = *p.Degree
	}
	if p.Branch != nil {
		st.Branch = strings.TrimSpace(*p.Branch)
	}
	if p.CurrentYear != nil {
		st.CurrentYear = *p.CurrentYear
	}
	if p.GPA != nil {
		st.GPA = *p.GPA
	}
	if p.CGPA != nil {
		st.CGPA = *p.CGPA
	}
	if p.TenthMarks != nil {
		st.TenthMarks = p.TenthMarks
	}
	if p.TwelfthMarks != nil {
		st.TwelfthMarks = p.TwelfthMarks
	}
	if p.UGPercentage != nil {
		st.UGPercentage = p.UGPercentage
	}
	if p.Backlogs != nil {
		st.Backlogs = *p.Backlogs
	}
	if err := s.save(ctx, op, st); err != nil {
		return nil, err
	}
	return academicOf(st), nil
}

func skillKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func (s *studentService) newSkill(studentID string, in SkillInput) models.StudentSkill {
	return models.StudentSkill{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Name:      strings.TrimSpace(in.Name),
		NameKey:   skillKey(in.Name),
		Level:     in.Level,
		CreatedAt: s.clock.Now(),
	}
}

func (s *studentService) Skills(ctx context.Context, studentID string) ([]models.StudentSkill, error) {
	const op = "StudentService.Skills"

	if _, err := s.load(ctx, op, studentID); err != nil {
		return nil, err
	}
	out, err := s.skills.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list skills", err)
	}
	return out, nil
}

func (s *studentService) ReplaceSkills(ctx context.Context, studentID string, in []SkillInput) ([]models.StudentSkill, error) {
	const op = "StudentService.ReplaceSkills"

	if _, err := s.loadActive(ctx, op, studentID); err != nil {
		return nil, err
	}

	rows := make([]models.StudentSkill, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, sk := range in {
		key := skillKey(sk.Name)
		if key == "" {
			return nil, utils.Invalid(op, "invalid skills", map[string]string{"name": "skill name is required"})
		}
		if _, dup := seen[key]; dup {
			return nil, utils.E(utils.CodeConflict, op, "duplicate skill "+strings.TrimSpace(sk.Name), nil)
		}
		seen[key] = struct{}{}
		rows = append(rows, s.newSkill(studentID, sk))
	}

	if err := s.skills.Replace(ctx, studentID, rows); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "duplicate skill", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to replace skills", err)
	}
	return rows, nil
}

func (s *studentService) AddSkill(ctx context.Context, studentID string, in SkillInput) (*models.StudentSkill, error) {
	const op = "StudentService.AddSkill"

	if skillKey(in.Name) == "" {
		return nil, utils.Invalid(op, "invalid skill", map[string]string{"name": "skill name is required"})
	}
	if _, err := s.loadActive(ctx, op, studentID); err != nil {
		return nil, err
	}
	row := s.newSkill(studentID, in)
	if err := s.skills.Insert(ctx, &row); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "skill already listed", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to add skill", err)
	}
	return &row, nil
}

func (s *studentService) DeleteSkill(ctx context.Context, studentID, skillID string) error {
	const op = "StudentService.DeleteSkill"

	if _, err := s.loadActive(ctx, op, studentID); err != nil {
		return err
	}
	if err := s.skills.Delete(ctx, studentID, skillID); err != nil {
		return repoErr(op, err, "skill not found")
	}
	return nil
}

func (s *studentService) List(ctx context.Context, f pgrepo.StudentFilter) ([]models.Student, error) {
	const op = "StudentService.List"

	out, err := s.students.List(ctx, f)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list students", err)
	}
	return out, nil
}

func (s *studentService) Get(ctx context.Context, studentID string) (*StudentDetail, error) {
	const op = "StudentService.Get"

	st, err := s.load(ctx, op, studentID)
	if err != nil {
		return nil, err
	}
	skills, err := s.skills.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list skills", err)
	}
	return &StudentDetail{Student: st, Skills: skills}, nil
}

func (s *studentService) SetActive(ctx context.Context, studentID string, active bool) error {
	const op = "StudentService.SetActive"

	if err := s.students.SetActive(ctx, studentID, active); err != nil {
		return repoErr(op, err, "student not found")
	}
	return nil
}

func (s *studentService) ExportCSV(ctx context.Context, f pgrepo.StudentFilter, w io.Writer) error {
	const op = "StudentService.ExportCSV"

	list, err := s.students.List(ctx, f)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to list students", err)
	}
	rows := make([]export.StudentRow, 0, len(list))
	for _, st := range list {
		rows = append(rows, export.NewStudentRow(st))
	}
	if err := export.Students(w, rows); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to write export", err)
	}
	return nil
}
