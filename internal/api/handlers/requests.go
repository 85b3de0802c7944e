package handlers

import (
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yoockh/placementcell/internal/models"
	"github.com/yoockh/placementcell/internal/utils"
	"gorm.io/datatypes"
)

const (
	minPasswordLen      = 8
	maxCoverLetterChars = 5000
)

// fieldErrors collects per-field messages; Err returns nil when empty.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return utils.Invalid("", "validation failed", f)
}

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == strings.TrimSpace(s)
}

func checkRange(f fieldErrors, field string, v *float64, lo, hi float64) {
	if v != nil && (*v < lo || *v > hi) {
		f.add(field, "out of range")
	}
}

type SignupRequest struct {
	RollNumber string `json:"rollNumber"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
}

func (r *SignupRequest) Validate() error {
	f := fieldErrors{}
	if strings.TrimSpace(r.RollNumber) == "" {
		f.add("rollNumber", "rollNumber is required")
	}
	if !validEmail(r.Email) {
		f.add("email", "a valid email is required")
	}
	if len(r.Password) < minPasswordLen {
		f.add("password", "must be at least 8 characters")
	}
	if len(r.Password) > 72 {
		f.add("password", "must be at most 72 bytes")
	}
	if strings.TrimSpace(r.Name) == "" {
		f.add("name", "name is required")
	}
	return f.Err()
}

// SigninRequest takes either email or rollNumber.
type SigninRequest struct {
	Email      string `json:"email"`
	RollNumber string `json:"rollNumber"`
	Password   string `json:"password"`
}

func (r *SigninRequest) Identifier() string {
	if strings.TrimSpace(r.Email) != "" {
		return r.Email
	}
	return r.RollNumber
}

func (r *SigninRequest) Validate() error {
	f := fieldErrors{}
	if strings.TrimSpace(r.Identifier()) == "" {
		f.add("email", "email or rollNumber is required")
	}
	if r.Password == "" {
		f.add("password", "password is required")
	}
	return f.Err()
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *AdminLoginRequest) Validate() error {
	f := fieldErrors{}
	if strings.TrimSpace(r.Email) == "" {
		f.add("email", "email is required")
	}
	if r.Password == "" {
		f.add("password", "password is required")
	}
	return f.Err()
}

func validateEligibility(f fieldErrors, e *models.Eligibility) {
	for _, d := range e.DegreeRules() {
		if d.Cutoff < 0 || d.Cutoff > 10 {
			f.add("eligibility."+strings.ToLower(string(d.Degree))+"Cutoff", "must be between 0 and 10")
		}
	}
	checkRange(f, "eligibility.tenthPercentageCutoff", &e.TenthPercentageCutoff, 0, 100)
	checkRange(f, "eligibility.twelfthPercentageCutoff", &e.TwelfthPercentageCutoff, 0, 100)
	checkRange(f, "eligibility.ugPercentageCutoff", &e.UGPercentageCutoff, 0, 100)
	switch e.Gender {
	case "", models.GenderAny, models.GenderMaleOnly, models.GenderFemaleOnly:
	default:
		f.add("eligibility.gender", "must be ANY, MALE or FEMALE")
	}
}

type JobRequest struct {
	Name              string             `json:"name"`
	Company           string             `json:"company"`
	Location          string             `json:"location"`
	Type              models.JobType     `json:"type"`
	CTC               float64            `json:"ctc"`
	Description       string             `json:"description"`
	Status            models.JobStatus   `json:"status"`
	ApplicationOpen   time.Time          `json:"applicationOpen"`
	ApplicationClosed time.Time          `json:"applicationClosed"`
	Eligibility       models.Eligibility `json:"eligibility"`
}

func (r *JobRequest) Validate() error {
	f := fieldErrors{}
	if strings.TrimSpace(r.Name) == "" {
		f.add("name", "name is required")
	}
	if strings.TrimSpace(r.Company) == "" {
		f.add("company", "company is required")
	}
	if r.Type != "" && !r.Type.Valid() {
		f.add("type", "must be FULL_TIME, INTERNSHIP, INTERNSHIP_PPO or CONTRACT")
	}
	if r.Status != "" && !r.Status.Valid() {
		f.add("status", "must be OPEN, CLOSED, DRAFT or CANCELLED")
	}
	if r.CTC < 0 {
		f.add("ctc", "must not be negative")
	}
	if r.ApplicationOpen.IsZero() {
		f.add("applicationOpen", "applicationOpen is required")
	}
	if r.ApplicationClosed.IsZero() {
		f.add("applicationClosed", "applicationClosed is required")
	}
	if !r.ApplicationOpen.IsZero() && r.ApplicationOpen.After(r.ApplicationClosed) {
		f.add("applicationClosed", "must not be before applicationOpen")
	}
	validateEligibility(f, &r.Eligibility)
	return f.Err()
}

type JobPatchRequest struct {
	Name              *string             `json:"name"`
	Company           *string             `json:"company"`
	Location          *string             `json:"location"`
	Type              *models.JobType     `json:"type"`
	CTC               *float64            `json:"ctc"`
	Description       *string             `json:"description"`
	ApplicationOpen   *time.Time          `json:"applicationOpen"`
	ApplicationClosed *time.Time          `json:"applicationClosed"`
	Eligibility       *models.Eligibility `json:"eligibility"`
}

func (r *JobPatchRequest) Validate() error {
	f := fieldErrors{}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		f.add("name", "must not be empty")
	}
	if r.Company != nil && strings.TrimSpace(*r.Company) == "" {
		f.add("company", "must not be empty")
	}
	if r.Type != nil && !r.Type.Valid() {
		f.add("type", "must be FULL_TIME, INTERNSHIP, INTERNSHIP_PPO or CONTRACT")
	}
	if r.CTC != nil && *r.CTC < 0 {
		f.add("ctc", "must not be negative")
	}
	if r.ApplicationOpen != nil && r.ApplicationClosed != nil && r.ApplicationOpen.After(*r.ApplicationClosed) {
		f.add("applicationClosed", "must not be before applicationOpen")
	}
	if r.Eligibility != nil {
		validateEligibility(f, r.Eligibility)
	}
	return f.Err()
}

type JobStatusRequest struct {
	Status models.JobStatus `json:"status"`
}

func (r *JobStatusRequest) Validate() error {
	f := fieldErrors{}
	if !r.Status.Valid() {
		f.add("status", "must be OPEN, CLOSED, DRAFT or CANCELLED")
	}
	return f.Err()
}

type ApplyRequest struct {
	CoverLetter *string `json:"coverLetter"`
	ResumeID    *string `json:"resumeId"`
}

func (r *ApplyRequest) Validate() error {
	f := fieldErrors{}
	if r.CoverLetter != nil && utf8.RuneCountInString(*r.CoverLetter) > maxCoverLetterChars {
		f.add("coverLetter", "must be at most 5000 characters")
	}
	return f.Err()
}

type ApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status"`
}

func (r *ApplicationStatusRequest) Validate() error {
	f := fieldErrors{}
	if !r.Status.Valid() {
		f.add("status", "must be APPLIED, SHORTLISTED, NOT_SHORTLISTED, SELECTED or REJECTED")
	}
	return f.Err()
}

type ReassignResumeRequest struct {
	ResumeID string `json:"resumeId"`
}

func (r *ReassignResumeRequest) Validate() error {
	f := fieldErrors{}
	if strings.TrimSpace(r.ResumeID) == "" {
		f.add("resumeId", "resumeId is required")
	}
	return f.Err()
}

type ProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

func (r *ProfileRequest) Validate() error {
	f := fieldErrors{}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		f.add("name", "must not be empty")
	}
	if r.Phone != nil && len(strings.TrimSpace(*r.Phone)) > 20 {
		f.add("phone", "must be at most 20 characters")
	}
	return f.Err()
}

type PersonalRequest struct {
	Gender      *models.Gender `json:"gender"`
	DateOfBirth *string        `json:"dateOfBirth"` // YYYY-MM-DD
	Address     *string        `json:"address"`
	IsPWD       *bool          `json:"isPwd"`
}

func (r *PersonalRequest) Validate() error {
	f := fieldErrors{}
	if r.Gender != nil {
		switch *r.Gender {
		case models.GenderMale, models.GenderFemale, models.GenderOther:
		default:
			f.add("gender", "must be MALE, FEMALE or OTHER")
		}
	}
	if r.DateOfBirth != nil {
		if _, err := time.Parse(time.DateOnly, *r.DateOfBirth); err != nil {
			f.add("dateOfBirth", "must be YYYY-MM-DD")
		}
	}
	return f.Err()
}

func (r *PersonalRequest) date() *datatypes.Date {
	if r.DateOfBirth == nil {
		return nil
	}
	t, err := time.Parse(time.DateOnly, *r.DateOfBirth)
	if err != nil {
		return nil
	}
	d := datatypes.Date(t)
	return &d
}

type AcademicRequest struct {
	Degree       *models.Degree `json:"degree"`
	Branch       *string        `json:"branch"`
	CurrentYear  *int           `json:"currentYear"`
	GPA          *float64       `json:"gpa"`
	CGPA         *float64       `json:"cgpa"`
	TenthMarks   *float64       `json:"tenthMarks"`
	TwelfthMarks *float64       `json:"twelfthMarks"`
	UGPercentage *float64       `json:"ugPercentage"`
	Backlogs     *int           `json:"backlogs"`
}

func (r *AcademicRequest) Validate() error {
	f := fieldErrors{}
	if r.Degree != nil && !r.Degree.Valid() {
		f.add("degree", "unknown degree")
	}
	if r.CurrentYear != nil && (*r.CurrentYear < 1 || *r.CurrentYear > 6) {
		f.add("currentYear", "must be between 1 and 6")
	}
	checkRange(f, "gpa", r.GPA, 0, 10)
	checkRange(f, "cgpa", r.CGPA, 0, 10)
	checkRange(f, "tenthMarks", r.TenthMarks, 0, 100)
	checkRange(f, "twelfthMarks", r.TwelfthMarks, 0, 100)
	checkRange(f, "ugPercentage", r.UGPercentage, 0, 100)
	if r.Backlogs != nil && *r.Backlogs < 0 {
		f.add("backlogs", "must not be negative")
	}
	return f.Err()
}

type SkillRequest struct {
	Name  string            `json:"name"`
	Level models.SkillLevel `json:"level"`
}

func (r *SkillRequest) validateInto(f fieldErrors, prefix string) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		f.add(prefix+"name", "name is required")
	} else if len(name) > 64 {
		f.add(prefix+"name", "must be at most 64 characters")
	}
	switch r.Level {
	case "", models.SkillBeginner, models.SkillIntermediate, models.SkillAdvanced:
	default:
		f.add(prefix+"level", "must be BEGINNER, INTERMEDIATE or ADVANCED")
	}
}

func (r *SkillRequest) Validate() error {
	f := fieldErrors{}
	r.validateInto(f, "")
	return f.Err()
}

type SkillsRequest struct {
	Skills []SkillRequest `json:"skills"`
}

func (r *SkillsRequest) Validate() error {
	f := fieldErrors{}
	for i := range r.Skills {
		r.Skills[i].validateInto(f, "skills["+strconv.Itoa(i)+"].")
	}
	return f.Err()
}

type StudentStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

func (r *StudentStatusRequest) Validate() error {
	f := fieldErrors{}
	if r.IsActive == nil {
		f.add("isActive", "isActive is required")
	}
	return f.Err()
}

type EventRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	EventDate   time.Time        `json:"eventDate"`
	Venue       string           `json:"venue"`
	Type        models.EventType `json:"type"`
	IsActive    *bool            `json:"isActive"`
}

func (r *EventRequest) Validate() error {
	f := fieldErrors{}
	if strings.TrimSpace(r.Title) == "" {
		f.add("title", "title is required")
	}
	if r.EventDate.IsZero() {
		f.add("eventDate", "eventDate is required")
	}
	if r.Type != "" && !r.Type.Valid() {
		f.add("type", "unknown event type")
	}
	return f.Err()
}

type EventPatchRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	EventDate   *time.Time        `json:"eventDate"`
	Venue       *string           `json:"venue"`
	Type        *models.EventType `json:"type"`
	IsActive    *bool             `json:"isActive"`
}

func (r *EventPatchRequest) Validate() error {
	f := fieldErrors{}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		f.add("title", "must not be empty")
	}
	if r.Type != nil && !r.Type.Valid() {
		f.add("type", "unknown event type")
	}
	return f.Err()
}
