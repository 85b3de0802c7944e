package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/placementcell/internal/cache"
	"github.com/yoockh/placementcell/internal/eligibility"
	"github.com/yoockh/placementcell/internal/models"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/utils"
)

type JobInput struct {
	Name              string
	Company           string
	Location          string
	Type              models.JobType
	CTC               float64
	Description       string
	Status            models.JobStatus // defaults to OPEN
	ApplicationOpen   time.Time
	ApplicationClosed time.Time
	Eligibility       models.Eligibility
}

// JobPatch updates only non-nil fields. Eligibility, when set, replaces the
// whole rule set.
type JobPatch struct {
	Name              *string
	Company           *string
	Location          *string
	Type              *models.JobType
	CTC               *float64
	Description       *string
	ApplicationOpen   *time.Time
	ApplicationClosed *time.Time
	Eligibility       *models.Eligibility
}

// StudentJobView is a job annotated for one student.
type StudentJobView struct {
	models.Job
	IsEligible            bool                      `json:"isEligible"`
	EligibilityReasons    []string                  `json:"eligibilityReasons,omitempty"`
	HasApplied            bool                      `json:"hasApplied"`
	ApplicationStatus     *models.ApplicationStatus `json:"applicationStatus"`
	AcceptingApplications bool                      `json:"acceptingApplications"`
}

type JobService interface {
	Create(ctx context.Context, in JobInput) (*models.Job, error)
	List(ctx context.Context, f pgrepo.JobFilter) ([]models.Job, error)
	Get(ctx context.Context, jobID string) (*models.Job, error)
	Update(ctx context.Context, jobID string, p JobPatch) (*models.Job, error)
	UpdateStatus(ctx context.Context, jobID string, status models.JobStatus) (*models.Job, error)
	Delete(ctx context.Context, jobID string) error

	// OpenJobs is the cached list of OPEN jobs, closing soonest first.
	OpenJobs(ctx context.Context) ([]models.Job, error)
	ListForStudent(ctx context.Context, studentID string) ([]StudentJobView, error)
	GetForStudent(ctx context.Context, jobID, studentID string) (*StudentJobView, error)
}

type jobService struct {
	jobs     pgrepo.JobRepository
	apps     pgrepo.ApplicationRepository
	students pgrepo.StudentRepository
	cache    cache.Cache
	cacheTTL time.Duration
	log      logrus.FieldLogger
	clock    Clock
}

func NewJobService(
	jobs pgrepo.JobRepository,
	apps pgrepo.ApplicationRepository,
	students pgrepo.StudentRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	log logrus.FieldLogger,
	clock Clock,
) JobService {
	return &jobService{jobs: jobs, apps: apps, students: students, cache: c, cacheTTL: cacheTTL, log: log, clock: clock}
}

func validateJob(j *models.Job) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(j.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(j.Company) == "" {
		fields["company"] = "company is required"
	}
	if j.Type != "" && !j.Type.Valid() {
		fields["type"] = "unknown job type"
	}
	if !j.Status.Valid() {
		fields["status"] = "unknown job status"
	}
	if j.CTC < 0 {
		fields["ctc"] = "must not be negative"
	}
	if j.ApplicationOpen.IsZero() {
		fields["applicationOpen"] = "applicationOpen is required"
	}
	if j.ApplicationClosed.IsZero() {
		fields["applicationClosed"] = "applicationClosed is required"
	}
	if !j.ApplicationOpen.IsZero() && !j.ApplicationClosed.IsZero() && j.ApplicationOpen.After(j.ApplicationClosed) {
		fields["applicationClosed"] = "must not be before applicationOpen"
	}
	switch j.Eligibility.Gender {
	case "", models.GenderAny, models.GenderMaleOnly, models.GenderFemaleOnly:
	default:
		fields["eligibility.gender"] = "must be ANY, MALE or FEMALE"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (s *jobService) Create(ctx context.Context, in JobInput) (*models.Job, error) {
	const op = "JobService.Create"

	status := in.Status
	if status == "" {
		status = models.JobOpen
	}
	now := s.clock.Now()
	j := &models.Job{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(in.Name),
		Company:           strings.TrimSpace(in.Company),
		Location:          strings.TrimSpace(in.Location),
		Type:              in.Type,
		CTC:               in.CTC,
		Description:       in.Description,
		Status:            status,
		ApplicationOpen:   in.ApplicationOpen.UTC(),
		ApplicationClosed: in.ApplicationClosed.UTC(),
		Eligibility:       in.Eligibility,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if j.Eligibility.Gender == "" {
		j.Eligibility.Gender = models.GenderAny
	}
	if fields := validateJob(j); fields != nil {
		return nil, utils.Invalid(op, "invalid job", fields)
	}

	if err := s.jobs.Create(ctx, j); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}
	s.invalidate(ctx)
	return j, nil
}

func (s *jobService) List(ctx context.Context, f pgrepo.JobFilter) ([]models.Job, error) {
	const op = "JobService.List"

	if f.Status != "" && !f.Status.Valid() {
		return nil, utils.Invalid(op, "invalid filter", map[string]string{"status": "unknown job status"})
	}
	out, err := s.jobs.List(ctx, f)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return out, nil
}

func (s *jobService) Get(ctx context.Context, jobID string) (*models.Job, error) {
	const op = "JobService.Get"

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, repoErr(op, err, "job not found")
	}
	return j, nil
}

func (s *jobService) Update(ctx context.Context, jobID string, p JobPatch) (*models.Job, error) {
	const op = "JobService.Update"

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, repoErr(op, err, "job not found")
	}
	if p.Name != nil {
		j.Name = strings.TrimSpace(*p.Name)
	}
	if p.Company != nil {
		j.Company = strings.TrimSpace(*p.Company)
	}
	if p.Location != nil {
		j.Location = strings.TrimSpace(*p.Location)
	}
	if p.Type != nil {
		j.Type = *p.Type
	}
	if p.CTC != nil {
		j.CTC = *p.CTC
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.ApplicationOpen != nil {
		j.ApplicationOpen = p.ApplicationOpen.UTC()
	}
	if p.ApplicationClosed != nil {
		j.ApplicationClosed = p.ApplicationClosed.UTC()
	}
	if p.Eligibility != nil {
		j.Eligibility = *p.Eligibility
		if j.Eligibility.Gender == "" {
			j.Eligibility.Gender = models.GenderAny
		}
	}
	if fields := validateJob(j); fields != nil {
		return nil, utils.Invalid(op, "invalid job", fields)
	}

	j.UpdatedAt = s.clock.Now()
	if err := s.jobs.Update(ctx, j); err != nil {
		return nil, repoErr(op, err, "job not found")
	}
	s.invalidate(ctx)
	return j, nil
}

func (s *jobService) UpdateStatus(ctx context.Context, jobID string, status models.JobStatus) (*models.Job, error) {
	const op = "JobService.UpdateStatus"

	if !status.Valid() {
		return nil, utils.Invalid(op, "invalid status", map[string]string{"status": "must be OPEN, CLOSED, DRAFT or CANCELLED"})
	}
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, repoErr(op, err, "job not found")
	}
	j.Status = status
	j.UpdatedAt = s.clock.Now()
	if err := s.jobs.Update(ctx, j); err != nil {
		return nil, repoErr(op, err, "job not found")
	}
	s.invalidate(ctx)
	return j, nil
}

func (s *jobService) Delete(ctx context.Context, jobID string) error {
	const op = "JobService.Delete"

	n, err := s.apps.CountByJob(ctx, jobID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to count applications", err)
	}
	if n > 0 {
		return utils.E(utils.CodeConflict, op, "job has applications; cancel it instead", nil)
	}
	if err := s.jobs.Delete(ctx, jobID); err != nil {
		return repoErr(op, err, "job not found")
	}
	s.invalidate(ctx)
	return nil
}

func (s *jobService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cache.KeyOpenJobs); err != nil {
		s.log.WithError(err).Warn("open jobs cache invalidation failed")
	}
}

func (s *jobService) OpenJobs(ctx context.Context) ([]models.Job, error) {
	const op = "JobService.OpenJobs"

	if s.cache != nil {
		var cached []models.Job
		hit, err := s.cache.GetJSON(ctx, cache.KeyOpenJobs, &cached)
		if err != nil {
			s.log.WithError(err).Warn("open jobs cache read failed")
		}
		if hit {
			return cached, nil
		}
	}

	jobs, err := s.jobs.ListByStatus(ctx, models.JobOpen)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list open jobs", err)
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.KeyOpenJobs, jobs, s.cacheTTL); err != nil {
			s.log.WithError(err).Warn("open jobs cache write failed")
		}
	}
	return jobs, nil
}

func (s *jobService) annotate(j models.Job, st *models.Student, app *models.Application, now time.Time) StudentJobView {
	res := eligibility.Evaluate(j.Eligibility, eligibility.ProfileOf(st))
	v := StudentJobView{
		Job:                   j,
		IsEligible:            res.Eligible,
		EligibilityReasons:    res.Reasons,
		AcceptingApplications: j.Status == models.JobOpen && j.AcceptingAt(now),
	}
	if app != nil {
		status := app.Status
		v.HasApplied = true
		v.ApplicationStatus = &status
	}
	return v
}

func (s *jobService) ListForStudent(ctx context.Context, studentID string) ([]StudentJobView, error) {
	const op = "JobService.ListForStudent"

	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, repoErr(op, err, "student not found")
	}
	jobs, err := s.OpenJobs(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.apps.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	byJob := make(map[string]*models.Application, len(apps))
	for i := range apps {
		byJob[apps[i].JobID] = &apps[i]
	}

	now := s.clock.Now()
	out := make([]StudentJobView, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, s.annotate(j, st, byJob[j.ID], now))
	}
	return out, nil
}

func (s *jobService) GetForStudent(ctx context.Context, jobID, studentID string) (*StudentJobView, error) {
	const op = "JobService.GetForStudent"

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, repoErr(op, err, "job not found")
	}
	// Drafts and cancelled postings are invisible to students.
	if j.Status == models.JobDraft || j.Status == models.JobCancelled {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", nil)
	}
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, repoErr(op, err, "student not found")
	}
	app, err := s.apps.FindByStudentAndJob(ctx, studentID, jobID)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}
	v := s.annotate(*j, st, app, s.clock.Now())
	return &v, nil
}
