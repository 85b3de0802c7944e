package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/placementcell/internal/eligibility"
	"github.com/yoockh/placementcell/internal/export"
	"github.com/yoockh/placementcell/internal/models"
	"github.com/yoockh/placementcell/internal/notify"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/utils"
)

type ApplyInput struct {
	JobID       string
	StudentID   string
	CoverLetter *string
	ResumeID    *string
}

type JobSummary struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Company           string           `json:"company"`
	Location          string           `json:"location"`
	Type              models.JobType   `json:"type"`
	CTC               float64          `json:"ctc"`
	Status            models.JobStatus `json:"status"`
	ApplicationClosed time.Time        `json:"applicationClosed"`
}

func summarizeJob(j *models.Job) *JobSummary {
	if j == nil {
		return nil
	}
	return &JobSummary{
		ID:                j.ID,
		Name:              j.Name,
		Company:           j.Company,
		Location:          j.Location,
		Type:              j.Type,
		CTC:               j.CTC,
		Status:            j.Status,
		ApplicationClosed: j.ApplicationClosed,
	}
}

// ApplicationView is the student's view of one application. ResumeMissing is
// set when the selected resume has since been deleted.
type ApplicationView struct {
	models.Application
	Job           *JobSummary    `json:"job,omitempty"`
	Resume        *models.Resume `json:"resume,omitempty"`
	ResumeMissing bool           `json:"resumeMissing"`
}

type StudentSummary struct {
	ID         string        `json:"id"`
	RollNumber string        `json:"rollNumber"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Degree     models.Degree `json:"degree"`
	Branch     string        `json:"branch"`
	GPA        float64       `json:"gpa"`
}

type ApplicantView struct {
	models.Application
	Student *StudentSummary `json:"student,omitempty"`
}

type ApplicationStats struct {
	Total    int64                              `json:"total"`
	ByStatus map[models.ApplicationStatus]int64 `json:"byStatus"`
}

type ApplicationService interface {
	Apply(ctx context.Context, in ApplyInput) (*models.Application, error)
	UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) (*models.Application, error)
	ReassignResume(ctx context.Context, applicationID, studentID, resumeID string) (*models.Application, error)

	ListForStudent(ctx context.Context, studentID string) ([]ApplicationView, error)
	GetForStudent(ctx context.Context, applicationID, studentID string) (*ApplicationView, error)
	StatsForStudent(ctx context.Context, studentID string) (*ApplicationStats, error)

	ListForJob(ctx context.Context, jobID string) ([]ApplicantView, error)
	ExportForJob(ctx context.Context, jobID string, f export.Format, w io.Writer) error
}

type applicationService struct {
	apps     pgrepo.ApplicationRepository
	jobs     pgrepo.JobRepository
	students pgrepo.StudentRepository
	resumes  pgrepo.ResumeRepository
	notifier notify.Notifier
	log      logrus.FieldLogger
	clock    Clock
}

func NewApplicationService(
	apps pgrepo.ApplicationRepository,
	jobs pgrepo.JobRepository,
	students pgrepo.StudentRepository,
	resumes pgrepo.ResumeRepository,
	notifier notify.Notifier,
	log logrus.FieldLogger,
	clock Clock,
) ApplicationService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &applicationService{apps: apps, jobs: jobs, students: students, resumes: resumes, notifier: notifier, log: log, clock: clock}
}

// Apply checks, in order: existing application, job status, application
// window, eligibility, resume ownership. The unique index on
// (student_id, job_id) catches concurrent duplicates.
func (s *applicationService) Apply(ctx context.Context, in ApplyInput) (*models.Application, error) {
	const op = "ApplicationService.Apply"

	if in.JobID == "" || in.StudentID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id and student_id are required", nil)
	}

	job, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, repoErr(op, err, "job not found")
	}
	student, err := activeStudent(ctx, s.students, op, in.StudentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.apps.FindByStudentAndJob(ctx, in.StudentID, in.JobID); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "already applied to this job", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing application", err)
	}

	if job.Status != models.JobOpen {
		return nil, utils.E(utils.CodeInvalidState, op, "job is not open for applications", nil)
	}
	now := s.clock.Now()
	if !job.AcceptingAt(now) {
		return nil, utils.E(utils.CodeOutOfWindow, op, "job is outside its application window", nil)
	}
	if res := eligibility.Evaluate(job.Eligibility, eligibility.ProfileOf(student)); !res.Eligible {
		return nil, &utils.AppError{
			Code:    utils.CodeNotEligible,
			Op:      op,
			Message: "not eligible for this job",
			Fields:  map[string]string{"eligibility": firstReason(res.Reasons)},
		}
	}

	resumeID := trimmedOrNil(in.ResumeID)
	if resumeID != nil {
		if err := s.ownedResume(ctx, op, *resumeID, in.StudentID); err != nil {
			return nil, err
		}
	}

	a := &models.Application{
		ID:               uuid.NewString(),
		StudentID:        in.StudentID,
		JobID:            in.JobID,
		Status:           models.StatusApplied,
		CoverLetter:      trimmedOrNil(in.CoverLetter),
		SelectedResumeID: resumeID,
		AppliedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.apps.Create(ctx, a); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "already applied to this job", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}
	return a, nil
}

func firstReason(reasons []string) string {
	if len(reasons) == 0 {
		return "criteria not met"
	}
	return reasons[0]
}

func (s *applicationService) ownedResume(ctx context.Context, op, resumeID, studentID string) error {
	r, err := s.resumes.GetByID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeInvalidResume, op, "resume not found", nil)
		}
		return utils.E(utils.CodeInternal, op, "failed to load resume", err)
	}
	if r.StudentID != studentID {
		return utils.E(utils.CodeInvalidResume, op, "resume does not belong to student", nil)
	}
	return nil
}

// UpdateStatus overwrites the status with any enum value. The student is
// notified best-effort.
func (s *applicationService) UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) (*models.Application, error) {
	const op = "ApplicationService.UpdateStatus"

	if !status.Valid() {
		return nil, utils.Invalid(op, "invalid status", map[string]string{
			"status": "must be one of APPLIED, SHORTLISTED, NOT_SHORTLISTED, SELECTED, REJECTED",
		})
	}
	a, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, repoErr(op, err, "application not found")
	}

	now := s.clock.Now()
	if err := s.apps.UpdateStatus(ctx, a.ID, status, now); err != nil {
		return nil, repoErr(op, err, "application not found")
	}
	a.Status = status
	a.UpdatedAt = now

	s.notifyStatus(ctx, a)
	return a, nil
}

func (s *applicationService) notifyStatus(ctx context.Context, a *models.Application) {
	l := s.log.WithFields(logrus.Fields{"application_id": a.ID, "status": a.Status})

	st, err := s.students.GetByID(ctx, a.StudentID)
	if err != nil {
		l.WithError(err).Warn("status notification skipped: student lookup failed")
		return
	}
	job, err := s.jobs.GetByID(ctx, a.JobID)
	if err != nil {
		l.WithError(err).Warn("status notification skipped: job lookup failed")
		return
	}
	err = s.notifier.ApplicationStatusChanged(ctx, notify.StatusChange{
		StudentName:  st.Name,
		StudentEmail: st.Email,
		JobName:      job.Name,
		Company:      job.Company,
		Status:       a.Status,
	})
	if err != nil {
		l.WithError(err).Warn("status notification failed")
	}
}

// ReassignResume points the application at another of the student's resumes.
func (s *applicationService) ReassignResume(ctx context.Context, applicationID, studentID, resumeID string) (*models.Application, error) {
	const op = "ApplicationService.ReassignResume"

	resumeID = strings.TrimSpace(resumeID)
	if resumeID == "" {
		return nil, utils.Invalid(op, "resume is required", map[string]string{"resumeId": "resumeId is required"})
	}
	if _, err := activeStudent(ctx, s.students, op, studentID); err != nil {
		return nil, err
	}

	a, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, repoErr(op, err, "application not found")
	}
	if a.StudentID != studentID {
		return nil, utils.E(utils.CodeNotFound, op, "application not found", nil)
	}

	if err := s.ownedResume(ctx, op, resumeID, studentID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.apps.UpdateSelectedResume(ctx, a.ID, &resumeID, now); err != nil {
		return nil, repoErr(op, err, "application not found")
	}
	a.SelectedResumeID = &resumeID
	a.UpdatedAt = now
	return a, nil
}

func (s *applicationService) ListForStudent(ctx context.Context, studentID string) ([]ApplicationView, error) {
	const op = "ApplicationService.ListForStudent"

	apps, err := s.apps.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	if len(apps) == 0 {
		return []ApplicationView{}, nil
	}

	jobIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		jobIDs = append(jobIDs, a.JobID)
	}
	jobs, err := s.jobs.GetByIDs(ctx, uniqueStrings(jobIDs))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load jobs", err)
	}
	jobByID := make(map[string]*models.Job, len(jobs))
	for i := range jobs {
		jobByID[jobs[i].ID] = &jobs[i]
	}

	resumes, err := s.resumes.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load resumes", err)
	}
	resumeByID := make(map[string]*models.Resume, len(resumes))
	for i := range resumes {
		resumeByID[resumes[i].ID] = &resumes[i]
	}

	out := make([]ApplicationView, 0, len(apps))
	for _, a := range apps {
		v := ApplicationView{Application: a, Job: summarizeJob(jobByID[a.JobID])}
		if a.SelectedResumeID != nil {
			v.Resume = resumeByID[*a.SelectedResumeID]
			v.ResumeMissing = v.Resume == nil
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *applicationService) GetForStudent(ctx context.Context, applicationID, studentID string) (*ApplicationView, error) {
	const op = "ApplicationService.GetForStudent"

	a, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, repoErr(op, err, "application not found")
	}
	if a.StudentID != studentID {
		return nil, utils.E(utils.CodeNotFound, op, "application not found", nil)
	}

	v := &ApplicationView{Application: *a}
	job, err := s.jobs.GetByID(ctx, a.JobID)
	switch {
	case err == nil:
		v.Job = summarizeJob(job)
	case !errors.Is(err, utils.ErrNotFound):
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	if a.SelectedResumeID != nil {
		r, err := s.resumes.GetByID(ctx, *a.SelectedResumeID)
		switch {
		case err == nil:
			v.Resume = r
		case errors.Is(err, utils.ErrNotFound):
			v.ResumeMissing = true
		default:
			return nil, utils.E(utils.CodeInternal, op, "failed to load resume", err)
		}
	}
	return v, nil
}

func (s *applicationService) StatsForStudent(ctx context.Context, studentID string) (*ApplicationStats, error) {
	const op = "ApplicationService.StatsForStudent"

	counts, err := s.apps.CountByStatus(ctx, studentID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count applications", err)
	}
	stats := &ApplicationStats{ByStatus: make(map[models.ApplicationStatus]int64, len(models.ApplicationStatuses))}
	for _, st := range models.ApplicationStatuses {
		stats.ByStatus[st] = 0
	}
	for _, c := range counts {
		stats.ByStatus[c.Status] += c.Count
		stats.Total += c.Count
	}
	return stats, nil
}

func (s *applicationService) applicants(ctx context.Context, op, jobID string) (*models.Job, []models.Application, map[string]*models.Student, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, nil, nil, repoErr(op, err, "job not found")
	}
	apps, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, nil, nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.StudentID)
	}
	students, err := s.students.GetByIDs(ctx, uniqueStrings(ids))
	if err != nil {
		return nil, nil, nil, utils.E(utils.CodeInternal, op, "failed to load students", err)
	}
	byID := make(map[string]*models.Student, len(students))
	for i := range students {
		byID[students[i].ID] = &students[i]
	}
	return job, apps, byID, nil
}

func (s *applicationService) ListForJob(ctx context.Context, jobID string) ([]ApplicantView, error) {
	const op = "ApplicationService.ListForJob"

	_, apps, students, err := s.applicants(ctx, op, jobID)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicantView, 0, len(apps))
	for _, a := range apps {
		v := ApplicantView{Application: a}
		if st := students[a.StudentID]; st != nil {
			v.Student = &StudentSummary{
				ID:         st.ID,
				RollNumber: st.RollNumber,
				Name:       st.Name,
				Email:      st.Email,
				Degree:     st.Degree,
				Branch:     st.Branch,
				GPA:        st.GPA,
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *applicationService) ExportForJob(ctx context.Context, jobID string, f export.Format, w io.Writer) error {
	const op = "ApplicationService.ExportForJob"

	job, apps, students, err := s.applicants(ctx, op, jobID)
	if err != nil {
		return err
	}
	rows := make([]export.ApplicantRow, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, export.NewApplicantRow(a, students[a.StudentID]))
	}
	if err := export.Applicants(w, f, job.Company+" "+job.Name, rows); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to write export", err)
	}
	return nil
}
