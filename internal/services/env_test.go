package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/placementcell/internal/cache"
	"github.com/yoockh/placementcell/internal/logger"
	"github.com/yoockh/placementcell/internal/models"
	"github.com/yoockh/placementcell/internal/security"
)

type testEnv struct {
	students *fakeStudentRepo
	admins   *fakeAdminRepo
	skills   *fakeSkillRepo
	jobs     *fakeJobRepo
	apps     *fakeApplicationRepo
	resumes  *fakeResumeRepo
	events   *fakeEventRepo
	store    *memStorage
	notifier *recordingNotifier
	cache    *cache.MemoryCache

	studentTokens *security.TokenManager
	adminTokens   *security.TokenManager

	auth       AuthService
	studentSvc StudentService
	jobSvc     JobService
	appSvc     ApplicationService
	resumeSvc  ResumeService
	eventSvc   EventService
	dashboard  DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.Discard()
	clock := fixedClock()

	e := &testEnv{
		students:      newFakeStudentRepo(),
		admins:        newFakeAdminRepo(),
		skills:        &fakeSkillRepo{},
		jobs:          newFakeJobRepo(),
		apps:          newFakeApplicationRepo(),
		resumes:       newFakeResumeRepo(),
		events:        newFakeEventRepo(),
		store:         newMemStorage(),
		notifier:      &recordingNotifier{},
		cache:         cache.NewMemoryCache(time.Minute, time.Minute),
		studentTokens: security.NewTokenManager("student-secret", "placementcell", security.AudienceStudent, time.Hour),
		adminTokens:   security.NewTokenManager("admin-secret", "placementcell", security.AudienceAdmin, time.Hour),
	}
	e.auth = NewAuthService(e.students, e.admins, e.studentTokens, e.adminTokens, clock)
	e.studentSvc = NewStudentService(e.students, e.skills, clock)
	e.jobSvc = NewJobService(e.jobs, e.apps, e.students, e.cache, time.Minute, log, clock)
	e.appSvc = NewApplicationService(e.apps, e.jobs, e.students, e.resumes, e.notifier, log, clock)
	e.resumeSvc = NewResumeService(e.resumes, e.students, e.store, log, clock)
	e.eventSvc = NewEventService(e.events, clock)
	e.dashboard = NewDashboardService(e.students, e.apps, e.jobSvc, e.events, e.appSvc, clock)
	return e
}

// seedStudent stores a BTech student with the given GPA and school marks.
func (e *testEnv) seedStudent(t *testing.T, roll string, gpa, tenth, twelfth float64) *models.Student {
	t.Helper()
	s := &models.Student{
		ID:           uuid.NewString(),
		RollNumber:   roll,
		Email:        roll + "@campus.test",
		Name:         "Student " + roll,
		Degree:       models.DegreeBTech,
		Branch:       "CSE",
		CurrentYear:  4,
		GPA:          gpa,
		TenthMarks:   ptr(tenth),
		TwelfthMarks: ptr(twelfth),
		IsActive:     true,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	require.NoError(t, e.students.Create(context.Background(), s))
	return s
}

// openJob returns an OPEN BTech job accepting applications at testNow.
func openJob(cutoff float64) JobInput {
	return JobInput{
		Name:              "Backend Engineer",
		Company:           "Acme",
		Location:          "Pune",
		Type:              models.JobFullTime,
		CTC:               12,
		Status:            models.JobOpen,
		ApplicationOpen:   testNow.Add(-24 * time.Hour),
		ApplicationClosed: testNow.Add(24 * time.Hour),
		Eligibility: models.Eligibility{
			BTech:                   true,
			BTechCutoff:             cutoff,
			TenthPercentageCutoff:   60,
			TwelfthPercentageCutoff: 60,
		},
	}
}

func (e *testEnv) seedJob(t *testing.T, in JobInput) *models.Job {
	t.Helper()
	j, err := e.jobSvc.Create(context.Background(), in)
	require.NoError(t, err)
	return j
}

func (e *testEnv) seedResume(t *testing.T, studentID string) *models.Resume {
	t.Helper()
	r := &models.Resume{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		FileName:   "cv.pdf",
		FilePath:   "resumes/" + studentID + "/cv.pdf",
		FileSize:   10,
		MimeType:   MimePDF,
		UploadedAt: testNow,
	}
	require.NoError(t, e.resumes.Insert(context.Background(), r))
	return r
}
