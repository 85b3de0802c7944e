package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/placementcell/internal/logger"
	"github.com/yoockh/placementcell/internal/models"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/utils"
)

func TestCreateJobValidation(t *testing.T) {
	e := newTestEnv(t)

	in := openJob(7)
	in.Name = ""
	in.ApplicationClosed = in.ApplicationOpen.Add(-time.Minute)
	_, err := e.jobSvc.Create(context.Background(), in)
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument), "got %v", err)

	var ae *utils.AppError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Fields, "name")
	assert.Contains(t, ae.Fields, "applicationClosed")
}

func TestCreateJobDefaults(t *testing.T) {
	e := newTestEnv(t)
	in := openJob(7)
	in.Status = ""

	j, err := e.jobSvc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.JobOpen, j.Status)
	assert.Equal(t, models.GenderAny, j.Eligibility.Gender)
	assert.NotEmpty(t, j.ID)
}

func TestUpdateJobPartial(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	j := e.seedJob(t, openJob(7))

	got, err := e.jobSvc.Update(ctx, j.ID, JobPatch{CTC: ptr(18.5), Location: ptr(" Remote ")})
	require.NoError(t, err)
	assert.Equal(t, 18.5, got.CTC)
	assert.Equal(t, "Remote", got.Location)
	assert.Equal(t, j.Name, got.Name)
	assert.Equal(t, j.Eligibility.BTechCutoff, got.Eligibility.BTechCutoff)

	// Moving close before open is rejected.
	_, err = e.jobSvc.Update(ctx, j.ID, JobPatch{ApplicationClosed: ptr(j.ApplicationOpen.Add(-time.Hour))})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument), "got %v", err)

	_, err = e.jobSvc.Update(ctx, "missing", JobPatch{CTC: ptr(1.0)})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "got %v", err)
}

// deleteAfterReadJobRepo removes the job right after it is read, so the
// following write races a concurrent delete.
type deleteAfterReadJobRepo struct {
	*fakeJobRepo
}

func (r deleteAfterReadJobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	j, err := r.fakeJobRepo.GetByID(ctx, id)
	if err == nil {
		_ = r.fakeJobRepo.Delete(ctx, id)
	}
	return j, err
}

func TestUpdateDeletedJobIsNotRecreated(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	job := e.seedJob(t, openJob(7))

	svc := NewJobService(deleteAfterReadJobRepo{e.jobs}, e.apps, e.students, e.cache, time.Minute, logger.Discard(), fixedClock())

	_, err := svc.Update(ctx, job.ID, JobPatch{Name: ptr("Renamed")})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "got %v", err)

	_, err = svc.UpdateStatus(ctx, job.ID, models.JobClosed)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "got %v", err)

	_, err = e.jobs.GetByID(ctx, job.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUpdateJobStatusRejectsUnknown(t *testing.T) {
	e := newTestEnv(t)
	j := e.seedJob(t, openJob(7))

	_, err := e.jobSvc.UpdateStatus(context.Background(), j.ID, models.JobStatus("ARCHIVED"))
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument), "got %v", err)
}

func TestDeleteJobWithApplicationsConflicts(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	st := e.seedStudent(t, "CS001", 8.0, 90, 85)
	withApps := e.seedJob(t, openJob(7))
	empty := e.seedJob(t, openJob(7))
	_, err := e.appSvc.Apply(ctx, ApplyInput{JobID: withApps.ID, StudentID: st.ID})
	require.NoError(t, err)

	err = e.jobSvc.Delete(ctx, withApps.ID)
	assert.True(t, utils.IsCode(err, utils.CodeConflict), "got %v", err)

	require.NoError(t, e.jobSvc.Delete(ctx, empty.ID))
	err = e.jobSvc.Delete(ctx, empty.ID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "got %v", err)
}

func TestOpenJobsCachedAndInvalidated(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	j := e.seedJob(t, openJob(7))

	list, err := e.jobSvc.OpenJobs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, err = e.jobSvc.OpenJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, e.jobs.listCalls)

	_, err = e.jobSvc.UpdateStatus(ctx, j.ID, models.JobClosed)
	require.NoError(t, err)

	list, err = e.jobSvc.OpenJobs(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 2, e.jobs.listCalls)
}

func TestListJobsFilter(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.seedJob(t, openJob(7))
	draft := openJob(7)
	draft.Status = models.JobDraft
	e.seedJob(t, draft)

	all, err := e.jobSvc.List(ctx, pgrepo.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	drafts, err := e.jobSvc.List(ctx, pgrepo.JobFilter{Status: models.JobDraft})
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	_, err = e.jobSvc.List(ctx, pgrepo.JobFilter{Status: "NOPE"})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument), "got %v", err)
}

func TestListForStudentAnnotations(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	st := e.seedStudent(t, "CS001", 8.0, 90, 85)

	easy := e.seedJob(t, openJob(7.5))
	hard := e.seedJob(t, openJob(9.0))
	draft := openJob(5)
	draft.Status = models.JobDraft
	e.seedJob(t, draft)

	_, err := e.appSvc.Apply(ctx, ApplyInput{JobID: easy.ID, StudentID: st.ID})
	require.NoError(t, err)

	views, err := e.jobSvc.ListForStudent(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[string]StudentJobView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.True(t, byID[easy.ID].IsEligible)
	assert.True(t, byID[easy.ID].HasApplied)
	require.NotNil(t, byID[easy.ID].ApplicationStatus)
	assert.Equal(t, models.StatusApplied, *byID[easy.ID].ApplicationStatus)
	assert.True(t, byID[easy.ID].AcceptingApplications)

	assert.False(t, byID[hard.ID].IsEligible)
	assert.NotEmpty(t, byID[hard.ID].EligibilityReasons)
	assert.False(t, byID[hard.ID].HasApplied)
	assert.Nil(t, byID[hard.ID].ApplicationStatus)
}

func TestGetForStudentHidesDrafts(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	st := e.seedStudent(t, "CS001", 8.0, 90, 85)
	in := openJob(7)
	in.Status = models.JobDraft
	draft := e.seedJob(t, in)
	closedIn := openJob(7)
	closedIn.Status = models.JobClosed
	closed := e.seedJob(t, closedIn)

	_, err := e.jobSvc.GetForStudent(ctx, draft.ID, st.ID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "got %v", err)

	v, err := e.jobSvc.GetForStudent(ctx, closed.ID, st.ID)
	require.NoError(t, err)
	assert.False(t, v.AcceptingApplications)
	assert.True(t, v.IsEligible)
}
