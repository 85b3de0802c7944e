package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/placementcell/internal/export"
	"github.com/yoockh/placementcell/internal/models"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/utils"
	"gorm.io/datatypes"
)

func TestProfileSections(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	st := e.seedStudent(t, "CS001", 8.0, 90, 85)

	p, err := e.studentSvc.UpdateProfile(ctx, st.ID, ProfilePatch{Phone: ptr(" 9876543210 ")})
	require.NoError(t, err)
	assert.Equal(t, "9876543210", p.Phone)
	assert.Equal(t, st.Name, p.Name)
	assert.Equal(t, st.Email, p.Email)

	dob := datatypes.Date(time.Date(2003, 5, 1, 0, 0, 0, 0, time.UTC))
	pi, err := e.studentSvc.UpdatePersonal(ctx, st.ID, PersonalPatch{Gender: ptr(models.GenderFemale), DateOfBirth: &dob, IsPWD: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, models.GenderFemale, pi.Gender)
	assert.True(t, pi.IsPWD)
	require.NotNil(t, pi.DateOfBirth)

	ac, err := e.studentSvc.UpdateAcademic(ctx, st.ID, AcademicPatch{GPA: ptr(9.1), UGPercentage: ptr(81.5)})
	require.NoError(t, err)
	assert.Equal(t, 9.1, ac.GPA)
	assert.Equal(t, 81.5, *ac.UGPercentage)
	assert.Equal(t, 90.0, *ac.TenthMarks)

	again, err := e.studentSvc.Academic(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, ac, again)

	_, err = e.studentSvc.UpdateAcademic(ctx, st.ID, AcademicPatch{Degree: ptr(models.Degree("PHD"))})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument), "got %v", err)

	_, err = e.studentSvc.Profile(ctx, "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "got %v", err)
}

func TestSkills(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	st := e.seedStudent(t, "CS001", 8.0, 90, 85)

	_, err := e.studentSvc.ReplaceSkills(ctx, st.ID, []SkillInput{{Name: "Go"}, {Name: " go "}})
	assert.True(t, utils.IsCode(err, utils.CodeConflict), "got %v", err)

	rows, err := e.studentSvc.ReplaceSkills(ctx, st.ID, []SkillInput{{Name: "Go", Level: models.SkillAdvanced}, {Name: "SQL"}})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	_, err = e.studentSvc.AddSkill(ctx, st.ID, SkillInput{Name: "sql"})
	assert.True(t, utils.IsCode(err, utils.CodeConflict), "got %v", err)

	added, err := e.studentSvc.AddSkill(ctx, st.ID, SkillInput{Name: "Docker"})
	require.NoError(t, err)

	list, err := e.studentSvc.Skills(ctx, st.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	require.NoError(t, e.studentSvc.DeleteSkill(ctx, st.ID, added.ID))
	err = e.studentSvc.DeleteSkill(ctx, st.ID, added.ID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "got %v", err)

	// Replacing with an empty list clears everything.
	_, err = e.studentSvc.ReplaceSkills(ctx, st.ID, nil)
	require.NoError(t, err)
	list, err = e.studentSvc.Skills(ctx, st.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAdminStudentDirectory(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := e.seedStudent(t, "CS001", 8.0, 90, 85)
	b := e.seedStudent(t, "CS002", 7.0, 80, 75)
	require.NoError(t, e.studentSvc.SetActive(ctx, b.ID, false))

	active := true
	list, err := e.studentSvc.List(ctx, pgrepo.StudentFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	detail, err := e.studentSvc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "CS001", detail.RollNumber)
	assert.Empty(t, detail.Skills)

	err = e.studentSvc.SetActive(ctx, "missing", true)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "got %v", err)

	var buf bytes.Buffer
	require.NoError(t, e.studentSvc.ExportCSV(ctx, pgrepo.StudentFilter{}, &buf))
	var rows []export.StudentRow
	require.NoError(t, gocsv.Unmarshal(&buf, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "CS001", rows[0].RollNumber)
	assert.False(t, rows[1].Active)
}
