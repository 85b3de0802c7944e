package security

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", "placementcell", AudienceStudent, time.Hour)
	raw, exp, err := m.Issue("student-1", "student", "a@b.c")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "student-1", claims.Subject)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestStudentTokenRejectedByAdminManager(t *testing.T) {
	student := NewTokenManager("shared", "placementcell", AudienceStudent, time.Hour)
	admin := NewTokenManager("shared", "placementcell", AudienceAdmin, time.Hour)

	raw, _, err := student.Issue("student-1", "student", "")
	require.NoError(t, err)

	_, err = admin.Parse(raw)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestWrongSecretRejected(t *testing.T) {
	a := NewTokenManager("one", "", AudienceAdmin, time.Hour)
	b := NewTokenManager("two", "", AudienceAdmin, time.Hour)
	raw, _, err := a.Issue("admin-1", "admin", "")
	require.NoError(t, err)

	_, err = b.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewTokenManager("secret", "iss", AudienceStudent, time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, _, err := m.Issue("s", "student", "")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageRejected(t *testing.T) {
	m := NewTokenManager("secret", "iss", AudienceStudent, time.Minute)
	_, err := m.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
