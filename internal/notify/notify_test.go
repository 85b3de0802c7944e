package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/placementcell/internal/models"
)

func TestStatusMail(t *testing.T) {
	m := statusMail("cell@example.edu", "Placement Cell", StatusChange{
		StudentName:  "Asha",
		StudentEmail: "asha@example.edu",
		JobName:      "SDE Intern",
		Company:      "Acme",
		Status:       models.StatusNotShortlisted,
	})

	assert.Equal(t, "Application update: SDE Intern at Acme", m.Subject)
	assert.Equal(t, "cell@example.edu", m.From.Address)
	require.Len(t, m.Personalizations, 1)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, "asha@example.edu", m.Personalizations[0].To[0].Address)
	require.Len(t, m.Content, 2)
	assert.Contains(t, m.Content[0].Value, "not shortlisted")
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.ApplicationStatusChanged(context.Background(), StatusChange{}))
}
