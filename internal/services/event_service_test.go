package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/placementcell/internal/models"
	"github.com/yoockh/placementcell/internal/utils"
)

func TestEventLifecycle(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.eventSvc.Create(ctx, EventInput{Title: "", Type: "PARTY"})
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument), "got %v", err)

	ev, err := e.eventSvc.Create(ctx, EventInput{Title: "Acme PPT", EventDate: testNow.Add(48 * time.Hour), Venue: "Hall A", Type: models.EventPrePlacementTalk})
	require.NoError(t, err)
	assert.True(t, ev.IsActive)
	assert.NotEmpty(t, ev.EventID)

	got, err := e.eventSvc.Update(ctx, ev.EventID, EventPatch{Venue: ptr("Hall B")})
	require.NoError(t, err)
	assert.Equal(t, "Hall B", got.Venue)
	assert.Equal(t, "Acme PPT", got.Title)

	_, err = e.eventSvc.Update(ctx, "missing", EventPatch{Venue: ptr("x")})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "got %v", err)

	require.NoError(t, e.eventSvc.Delete(ctx, ev.EventID))
	err = e.eventSvc.Delete(ctx, ev.EventID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "got %v", err)
}

func TestUpcomingEvents(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	inactive := false

	_, err := e.eventSvc.Create(ctx, EventInput{Title: "past", EventDate: testNow.Add(-time.Hour), Type: models.EventTest})
	require.NoError(t, err)
	_, err = e.eventSvc.Create(ctx, EventInput{Title: "hidden", EventDate: testNow.Add(time.Hour), Type: models.EventTest, IsActive: &inactive})
	require.NoError(t, err)
	_, err = e.eventSvc.Create(ctx, EventInput{Title: "later", EventDate: testNow.Add(72 * time.Hour), Type: models.EventInterview})
	require.NoError(t, err)
	_, err = e.eventSvc.Create(ctx, EventInput{Title: "soon", EventDate: testNow.Add(2 * time.Hour), Type: models.EventWorkshop})
	require.NoError(t, err)

	list, err := e.eventSvc.Upcoming(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "soon", list[0].Title)
	assert.Equal(t, "later", list[1].Title)
}
