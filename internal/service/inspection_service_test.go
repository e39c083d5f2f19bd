package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/model"
)

func TestInspectionService_ConductOnlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	worker := f.user(t, model.RoleWorker)
	inspector := f.user(t, model.RoleInspector)
	admin := f.user(t, model.RoleAdmin)
	checklist := f.fireAlarm(t, worker, "Acme Care")
	id := checklist.InspectionID

	conducted, err := f.workflow.Conduct(ctx, inspector, id, ConductInput{Comments: " all good "})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, conducted.Status)
	require.NotNil(t, conducted.ConductedByID)
	assert.Equal(t, inspector.ID, *conducted.ConductedByID)
	assert.Equal(t, "all good", conducted.InspectionComments)
	assert.NotNil(t, conducted.InspectionDate)

	_, err = f.workflow.Conduct(ctx, admin, id, ConductInput{Status: model.StatusRejected})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyConducted)

	current, err := f.inspections.FindByID(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, inspector.ID, *current.ConductedByID)
	assert.Equal(t, model.StatusCompleted, current.Status)
}

func TestInspectionService_ConductRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	worker := f.user(t, model.RoleWorker)
	inspector := f.user(t, model.RoleInspector)
	id := f.fireAlarm(t, worker, "Acme Care").InspectionID

	_, err := f.workflow.Conduct(ctx, worker, id, ConductInput{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.workflow.Conduct(ctx, inspector, id, ConductInput{Status: model.StatusApproved})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")

	_, err = f.workflow.Conduct(ctx, inspector, 9999, ConductInput{})
	assert.ErrorIs(t, err, apperrors.ErrInspectionNotFound)
}

func TestInspectionService_ConcurrentConduct(t *testing.T) {
	f := newFixture(t)
	worker := f.user(t, model.RoleWorker)
	id := f.fireAlarm(t, worker, "Acme Care").InspectionID
	inspectors := make([]*model.User, 5)
	for i := range inspectors {
		inspectors[i] = f.user(t, model.RoleInspector)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for _, inspector := range inspectors {
		wg.Add(1)
		go func(actor *model.User) {
			defer wg.Done()
			_, err := f.workflow.Conduct(context.Background(), actor, id, ConductInput{})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, apperrors.ErrAlreadyConducted) {
				rejected++
			}
		}(inspector)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, len(inspectors)-1, rejected)

	events, err := f.inspections.ListEvents(context.Background(), id)
	require.NoError(t, err)
	conducted := 0
	for _, e := range events {
		if e.Action == model.EventConducted {
			conducted++
		}
	}
	assert.Equal(t, 1, conducted)
}

func TestInspectionService_Approve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	worker := f.user(t, model.RoleWorker)
	inspector := f.user(t, model.RoleInspector)
	admin := f.user(t, model.RoleAdmin)
	id := f.fireAlarm(t, worker, "Acme Care").InspectionID

	_, err := f.workflow.Approve(ctx, inspector, id, ApproveInput{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "non-admin cannot approve")

	_, err = f.workflow.Approve(ctx, admin, id, ApproveInput{})
	assert.ErrorIs(t, err, apperrors.ErrNotConducted)

	_, err = f.workflow.Conduct(ctx, inspector, id, ConductInput{})
	require.NoError(t, err)

	approved, err := f.workflow.Approve(ctx, admin, id, ApproveInput{Comments: "needs work", Status: model.StatusRejected})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, approved.Status)
	assert.Equal(t, admin.ID, *approved.ApprovedByID)
	assert.NotNil(t, approved.ApprovalDate)

	_, err = f.workflow.Approve(ctx, admin, id, ApproveInput{})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApproved)

	history, err := f.workflow.History(ctx, admin, id)
	require.NoError(t, err)
	actions := make([]model.EventAction, 0, len(history))
	for _, e := range history {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []model.EventAction{model.EventCreated, model.EventConducted, model.EventApproved}, actions)
}

func TestInspectionService_TransitionClearsStatsCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	worker := f.user(t, model.RoleWorker)
	inspector := f.user(t, model.RoleInspector)
	id := f.fireAlarm(t, worker, "Acme Care").InspectionID

	require.NoError(t, f.redis.Set(statsCacheKey, `{"total_inspections":0}`))
	_, err := f.workflow.Conduct(ctx, inspector, id, ConductInput{})
	require.NoError(t, err)
	assert.False(t, f.redis.Exists(statsCacheKey))
}

func TestInspectionService_SearchAndGetAreScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, model.RoleWorker)
	bob := f.user(t, model.RoleWorker)
	inspector := f.user(t, model.RoleInspector)
	aliceRow := f.fireAlarm(t, alice, "Sunrise House")
	f.fireAlarm(t, bob, "Sunset Lodge")

	rows, err := f.workflow.Search(ctx, alice, SearchInput{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, aliceRow.InspectionID, rows[0].ID)

	rows, err = f.workflow.Search(ctx, inspector, SearchInput{ClientName: "sun"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = f.workflow.Search(ctx, bob, SearchInput{ClientName: "sunrise"})
	assert.ErrorIs(t, err, apperrors.ErrNoInspectionsFound)

	_, err = f.workflow.Get(ctx, bob, aliceRow.InspectionID)
	assert.ErrorIs(t, err, apperrors.ErrInspectionNotFound)

	_, err = f.workflow.History(ctx, bob, aliceRow.InspectionID)
	assert.ErrorIs(t, err, apperrors.ErrInspectionNotFound)
}
