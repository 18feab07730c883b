package test

import (
	"context"
	"net/http"

	"github.com/2beens/stargym/internal/plans"
	"github.com/2beens/stargym/internal/training"
	"github.com/2beens/stargym/internal/training/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strengthPlan() training.Plan {
	return training.Plan{
		Name:   "Strength Block",
		Status: training.StatusActive,
		Phases: []training.Phase{
			{
				Name: "Base",
				DailyWorkouts: []training.DailyWorkout{
					{
						Date: "2024-05-07",
						Name: "Push",
						Exercises: []training.Exercise{
							{Name: "Bench Press", Category: "胸", Sets: 3, Reps: 10, Weight: 60},
						},
					},
				},
			},
		},
	}
}

func (s *IntegrationTestSuite) TestPlans() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	session := s.signInAnonymously(ctx)

	resp := s.doRequest(ctx, http.MethodGet, "/plans", "", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodPost, "/plans", session.Token, strengthPlan())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created training.Plan
	s.decodeBody(resp, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, training.PlanMain, created.Type)
	assert.Equal(t, training.ModeGeneral, created.TrainingMode)
	assert.Equal(t, 1, created.Version)

	resp = s.doRequest(ctx, http.MethodPost, "/plans/"+created.ID+"/phases/0/workouts/2024-05-07/toggle", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var toggled training.Plan
	s.decodeBody(resp, &toggled)
	assert.True(t, toggled.Phases[0].DailyWorkouts[0].IsCompleted)
	assert.Equal(t, 2, toggled.Version)

	// replacing with the stale version is rejected
	stale := created
	stale.Name = "Renamed"
	resp = s.doRequest(ctx, http.MethodPut, "/plans/"+created.ID, session.Token, stale)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodGet, "/stats", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary stats.Summary
	s.decodeBody(resp, &summary)
	assert.Equal(t, 1, summary.CompletedWorkouts)
	assert.Equal(t, 1800.0, summary.TotalVolume)
	assert.Equal(t, []stats.CategoryCount{{Name: "胸", Value: 1}}, summary.PieData)
	assert.Equal(t, []stats.WeekVolume{{Week: "2024-05-05", Volume: 1800}}, summary.BarData)

	resp = s.doRequest(ctx, http.MethodGet, "/dashboard?date=2024-05-07", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dashboard plans.DashboardResponse
	s.decodeBody(resp, &dashboard)
	assert.Equal(t, 1, dashboard.ActivePlans)
	require.Len(t, dashboard.TodaysWorkouts, 1)
	assert.Equal(t, created.ID, dashboard.TodaysWorkouts[0].PlanID)

	// another user does not see the plan
	other := s.signInAnonymously(ctx)
	resp = s.doRequest(ctx, http.MethodGet, "/plans", other.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var otherPlans []training.Plan
	s.decodeBody(resp, &otherPlans)
	assert.Empty(t, otherPlans)

	resp = s.doRequest(ctx, http.MethodDelete, "/plans/"+created.ID, session.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodGet, "/plans", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var remaining []training.Plan
	s.decodeBody(resp, &remaining)
	assert.Empty(t, remaining)
}
