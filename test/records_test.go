package test

import (
	"context"
	"net/http"

	"github.com/2beens/stargym/internal/training"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestPersonalRecords() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	session := s.signInAnonymously(ctx)

	resp := s.doRequest(ctx, http.MethodPost, "/prs", session.Token, training.PersonalRecord{
		Name:  "Back Squat",
		Value: "140",
		Date:  "2024-04-20",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created training.PersonalRecord
	s.decodeBody(resp, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, training.RecordPowerlifting, created.Category)
	assert.Equal(t, training.UnitKg, created.Unit)

	// partial update keeps the fields not sent
	resp = s.doRequest(ctx, http.MethodPut, "/prs/"+created.ID, session.Token, map[string]string{"value": "145"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated training.PersonalRecord
	s.decodeBody(resp, &updated)
	assert.Equal(t, "145", updated.Value)
	assert.Equal(t, "Back Squat", updated.Name)
	assert.Equal(t, "2024-04-20", updated.Date)

	resp = s.doRequest(ctx, http.MethodGet, "/prs", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var groups []training.RecordGroup
	s.decodeBody(resp, &groups)
	require.Len(t, groups, len(training.RecordCategories))
	assert.Equal(t, training.RecordPowerlifting, groups[0].Category)
	require.Len(t, groups[0].Records, 1)
	assert.Equal(t, "145", groups[0].Records[0].Value)

	resp = s.doRequest(ctx, http.MethodDelete, "/prs/"+created.ID, session.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodDelete, "/prs/"+created.ID, session.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
