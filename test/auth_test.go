package test

import (
	"context"
	"net/http"

	"github.com/2beens/stargym/internal"
	"github.com/2beens/stargym/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestSessions() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	session := s.signInAnonymously(ctx)

	resp := s.doRequest(ctx, http.MethodPost, "/auth/token", "", auth.TokenSignInRequest{Token: session.Token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var resumed auth.Session
	s.decodeBody(resp, &resumed)
	assert.Equal(t, session.UserID, resumed.UserID)

	resp = s.doRequest(ctx, http.MethodPost, "/auth/signout", session.Token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodGet, "/prs", session.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodPost, "/auth/token", "", auth.TokenSignInRequest{Token: session.Token})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestHealthz() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp := s.doRequest(ctx, http.MethodGet, "/healthz", "", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var health internal.HealthResponse
	s.decodeBody(resp, &health)
	assert.Equal(s.T(), "ok", health.Status)
}

func (s *IntegrationTestSuite) TestImportNotFound() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := s.signInAnonymously(ctx)
	resp := s.doRequest(ctx, http.MethodGet, "/imports/missing", session.Token, nil)
	resp.Body.Close()
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)
}
