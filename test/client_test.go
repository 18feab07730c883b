package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/2beens/stargym/internal/auth"

	"github.com/stretchr/testify/require"
)

// doRequest sends body as JSON (when not nil) with the session token, if any.
func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path, token string, body any) *http.Response {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (s *IntegrationTestSuite) decodeBody(resp *http.Response, v any) {
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	require.NoError(s.T(), json.Unmarshal(respBytes, v), string(respBytes))
}

func (s *IntegrationTestSuite) signInAnonymously(ctx context.Context) auth.Session {
	resp := s.doRequest(ctx, http.MethodPost, "/auth/anonymous", "", nil)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	var session auth.Session
	s.decodeBody(resp, &session)
	require.NotEmpty(s.T(), session.Token)
	require.NotEmpty(s.T(), session.UserID)
	return session
}
