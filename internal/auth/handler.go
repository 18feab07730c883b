package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/stargym/internal/telemetry/tracing"
	"github.com/2beens/stargym/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type sessionService interface {
	SignInAnonymously(ctx context.Context, createdAt time.Time) (*Session, error)
	SignInWithToken(ctx context.Context, token string) (*Session, error)
	SignOut(ctx context.Context, token string) error
}

type TokenSignInRequest struct {
	Token string `json:"token"`
}

type Handler struct {
	service sessionService
}

func NewHandler(service sessionService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleSignInAnonymously(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.anonymous")
	defer span.End()

	session, err := handler.service.SignInAnonymously(ctx, time.Now())
	if err != nil {
		log.Errorf("anonymous sign in: %s", err)
		http.Error(w, "sign in failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, session, http.StatusCreated)
}

func (handler *Handler) HandleSignInWithToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.token")
	defer span.End()

	var req TokenSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid sign in request", http.StatusBadRequest)
		return
	}

	session, err := handler.service.SignInWithToken(ctx, req.Token)
	if err != nil {
		writeAuthError(w, "token sign in", err)
		return
	}

	pkg.WriteJSON(w, session, http.StatusOK)
}

func (handler *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.signout")
	defer span.End()

	if err := handler.service.SignOut(ctx, TokenFromRequest(r)); err != nil {
		writeAuthError(w, "sign out", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeAuthError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrAuthFailed) {
		log.Warnf("%s: %s", op, err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	log.Errorf("%s: %s", op, err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
