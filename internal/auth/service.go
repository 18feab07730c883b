package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/stargym/internal/telemetry/metrics"
	"github.com/2beens/stargym/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 30 * time.Hour
	tokenLength      = 35
	sessionKeyPrefix = "stargym-session||"
	tokensSetPrefix  = "stargym-sessions||"
)

var ErrAuthFailed = errors.New("authentication failed")

type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service keeps anonymous sessions in redis; each session is a token mapped to a user id.
type Service struct {
	appID          string
	redisClient    *redis.Client
	ttl            time.Duration
	metricsManager *metrics.Manager
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
	NewUserIDFunc  func() string
}

func NewService(
	appID string,
	ttl time.Duration,
	redisClient *redis.Client,
	metricsManager *metrics.Manager,
) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		appID:          appID,
		ttl:            ttl,
		redisClient:    redisClient,
		metricsManager: metricsManager,
		RandStringFunc: pkg.GenerateRandomString,
		NewUserIDFunc:  uuid.NewString,
	}
}

func (s *Service) sessionKey(token string) string {
	return sessionKeyPrefix + s.appID + "||" + token
}

func (s *Service) tokensSetKey() string {
	return tokensSetPrefix + s.appID
}

// SignInAnonymously creates a new user and a session for it.
func (s *Service) SignInAnonymously(ctx context.Context, createdAt time.Time) (*Session, error) {
	token, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	session := &Session{
		Token:     token,
		UserID:    s.NewUserIDFunc(),
		CreatedAt: time.Unix(createdAt.Unix(), 0),
	}

	value := session.UserID + "|" + strconv.FormatInt(session.CreatedAt.Unix(), 10)
	if err := s.redisClient.Set(ctx, s.sessionKey(token), value, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	// add token to the list of sessions
	if err := s.redisClient.SAdd(ctx, s.tokensSetKey(), token).Err(); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}

	log.Debugf("auth: new anonymous user [%s]", session.UserID)
	return session, nil
}

// SignInWithToken resumes an existing session and refreshes its TTL.
func (s *Service) SignInWithToken(ctx context.Context, token string) (*Session, error) {
	session, err := s.session(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.redisClient.Expire(ctx, s.sessionKey(token), s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	return session, nil
}

// Resolve returns the user id owning the session token.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	session, err := s.session(ctx, token)
	if err != nil {
		return "", err
	}
	return session.UserID, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	if _, err := s.session(ctx, token); err != nil {
		return err
	}

	if err := s.redisClient.Del(ctx, s.sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	// remove token from the list of sessions
	if err := s.redisClient.SRem(ctx, s.tokensSetKey(), token).Err(); err != nil {
		return fmt.Errorf("unregister session: %w", err)
	}

	return nil
}

func (s *Service) session(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		s.countFailure()
		return nil, fmt.Errorf("%w: empty token", ErrAuthFailed)
	}

	value, err := s.redisClient.Get(ctx, s.sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		s.countFailure()
		return nil, fmt.Errorf("%w: unknown session", ErrAuthFailed)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	userID, createdAtStr, found := strings.Cut(value, "|")
	if !found || userID == "" {
		s.countFailure()
		return nil, fmt.Errorf("%w: corrupt session", ErrAuthFailed)
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		s.countFailure()
		return nil, fmt.Errorf("%w: corrupt session: %s", ErrAuthFailed, err)
	}

	return &Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Unix(createdAtUnix, 0),
	}, nil
}

func (s *Service) countFailure() {
	if s.metricsManager != nil {
		s.metricsManager.CounterAuthFailures.Inc()
	}
}

// ScanAndClean drops tokens whose sessions already expired from the sessions set.
func (s *Service) ScanAndClean(ctx context.Context) {
	sessionTokens, err := s.redisClient.SMembers(ctx, s.tokensSetKey()).Result()
	if err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	if len(sessionTokens) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	cleaned := 0
	for _, token := range sessionTokens {
		exists, err := s.redisClient.Exists(ctx, s.sessionKey(token)).Result()
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}
		if exists > 0 {
			continue
		}

		if err := s.redisClient.SRem(ctx, s.tokensSetKey(), token).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}
		cleaned++
	}

	log.Debugf("=> auth service, scan and clean done, %d expired sessions removed", cleaned)
}
