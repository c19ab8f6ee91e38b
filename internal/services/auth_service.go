package services

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	tokenPurposeSession   = "session"
	tokenPurposePreissued = "preissued"

	SessionTokenTTL = 30 * 24 * time.Hour
	signingKeyInfo  = "registro session signing key v1"
)

var ErrInvalidToken = errors.New("invalid session token")

type sessionClaims struct {
	Purpose   string `json:"purpose"`
	Anonymous bool   `json:"anon,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the opaque owner of every record written in a session.
type Identity struct {
	UserID    string
	Anonymous bool
}

type AuthService struct {
	signingKey   []byte
	initialToken string
	clock        Clock
	newID        func() (uuid.UUID, error)
	log          *slog.Logger
}

func NewAuthService(secretKey string, initialToken string, clock Clock, log *slog.Logger) (*AuthService, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, fmt.Errorf("%w: empty secret key", ErrAuth)
	}
	key, err := deriveSigningKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("%w: derive signing key: %w", ErrAuth, err)
	}
	if clock == nil {
		clock = SystemClock
	}
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{
		signingKey:   key,
		initialToken: strings.TrimSpace(initialToken),
		clock:        clock,
		newID:        uuid.NewRandom,
		log:          log.With("component", "auth"),
	}, nil
}

func deriveSigningKey(secretKey string) ([]byte, error) {
	reader := hkdf.New(sha256.New, []byte(secretKey), nil, []byte(signingKeyInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Bootstrap establishes the identity for a new visitor: the configured
// pre-issued token when it verifies, otherwise a fresh anonymous id.
func (service *AuthService) Bootstrap() (Identity, error) {
	if service.initialToken != "" {
		identity, err := service.parse(service.initialToken, tokenPurposePreissued)
		if err == nil {
			return identity, nil
		}
		service.log.Warn("pre-issued token rejected, using anonymous session", "error", err)
	}

	id, err := service.newID()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrAuth, err)
	}
	return Identity{UserID: id.String(), Anonymous: true}, nil
}

func (service *AuthService) IssueSession(identity Identity) (string, error) {
	return service.sign(identity, tokenPurposeSession, SessionTokenTTL)
}

// IssuePreissued mints a token suitable for INITIAL_AUTH_TOKEN.
func (service *AuthService) IssuePreissued(userID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("%w: empty user id", ErrValidation)
	}
	return service.sign(Identity{UserID: userID}, tokenPurposePreissued, ttl)
}

func (service *AuthService) ParseSession(raw string) (Identity, error) {
	return service.parse(raw, tokenPurposeSession)
}

func (service *AuthService) sign(identity Identity, purpose string, ttl time.Duration) (string, error) {
	now := service.clock.Now()
	claims := sessionClaims{
		Purpose:   purpose,
		Anonymous: identity.Anonymous,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  identity.UserID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(service.signingKey)
}

func (service *AuthService) parse(raw string, purpose string) (Identity, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return service.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(service.clock.Now),
	)
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.Purpose != purpose || strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.Subject, Anonymous: claims.Anonymous}, nil
}
