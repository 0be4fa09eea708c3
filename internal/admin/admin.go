// Package admin checks the site owner's credentials and issues the signed
// session cookie that guards the dashboard.
package admin

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Zachkp/cosmic-portfolio/internal/config"
)

const (
	CookieName = "admin_session"
	issuer     = "cosmic-portfolio"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired admin session")
)

type Claims struct {
	jwt.RegisteredClaims
}

type Authenticator struct {
	username     string
	password     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func New(cfg config.AdminConfig) (*Authenticator, error) {
	if len(cfg.SessionSecret) == 0 {
		return nil, errors.New("admin session secret is empty")
	}
	a := &Authenticator{
		username: cfg.Username,
		password: cfg.Password,
		secret:   cfg.SessionSecret,
		ttl:      cfg.SessionTTL,
		now:      time.Now,
	}
	if cfg.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
		}
		a.passwordHash = []byte(cfg.PasswordHash)
	}
	if a.ttl <= 0 {
		a.ttl = 24 * time.Hour
	}
	return a, nil
}

func (a *Authenticator) TTL() time.Duration { return a.ttl }

// CheckCredentials compares against the bcrypt hash when one is configured
// and the plain development password otherwise.
func (a *Authenticator) CheckCredentials(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	var passOK bool
	if a.passwordHash != nil {
		passOK = bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	}
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// Issue signs a session token for username.
func (a *Authenticator) Issue(username string) (string, time.Time, error) {
	now := a.now()
	expires := now.Add(a.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin session: %w", err)
	}
	return signed, expires, nil
}

// Verify parses a session token. Any failure is reported as
// ErrInvalidSession wrapping the cause.
func (a *Authenticator) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(*jwt.Token) (interface{}, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject != a.username {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// HashPassword produces a value for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
