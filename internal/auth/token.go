package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "comanda"

// VerifyStatus classifies the outcome of a token verification. Everything
// except VerifyOK resolves to "unauthenticated" for clients; the finer grain
// exists only for logs and metrics.
type VerifyStatus string

const (
	VerifyOK      VerifyStatus = "ok"
	VerifyMissing VerifyStatus = "missing"
	VerifyInvalid VerifyStatus = "invalid"
	VerifyExpired VerifyStatus = "expired"
)

func (s VerifyStatus) OK() bool {
	return s == VerifyOK
}

// SessionClaims is the signed payload of a session credential. The embedded
// role is a snapshot taken at issuance; admin-gated operations must re-check
// the stored role instead of trusting it.
type SessionClaims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HMAC-SHA256 session credentials. It is
// immutable after construction and safe for concurrent use.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if len(secret) < 32 {
		return nil, errors.New("session signing secret must be at least 32 characters")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	return &Tokens{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithStrictDecoding(),
		),
	}, nil
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a credential for an already-authenticated principal. It does
// no credential checking itself; the caller must have verified the password.
func (t *Tokens) Issue(p Principal) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		UserID: p.UserID,
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, payload shape, and expiry, in that order. Absent,
// malformed, tampered, and expired tokens are ordinary outcomes, never
// errors; callers branch on the status.
func (t *Tokens) Verify(raw string) (SessionClaims, VerifyStatus) {
	if strings.TrimSpace(raw) == "" {
		return SessionClaims{}, VerifyMissing
	}

	token, err := t.parser.ParseWithClaims(raw, &SessionClaims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		// Signature trouble outranks expiry: a tampered token is invalid
		// no matter what its payload says.
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenMalformed) {
			return SessionClaims{}, VerifyInvalid
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, VerifyExpired
		}
		return SessionClaims{}, VerifyInvalid
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return SessionClaims{}, VerifyInvalid
	}
	if claims.UserID <= 0 || claims.Email == "" || !KnownRole(claims.Role) {
		return SessionClaims{}, VerifyInvalid
	}
	return *claims, VerifyOK
}
