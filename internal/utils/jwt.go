package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/obsicat/obsicat-api/internal/model"
)

// Token type discriminators embedded in the "typ" claim. A refresh token is
// never accepted where an access token is required and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned by VerifyToken for any token that cannot be
// trusted: bad signature, wrong algorithm, expired, or wrong type.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken is a signed JWT access token along with its expiry. Access
// tokens carry identity plus role/email claims and are presented in the
// Authorization header on protected endpoints.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken is a longer-lived signed JWT used solely to obtain new access
// tokens. It deliberately carries no role or email claims: the role may have
// changed since issuance, so it must be re-read from the user store when the
// token is exchanged.
type RefreshToken struct {
	Token string
	Exp   time.Time
}

// Claims is the verified content of a bearer token.
type Claims struct {
	UserID string
	Role   string
	Email  string
	Type   string
}

// NewAccessToken builds and signs an HS256 JWT for a user. The token embeds
// subject (sub), role, email, the access type discriminator (typ),
// expiration (exp) and issued at (iat).
func NewAccessToken(secret string, u model.User, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"role":  u.Role,
		"email": u.Email,
		"typ":   TokenTypeAccess,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 refresh JWT carrying only the
// subject and the refresh type discriminator.
func NewRefreshToken(secret string, userID string, ttl time.Duration) (RefreshToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": TokenTypeRefresh,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Token: signed, Exp: exp}, nil
}

// VerifyToken parses and validates a signed token and checks that its type
// discriminator matches expectedType. Expiry is enforced by the jwt library
// during parsing. All failures collapse into ErrInvalidToken so callers
// cannot leak why a credential was rejected.
func VerifyToken(secret, raw, expectedType string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	typ, _ := mc["typ"].(string)
	if typ != expectedType {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return Claims{}, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	email, _ := mc["email"].(string)
	return Claims{UserID: sub, Role: role, Email: email, Type: typ}, nil
}
