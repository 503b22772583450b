package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the token's role claim.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// ErrRevoked is returned for tokens that were logged out.
var ErrRevoked = errors.New("token revoked")

// Claims represents the JWT payload. Exactly one of RollNo, TeacherID and
// AdminID is set, matching Role.
type Claims struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	RollNo    int64  `json:"RollNo,omitempty"`
	TeacherID int64  `json:"teacherId,omitempty"`
	AdminID   int64  `json:"adminId,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// RoleID returns the role-specific numeric id.
func (c Claims) RoleID() int64 {
	switch c.Role {
	case RoleStudent:
		return c.RollNo
	case RoleTeacher:
		return c.TeacherID
	case RoleAdmin:
		return c.AdminID
	}
	return 0
}

// Issuer signs tokens and verifies them against the same key.
type Issuer struct {
	Key      []byte
	Name     string
	TTL      time.Duration
	Denylist Denylist
	now      func() time.Time
}

// NewIssuer builds an Issuer. denylist may be nil.
func NewIssuer(key, name string, ttl time.Duration, denylist Denylist) *Issuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{Key: []byte(key), Name: name, TTL: ttl, Denylist: denylist, now: time.Now}
}

// Issue signs claims with HS256 and a fixed expiry.
func (i *Issuer) Issue(claims Claims) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.TTL)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    i.Name,
		Subject:   claims.UserID,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Key)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Parse validates a token and returns claims.
func (i *Issuer) Parse(tokenStr string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.Key, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if i.Name != "" && claims.Issuer != i.Name {
		return Claims{}, errors.New("issuer mismatch")
	}
	return *claims, nil
}

// Verify parses the token and rejects it when it has been revoked.
func (i *Issuer) Verify(ctx context.Context, tokenStr string) (Claims, error) {
	claims, err := i.Parse(tokenStr)
	if err != nil {
		return Claims{}, err
	}
	if i.Denylist != nil {
		revoked, err := i.Denylist.Revoked(ctx, tokenStr)
		if err != nil {
			return Claims{}, err
		}
		if revoked {
			return Claims{}, ErrRevoked
		}
	}
	return claims, nil
}

// Revoke adds a still-valid token to the deny-list until it expires.
// Invalid tokens are ignored.
func (i *Issuer) Revoke(ctx context.Context, tokenStr string) error {
	if i.Denylist == nil {
		return nil
	}
	claims, err := i.Parse(tokenStr)
	if err != nil {
		return nil
	}
	exp := i.now().Add(i.TTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return i.Denylist.Revoke(ctx, tokenStr, exp)
}
