// Package auth verifies bearer tokens issued by the identity provider.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tawseel/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidRole  = errors.New("token carries an unknown role")
)

// Identity is the caller resolved from a verified token.
type Identity struct {
	UserID string
	Role   domain.Role
}

// Claims is the JWT payload shared with the identity provider.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Verifier checks HMAC-signed identity tokens.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a verifier for tokens signed with secret by issuer.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses and validates tokenString.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return Identity{}, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return Identity{}, ErrInvalidRole
	}

	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// Issuer signs identity tokens. The trip service only verifies tokens;
// issuing exists for local development and tests.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer producing tokens valid for ttl.
func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue signs a token for the given identity.
func (i *Issuer) Issue(id Identity) (string, error) {
	if !id.Role.Valid() {
		return "", ErrInvalidRole
	}

	now := i.now()
	claims := &Claims{
		UserID: id.UserID,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}
