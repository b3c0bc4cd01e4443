// Package token issues and validates the bearer JWTs used to authenticate
// requests to the introspection API.
package token

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mcrl2-go/symbolic/server/dao"
)

const issuer = "mcrl2server"

// signKey derives the HMAC key used to sign and verify u's tokens. Mixing
// the user's password hash and last-logout time into the key means every
// token minted before a password change or logout stops validating, without
// needing a separate revocation list.
func signKey(secret []byte, u dao.User) []byte {
	key := append([]byte(nil), secret...)
	key = append(key, []byte(u.Password)...)
	key = append(key, []byte(fmt.Sprintf("%d", u.LastLogoutTime.Unix()))...)
	return key
}

// Generate mints a new bearer token for u, signed with secret.
func Generate(secret []byte, u dao.User) (string, error) {
	claims := jwt.MapClaims{
		"iss": issuer,
		"sub": u.ID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(signKey(secret, u))
}

// Get extracts the bearer token from req's Authorization header.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// Validate checks tok's signature and claims and returns the user it
// identifies. The signing key depends on the looked-up user's current
// password hash and last-logout time, so a stale token from before a
// password change or an explicit logout is rejected.
func Validate(ctx context.Context, tok string, secret []byte, db dao.UserRepository) (dao.User, error) {
	var user dao.User

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}
		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}
		user, err = db.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("subject could not be validated")
		}
		return signKey(secret, user), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.User{}, err
	}
	return user, nil
}
