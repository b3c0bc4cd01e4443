package backend

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcrl2-go/symbolic/server/dao"
	"github.com/mcrl2-go/symbolic/server/serr"

	"github.com/google/uuid"
)

// Login verifies the provided username and password against the existing
// user in persistence and returns that user if they match.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the credentials do not
// match a user or the password is incorrect, it will match
// serr.ErrBadCredentials. If the error occurred due to an unexpected
// problem with the DB, it will match serr.ErrDB.
func (svc Service) Login(ctx context.Context, username string, password string) (dao.User, error) {
	user, err := svc.DB.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrBadCredentials
		}
		return dao.User{}, serr.WrapDB("", err)
	}

	bcryptHash, err := base64.StdEncoding.DecodeString(user.Password)
	if err != nil {
		return dao.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(bcryptHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dao.User{}, serr.ErrBadCredentials
		}
		return dao.User{}, serr.WrapDB("", err)
	}

	user.LastLoginTime = time.Now()
	user, err = svc.DB.Users().Update(ctx, user.ID, user)
	if err != nil {
		return dao.User{}, serr.WrapDB("cannot update user login time", err)
	}
	return user, nil
}

// Logout marks the user with the given ID as having logged out, which
// invalidates any bearer token minted before this call (see
// server/token.Generate's use of LastLogoutTime in its signing key).
func (svc Service) Logout(ctx context.Context, who uuid.UUID) (dao.User, error) {
	existing, err := svc.DB.Users().GetByID(ctx, who)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrNotFound
		}
		return dao.User{}, serr.WrapDB("could not retrieve user", err)
	}

	existing.LastLogoutTime = time.Now()
	updated, err := svc.DB.Users().Update(ctx, existing.ID, existing)
	if err != nil {
		return dao.User{}, serr.WrapDB("could not update user", err)
	}
	return updated, nil
}

// Register creates a new account with the given username/password, hashing
// the password with bcrypt before it is ever handed to persistence.
func (svc Service) Register(ctx context.Context, username, password string) (dao.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dao.User{}, err
	}

	user := dao.User{
		Username:     username,
		Password:     base64.StdEncoding.EncodeToString(hash),
		Role:         dao.Normal,
		MaxDocuments: dao.DefaultMaxDocuments,
	}
	created, err := svc.DB.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.User{}, serr.ErrAlreadyExists
		}
		return dao.User{}, serr.WrapDB("could not create user", err)
	}
	return created, nil
}
