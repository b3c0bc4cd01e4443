package api

import (
	"errors"
	"net/http"

	"github.com/mcrl2-go/symbolic/server/dao"
	"github.com/mcrl2-go/symbolic/server/middle"
	"github.com/mcrl2-go/symbolic/server/result"
	"github.com/mcrl2-go/symbolic/server/serr"
	"github.com/mcrl2-go/symbolic/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that logs in a user with a username
// and password and returns the bearer token for that user.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return api.Endpoint(api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	loginData := LoginRequest{}
	if err := parseJSON(req, &loginData); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if loginData.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	user, err := api.Backend.Login(req.Context(), loginData.Username, loginData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "user '%s': %s", loginData.Username, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{Token: tok, UserID: user.ID.String()}
	return result.Created(resp, "user '"+user.Username+"' successfully logged in")
}

// HTTPCreateRegistration returns a HandlerFunc that creates a new account.
// Self-registered accounts always get dao.DefaultMaxDocuments; only an admin
// using HTTPCreateUser or HTTPUpdateUser can raise an account's quota.
func (api API) HTTPCreateRegistration() http.HandlerFunc {
	return api.Endpoint(api.epCreateRegistration)
}

func (api API) epCreateRegistration(req *http.Request) result.Result {
	regData := RegisterRequest{}
	if err := parseJSON(req, &regData); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if regData.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if regData.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	user, err := api.Backend.Register(req.Context(), regData.Username, regData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("a user with that username already exists", "username '%s' already taken", regData.Username)
		}
		return result.InternalServerError(err.Error())
	}

	resp := UserModel{ID: user.ID.String(), Username: user.Username, Role: user.Role.String(), MaxDocuments: user.EffectiveMaxDocuments()}
	return result.Created(resp, "user '"+user.Username+"' successfully registered")
}

// HTTPDeleteLogin returns a HandlerFunc that deletes the active login for a
// user. Only admin users can delete logins for users other than themselves.
//
// The handler requires the request context to carry the logged-in user of
// the client making the request.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return api.Endpoint(api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if id != user.ID && user.Role != dao.Admin {
		otherUserStr := id.String()
		if otherUser, err := api.Backend.DB.Users().GetByID(req.Context(), id); err == nil {
			otherUserStr = "'" + otherUser.Username + "'"
		}
		return result.Forbidden("user '%s' (role %s) logout of user %s: forbidden", user.Username, user.Role, otherUserStr)
	}

	loggedOutUser, err := api.Backend.Logout(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not log out user: " + err.Error())
	}

	otherStr := "self"
	if id != user.ID {
		otherStr = "user '" + loggedOutUser.Username + "'"
	}
	return result.NoContent("user '%s' successfully logged out %s", user.Username, otherStr)
}
