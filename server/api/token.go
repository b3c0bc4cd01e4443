package api

import (
	"net/http"

	"github.com/mcrl2-go/symbolic/server/dao"
	"github.com/mcrl2-go/symbolic/server/middle"
	"github.com/mcrl2-go/symbolic/server/result"
	"github.com/mcrl2-go/symbolic/server/token"
)

// HTTPCreateToken returns a HandlerFunc that mints a new bearer token for the
// user the client is currently logged in as.
//
// The handler requires the request context to carry the logged-in user of
// the client making the request.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return api.Endpoint(api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{Token: tok, UserID: user.ID.String()}
	return result.Created(resp, "user '"+user.Username+"' successfully created new token")
}
