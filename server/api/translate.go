package api

import (
	"errors"
	"net/http"

	"github.com/mcrl2-go/symbolic/server/dao"
	"github.com/mcrl2-go/symbolic/server/middle"
	"github.com/mcrl2-go/symbolic/server/result"
	"github.com/mcrl2-go/symbolic/server/serr"
)

// HTTPCreateTranslation returns a HandlerFunc that translates a modal
// mu-calculus formula against a stored linear-process document into a PBES,
// caching the result keyed by the document and formula text.
func (api API) HTTPCreateTranslation() http.HandlerFunc {
	return api.Endpoint(api.epCreateTranslation)
}

func (api API) epCreateTranslation(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var body TranslateRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.Formula == "" {
		return result.BadRequest("formula: property is empty or missing from request", "empty formula")
	}

	doc, err := api.Backend.GetDocument(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}
	if doc.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' translate document %s: forbidden", user.Username, id)
	}

	outcome, err := api.Backend.Translate(req.Context(), id, body.Formula)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := TranslateResponse{PBES: outcome.PBES, Warnings: outcome.Warnings}
	return result.Created(resp, "user '%s' translated a formula against '%s'", user.Username, doc.Name)
}

// HTTPGetTranslation returns a HandlerFunc that returns the last translation
// computed for a document and formula, without recomputing it.
func (api API) HTTPGetTranslation() http.HandlerFunc {
	return api.Endpoint(api.epGetTranslation)
}

func (api API) epGetTranslation(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)
	formula := req.URL.Query().Get("formula")
	if formula == "" {
		return result.BadRequest("formula: query parameter is required", "empty formula query param")
	}

	doc, err := api.Backend.GetDocument(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}
	if doc.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' get translation %s: forbidden", user.Username, id)
	}

	outcome, err := api.Backend.CachedTranslate(req.Context(), id, formula)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound("no cached translation for document %s with that formula", id)
		}
		return result.InternalServerError(err.Error())
	}

	resp := TranslateResponse{PBES: outcome.PBES, Warnings: outcome.Warnings}
	return result.OK(resp, "user '%s' fetched cached translation for '%s'", user.Username, doc.Name)
}
