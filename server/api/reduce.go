package api

import (
	"errors"
	"net/http"

	"github.com/mcrl2-go/symbolic/server/dao"
	"github.com/mcrl2-go/symbolic/server/middle"
	"github.com/mcrl2-go/symbolic/server/result"
	"github.com/mcrl2-go/symbolic/server/serr"
)

// HTTPCreateReduction returns a HandlerFunc that runs the alphabet-reduction
// driver over a stored process-specification document and caches the
// result.
func (api API) HTTPCreateReduction() http.HandlerFunc {
	return api.Endpoint(api.epCreateReduction)
}

func (api API) epCreateReduction(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	doc, err := api.Backend.GetDocument(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}
	if doc.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' reduce document %s: forbidden", user.Username, id)
	}

	outcome, err := api.Backend.Reduce(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := ReduceResponse{Report: outcome.Report, Stable: outcome.Stable, Warnings: outcome.Warnings}
	return result.Created(resp, "user '%s' reduced document '%s'", user.Username, doc.Name)
}

// HTTPGetReduction returns a HandlerFunc that returns the last reduction
// computed for a document, without recomputing it.
func (api API) HTTPGetReduction() http.HandlerFunc {
	return api.Endpoint(api.epGetReduction)
}

func (api API) epGetReduction(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	doc, err := api.Backend.GetDocument(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}
	if doc.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' get reduction %s: forbidden", user.Username, id)
	}

	outcome, err := api.Backend.CachedReduce(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound("no cached reduction for document %s", id)
		}
		return result.InternalServerError(err.Error())
	}

	resp := ReduceResponse{Report: outcome.Report, Stable: outcome.Stable, Warnings: outcome.Warnings}
	return result.OK(resp, "user '%s' fetched cached reduction for '%s'", user.Username, doc.Name)
}
