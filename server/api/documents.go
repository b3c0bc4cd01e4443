package api

import (
	"errors"
	"net/http"

	"github.com/mcrl2-go/symbolic/server/dao"
	"github.com/mcrl2-go/symbolic/server/middle"
	"github.com/mcrl2-go/symbolic/server/result"
	"github.com/mcrl2-go/symbolic/server/serr"
)

func toDocumentModel(d dao.Document, includeSource bool) DocumentModel {
	m := DocumentModel{
		ID:       d.ID.String(),
		Kind:     string(d.Kind),
		Name:     d.Name,
		Created:  d.Created,
		Modified: d.Modified,
	}
	if includeSource {
		m.Source = d.Source
	}
	return m
}

// HTTPCreateDocument returns a HandlerFunc that uploads a new process
// specification or linear process document owned by the logged-in user.
func (api API) HTTPCreateDocument() http.HandlerFunc {
	return api.Endpoint(api.epCreateDocument)
}

func (api API) epCreateDocument(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var body DocumentUploadRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}

	doc, err := api.Backend.UploadDocument(req.Context(), user.ID, dao.DocumentKind(body.Kind), body.Name, body.Source)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrQuotaExceeded) {
			return result.Conflict(err.Error(), "user '%s' upload of '%s' rejected: %s", user.Username, body.Name, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(toDocumentModel(doc, false), "user '%s' uploaded document '%s'", user.Username, doc.Name)
}

// HTTPGetDocuments returns a HandlerFunc that lists every document owned by
// the logged-in user.
func (api API) HTTPGetDocuments() http.HandlerFunc {
	return api.Endpoint(api.epGetDocuments)
}

func (api API) epGetDocuments(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	docs, err := api.Backend.ListDocuments(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	models := make([]DocumentModel, len(docs))
	for i, d := range docs {
		models[i] = toDocumentModel(d, false)
	}
	return result.OK(models, "user '%s' listed documents", user.Username)
}

// HTTPGetDocument returns a HandlerFunc that fetches a single document,
// including its source text.
func (api API) HTTPGetDocument() http.HandlerFunc {
	return api.Endpoint(api.epGetDocument)
}

func (api API) epGetDocument(req *http.Request) result.Result {
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
		return result.Forbidden("user '%s' get document %s: forbidden", user.Username, id)
	}

	return result.OK(toDocumentModel(doc, true), "user '%s' fetched document '%s'", user.Username, doc.Name)
}

// HTTPDeleteDocument returns a HandlerFunc that removes a document and any
// cached results derived from it.
func (api API) HTTPDeleteDocument() http.HandlerFunc {
	return api.Endpoint(api.epDeleteDocument)
}

func (api API) epDeleteDocument(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	existing, err := api.Backend.GetDocument(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}
	if existing.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' delete document %s: forbidden", user.Username, id)
	}

	doc, err := api.Backend.DeleteDocument(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.NoContent("user '%s' deleted document '%s'", user.Username, doc.Name)
}
