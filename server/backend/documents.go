package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mcrl2-go/symbolic/server/dao"
	"github.com/mcrl2-go/symbolic/server/serr"
	"github.com/mcrl2-go/symbolic/specio"
)

// UploadDocument validates source against the shape implied by kind and
// stores it under owner's account, after checking owner's document quota
// (dao.User.EffectiveMaxDocuments; Admin accounts are exempt). Validation
// parses the document over a throwaway arena purely to surface syntax errors
// early; the stored copy is re-parsed fresh on every reduce/translate call.
func (svc Service) UploadDocument(ctx context.Context, owner uuid.UUID, kind dao.DocumentKind, name, source string) (dao.Document, error) {
	ownerUser, err := svc.DB.Users().GetByID(ctx, owner)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Document{}, serr.New("owner does not exist", serr.ErrBadArgument)
		}
		return dao.Document{}, serr.WrapDB("could not look up document owner", err)
	}
	if quota := ownerUser.EffectiveMaxDocuments(); quota > 0 {
		existing, err := svc.DB.Documents().GetAllByUser(ctx, owner)
		if err != nil {
			return dao.Document{}, serr.WrapDB("could not count existing documents", err)
		}
		if len(existing) >= quota {
			return dao.Document{}, serr.New(fmt.Sprintf("user '%s' has reached their document quota of %d", ownerUser.Username, quota), serr.ErrQuotaExceeded)
		}
	}

	b := newBuilder()
	switch kind {
	case dao.KindProcessSpec:
		_, err = specio.ParseProcessSpec(b, []byte(source))
	case dao.KindLinearProc:
		_, err = specio.ParseLinearProcess(b, []byte(source))
	default:
		return dao.Document{}, serr.New("kind must be 'spec' or 'lps'", serr.ErrBadArgument)
	}
	if err != nil {
		return dao.Document{}, serr.New(err.Error(), serr.ErrBadArgument)
	}

	doc, err := svc.DB.Documents().Create(ctx, dao.Document{
		UserID: owner,
		Kind:   kind,
		Name:   name,
		Source: source,
	})
	if err != nil {
		return dao.Document{}, serr.WrapDB("could not store document", err)
	}
	return doc, nil
}

// GetDocument fetches a document, checking that it belongs to owner unless
// owner is the admin performing the lookup.
func (svc Service) GetDocument(ctx context.Context, id uuid.UUID) (dao.Document, error) {
	doc, err := svc.DB.Documents().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Document{}, serr.ErrNotFound
		}
		return dao.Document{}, serr.WrapDB("could not retrieve document", err)
	}
	return doc, nil
}

// ListDocuments returns every document owned by owner.
func (svc Service) ListDocuments(ctx context.Context, owner uuid.UUID) ([]dao.Document, error) {
	docs, err := svc.DB.Documents().GetAllByUser(ctx, owner)
	if err != nil {
		return nil, serr.WrapDB("could not list documents", err)
	}
	return docs, nil
}

// DeleteDocument removes a document and any cached results derived from it.
func (svc Service) DeleteDocument(ctx context.Context, id uuid.UUID) (dao.Document, error) {
	doc, err := svc.DB.Documents().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Document{}, serr.ErrNotFound
		}
		return dao.Document{}, serr.WrapDB("could not delete document", err)
	}
	svc.DB.Results().Delete(ctx, id, "")
	return doc, nil
}
