package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mcrl2-go/symbolic/server/dao"
)

func NewDocumentsRepository() *DocumentsRepository {
	return &DocumentsRepository{docs: make(map[uuid.UUID]dao.Document)}
}

type DocumentsRepository struct {
	docs map[uuid.UUID]dao.Document
}

func (r *DocumentsRepository) Close() error { return nil }

func (r *DocumentsRepository) Create(ctx context.Context, doc dao.Document) (dao.Document, error) {
	newID, err := uuid.NewRandom()
	if err != nil {
		return dao.Document{}, err
	}
	doc.ID = newID
	doc.Created = time.Now()
	doc.Modified = doc.Created
	r.docs[doc.ID] = doc
	return doc, nil
}

func (r *DocumentsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return dao.Document{}, dao.ErrNotFound
	}
	return doc, nil
}

func (r *DocumentsRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Document, error) {
	var all []dao.Document
	for _, d := range r.docs {
		if d.UserID == userID {
			all = append(all, d)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Created.Before(all[j].Created) })
	return all, nil
}

func (r *DocumentsRepository) Update(ctx context.Context, id uuid.UUID, doc dao.Document) (dao.Document, error) {
	if _, ok := r.docs[id]; !ok {
		return dao.Document{}, dao.ErrNotFound
	}
	doc.ID = id
	doc.Modified = time.Now()
	r.docs[id] = doc
	return doc, nil
}

func (r *DocumentsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return dao.Document{}, dao.ErrNotFound
	}
	delete(r.docs, id)
	return doc, nil
}
