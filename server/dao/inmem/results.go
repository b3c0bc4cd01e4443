package inmem

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mcrl2-go/symbolic/server/dao"
)

type resultKey struct {
	docID   uuid.UUID
	formula string
}

func NewResultsRepository() *ResultsRepository {
	return &ResultsRepository{res: make(map[resultKey]dao.Result)}
}

type ResultsRepository struct {
	res map[resultKey]dao.Result
}

func (r *ResultsRepository) Close() error { return nil }

func (r *ResultsRepository) Put(ctx context.Context, res dao.Result) (dao.Result, error) {
	res.Created = time.Now()
	r.res[resultKey{res.DocumentID, res.Formula}] = res
	return res, nil
}

func (r *ResultsRepository) GetByDocumentID(ctx context.Context, docID uuid.UUID, formula string) (dao.Result, error) {
	res, ok := r.res[resultKey{docID, formula}]
	if !ok {
		return dao.Result{}, dao.ErrNotFound
	}
	return res, nil
}

func (r *ResultsRepository) Delete(ctx context.Context, docID uuid.UUID, formula string) error {
	key := resultKey{docID, formula}
	if _, ok := r.res[key]; !ok {
		return dao.ErrNotFound
	}
	delete(r.res, key)
	return nil
}
