package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcrl2-go/symbolic/server/dao"
)

type ResultsDB struct {
	db *sql.DB
}

func (repo *ResultsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS results (
		document_id TEXT NOT NULL,
		formula TEXT NOT NULL,
		snapshot BLOB NOT NULL,
		stable INTEGER NOT NULL,
		created INTEGER NOT NULL,
		PRIMARY KEY (document_id, formula)
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *ResultsDB) Put(ctx context.Context, res dao.Result) (dao.Result, error) {
	res.Created = time.Now()
	stable := 0
	if res.Stable {
		stable = 1
	}
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO results (document_id, formula, snapshot, stable, created) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(document_id, formula) DO UPDATE SET snapshot=excluded.snapshot, stable=excluded.stable, created=excluded.created;`,
		res.DocumentID.String(), res.Formula, res.Snapshot, stable, res.Created.Unix(),
	)
	if err != nil {
		return dao.Result{}, wrapDBError(err)
	}
	return res, nil
}

func (repo *ResultsDB) GetByDocumentID(ctx context.Context, docID uuid.UUID, formula string) (dao.Result, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT document_id, formula, snapshot, stable, created FROM results WHERE document_id = ? AND formula = ?;`,
		docID.String(), formula)

	var res dao.Result
	var idStr string
	var stable int
	var created int64
	if err := row.Scan(&idStr, &res.Formula, &res.Snapshot, &stable, &created); err != nil {
		return dao.Result{}, wrapDBError(err)
	}
	var err error
	res.DocumentID, err = uuid.Parse(idStr)
	if err != nil {
		return dao.Result{}, fmt.Errorf("stored UUID %q is invalid", idStr)
	}
	res.Stable = stable != 0
	res.Created = time.Unix(created, 0)
	return res, nil
}

func (repo *ResultsDB) Delete(ctx context.Context, docID uuid.UUID, formula string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM results WHERE document_id = ? AND formula = ?;`, docID.String(), formula)
	if err != nil {
		return wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.ErrNotFound
	}
	return nil
}

func (repo *ResultsDB) Close() error {
	return nil
}
