package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcrl2-go/symbolic/server/dao"
)

type DocumentsDB struct {
	db *sql.DB
}

func (repo *DocumentsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		source TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *DocumentsDB) Create(ctx context.Context, doc dao.Document) (dao.Document, error) {
	newID, err := uuid.NewRandom()
	if err != nil {
		return dao.Document{}, err
	}
	doc.ID = newID
	doc.Created = time.Now()
	doc.Modified = doc.Created

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO documents (id, user_id, kind, name, source, created, modified) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID.String(), doc.UserID.String(), string(doc.Kind), doc.Name, doc.Source, doc.Created.Unix(), doc.Modified.Unix(),
	)
	if err != nil {
		return dao.Document{}, wrapDBError(err)
	}
	return doc, nil
}

func scanDocument(row interface{ Scan(...interface{}) error }) (dao.Document, error) {
	var doc dao.Document
	var idStr, userIDStr, kind string
	var created, modified int64
	if err := row.Scan(&idStr, &userIDStr, &kind, &doc.Name, &doc.Source, &created, &modified); err != nil {
		return dao.Document{}, wrapDBError(err)
	}
	var err error
	doc.ID, err = uuid.Parse(idStr)
	if err != nil {
		return dao.Document{}, fmt.Errorf("stored UUID %q is invalid", idStr)
	}
	doc.UserID, err = uuid.Parse(userIDStr)
	if err != nil {
		return dao.Document{}, fmt.Errorf("stored UUID %q is invalid", userIDStr)
	}
	doc.Kind = dao.DocumentKind(kind)
	doc.Created = time.Unix(created, 0)
	doc.Modified = time.Unix(modified, 0)
	return doc, nil
}

func (repo *DocumentsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Document, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, user_id, kind, name, source, created, modified FROM documents WHERE id = ?;`, id.String())
	return scanDocument(row)
}

func (repo *DocumentsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Document, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, user_id, kind, name, source, created, modified FROM documents WHERE user_id = ? ORDER BY created;`, userID.String())
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return all, err
		}
		all = append(all, doc)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *DocumentsDB) Update(ctx context.Context, id uuid.UUID, doc dao.Document) (dao.Document, error) {
	doc.Modified = time.Now()
	res, err := repo.db.ExecContext(ctx,
		`UPDATE documents SET kind=?, name=?, source=?, modified=? WHERE id=?;`,
		string(doc.Kind), doc.Name, doc.Source, doc.Modified.Unix(), id.String(),
	)
	if err != nil {
		return dao.Document{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Document{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Document{}, dao.ErrNotFound
	}
	return repo.GetByID(ctx, id)
}

func (repo *DocumentsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Document, error) {
	existing, err := repo.GetByID(ctx, id)
	if err != nil {
		return dao.Document{}, err
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?;`, id.String()); err != nil {
		return dao.Document{}, wrapDBError(err)
	}
	return existing, nil
}

func (repo *DocumentsDB) Close() error {
	return nil
}
