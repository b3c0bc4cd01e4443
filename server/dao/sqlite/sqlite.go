// Package sqlite provides a dao.Store backed by a single SQLite database
// file, for an mcrl2server deployment that needs uploaded documents and
// cached results to survive a restart.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"modernc.org/sqlite"

	"github.com/mcrl2-go/symbolic/server/dao"
)

type store struct {
	dbFilename string
	db         *sql.DB

	users *UsersDB
	docs  *DocumentsDB
	res   *ResultsDB
}

// NewDatastore opens (creating if necessary) a SQLite database inside
// storageDir and initializes every table used by the store.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "mcrl2server.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)
	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.users = &UsersDB{db: st.db}
	if err := st.users.init(); err != nil {
		return nil, err
	}
	st.docs = &DocumentsDB{db: st.db}
	if err := st.docs.init(); err != nil {
		return nil, err
	}
	st.res = &ResultsDB{db: st.db}
	if err := st.res.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Users() dao.UserRepository         { return s.users }
func (s *store) Documents() dao.DocumentRepository { return s.docs }
func (s *store) Results() dao.ResultRepository     { return s.res }

func (s *store) Close() error {
	return s.db.Close()
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
