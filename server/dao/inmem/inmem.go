// Package inmem provides a non-persistent dao.Store suitable for local
// experimentation with mcrl2server or for tests: everything lives in
// process memory and is lost on restart.
package inmem

import (
	"fmt"

	"github.com/mcrl2-go/symbolic/server/dao"
)

type store struct {
	users *UsersRepository
	docs  *DocumentsRepository
	res   *ResultsRepository
}

func NewDatastore() dao.Store {
	return &store{
		users: NewUsersRepository(),
		docs:  NewDocumentsRepository(),
		res:   NewResultsRepository(),
	}
}

func (s *store) Users() dao.UserRepository         { return s.users }
func (s *store) Documents() dao.DocumentRepository { return s.docs }
func (s *store) Results() dao.ResultRepository     { return s.res }

func (s *store) Close() error {
	var errs []error
	if err := s.users.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.docs.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.res.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	joined := errs[0].Error()
	for _, e := range errs[1:] {
		joined = fmt.Sprintf("%s\nadditionally: %s", joined, e.Error())
	}
	return fmt.Errorf("%s", joined)
}
