// Package backend implements the introspection server's backend logic,
// decoupled from the HTTP layer that exposes it: account management plus
// the alphabet-reduction and translation operations run against uploaded
// documents.
package backend

import (
	"github.com/mcrl2-go/symbolic/config"
	"github.com/mcrl2-go/symbolic/server/dao"
)

// Service is a service for interacting with and modifying the introspection
// server's backend. It performs the actions requested and makes calls to
// server persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO
// store to DB before attempting to use it.
type Service struct {
	// DB is the persistence store of the service.
	DB dao.Store

	// Engine is the driver/translator configuration applied to every
	// reduce/translate request. A per-request override could be added to
	// the request body later; for now a single server-wide configuration
	// is enough to exercise the engine end to end.
	Engine config.Config
}
