/*
Mcrl2server starts the introspection server and begins listening for new
connections.

Usage:

	mcrl2server [flags]
	mcrl2server [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests and responds using a
REST protocol that lets a client upload process specifications and linear
processes, run the alphabet-reduction driver over them, and translate a
modal-mu-calculus formula into a PBES against a stored linear process. By
default it listens on localhost:8080; this can be changed with the
--listen/-l flag (or its environment-variable equivalent).

If a JWT token secret is not given, one is generated at startup. Tokens
signed with a generated secret become invalid as soon as the server shuts
down, which is fine for local experimentation but not for production use.

The flags are:

	-v, --version
		Give the current version of the server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. Defaults to the value of environment variable
		MCRL2SERVER_LISTEN_ADDRESS, and if that is not set, localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. Defaults to the
		value of environment variable MCRL2SERVER_TOKEN_SECRET. If no
		secret is specified, a random secret is generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of: inmem,
		sqlite. inmem has no further params. sqlite needs the path to the
		data directory, e.g. sqlite:path/to/db_dir. Defaults to the value
		of environment variable MCRL2SERVER_DATABASE, and if that is not
		set, an in-memory database.

	-c, --config FILE
		Load driver/translator configuration applied to every reduce/
		translate request from a TOML file. Defaults to config.Default().
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/mcrl2-go/symbolic/config"
	"github.com/mcrl2-go/symbolic/internal/version"
	"github.com/mcrl2-go/symbolic/server/dao"
	"github.com/mcrl2-go/symbolic/server/dao/inmem"
	"github.com/mcrl2-go/symbolic/server/dao/sqlite"
	"github.com/mcrl2-go/symbolic/server/serr"
	"github.com/mcrl2-go/symbolic/server/backend"
)

const (
	EnvListen = "MCRL2SERVER_LISTEN_ADDRESS"
	EnvSecret = "MCRL2SERVER_TOKEN_SECRET"
	EnvDB     = "MCRL2SERVER_DATABASE"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagConfig  = pflag.StringP("config", "c", "", "Driver/translator configuration TOML file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (mcrl2core v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if args := pflag.Args(); len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	addr, port := resolveListenAddr()
	db := resolveStore()
	defer db.Close()
	secret := resolveSecret()

	engineCfg := config.Default()
	if *flagConfig != "" {
		loaded, err := config.Load(*flagConfig)
		if err != nil {
			log.Fatalf("FATAL could not load config: %s", err.Error())
		}
		engineCfg = loaded
	}

	backend := backend.Service{DB: db, Engine: engineCfg}

	// make sure there's always someone who can log in, and that they can
	// administer other accounts' document quotas.
	_, err := backend.CreateUser(context.Background(), "admin", "password", "", dao.Admin, 0)
	if err != nil && !errors.Is(err, serr.ErrAlreadyExists) {
		log.Fatalf("FATAL could not create initial admin user: %v", err)
	}
	if !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("INFO  added initial admin user with password 'password'")
	}

	router := newRouter(backend, secret)

	listenAddr := fmt.Sprintf("%s:%d", addr, port)
	log.Printf("INFO  starting mcrl2server %s on %s...", version.ServerCurrent, listenAddr)
	if err := http.ListenAndServe(listenAddr, router); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func resolveListenAddr() (addr string, port int) {
	port = 8080
	addr = "localhost"

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		return addr, port
	}

	bindParts := strings.SplitN(listenAddr, ":", 2)
	if len(bindParts) != 2 {
		fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
		os.Exit(1)
	}
	addr = bindParts[0]
	var err error
	port, err = strconv.Atoi(bindParts[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%q is not a valid port number.\nDo -h for help.\n", bindParts[1])
		os.Exit(1)
	}
	return addr, port
}

func resolveStore() dao.Store {
	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr == "" {
		return inmem.NewDatastore()
	}

	dbParts := strings.SplitN(dbConnStr, ":", 2)
	switch strings.ToLower(dbParts[0]) {
	case "inmem":
		return inmem.NewDatastore()
	case "sqlite":
		dbPath := ""
		if len(dbParts) == 2 {
			dbPath = dbParts[1]
		}
		if err := os.MkdirAll(dbPath, 0770); err != nil {
			fmt.Fprintf(os.Stderr, "Could not build data directory: %s\n", err)
			os.Exit(1)
		}
		st, err := sqlite.NewDatastore(dbPath)
		if err != nil {
			log.Fatalf("FATAL could not open sqlite store: %s", err.Error())
		}
		return st
	default:
		fmt.Fprintf(os.Stderr, "unsupported DB engine: %q\n", dbParts[0])
		os.Exit(1)
		return nil
	}
}

func resolveSecret() []byte {
	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}
	if tokSecStr != "" {
		secret := []byte(tokSecStr)
		for len(secret) < 32 {
			secret = append(secret, secret...)
		}
		if len(secret) > 64 {
			secret = secret[:64]
		}
		return secret
	}

	secret := make([]byte, 64)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("FATAL could not generate token secret: %s", err.Error())
	}
	log.Printf("WARN  using generated token secret; all tokens issued will become invalid at shutdown")
	return secret
}

var unauthDelay = 1 * time.Second
