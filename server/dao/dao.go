// Package dao provides data access objects for use in the introspection
// server: accounts that may authenticate, the documents they upload (process
// specifications and linear processes, stored as the raw TOML text the
// specio package parses), and the cached result of the last time a document
// was run through the driver or translator.
package dao

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// DefaultMaxDocuments is the document-upload quota given to a Normal user
// when none is set explicitly. Admin accounts are never subject to a quota.
const DefaultMaxDocuments = 50

// Store holds all the repositories.
type Store interface {
	Users() UserRepository
	Documents() DocumentRepository
	Results() ResultRepository
	Close() error
}

type Role int

const (
	Normal Role = iota
	Admin
)

func (r Role) String() string {
	switch r {
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Normal, fmt.Errorf("must be one of 'normal' or 'admin'")
	}
}

// User is an account permitted to authenticate against the introspection
// API and own documents.
type User struct {
	ID       uuid.UUID     // PK, NOT NULL
	Username string        // UNIQUE, NOT NULL
	Password string        // bcrypt hash, base64-encoded, NOT NULL
	Email    *mail.Address // nil if not provided
	Role     Role          // NOT NULL

	// MaxDocuments is how many Documents this user may have stored at once.
	// Zero means DefaultMaxDocuments applies; Admin accounts are exempt
	// regardless of the value stored here.
	MaxDocuments int

	Created        time.Time // NOT NULL
	Modified       time.Time
	LastLoginTime  time.Time
	LastLogoutTime time.Time // NOT NULL DEFAULT NOW()
}

// EffectiveMaxDocuments returns the document quota that actually applies to
// u: unlimited (0, meaning "no cap checked") for Admin, u.MaxDocuments if
// set, else DefaultMaxDocuments.
func (u User) EffectiveMaxDocuments() int {
	if u.Role == Admin {
		return 0
	}
	if u.MaxDocuments > 0 {
		return u.MaxDocuments
	}
	return DefaultMaxDocuments
}

type UserRepository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

// DocumentKind distinguishes the two document shapes specio understands.
type DocumentKind string

const (
	KindProcessSpec DocumentKind = "spec"
	KindLinearProc  DocumentKind = "lps"
)

// Document is a TOML source file (either a process specification or a
// linear process, per Kind) uploaded by a user. It is stored verbatim and
// re-parsed by specio on demand; the DAO layer never needs to know the
// shape of what is inside.
type Document struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Kind     DocumentKind
	Name     string
	Source   string
	Created  time.Time
	Modified time.Time
}

type DocumentRepository interface {
	Create(ctx context.Context, doc Document) (Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (Document, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Document, error)
	Update(ctx context.Context, id uuid.UUID, doc Document) (Document, error)
	Delete(ctx context.Context, id uuid.UUID) (Document, error)
	Close() error
}

// Result caches the outcome of the last time a process-spec Document was
// run through the driver, or a linear-process Document was run through the
// translator against some formula. Snapshot is an opaque blob as far as the
// DAO layer is concerned: a translate Result holds the bytes produced by
// serialize.EncodeSnapshot, while a reduce-only Result (Formula == "") holds
// a plain UTF-8 text report.
type Result struct {
	DocumentID uuid.UUID
	Formula    string // empty for a reduce-only result
	Snapshot   []byte
	Stable     bool
	Created    time.Time
}

type ResultRepository interface {
	Put(ctx context.Context, res Result) (Result, error)
	GetByDocumentID(ctx context.Context, docID uuid.UUID, formula string) (Result, error)
	Delete(ctx context.Context, docID uuid.UUID, formula string) error
	Close() error
}
