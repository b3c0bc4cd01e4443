package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/mcrl2-go/symbolic/server/dao"
)

type UsersDB struct {
	db *sql.DB
}

func (repo *UsersDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		max_documents INTEGER NOT NULL DEFAULT 0,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		last_login_time INTEGER NOT NULL,
		last_logout_time INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *UsersDB) Create(ctx context.Context, user dao.User) (dao.User, error) {
	newID, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}
	user.ID = newID
	user.Created = time.Now()
	user.Modified = user.Created
	user.LastLogoutTime = time.Now()

	emailStr := ""
	if user.Email != nil {
		emailStr = user.Email.Address
	}
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password, email, role, max_documents, created, modified, last_login_time, last_logout_time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID.String(), user.Username, user.Password, emailStr, user.Role.String(), user.MaxDocuments,
		user.Created.Unix(), user.Modified.Unix(), user.LastLoginTime.Unix(), user.LastLogoutTime.Unix(),
	)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	return user, nil
}

func (repo *UsersDB) scanUser(row *sql.Row, user *dao.User, idStr *string) error {
	var role, emailStr string
	var created, modified, lastLogin, lastLogout int64
	if err := row.Scan(idStr, &user.Username, &user.Password, &emailStr, &role, &user.MaxDocuments, &created, &modified, &lastLogin, &lastLogout); err != nil {
		return wrapDBError(err)
	}
	id, err := uuid.Parse(*idStr)
	if err != nil {
		return fmt.Errorf("stored UUID %q is invalid", *idStr)
	}
	user.ID = id
	if emailStr != "" {
		addr, err := mail.ParseAddress(emailStr)
		if err != nil {
			return fmt.Errorf("stored email %q is invalid: %w", emailStr, err)
		}
		user.Email = addr
	}
	user.Role, err = dao.ParseRole(role)
	if err != nil {
		return fmt.Errorf("stored role %q is invalid: %w", role, err)
	}
	user.Created = time.Unix(created, 0)
	user.Modified = time.Unix(modified, 0)
	user.LastLoginTime = time.Unix(lastLogin, 0)
	user.LastLogoutTime = time.Unix(lastLogout, 0)
	return nil
}

func (repo *UsersDB) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, username, password, email, role, max_documents, created, modified, last_login_time, last_logout_time FROM users WHERE id = ?;`, id.String())
	var user dao.User
	var idStr string
	if err := repo.scanUser(row, &user, &idStr); err != nil {
		return dao.User{}, err
	}
	return user, nil
}

func (repo *UsersDB) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, username, password, email, role, max_documents, created, modified, last_login_time, last_logout_time FROM users WHERE username = ?;`, username)
	var user dao.User
	var idStr string
	if err := repo.scanUser(row, &user, &idStr); err != nil {
		return dao.User{}, err
	}
	return user, nil
}

func (repo *UsersDB) GetAll(ctx context.Context) ([]dao.User, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, username, password, email, role, max_documents, created, modified, last_login_time, last_logout_time FROM users ORDER BY username;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.User
	for rows.Next() {
		var user dao.User
		var idStr, role, emailStr string
		var created, modified, lastLogin, lastLogout int64
		if err := rows.Scan(&idStr, &user.Username, &user.Password, &emailStr, &role, &user.MaxDocuments, &created, &modified, &lastLogin, &lastLogout); err != nil {
			return nil, wrapDBError(err)
		}
		user.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("stored UUID %q is invalid", idStr)
		}
		if emailStr != "" {
			addr, err := mail.ParseAddress(emailStr)
			if err != nil {
				return nil, fmt.Errorf("stored email %q is invalid: %w", emailStr, err)
			}
			user.Email = addr
		}
		user.Role, err = dao.ParseRole(role)
		if err != nil {
			return nil, fmt.Errorf("stored role %q is invalid: %w", role, err)
		}
		user.Created = time.Unix(created, 0)
		user.Modified = time.Unix(modified, 0)
		user.LastLoginTime = time.Unix(lastLogin, 0)
		user.LastLogoutTime = time.Unix(lastLogout, 0)
		all = append(all, user)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *UsersDB) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	emailStr := ""
	if user.Email != nil {
		emailStr = user.Email.Address
	}
	user.Modified = time.Now()
	res, err := repo.db.ExecContext(ctx,
		`UPDATE users SET username=?, password=?, email=?, role=?, max_documents=?, modified=?, last_login_time=?, last_logout_time=? WHERE id=?;`,
		user.Username, user.Password, emailStr, user.Role.String(), user.MaxDocuments, user.Modified.Unix(), user.LastLoginTime.Unix(), user.LastLogoutTime.Unix(), id.String(),
	)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.User{}, dao.ErrNotFound
	}
	return repo.GetByID(ctx, id)
}

func (repo *UsersDB) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	existing, err := repo.GetByID(ctx, id)
	if err != nil {
		return dao.User{}, err
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?;`, id.String())
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.User{}, dao.ErrNotFound
	}
	return existing, nil
}

func (repo *UsersDB) Close() error {
	return nil
}
