package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
)

// userRepo implements UserRepo with the ent SQL builder.
type userRepo struct {
	db      *sql.DB
	dialect string
}

var userColumns = []string{"id", "email", "password_hash", "name", "created_at"}

func (r *userRepo) Create(ctx context.Context, data UserData) (*UserRecord, error) {
	now := time.Now().UTC()
	ins := entsql.Dialect(r.dialect).
		Insert(UsersTable.Name).
		Columns("email", "password_hash", "name", "created_at").
		Values(data.Email, data.PasswordHash, data.Name, now)

	id, err := insertID(ctx, r.db, r.dialect, ins)
	if err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return nil, fmt.Errorf("create user %q: %w", data.Email, ErrDuplicate)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &UserRecord{
		ID:           id,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Name:         data.Name,
		CreatedAt:    now,
	}, nil
}

func (r *userRepo) ByEmail(ctx context.Context, email string) (*UserRecord, error) {
	sel := r.selectUsers()
	sel.Where(entsql.EQ(sel.C("email"), email))
	return r.one(ctx, sel)
}

func (r *userRepo) ByID(ctx context.Context, id int) (*UserRecord, error) {
	sel := r.selectUsers()
	sel.Where(entsql.EQ(sel.C("id"), id))
	return r.one(ctx, sel)
}

func (r *userRepo) All(ctx context.Context) ([]UserRecord, error) {
	sel := r.selectUsers()
	sel.OrderBy(entsql.Asc(sel.C("id")))

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []UserRecord
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return users, nil
}

func (r *userRepo) selectUsers() *entsql.Selector {
	b := entsql.Dialect(r.dialect)
	return b.Select(userColumns...).From(b.Table(UsersTable.Name))
}

func (r *userRepo) one(ctx context.Context, sel *entsql.Selector) (*UserRecord, error) {
	query, args := sel.Limit(1).Query()
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*UserRecord, error) {
	var u UserRecord
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// insertID executes ins and returns the generated primary key. Postgres
// needs RETURNING; SQLite reports it through LastInsertId.
func insertID(ctx context.Context, db *sql.DB, dialectName string, ins *entsql.InsertBuilder) (int, error) {
	if dialectName == dialect.Postgres {
		query, args := ins.Returning("id").Query()
		var id int
		if err := db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args := ins.Query()
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return int(id), nil
}
