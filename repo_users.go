package authgate

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the credential store contract the gateway authenticates against.
// Implementations must be safe for concurrent readers.
type Users interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	GetOrRegister(ctx context.Context, user *User) (*User, error)

	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns a bun backed Users store.
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	user := new(User)
	err := a.db.NewSelect().
		Model(user).
		Where("usr.username = ?", username).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to select user by username")
	}
	return user, nil
}

func (a *users) GetByID(ctx context.Context, id int64) (*User, error) {
	user := new(User)
	err := a.db.NewSelect().
		Model(user).
		Where("usr.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to select user by id")
	}
	return user, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	if _, err := a.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to insert user")
	}
	return user, nil
}

// GetOrRegister is used by the seed path; it never overwrites an existing
// record for the same username.
func (a *users) GetOrRegister(ctx context.Context, user *User) (*User, error) {
	existing, err := a.GetByUsername(ctx, user.Username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrIdentityNotFound) {
		return nil, err
	}
	return a.Register(ctx, user)
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	now := time.Now()
	user.LoggedInAt = &now

	_, err := a.db.NewUpdate().
		Model(user).
		Column("loggedin_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to track login")
	}
	return nil
}
