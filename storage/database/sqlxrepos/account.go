package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wittayakom/core/account"
)

const accountColumns = "id, name, username, email, is_active, password_hash, created_at, updated_at, last_login"

type accountRow struct {
	ID           string      `db:"id"`
	Name         string      `db:"name"`
	Username     null.String `db:"username"`
	Email        null.String `db:"email"`
	IsActive     bool        `db:"is_active"`
	PasswordHash []byte      `db:"password_hash"`
	CreatedAt    null.Time   `db:"created_at"`
	UpdatedAt    null.Time   `db:"updated_at"`
	LastLogin    null.Time   `db:"last_login"`
}

type accountRepository struct {
	db *sqlx.DB
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *sqlx.DB) account.Repository {
	return &accountRepository{db: db}
}

func (repo accountRepository) toRow(acc account.Account) accountRow {
	return accountRow{
		ID:           acc.ID,
		Name:         acc.Name,
		Username:     null.NewString(acc.Username, acc.Username != ""),
		Email:        null.NewString(acc.Email, acc.Email != ""),
		IsActive:     acc.IsActive,
		PasswordHash: acc.PasswordHash,
		CreatedAt:    null.NewTime(acc.CreatedAt.UTC(), !acc.CreatedAt.IsZero()),
		UpdatedAt:    null.NewTime(acc.UpdatedAt.UTC(), !acc.UpdatedAt.IsZero()),
		LastLogin:    null.NewTime(acc.LastLogin.UTC(), !acc.LastLogin.IsZero()),
	}
}

func (repo accountRepository) fromRow(r accountRow) account.Account {
	return account.Account{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username.String,
		Email:        r.Email.String,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
		LastLogin:    r.LastLogin.Time,
	}
}

func (repo accountRepository) CheckUniqueness(ctx context.Context, username, email string, excludedIDs ...string) error {
	if excludedIDs == nil {
		excludedIDs = []string{}
	}
	var taken []accountRow
	q := `SELECT ` + accountColumns + ` FROM account
		WHERE ((username <> '' AND username = $1) OR (email <> '' AND email = $2)) AND NOT (id::text = ANY($3))`
	if err := sqlx.SelectContext(ctx, repo.db, &taken, q, username, email, pq.Array(excludedIDs)); err != nil {
		return errors.Wrap(err, "checking account uniqueness")
	}
	for _, r := range taken {
		if username != "" && r.Username.String == username {
			return account.ErrUsernameExists
		}
	}
	if len(taken) > 0 {
		return account.ErrEmailExists
	}
	return nil
}

func (repo accountRepository) CreateAccount(ctx context.Context, acc account.Account) (account.Account, error) {
	acc.ID = uuid.NewString()
	q := `INSERT INTO account (` + accountColumns + `)
		VALUES (:id, :name, :username, :email, :is_active, :password_hash, :created_at, :updated_at, :last_login)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, repo.toRow(acc)); err != nil {
		return account.Account{}, errors.Wrap(err, "inserting account")
	}
	return acc, nil
}

func (repo accountRepository) GetAccount(ctx context.Context, filter account.GetFilter) (account.Account, error) {
	var (
		r   accountRow
		err error
	)
	switch {
	case filter.ID != "":
		if _, err = uuid.Parse(filter.ID); err != nil {
			return account.Account{}, account.ErrNotFound
		}
		err = sqlx.GetContext(ctx, repo.db, &r, "SELECT "+accountColumns+" FROM account WHERE id = $1", filter.ID)
	case filter.UsernameOrEmail != "":
		err = sqlx.GetContext(ctx, repo.db, &r,
			"SELECT "+accountColumns+" FROM account WHERE username = $1 OR email = $1 LIMIT 1", filter.UsernameOrEmail)
	default:
		return account.Account{}, account.ErrNotFound
	}
	if err != nil {
		return account.Account{}, trapNoRowsErr(err, account.ErrNotFound, "finding account")
	}
	return repo.fromRow(r), nil
}

func (repo accountRepository) UpdateAccount(ctx context.Context, acc account.Account) (account.Account, error) {
	q := `UPDATE account SET name = :name, username = :username, email = :email, is_active = :is_active,
			password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, repo.toRow(acc))
	if err != nil {
		return account.Account{}, errors.Wrap(err, "updating account")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return account.Account{}, account.ErrNotFound
	}
	return acc, nil
}
