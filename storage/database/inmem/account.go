package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/wittayakom/core/account"
)

type accountRepository struct {
	db *DB
}

var _ account.Repository = (*accountRepository)(nil)

func NewAccountRepository(db *DB) account.Repository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) CheckUniqueness(_ context.Context, username, email string, excludedIDs ...string) error {
	if repo.db.FailWith != nil {
		return repo.db.FailWith
	}
	tbl := repo.db.account
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	excluded := make(map[string]bool, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = true
	}
	for _, acc := range tbl.table {
		if excluded[acc.ID] {
			continue
		}
		if username != "" && acc.Username == username {
			return account.ErrUsernameExists
		}
		if email != "" && acc.Email == email {
			return account.ErrEmailExists
		}
	}
	return nil
}

func (repo *accountRepository) CreateAccount(_ context.Context, acc account.Account) (account.Account, error) {
	if repo.db.FailWith != nil {
		return account.Account{}, repo.db.FailWith
	}
	tbl := repo.db.account
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	acc.ID = uuid.NewString()
	tbl.table[acc.ID] = &acc
	return acc, nil
}

func (repo *accountRepository) GetAccount(_ context.Context, filter account.GetFilter) (account.Account, error) {
	if repo.db.FailWith != nil {
		return account.Account{}, repo.db.FailWith
	}
	tbl := repo.db.account
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	if filter.ID != "" {
		if acc, ok := tbl.table[filter.ID]; ok {
			return *acc, nil
		}
		return account.Account{}, account.ErrNotFound
	}
	if filter.UsernameOrEmail != "" {
		for _, acc := range tbl.table {
			if acc.Username == filter.UsernameOrEmail || acc.Email == filter.UsernameOrEmail {
				return *acc, nil
			}
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) UpdateAccount(_ context.Context, acc account.Account) (account.Account, error) {
	if repo.db.FailWith != nil {
		return account.Account{}, repo.db.FailWith
	}
	tbl := repo.db.account
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if _, ok := tbl.table[acc.ID]; !ok {
		return account.Account{}, account.ErrNotFound
	}
	tbl.table[acc.ID] = &acc
	return acc, nil
}
