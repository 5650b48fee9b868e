package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/wittayakom/core/settings"
)

type settingsRepository struct {
	db *DB
}

var _ settings.Repository = (*settingsRepository)(nil)

func NewSettingsRepository(db *DB) settings.Repository {
	return &settingsRepository{db: db}
}

func (repo *settingsRepository) QueryAll(_ context.Context) ([]settings.Record, error) {
	if repo.db.FailWith != nil {
		return nil, repo.db.FailWith
	}
	tbl := repo.db.settings
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	records := make([]settings.Record, 0, len(tbl.table))
	for _, r := range tbl.table {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })
	return records, nil
}

func (repo *settingsRepository) Upsert(_ context.Context, records ...settings.Record) error {
	if repo.db.FailWith != nil {
		return repo.db.FailWith
	}
	tbl := repo.db.settings
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	for _, r := range records {
		tbl.table[r.Key] = r
	}
	return nil
}
