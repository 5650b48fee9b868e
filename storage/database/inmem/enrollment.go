package inmemdb

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/enrollment"
)

var applicationOrdering = []core.DBOrdering{{Field: "created_at", Ascending: false}}

type applicationRepository struct {
	db *DB
}

var _ enrollment.Repository = (*applicationRepository)(nil)

func NewApplicationRepository(db *DB) enrollment.Repository {
	return &applicationRepository{db: db}
}

// query returns the applications matching keep, newest first. Caller must hold the lock.
func (repo *applicationRepository) query(keep func(enrollment.Application) bool) []enrollment.Application {
	apps := make([]enrollment.Application, 0, len(repo.db.application.table))
	for _, app := range repo.db.application.table {
		if keep(*app) {
			apps = append(apps, *app)
		}
	}
	sortBy(
		len(apps),
		applicationOrdering,
		func(i int, _ string) interface{} { return apps[i].CreatedAt },
		func(i int) time.Time { return apps[i].CreatedAt },
		func(i int) string { return apps[i].ID },
		func(i, j int) { apps[i], apps[j] = apps[j], apps[i] },
	)
	return apps
}

func (repo *applicationRepository) CreateApplication(_ context.Context, app enrollment.Application) (enrollment.Application, error) {
	if repo.db.FailWith != nil {
		return enrollment.Application{}, repo.db.FailWith
	}
	tbl := repo.db.application
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	app.ID = uuid.NewString()
	tbl.table[app.ID] = &app
	return app, nil
}

func (repo *applicationRepository) GetApplication(_ context.Context, id string) (enrollment.Application, error) {
	if repo.db.FailWith != nil {
		return enrollment.Application{}, repo.db.FailWith
	}
	tbl := repo.db.application
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	if app, ok := tbl.table[id]; ok {
		return *app, nil
	}
	return enrollment.Application{}, enrollment.ErrNotFound
}

func (repo *applicationRepository) first(keep func(enrollment.Application) bool) (enrollment.Application, error) {
	if repo.db.FailWith != nil {
		return enrollment.Application{}, repo.db.FailWith
	}
	repo.db.application.mutex.RLock()
	defer repo.db.application.mutex.RUnlock()

	if apps := repo.query(keep); len(apps) > 0 {
		return apps[0], nil
	}
	return enrollment.Application{}, enrollment.ErrNotFound
}

func (repo *applicationRepository) FindApplicationByName(_ context.Context, name string) (enrollment.Application, error) {
	return repo.first(func(app enrollment.Application) bool {
		return core.ContainsFold(app.StudentName, name)
	})
}

func (repo *applicationRepository) FindApplicationByIDFragment(_ context.Context, frag string) (enrollment.Application, error) {
	frag = strings.ToLower(frag)
	return repo.first(func(app enrollment.Application) bool {
		return strings.Contains(strings.ToLower(app.ID), frag)
	})
}

func (repo *applicationRepository) QueryApplications(_ context.Context, filter *enrollment.QueryFilter) ([]enrollment.Application, error) {
	if repo.db.FailWith != nil {
		return nil, repo.db.FailWith
	}
	repo.db.application.mutex.RLock()
	defer repo.db.application.mutex.RUnlock()

	return repo.query(func(app enrollment.Application) bool {
		return filter == nil || filter.Matches(app)
	}), nil
}
