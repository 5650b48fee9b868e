// Package inmemdb provides repositories backed by process memory, used by the tests and by the `memory` storage engine.
package inmemdb

import (
	"sort"
	"sync"
	"time"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/account"
	"github.com/trezcool/wittayakom/core/enrollment"
	"github.com/trezcool/wittayakom/core/news"
	"github.com/trezcool/wittayakom/core/settings"
	"github.com/trezcool/wittayakom/core/site"
)

type (
	accountTable struct {
		mutex sync.RWMutex
		table map[string]*account.Account
	}

	newsTable struct {
		mutex      sync.RWMutex
		table      map[string]*news.Article
		categories []string
	}

	applicationTable struct {
		mutex sync.RWMutex
		table map[string]*enrollment.Application
	}

	settingsTable struct {
		mutex sync.RWMutex
		table map[string]settings.Record
	}

	siteTables struct {
		mutex                sync.RWMutex
		administrators       []site.Administrator
		curriculumPrograms   []site.CurriculumProgram
		curriculumActivities []site.CurriculumActivity
		studentStats         []site.StudentStat
		gradeLevels          []site.GradeLevel
		achievements         []site.Achievement
		studentActivities    []site.StudentActivity
		studentCouncil       []site.StudentCouncilMember
	}

	DB struct {
		account     *accountTable
		news        *newsTable
		application *applicationTable
		settings    *settingsTable
		site        *siteTables

		// FailWith makes every repository call return the error, when set.
		FailWith error
	}
)

func NewDB() *DB {
	return &DB{
		account:     &accountTable{table: make(map[string]*account.Account)},
		news:        &newsTable{table: make(map[string]*news.Article)},
		application: &applicationTable{table: make(map[string]*enrollment.Application)},
		settings:    &settingsTable{table: make(map[string]settings.Record)},
		site:        &siteTables{},
	}
}

// sortBy sorts items by the given orderings, breaking ties by newest first then by id.
func sortBy(n int, ordering []core.DBOrdering, field func(i int, name string) interface{}, createdAt func(i int) time.Time, id func(i int) string, swap func(i, j int)) {
	sort.Sort(&sorter{n: n, ordering: ordering, field: field, createdAt: createdAt, id: id, swap: swap})
}

type sorter struct {
	n         int
	ordering  []core.DBOrdering
	field     func(i int, name string) interface{}
	createdAt func(i int) time.Time
	id        func(i int) string
	swap      func(i, j int)
}

func (s *sorter) Len() int      { return s.n }
func (s *sorter) Swap(i, j int) { s.swap(i, j) }

func (s *sorter) Less(i, j int) bool {
	for _, ord := range s.ordering {
		c := compare(s.field(i, ord.Field), s.field(j, ord.Field))
		if c == 0 {
			continue
		}
		if ord.Ascending {
			return c < 0
		}
		return c > 0
	}
	if ci, cj := s.createdAt(i), s.createdAt(j); !ci.Equal(cj) {
		return ci.After(cj)
	}
	return s.id(i) < s.id(j)
}

func compare(a, b interface{}) int {
	switch av := a.(type) {
	case int:
		bv := b.(int)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case time.Time:
		bv := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
	case *time.Time:
		bv := b.(*time.Time)
		switch {
		case av == nil && bv == nil:
			return 0
		case av == nil:
			return -1
		case bv == nil:
			return 1
		}
		return compare(*av, *bv)
	}
	return 0
}
