package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/wittayakom/core/site"
)

type siteRepository struct {
	db *DB
}

var _ site.Repository = (*siteRepository)(nil)

func NewSiteRepository(db *DB) site.Repository {
	return &siteRepository{db: db}
}

// SiteContent seeds the site tables. Nil slices leave the matching table untouched.
type SiteContent struct {
	Administrators       []site.Administrator
	CurriculumPrograms   []site.CurriculumProgram
	CurriculumActivities []site.CurriculumActivity
	StudentStats         []site.StudentStat
	GradeLevels          []site.GradeLevel
	Achievements         []site.Achievement
	StudentActivities    []site.StudentActivity
	StudentCouncil       []site.StudentCouncilMember
}

func (db *DB) SeedSite(c SiteContent) {
	db.site.mutex.Lock()
	defer db.site.mutex.Unlock()
	if c.Administrators != nil {
		db.site.administrators = c.Administrators
	}
	if c.CurriculumPrograms != nil {
		db.site.curriculumPrograms = c.CurriculumPrograms
	}
	if c.CurriculumActivities != nil {
		db.site.curriculumActivities = c.CurriculumActivities
	}
	if c.StudentStats != nil {
		db.site.studentStats = c.StudentStats
	}
	if c.GradeLevels != nil {
		db.site.gradeLevels = c.GradeLevels
	}
	if c.Achievements != nil {
		db.site.achievements = c.Achievements
	}
	if c.StudentActivities != nil {
		db.site.studentActivities = c.StudentActivities
	}
	if c.StudentCouncil != nil {
		db.site.studentCouncil = c.StudentCouncil
	}
}

func (repo *siteRepository) QueryAdministrators(_ context.Context) ([]site.Administrator, error) {
	if repo.db.FailWith != nil {
		return nil, repo.db.FailWith
	}
	repo.db.site.mutex.RLock()
	defer repo.db.site.mutex.RUnlock()

	res := append([]site.Administrator(nil), repo.db.site.administrators...)
	sort.SliceStable(res, func(i, j int) bool { return res[i].OrderPosition < res[j].OrderPosition })
	return res, nil
}

func (repo *siteRepository) QueryCurriculumPrograms(_ context.Context) ([]site.CurriculumProgram, error) {
	if repo.db.FailWith != nil {
		return nil, repo.db.FailWith
	}
	repo.db.site.mutex.RLock()
	defer repo.db.site.mutex.RUnlock()

	res := make([]site.CurriculumProgram, 0, len(repo.db.site.curriculumPrograms))
	for _, p := range repo.db.site.curriculumPrograms {
		if p.IsActive {
			res = append(res, p)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].OrderPosition < res[j].OrderPosition })
	return res, nil
}

func (repo *siteRepository) QueryCurriculumActivities(_ context.Context) ([]site.CurriculumActivity, error) {
	if repo.db.FailWith != nil {
		return nil, repo.db.FailWith
	}
	repo.db.site.mutex.RLock()
	defer repo.db.site.mutex.RUnlock()

	res := make([]site.CurriculumActivity, 0, len(repo.db.site.curriculumActivities))
	for _, a := range repo.db.site.curriculumActivities {
		if a.IsActive {
			res = append(res, a)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].OrderPosition < res[j].OrderPosition })
	return res, nil
}

func (repo *siteRepository) QueryStudentStats(_ context.Context) ([]site.StudentStat, error) {
	if repo.db.FailWith != nil {
		return nil, repo.db.FailWith
	}
	repo.db.site.mutex.RLock()
	defer repo.db.site.mutex.RUnlock()

	res := make([]site.StudentStat, 0, len(repo.db.site.studentStats))
	for _, s := range repo.db.site.studentStats {
		if s.IsActive {
			res = append(res, s)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].OrderPosition < res[j].OrderPosition })
	return res, nil
}

func (repo *siteRepository) QueryGradeLevels(_ context.Context) ([]site.GradeLevel, error) {
	if repo.db.FailWith != nil {
		return nil, repo.db.FailWith
	}
	repo.db.site.mutex.RLock()
	defer repo.db.site.mutex.RUnlock()

	res := make([]site.GradeLevel, 0, len(repo.db.site.gradeLevels))
	for _, g := range repo.db.site.gradeLevels {
		if g.IsActive {
			res = append(res, g)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].OrderPosition < res[j].OrderPosition })
	return res, nil
}

func (repo *siteRepository) QueryAchievements(_ context.Context) ([]site.Achievement, error) {
	if repo.db.FailWith != nil {
		return nil, repo.db.FailWith
	}
	repo.db.site.mutex.RLock()
	defer repo.db.site.mutex.RUnlock()

	res := append([]site.Achievement(nil), repo.db.site.achievements...)
	sort.SliceStable(res, func(i, j int) bool { return res[i].OrderPosition < res[j].OrderPosition })
	return res, nil
}

func (repo *siteRepository) QueryStudentActivities(_ context.Context) ([]site.StudentActivity, error) {
	if repo.db.FailWith != nil {
		return nil, repo.db.FailWith
	}
	repo.db.site.mutex.RLock()
	defer repo.db.site.mutex.RUnlock()

	res := append([]site.StudentActivity(nil), repo.db.site.studentActivities...)
	sort.SliceStable(res, func(i, j int) bool { return res[i].OrderPosition < res[j].OrderPosition })
	return res, nil
}

func (repo *siteRepository) QueryStudentCouncil(_ context.Context) ([]site.StudentCouncilMember, error) {
	if repo.db.FailWith != nil {
		return nil, repo.db.FailWith
	}
	repo.db.site.mutex.RLock()
	defer repo.db.site.mutex.RUnlock()

	res := make([]site.StudentCouncilMember, 0, len(repo.db.site.studentCouncil))
	for _, m := range repo.db.site.studentCouncil {
		if m.IsActive {
			res = append(res, m)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].OrderPosition < res[j].OrderPosition })
	return res, nil
}
