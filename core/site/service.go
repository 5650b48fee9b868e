package site

import (
	"context"
)

// Repository reads the reference content. Each query only returns the active rows (where the table
// has an active flag) ordered by order position.
type Repository interface {
	QueryAdministrators(ctx context.Context) ([]Administrator, error)
	QueryCurriculumPrograms(ctx context.Context) ([]CurriculumProgram, error)
	QueryCurriculumActivities(ctx context.Context) ([]CurriculumActivity, error)
	QueryStudentStats(ctx context.Context) ([]StudentStat, error)
	QueryGradeLevels(ctx context.Context) ([]GradeLevel, error)
	QueryAchievements(ctx context.Context) ([]Achievement, error)
	QueryStudentActivities(ctx context.Context) ([]StudentActivity, error)
	QueryStudentCouncil(ctx context.Context) ([]StudentCouncilMember, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Administrators(ctx context.Context) ([]Administrator, error) {
	return svc.repo.QueryAdministrators(ctx)
}

func (svc *Service) CurriculumPrograms(ctx context.Context) ([]CurriculumProgram, error) {
	return svc.repo.QueryCurriculumPrograms(ctx)
}

func (svc *Service) CurriculumActivities(ctx context.Context) ([]CurriculumActivity, error) {
	return svc.repo.QueryCurriculumActivities(ctx)
}

func (svc *Service) StudentStats(ctx context.Context) ([]StudentStat, error) {
	return svc.repo.QueryStudentStats(ctx)
}

func (svc *Service) GradeLevels(ctx context.Context) ([]GradeLevel, error) {
	return svc.repo.QueryGradeLevels(ctx)
}

func (svc *Service) Achievements(ctx context.Context) ([]Achievement, error) {
	return svc.repo.QueryAchievements(ctx)
}

func (svc *Service) StudentActivities(ctx context.Context) ([]StudentActivity, error) {
	return svc.repo.QueryStudentActivities(ctx)
}

func (svc *Service) StudentCouncil(ctx context.Context) ([]StudentCouncilMember, error) {
	return svc.repo.QueryStudentCouncil(ctx)
}

// Staff returns the static staff directory.
func (svc *Service) Staff() []StaffGroup {
	return staffDirectory
}
