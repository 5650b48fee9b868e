package gormrepos

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/trezcool/wittayakom/core/site"
)

type (
	administratorModel struct {
		ID            string
		Name          string
		Position      string
		Education     string
		Quote         string
		PhotoURL      string `gorm:"column:photo_url"`
		OrderPosition int
	}

	curriculumProgramModel struct {
		ID            string
		Title         string
		Description   string
		Icon          string
		Color         string
		Subjects      datatypes.JSON
		Careers       datatypes.JSON
		IsActive      bool
		OrderPosition int
	}

	curriculumActivityModel struct {
		ID            string
		Name          string
		Description   string
		Icon          string
		IsActive      bool
		OrderPosition int
	}

	studentStatModel struct {
		ID            string
		Label         string
		Value         string
		Icon          string
		Color         string
		IsActive      bool
		OrderPosition int
	}

	gradeLevelModel struct {
		ID            string
		Level         string
		Rooms         int
		Students      int
		Boys          int
		Girls         int
		IsActive      bool
		OrderPosition int
	}

	achievementModel struct {
		ID            string
		Title         string
		Description   string
		Year          string
		Category      string
		OrderPosition int
	}

	studentActivityModel struct {
		ID            string
		Name          string
		Members       int
		Description   string
		OrderPosition int
	}

	studentCouncilModel struct {
		ID            string
		Name          string
		Position      string
		Class         string
		Initial       string
		ImageURL      string `gorm:"column:image_url"`
		IsActive      bool
		OrderPosition int
	}
)

func (administratorModel) TableName() string      { return "administrators" }
func (curriculumProgramModel) TableName() string  { return "curriculum_programs" }
func (curriculumActivityModel) TableName() string { return "curriculum_activities" }
func (studentStatModel) TableName() string        { return "student_stats" }
func (gradeLevelModel) TableName() string         { return "grade_data" }
func (achievementModel) TableName() string        { return "student_achievements" }
func (studentActivityModel) TableName() string    { return "student_activities" }
func (studentCouncilModel) TableName() string     { return "student_council" }

type siteRepository struct {
	db *gorm.DB
}

var _ site.Repository = (*siteRepository)(nil) // interface compliance check

func NewSiteRepository(db *gorm.DB) site.Repository {
	return &siteRepository{db: db}
}

func (repo *siteRepository) ordered(ctx context.Context, activeOnly bool) *gorm.DB {
	q := repo.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	return q.Order("order_position ASC")
}

func (repo *siteRepository) QueryAdministrators(ctx context.Context) ([]site.Administrator, error) {
	var rows []administratorModel
	if err := repo.ordered(ctx, false).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying administrators")
	}
	res := make([]site.Administrator, 0, len(rows))
	for _, r := range rows {
		res = append(res, site.Administrator(r))
	}
	return res, nil
}

func (repo *siteRepository) QueryCurriculumPrograms(ctx context.Context) ([]site.CurriculumProgram, error) {
	var rows []curriculumProgramModel
	if err := repo.ordered(ctx, true).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying curriculum programs")
	}
	res := make([]site.CurriculumProgram, 0, len(rows))
	for _, r := range rows {
		res = append(res, site.CurriculumProgram{
			ID:            r.ID,
			Title:         r.Title,
			Description:   r.Description,
			Icon:          r.Icon,
			Color:         r.Color,
			Subjects:      decodeStrings(r.Subjects),
			Careers:       decodeStrings(r.Careers),
			IsActive:      r.IsActive,
			OrderPosition: r.OrderPosition,
		})
	}
	return res, nil
}

func (repo *siteRepository) QueryCurriculumActivities(ctx context.Context) ([]site.CurriculumActivity, error) {
	var rows []curriculumActivityModel
	if err := repo.ordered(ctx, true).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying curriculum activities")
	}
	res := make([]site.CurriculumActivity, 0, len(rows))
	for _, r := range rows {
		res = append(res, site.CurriculumActivity(r))
	}
	return res, nil
}

func (repo *siteRepository) QueryStudentStats(ctx context.Context) ([]site.StudentStat, error) {
	var rows []studentStatModel
	if err := repo.ordered(ctx, true).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying student stats")
	}
	res := make([]site.StudentStat, 0, len(rows))
	for _, r := range rows {
		res = append(res, site.StudentStat(r))
	}
	return res, nil
}

func (repo *siteRepository) QueryGradeLevels(ctx context.Context) ([]site.GradeLevel, error) {
	var rows []gradeLevelModel
	if err := repo.ordered(ctx, true).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying grade data")
	}
	res := make([]site.GradeLevel, 0, len(rows))
	for _, r := range rows {
		res = append(res, site.GradeLevel(r))
	}
	return res, nil
}

func (repo *siteRepository) QueryAchievements(ctx context.Context) ([]site.Achievement, error) {
	var rows []achievementModel
	if err := repo.ordered(ctx, false).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying student achievements")
	}
	res := make([]site.Achievement, 0, len(rows))
	for _, r := range rows {
		res = append(res, site.Achievement(r))
	}
	return res, nil
}

func (repo *siteRepository) QueryStudentActivities(ctx context.Context) ([]site.StudentActivity, error) {
	var rows []studentActivityModel
	if err := repo.ordered(ctx, false).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying student activities")
	}
	res := make([]site.StudentActivity, 0, len(rows))
	for _, r := range rows {
		res = append(res, site.StudentActivity(r))
	}
	return res, nil
}

func (repo *siteRepository) QueryStudentCouncil(ctx context.Context) ([]site.StudentCouncilMember, error) {
	var rows []studentCouncilModel
	if err := repo.ordered(ctx, true).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying student council")
	}
	res := make([]site.StudentCouncilMember, 0, len(rows))
	for _, r := range rows {
		res = append(res, site.StudentCouncilMember(r))
	}
	return res, nil
}

// decodeStrings reads a JSON array of strings. Anything else decodes to an empty list.
func decodeStrings(raw datatypes.JSON) []string {
	res := make([]string, 0)
	if len(raw) == 0 {
		return res
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return []string{}
	}
	return res
}
