package gormrepos_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/settings"
	"github.com/trezcool/wittayakom/core/site"
	"github.com/trezcool/wittayakom/storage/database"
	"github.com/trezcool/wittayakom/storage/database/gormrepos"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := database.OpenGorm(db, core.NewTestConfig())
	require.NoError(t, err)
	return gdb, mock
}

func TestSettingsRepository_QueryAll(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := gormrepos.NewSettingsRepository(gdb)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"key", "value", "description", "created_at", "updated_at"}).
		AddRow(settings.KeyAcademicYear, "2568", "", now, now).
		AddRow(settings.KeySchoolName, "โรงเรียนวิทยาคม", "ชื่อโรงเรียน", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "school_settings" ORDER BY key`)).WillReturnRows(rows)

	recs, err := repo.QueryAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []settings.Record{
		{Key: settings.KeyAcademicYear, Value: "2568"},
		{Key: settings.KeySchoolName, Value: "โรงเรียนวิทยาคม"},
	}, recs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepository_Upsert(t *testing.T) {
	insertQ := regexp.QuoteMeta(`INSERT INTO "school_settings"`) + ".*" +
		regexp.QuoteMeta(`ON CONFLICT ("key") DO UPDATE SET "value"="excluded"."value","updated_at"="excluded"."updated_at"`)
	ctx := context.Background()

	t.Run("inserts or overwrites every record at once", func(t *testing.T) {
		gdb, mock := newMockGorm(t)
		repo := gormrepos.NewSettingsRepository(gdb)

		mock.ExpectExec(insertQ).
			WithArgs(
				settings.KeySchoolName, "โรงเรียนวิทยาคม", "", sqlmock.AnyArg(), sqlmock.AnyArg(),
				settings.KeyAcademicYear, "2569", "", sqlmock.AnyArg(), sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.Upsert(ctx,
			settings.Record{Key: settings.KeySchoolName, Value: "โรงเรียนวิทยาคม"},
			settings.Record{Key: settings.KeyAcademicYear, Value: "2569"},
		)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to save", func(t *testing.T) {
		gdb, mock := newMockGorm(t)
		repo := gormrepos.NewSettingsRepository(gdb)

		require.NoError(t, repo.Upsert(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		gdb, mock := newMockGorm(t)
		repo := gormrepos.NewSettingsRepository(gdb)
		boom := errors.New("permission denied for table school_settings")

		mock.ExpectExec(insertQ).WillReturnError(boom)

		err := repo.Upsert(ctx, settings.Record{Key: settings.KeySchoolName, Value: "X"})
		require.Error(t, err)
		assert.Equal(t, boom, errors.Cause(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSiteRepository_QueryCurriculumPrograms(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := gormrepos.NewSiteRepository(gdb)

	cols := []string{"id", "title", "description", "icon", "color", "subjects", "careers", "is_active", "order_position"}
	rows := sqlmock.NewRows(cols).
		AddRow("p1", "วิทย์-คณิต", "เน้นวิทยาศาสตร์", "flask", "blue", []byte(`["ฟิสิกส์","เคมี"]`), []byte(`["แพทย์"]`), true, 1).
		AddRow("p2", "ศิลป์-ภาษา", "", "book", "pink", []byte(`[]`), []byte(`not json`), true, 2)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "curriculum_programs" WHERE is_active = $1 ORDER BY order_position ASC`)).
		WithArgs(true).
		WillReturnRows(rows)

	progs, err := repo.QueryCurriculumPrograms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []site.CurriculumProgram{
		{
			ID: "p1", Title: "วิทย์-คณิต", Description: "เน้นวิทยาศาสตร์", Icon: "flask", Color: "blue",
			Subjects: []string{"ฟิสิกส์", "เคมี"}, Careers: []string{"แพทย์"}, IsActive: true, OrderPosition: 1,
		},
		{
			ID: "p2", Title: "ศิลป์-ภาษา", Icon: "book", Color: "pink",
			Subjects: []string{}, Careers: []string{}, IsActive: true, OrderPosition: 2,
		},
	}, progs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteRepository_QueryAdministrators(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := gormrepos.NewSiteRepository(gdb)

	cols := []string{"id", "name", "position", "education", "quote", "photo_url", "order_position"}
	rows := sqlmock.NewRows(cols).
		AddRow("a1", "นายสมชาย รักเรียน", "ผู้อำนวยการ", "ค.ด.", "", "https://cdn.example.com/a1.jpg", 1)
	// administrators have no is_active flag
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "administrators" ORDER BY order_position ASC`)).
		WillReturnRows(rows)

	admins, err := repo.QueryAdministrators(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []site.Administrator{{
		ID:            "a1",
		Name:          "นายสมชาย รักเรียน",
		Position:      "ผู้อำนวยการ",
		Education:     "ค.ด.",
		PhotoURL:      "https://cdn.example.com/a1.jpg",
		OrderPosition: 1,
	}}, admins)
	assert.NoError(t, mock.ExpectationsWereMet())
}
