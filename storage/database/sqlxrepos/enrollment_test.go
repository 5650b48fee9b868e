package sqlxrepos_test

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/wittayakom/core/enrollment"
	"github.com/trezcool/wittayakom/storage/database/sqlxrepos"
)

var admissionCols = []string{
	"id", "prefix", "first_name", "last_name", "student_name", "student_id_card", "birth_date", "nationality",
	"religion", "gender", "phone", "email", "address", "father_name", "father_phone", "father_occupation",
	"mother_name", "mother_phone", "mother_occupation", "previous_school", "previous_level", "gpa",
	"grade_applying", "program_applying", "status", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func newApplication(id, name, status string, created time.Time) enrollment.Application {
	return enrollment.Application{
		ID:               id,
		Prefix:           "เด็กหญิง",
		FirstName:        name,
		LastName:         "ใจดี",
		StudentName:      name + " ใจดี",
		IDCard:           "1103700000011",
		BirthDate:        "2555-05-01",
		Nationality:      "ไทย",
		Religion:         "พุทธ",
		Gender:           "female",
		Phone:            "0812345678",
		Email:            "parent@example.com",
		Address:          "12 หมู่ 3",
		FatherName:       "สมศักดิ์ ใจดี",
		FatherPhone:      "0811111111",
		FatherOccupation: "เกษตรกร",
		MotherName:       "สมศรี ใจดี",
		MotherPhone:      "0822222222",
		MotherOccupation: "ค้าขาย",
		PreviousSchool:   "โรงเรียนบ้านหนองบัว",
		PreviousLevel:    "ป.6",
		GPA:              "3.50",
		EnrollLevel:      "ม.1",
		Program:          "ห้องเรียนพิเศษวิทยาศาสตร์",
		Status:           status,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
}

func admissionValues(app enrollment.Application) []driver.Value {
	return []driver.Value{
		app.ID, app.Prefix, app.FirstName, app.LastName, app.StudentName, app.IDCard, app.BirthDate, app.Nationality,
		app.Religion, app.Gender, app.Phone, app.Email, app.Address, app.FatherName, app.FatherPhone, app.FatherOccupation,
		app.MotherName, app.MotherPhone, app.MotherOccupation, app.PreviousSchool, app.PreviousLevel, app.GPA,
		app.EnrollLevel, app.Program, app.Status, app.CreatedAt, app.UpdatedAt,
	}
}

func admissionRows(apps ...enrollment.Application) *sqlmock.Rows {
	rows := sqlmock.NewRows(admissionCols)
	for _, app := range apps {
		rows.AddRow(admissionValues(app)...)
	}
	return rows
}

func TestApplicationRepository_GetApplication(t *testing.T) {
	db, mock := newMockDB(t)
	repo := sqlxrepos.NewApplicationRepository(db)
	ctx := context.Background()

	t0 := time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC)
	app := newApplication("3f2a91c0-5b6d-4e8f-9a0b-1c2d3e4f5a6b", "มาลี", enrollment.StatusPending, t0)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM admissions WHERE id = $1")).
			WithArgs(app.ID).
			WillReturnRows(admissionRows(app))

		got, err := repo.GetApplication(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, app, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		id := "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"
		mock.ExpectQuery(regexp.QuoteMeta("FROM admissions WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(admissionRows())

		_, err := repo.GetApplication(ctx, id)
		assert.Equal(t, enrollment.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed id never hits the db", func(t *testing.T) {
		_, err := repo.GetApplication(ctx, "ENR-2568-3F2A91C0")
		assert.Equal(t, enrollment.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApplicationRepository_findOne(t *testing.T) {
	db, mock := newMockDB(t)
	repo := sqlxrepos.NewApplicationRepository(db)
	ctx := context.Background()

	app := newApplication("3f2a91c0-5b6d-4e8f-9a0b-1c2d3e4f5a6b", "มาลี", enrollment.StatusApproved, time.Now().UTC())

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_name ILIKE $1 ORDER BY created_at DESC, id LIMIT 1")).
		WithArgs("%มาลี%").
		WillReturnRows(admissionRows(app))
	got, err := repo.FindApplicationByName(ctx, "มาลี")
	require.NoError(t, err)
	assert.Equal(t, app, got)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id::text ILIKE $1 ORDER BY created_at DESC, id LIMIT 1")).
		WithArgs("%3F2A91C0%").
		WillReturnRows(admissionRows(app))
	got, err = repo.FindApplicationByIDFragment(ctx, "3F2A91C0")
	require.NoError(t, err)
	assert.Equal(t, app, got)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_name ILIKE $1")).
		WithArgs(`%100\%%`).
		WillReturnRows(admissionRows())
	_, err = repo.FindApplicationByName(ctx, "100%")
	assert.Equal(t, enrollment.ErrNotFound, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_QueryApplications(t *testing.T) {
	db, mock := newMockDB(t)
	repo := sqlxrepos.NewApplicationRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	newer := newApplication("3f2a91c0-5b6d-4e8f-9a0b-1c2d3e4f5a6b", "มาลี", enrollment.StatusPending, now)
	older := newApplication("9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", "มานี", enrollment.StatusPending, now.Add(-time.Hour))

	t.Run("no filter", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM admissions ORDER BY created_at DESC, id")).
			WillReturnRows(admissionRows())

		apps, err := repo.QueryApplications(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, apps)
		assert.Empty(t, apps)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("search and status", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM admissions WHERE student_name ILIKE $1 AND status = $2 ORDER BY created_at DESC, id")).
			WithArgs("%มา%", enrollment.StatusPending).
			WillReturnRows(admissionRows(newer, older))

		apps, err := repo.QueryApplications(ctx, &enrollment.QueryFilter{Search: "มา", Status: enrollment.StatusPending})
		require.NoError(t, err)
		assert.Equal(t, []enrollment.Application{newer, older}, apps)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApplicationRepository_CreateApplication(t *testing.T) {
	db, mock := newMockDB(t)
	repo := sqlxrepos.NewApplicationRepository(db)

	app := newApplication("", "มาลี", enrollment.StatusPending, time.Now().UTC())

	args := make([]driver.Value, 0, len(admissionCols)+3)
	for range admissionCols {
		args = append(args, sqlmock.AnyArg())
	}
	// main contact columns
	args = append(args, app.FatherName, app.FatherPhone, app.Email)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admissions")).
		WithArgs(args...).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.CreateApplication(context.Background(), app)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	app.ID = got.ID
	assert.Equal(t, app, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
