package repository

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"

	"github.com/vortrixs/user-api/internal/database"
	"github.com/vortrixs/user-api/internal/errs"
	"github.com/vortrixs/user-api/internal/model"
)

var userColumns = []string{"id", "created_at", "updated_at", "firstname", "lastname", "email"}

func newMockRepository(t *testing.T) (*PostgresUserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zerolog.Nop()
	orm, err := database.OpenORM(postgres.New(postgres.Config{Conn: db}), &logger, nil)
	require.NoError(t, err)

	return NewPostgresUserRepository(orm), mock
}

func TestPostgresUserRepository_FindAll(t *testing.T) {
	repo, mock := newMockRepository(t)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(userColumns).
		AddRow(1, ts, ts, "Ada", "Lovelace", "ada@example.com").
		AddRow(2, ts, ts, "Alan", "Turing", "alan@example.com")
	mock.ExpectQuery(`SELECT \* FROM "users" ORDER BY id`).WillReturnRows(rows)

	users, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ada", users[0].Firstname)
	assert.Equal(t, int64(2), users[1].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := repo.FindByID(context.Background(), 42)
	assert.Nil(t, user)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
	assert.EqualError(t, err, "User not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByID_InvalidIDSkipsQuery(t *testing.T) {
	repo, mock := newMockRepository(t)

	_, err := repo.FindByID(context.Background(), 0)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_ExistsByEmail(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1 AND id <> \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "ada@example.com", 3)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err = repo.ExistsByEmail(context.Background(), "new@example.com", 0)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_Insert(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	user := &model.User{Firstname: "Ada", Lastname: "Lovelace", Email: "ada@example.com"}
	require.NoError(t, repo.Insert(context.Background(), user))

	assert.Equal(t, int64(7), user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	// The response must match what TIMESTAMPTZ gives back on the next read.
	assert.Zero(t, user.CreatedAt.Nanosecond()%1000)
	assert.Equal(t, time.UTC, user.CreatedAt.Location())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_Insert_DuplicateEmailIsConflict(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		TableName:      "users",
		ConstraintName: "users_email_key",
	})

	err := repo.Insert(context.Background(), &model.User{Firstname: "Ada", Lastname: "Lovelace", Email: "ada@example.com"})
	assert.Equal(t, http.StatusConflict, errs.StatusOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_UpdateFields(t *testing.T) {
	repo, mock := newMockRepository(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Minute)

	mock.ExpectQuery(`UPDATE "users" SET .*"lastname"=.*"updated_at"=.* WHERE id = \$\d+ RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(5, created, updated, "Ada", "Byron", "ada@example.com"))

	user, err := repo.UpdateFields(context.Background(), 5, model.UserFields{model.FieldLastname: "Byron"})
	require.NoError(t, err)
	assert.Equal(t, "Byron", user.Lastname)
	assert.Equal(t, "Ada", user.Firstname)
	assert.Equal(t, int64(5), user.ID)
	assert.True(t, user.UpdatedAt.After(user.CreatedAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_UpdateFields_MissingRow(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`UPDATE "users" SET .* RETURNING \*`).WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := repo.UpdateFields(context.Background(), 99, model.UserFields{model.FieldFirstname: "X"})
	assert.Nil(t, user)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_Delete(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`DELETE FROM "users" WHERE "users"."id" = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	deleted, err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, deleted)

	mock.ExpectExec(`DELETE FROM "users" WHERE "users"."id" = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	deleted, err = repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}
