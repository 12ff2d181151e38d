package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourghana/tour-booking-backend/internal/models"
)

var userTestColumns = []string{"id", "name", "email", "password_hash", "role", "created_at"}

func TestCreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(newMockDatabase(db))

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(sqlmock.AnyArg(), "Akosua Boateng", "akosua@example.com", sqlmock.AnyArg(), models.RoleUser).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

		user := &models.User{
			Name:         "Akosua Boateng",
			Email:        "akosua@example.com",
			PasswordHash: "$2a$10$hash",
		}

		err := repo.Create(user)
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, models.RoleUser, user.Role)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(sqlmock.AnyArg(), "Akosua Boateng", "akosua@example.com", sqlmock.AnyArg(), models.RoleUser).
			WillReturnError(fmt.Errorf("duplicate key value violates unique constraint"))

		err := repo.Create(&models.User{
			Name:         "Akosua Boateng",
			Email:        "akosua@example.com",
			PasswordHash: "$2a$10$hash",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create user")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetUserByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(newMockDatabase(db))

	t.Run("Success", func(t *testing.T) {
		userID := uuid.New().String()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs("akosua@example.com").
			WillReturnRows(sqlmock.NewRows(userTestColumns).
				AddRow(userID, "Akosua Boateng", "akosua@example.com", "$2a$10$hash", "user", now))

		user, err := repo.GetByEmail("akosua@example.com")
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, models.RoleUser, user.Role)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByEmail("nobody@example.com")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, user)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetUserByEmailAndRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(newMockDatabase(db))

	t.Run("Admin Found", func(t *testing.T) {
		userID := uuid.New().String()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1 AND role = \$2`).
			WithArgs("admin@example.com", models.RoleAdmin).
			WillReturnRows(sqlmock.NewRows(userTestColumns).
				AddRow(userID, "Site Admin", "admin@example.com", "$2a$10$hash", "admin", now))

		user, err := repo.GetByEmailAndRole("admin@example.com", models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Regular Account Rejected", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1 AND role = \$2`).
			WithArgs("akosua@example.com", models.RoleAdmin).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByEmailAndRole("akosua@example.com", models.RoleAdmin)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, user)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListUsersByRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(newMockDatabase(db))

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE role = \$1 ORDER BY created_at DESC`).
			WithArgs(models.RoleUser, 10, 0).
			WillReturnRows(sqlmock.NewRows(userTestColumns).
				AddRow(uuid.New().String(), "Akosua Boateng", "akosua@example.com", "$2a$10$hash", "user", now).
				AddRow(uuid.New().String(), "Yaw Darko", "yaw@example.com", "$2a$10$hash", "user", now))

		users, err := repo.ListByRole(models.RoleUser, 10, 0)
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, "Akosua Boateng", users[0].Name)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Result", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE role = \$1 ORDER BY created_at DESC`).
			WithArgs(models.RoleUser, 10, 0).
			WillReturnRows(sqlmock.NewRows(userTestColumns))

		users, err := repo.ListByRole(models.RoleUser, 10, 0)
		require.NoError(t, err)
		assert.Len(t, users, 0)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCountUsersByRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(newMockDatabase(db))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role`).
		WithArgs(models.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountByRole(models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
