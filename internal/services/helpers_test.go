package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/config"
	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/policy"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := database.Connect(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"}, logger)
	require.NoError(t, err)

	// Every pooled connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db, logger))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func principalOf(u *models.User) policy.Principal {
	return policy.FromUser(u)
}

type fakeUploader struct {
	calls  int
	folder string
	err    error
}

func (f *fakeUploader) Store(_ context.Context, data []byte, folder, contentType string) (string, error) {
	f.calls++
	f.folder = folder
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example.com/" + folder + "/avatar.png", nil
}
