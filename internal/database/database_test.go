package database

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/config"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/utils"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDialector_UnsupportedDriver(t *testing.T) {
	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	require.Error(t, err)
}

func TestDialector_KnownDrivers(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		d, err := Dialector(&config.Config{DBDriver: driver, DBPath: ":memory:"})
		require.NoError(t, err, driver)
		require.Equal(t, driver, d.Name())
	}
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBPath: ":memory:", GinMode: "test"}

	db, err := Connect(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db, testLogger()))
	require.True(t, db.Migrator().HasTable(&models.Task{}))
	require.True(t, db.Migrator().HasIndex(&models.Task{}, "idx_tasks_status"))

	// Running twice must skip existing indexes.
	require.NoError(t, Migrate(db, testLogger()))
}

func TestPaginate(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBPath: ":memory:"}
	db, err := Connect(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, db.AutoMigrate(&models.User{}))

	for _, email := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		require.NoError(t, db.Create(&models.User{Name: email, Email: email, PasswordHash: "h", Role: models.RoleMember, IsActive: true}).Error)
	}

	var users []models.User
	err = db.Order("id").Scopes(Paginate(utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})).Find(&users).Error
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "c@x.io", users[0].Email)
}
