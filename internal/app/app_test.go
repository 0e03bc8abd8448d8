package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/daysince/internal/config"
	"github.com/dori/daysince/internal/db"
	"github.com/dori/daysince/internal/logging"
	"github.com/dori/daysince/internal/model"
	"github.com/dori/daysince/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Notifications = false
	return cfg
}

func TestNew_CreatesDataFiles(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(Options{Config: cfg, Command: "test"})
	require.NoError(t, err)
	defer a.Close()

	assert.FileExists(t, db.PathIn(cfg.DataDir))
	assert.FileExists(t, filepath.Join(cfg.DataDir, LockName))
	assert.FileExists(t, filepath.Join(cfg.DataDir, logging.FileName))
	assert.True(t, a.Store.Loaded())
	assert.Nil(t, a.Scheduler)
	assert.NoError(t, a.LoadErr)
}

func TestNew_SecondInstanceIsLocked(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(Options{Config: cfg})
	require.NoError(t, err)

	_, err = New(Options{Config: cfg})
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, a.Close())

	b, err := New(Options{Config: cfg})
	require.NoError(t, err)
	assert.NoError(t, b.Close())
}

func TestCountersPersistAcrossRuns(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(Options{Config: cfg})
	require.NoError(t, err)
	added, err := a.Store.Add(store.AddParams{Name: "Quit coffee"})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := New(Options{Config: cfg})
	require.NoError(t, err)
	defer b.Close()

	got, ok := b.Store.Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, "Quit coffee", got.Name)
	assert.Equal(t, model.TypeCountup, got.Type)
}

func TestNew_CorruptDataStartsEmpty(t *testing.T) {
	cfg := testConfig(t)

	database, err := db.Open(db.PathIn(cfg.DataDir))
	require.NoError(t, err)
	require.NoError(t, database.Set(store.Key, "{broken"))
	require.NoError(t, database.Close())

	a, err := New(Options{Config: cfg})
	require.NoError(t, err)
	defer a.Close()

	assert.ErrorIs(t, a.LoadErr, store.ErrCorrupt)
	assert.Equal(t, 0, a.Store.Len())
}

func TestNew_AlertsRearmFutureCountdowns(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(Options{Config: cfg})
	require.NoError(t, err)
	target := time.Now().Add(48 * time.Hour)
	_, err = a.Store.Add(store.AddParams{Name: "Launch", CreatedAt: &target, Type: model.TypeCountdown})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := New(Options{Config: cfg, Alerts: true})
	require.NoError(t, err)
	defer b.Close()

	require.NotNil(t, b.Scheduler)
	assert.GreaterOrEqual(t, b.Scheduler.Pending(), 1)
	c := b.Store.All()[0]
	assert.NotEmpty(t, c.NotificationID)
	assert.True(t, c.HasNotification)
}

func TestNew_UnwritableDataDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	cfg := testConfig(t)
	cfg.DataDir = filepath.Join(file, "sub")
	_, err := New(Options{Config: cfg})
	assert.Error(t, err)
}
