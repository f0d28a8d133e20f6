package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer/internal/bootstrap"
	"resume-analyzer/internal/privacy"
	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/storage/object"
)

func memoryApp(t *testing.T) *bootstrap.App {
	t.Helper()
	app, err := bootstrap.Build(context.Background(), config.Config{
		Env:                      "test",
		ObjectStoreType:          "local",
		LocalStoreDir:            t.TempDir(),
		JWTSecret:                "test-secret",
		AccessTokenExpireMinutes: 30,
		BcryptCost:               10,
		MaxUploadBytes:           1 << 20,
		MaxExtractedSkills:       20,
		EventsBackend:            "none",
	})
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func TestRunCleanupDryRunThenDelete(t *testing.T) {
	app := memoryApp(t)
	ctx := context.Background()

	key := "uploads/u-1/old.txt"
	_, err := app.Store.SaveWithKey(ctx, key, "text/plain", strings.NewReader("old resume"))
	require.NoError(t, err)
	require.NoError(t, app.ResumesRepo.Create(ctx, resumes.Resume{
		ID: "r-old", UserID: "u-1", FileName: "old.txt", FileType: ".txt",
		StorageKey: key, RawText: "old resume", CreatedAt: time.Now().Add(-60 * 24 * time.Hour),
	}))

	var out bytes.Buffer
	require.NoError(t, runCleanup(ctx, app, privacy.DefaultRetentionDays, true, &out))
	assert.Contains(t, out.String(), "would delete 0 exports and 1 resume files")
	rc, err := app.Store.Open(ctx, key)
	require.NoError(t, err)
	rc.Close()

	out.Reset()
	require.NoError(t, runCleanup(ctx, app, privacy.DefaultRetentionDays, false, &out))
	assert.Contains(t, out.String(), "deleted 0 exports and 1 resume files")
	_, err = app.Store.Open(ctx, key)
	assert.ErrorIs(t, err, object.ErrNotFound)
}

func TestRunCleanupRejectsZeroDays(t *testing.T) {
	app := memoryApp(t)
	err := runCleanup(context.Background(), app, 0, false, &bytes.Buffer{})
	assert.ErrorIs(t, err, privacy.ErrInvalidRetention)
}

func TestCleanupFlagsDefaultToPolicy(t *testing.T) {
	flag := cleanupCmd.Flags().Lookup("retention-days")
	require.NotNil(t, flag)
	assert.Equal(t, "30", flag.DefValue)
	assert.NotNil(t, cleanupCmd.Flags().Lookup("dry-run"))
}
