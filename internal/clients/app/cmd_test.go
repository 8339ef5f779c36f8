package app_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clientdesk/internal/clients/app"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store/drivers/sqlite"
	"github.com/aussiebroadwan/clientdesk/pkg/cryptox"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		args []string
		want app.Command
	}{
		{args: nil, want: app.CommandServe},
		{args: []string{"serve"}, want: app.CommandServe},
		{args: []string{"migrate"}, want: app.CommandMigrate},
		{args: []string{"createadmin", "-username", "x"}, want: app.CommandCreateAdmin},
		{args: []string{"flushexpiredtokens"}, want: app.CommandFlushExpiredTokens},
		{args: []string{"healthcheck"}, want: app.CommandHealthcheck},
		{args: []string{"unknown"}, want: app.CommandServe},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			require.Equal(t, tt.want, app.ParseCommand(tt.args))
		})
	}
}

func setupCLIEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cli.db")
	t.Setenv("SECRET_KEY", devSecret)
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DATABASE_FILE", dbPath)
	t.Setenv("PEPPER_FILE", filepath.Join(dir, "pepper"))
	return dbPath
}

func TestRun_Migrate(t *testing.T) {
	dbPath := setupCLIEnv(t)

	require.NoError(t, app.Run(context.Background(), []string{"migrate"}, &bytes.Buffer{}))
	require.FileExists(t, dbPath)
}

func TestRun_FlushExpiredTokens(t *testing.T) {
	setupCLIEnv(t)

	var out bytes.Buffer
	require.NoError(t, app.Run(context.Background(), []string{"flushexpiredtokens"}, &out))
	require.Equal(t, "deleted 0 expired refresh tokens\n", out.String())
}

func TestRun_CreateAdmin(t *testing.T) {
	dbPath := setupCLIEnv(t)
	ctx := context.Background()

	var out bytes.Buffer
	err := app.Run(ctx, []string{"createadmin", "-username", "ops", "-password", "correct-horse-battery"}, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), `admin "ops" created`)
	require.NotContains(t, out.String(), "password:")

	out.Reset()
	err = app.Run(ctx, []string{"createadmin", "-username", "ops"}, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), `admin "ops" updated`)
	require.Contains(t, out.String(), "password: ")

	generated := strings.TrimSpace(out.String()[strings.Index(out.String(), "password: ")+len("password: "):])

	st, err := sqlite.NewStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	u, err := st.Users().GetUserByUsername(ctx, "ops")
	require.NoError(t, err)
	require.True(t, u.IsStaff)
	require.True(t, u.IsActive)
	require.NoError(t, cryptox.VerifyPassword(generated, u.PasswordHash))
}

func TestRun_CreateAdminInvalid(t *testing.T) {
	setupCLIEnv(t)
	ctx := context.Background()

	require.Error(t, app.Run(ctx, []string{"createadmin"}, &bytes.Buffer{}))
	require.Error(t, app.Run(ctx, []string{"createadmin", "-username", "ops", "-password", "short"}, &bytes.Buffer{}))
	require.Error(t, app.Run(ctx, []string{"createadmin", "-bogus"}, &bytes.Buffer{}))
}

func TestRun_HealthcheckFailsWithoutServer(t *testing.T) {
	t.Setenv("PORT", "1")
	require.Error(t, app.Run(context.Background(), []string{"healthcheck"}, &bytes.Buffer{}))
}
