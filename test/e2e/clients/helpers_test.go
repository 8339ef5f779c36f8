//go:build e2e

package clients_test

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/clientdesk/pkg/clientsdk"
)

/*
 * Container setup and shared assertions for the client service end-to-end
 * tests. Run with: go test -tags e2e ./test/e2e/...
 */

const (
	testImageName = "clientdesk-test:latest"

	adminUsername = "admin"
	adminPassword = "Admin123!secure"
)

// TestMain builds the image once for the whole package.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building client service Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up client service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/clients/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName).Run()
}

func baseEnv() map[string]string {
	return map[string]string{
		"SECRET_KEY":               "e2e-secret-key-e2e-secret-key-e2e",
		"ALLOWED_HOSTS":            "*",
		"BOOTSTRAP_ADMIN_USERNAME": adminUsername,
		"BOOTSTRAP_ADMIN_PASSWORD": adminPassword,
		"ENV":                      "test",
		"LOG_LEVEL":                "info",
		"LOG_FORMAT":               "json",
	}
}

// relaxedRateLimits keeps the suite clear of 429s.
func relaxedRateLimits() map[string]string {
	return map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
		"RATELIMIT_LENIENT_REQUESTS":  "1000",
		"RATELIMIT_LENIENT_BURST":     "1000",
	}
}

// setupContainer starts the service with relaxed rate limits and returns its
// base URL.
func setupContainer(t *testing.T) string {
	t.Helper()
	env := baseEnv()
	maps.Copy(env, relaxedRateLimits())
	return startContainer(t, env)
}

// setupContainerWithDefaultRateLimits is for tests that exercise limiting.
func setupContainerWithDefaultRateLimits(t *testing.T) string {
	t.Helper()
	return startContainer(t, baseEnv())
}

func startContainer(t *testing.T, env map[string]string) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

func login(t *testing.T, client *clientsdk.SDKClient) *clientsdk.Session {
	t.Helper()
	session, err := client.Authenticate(t.Context(), adminUsername, adminPassword)
	require.NoError(t, err, "admin login should succeed")
	return session
}

func assertTokenPair(t *testing.T, pair *clientsdk.TokenPair) {
	t.Helper()
	require.NotNil(t, pair)
	require.NotEmpty(t, pair.Access, "access token should not be empty")
	require.NotEmpty(t, pair.Refresh, "refresh token should not be empty")
}

func assertHealthy(t *testing.T, health *clientsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *clientsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}

func ptr(s string) *string { return &s }
