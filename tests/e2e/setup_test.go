//go:build e2e
// +build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docker/docker/client"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/config"
	teamModel "github.com/taskhive/taskhive/internal/team/model"
	taskModel "github.com/taskhive/taskhive/internal/teamtask/model"
)

const e2eJWTSecret = "e2e-test-secret"

// E2ETestSuite contains test infrastructure
type E2ETestSuite struct {
	suite.Suite
	ctx              context.Context
	pgContainer      *postgres.PostgresContainer
	db               *gorm.DB
	appContainer     testcontainers.Container
	baseURL          string
	httpClient       *http.Client
	connectionString string
	tokens           *auth.JWTManager
}

// SetupSuite runs once before all tests
func (s *E2ETestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.tokens = auth.NewJWTManager(config.AuthConfig{
		JWTSecret: e2eJWTSecret,
		TokenTTL:  time.Hour,
	})

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(s.ctx,
		"postgres:12-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(s.T(), err, "failed to start PostgreSQL container")
	s.pgContainer = pgContainer

	// Get connection string
	connStr, err := pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "failed to get connection string")
	s.connectionString = connStr

	// Connect to database (for test assertions only)
	// Migrations will be applied by the application container on startup
	// The migrate.Up() function handles ErrNoChange, so it's safe to call multiple times
	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "failed to connect to database")
	s.db = db

	// Note: Do NOT apply migrations here - let the application container do it
	// This tests the real migration path and ensures migrations work correctly

	// Get PostgreSQL container's internal IP address for inter-container communication
	// We need the internal IP, not the mapped host/port
	containerName, err := pgContainer.Name(s.ctx)
	require.NoError(s.T(), err, "failed to get PostgreSQL container name")

	// Get Docker client to inspect container network settings
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	require.NoError(s.T(), err, "failed to create Docker client")
	defer dockerClient.Close()

	// Inspect container by name to get network settings
	// Remove leading "/" from container name for Docker API
	containerNameClean := strings.TrimPrefix(containerName, "/")
	containerInfo, err := dockerClient.ContainerInspect(s.ctx, containerNameClean)
	require.NoError(s.T(), err, "failed to inspect PostgreSQL container")

	// Get the first network's IP address (containers are typically on one network)
	var dbHost string
	var dbPort = "5432"
	if len(containerInfo.NetworkSettings.Networks) > 0 {
		// Get IP address from the first network
		for _, network := range containerInfo.NetworkSettings.Networks {
			dbHost = network.IPAddress
			break
		}
	}

	// Fallback to container name if IP not found
	if dbHost == "" {
		dbHost = containerNameClean
	}

	// Start application container
	// testcontainers-go should place containers in the same network
	// Use the hostname/IP from connection string for inter-container communication
	// Use pre-built image to avoid rebuilding for each test suite
	appContainer, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "taskhive-e2e:test",
			ExposedPorts: []string{"8080/tcp"},
			Env: map[string]string{
				"DB_HOST":                dbHost, // Use hostname/IP from connection string
				"DB_PORT":                dbPort, // Use port from connection string
				"DB_USER":                "testuser",
				"DB_PASSWORD":            "testpass",
				"DB_NAME":                "testdb",
				"DB_SSLMODE":             "disable",
				"DB_TIMEZONE":            "UTC",
				"DB_RETRY_MAX_ATTEMPTS":  "5",
				"DB_RETRY_INITIAL_DELAY": "1s",
				"DB_RETRY_MAX_DELAY":     "30s",
				"DB_RETRY_MULTIPLIER":    "2.0",
				"SERVER_HOST":            "",
				"SERVER_PORT":            ":8080",
				"SERVER_READ_TIMEOUT":    "10s",
				"SERVER_WRITE_TIMEOUT":   "10s",
				"SERVER_IDLE_TIMEOUT":    "120s",
				"GIN_MODE":               "release",
				"LOG_LEVEL":              "info",
				"LOG_FORMAT":             "json",
				"LOG_OUTPUT":             "stdout",
				"MIGRATIONS_PATH":        "migrations",
				"JWT_SECRET":             e2eJWTSecret,
				"INVITE_TTL":             "24h",
				"MAIL_ENABLED":           "false",
			},
			WaitingFor: wait.ForHTTP("/health").
				WithPort("8080/tcp").
				WithStartupTimeout(120 * time.Second).
				WithPollInterval(2 * time.Second),
		},
		Started: true,
	})
	require.NoError(s.T(), err, "failed to start application container")
	s.appContainer = appContainer

	// Get application URL
	host, err := appContainer.Host(s.ctx)
	require.NoError(s.T(), err, "failed to get container host")

	port, err := appContainer.MappedPort(s.ctx, "8080")
	require.NoError(s.T(), err, "failed to get container port")

	s.baseURL = fmt.Sprintf("http://%s:%s", host, port.Port())
	s.httpClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	// Wait for application to be ready
	s.waitForApp()

	// Log configuration for debugging
	s.logConfiguration()

	// Verify migrations were applied by checking if tables exist
	s.verifyMigrations()

	// Log application startup logs for debugging
	s.logAppStartup()
}

// TearDownSuite runs once after all tests
func (s *E2ETestSuite) TearDownSuite() {
	if s.appContainer != nil {
		_ = s.appContainer.Terminate(s.ctx)
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
}

// SetupTest runs before each test
func (s *E2ETestSuite) SetupTest() {
	// Clean all tables
	s.cleanDatabase()
}

// cleanDatabase truncates all tables
func (s *E2ETestSuite) cleanDatabase() {
	s.db.Exec("TRUNCATE TABLE notifications CASCADE")
	s.db.Exec("TRUNCATE TABLE team_tasks CASCADE")
	s.db.Exec("TRUNCATE TABLE invites CASCADE")
	s.db.Exec("TRUNCATE TABLE team_members CASCADE")
	s.db.Exec("TRUNCATE TABLE teams CASCADE")
}

// waitForApp waits for the application to be ready
func (s *E2ETestSuite) waitForApp() {
	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		resp, err := s.httpClient.Get(s.baseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(1 * time.Second)
	}
	s.T().Fatal("application did not become ready in time")
}

// tokenFor mints a bearer token for a test user
func (s *E2ETestSuite) tokenFor(userID, email string) string {
	token, err := s.tokens.Issue(userID, email)
	require.NoError(s.T(), err, "failed to issue test token")
	return token
}

// Helper methods for HTTP requests

// doRequest performs an authenticated HTTP request and returns response
func (s *E2ETestSuite) doRequest(method, path, token string, body io.Reader) (*http.Response, []byte) {
	req, err := http.NewRequest(method, s.baseURL+path, body)
	require.NoError(s.T(), err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err, "failed to read response body")
	resp.Body.Close()

	return resp, respBody
}

// doRequestNoFail performs HTTP request and returns response with error.
// Safe to use in goroutines as it doesn't call require/assert.
func (s *E2ETestSuite) doRequestNoFail(method, path, token string, body io.Reader) (*http.Response, []byte, error) {
	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		return nil, nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return resp, nil, err
	}

	return resp, respBody, nil
}

// createTeam creates a team via HTTP API
func (s *E2ETestSuite) createTeam(token, name string) (*http.Response, *teamModel.TeamResponse) {
	bodyBytes, _ := json.Marshal(teamModel.CreateTeamRequest{Name: name})
	resp, respBody := s.doRequest("POST", "/api/teams", token, strings.NewReader(string(bodyBytes)))

	if resp.StatusCode != http.StatusCreated {
		s.T().Logf("failed to create team: status %d, body %s", resp.StatusCode, string(respBody))
		return resp, nil
	}

	var result teamModel.TeamResponse
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal team response")

	return resp, &result
}

// getTeam gets a team via HTTP API
func (s *E2ETestSuite) getTeam(token, teamID string) (*http.Response, *teamModel.TeamResponse) {
	resp, respBody := s.doRequest("GET", "/api/teams/"+teamID, token, nil)

	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	var result teamModel.TeamResponse
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal team response")

	return resp, &result
}

// listTeams lists the caller's teams via HTTP API
func (s *E2ETestSuite) listTeams(token string) (*http.Response, []teamModel.TeamResponse) {
	resp, respBody := s.doRequest("GET", "/api/teams", token, nil)

	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	var result struct {
		Teams []teamModel.TeamResponse `json:"teams"`
	}
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal teams response")

	return resp, result.Teams
}

// createInvite issues an invite via HTTP API
func (s *E2ETestSuite) createInvite(token, teamID, email string) (*http.Response, *teamModel.InviteResponse) {
	bodyBytes, _ := json.Marshal(teamModel.InviteRequest{Email: email})
	resp, respBody := s.doRequest("POST", fmt.Sprintf("/api/teams/%s/invite", teamID), token, strings.NewReader(string(bodyBytes)))

	if resp.StatusCode != http.StatusCreated {
		return resp, nil
	}

	var result teamModel.InviteResponse
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal invite response")

	return resp, &result
}

// joinTeam redeems an invite code for a known team via HTTP API
func (s *E2ETestSuite) joinTeam(token, teamID, code string) (*http.Response, *teamModel.TeamResponse, []byte) {
	bodyBytes, _ := json.Marshal(teamModel.JoinRequest{Code: code})
	resp, respBody := s.doRequest("POST", fmt.Sprintf("/api/teams/%s/join", teamID), token, strings.NewReader(string(bodyBytes)))

	if resp.StatusCode != http.StatusOK {
		return resp, nil, respBody
	}

	var result teamModel.TeamResponse
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal team response")

	return resp, &result, respBody
}

// joinByCode redeems an invite code without naming the team via HTTP API
func (s *E2ETestSuite) joinByCode(token, code string) (*http.Response, *teamModel.TeamResponse, []byte) {
	bodyBytes, _ := json.Marshal(teamModel.JoinRequest{Code: code})
	resp, respBody := s.doRequest("POST", "/api/teams/join-by-code", token, strings.NewReader(string(bodyBytes)))

	if resp.StatusCode != http.StatusOK {
		return resp, nil, respBody
	}

	var result teamModel.TeamResponse
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal team response")

	return resp, &result, respBody
}

// leaveTeam removes a member via HTTP API
func (s *E2ETestSuite) leaveTeam(token, teamID, userID string) (*http.Response, []byte) {
	return s.doRequest("DELETE", fmt.Sprintf("/api/teams/%s/members/%s", teamID, userID), token, nil)
}

// deleteTeam deletes a team via HTTP API
func (s *E2ETestSuite) deleteTeam(token, teamID string) (*http.Response, []byte) {
	return s.doRequest("DELETE", "/api/teams/"+teamID, token, nil)
}

// createTask creates a task via HTTP API
func (s *E2ETestSuite) createTask(token, teamID string, req *taskModel.CreateTaskRequest) (*http.Response, *taskModel.Task, []byte) {
	bodyBytes, _ := json.Marshal(req)
	resp, respBody := s.doRequest("POST", fmt.Sprintf("/api/teams/%s/tasks", teamID), token, strings.NewReader(string(bodyBytes)))

	if resp.StatusCode != http.StatusCreated {
		return resp, nil, respBody
	}

	var result taskModel.Task
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal task response")

	return resp, &result, respBody
}

// listTasks lists team tasks via HTTP API
func (s *E2ETestSuite) listTasks(token, teamID string) (*http.Response, []taskModel.Task) {
	resp, respBody := s.doRequest("GET", fmt.Sprintf("/api/teams/%s/tasks", teamID), token, nil)

	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	var result struct {
		Tasks []taskModel.Task `json:"tasks"`
	}
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal tasks response")

	return resp, result.Tasks
}

// updateTask patches a task via HTTP API
func (s *E2ETestSuite) updateTask(token, teamID, taskID string, req *taskModel.UpdateTaskRequest) (*http.Response, *taskModel.Task, []byte) {
	bodyBytes, _ := json.Marshal(req)
	resp, respBody := s.doRequest("PATCH", fmt.Sprintf("/api/teams/%s/tasks/%s", teamID, taskID), token, strings.NewReader(string(bodyBytes)))

	if resp.StatusCode != http.StatusOK {
		return resp, nil, respBody
	}

	var result taskModel.Task
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal task response")

	return resp, &result, respBody
}

// deleteTask deletes a task via HTTP API
func (s *E2ETestSuite) deleteTask(token, teamID, taskID string) (*http.Response, []byte) {
	return s.doRequest("DELETE", fmt.Sprintf("/api/teams/%s/tasks/%s", teamID, taskID), token, nil)
}

// listNotifications lists team notifications via HTTP API
func (s *E2ETestSuite) listNotifications(token, teamID string) (*http.Response, []notificationEntry) {
	resp, respBody := s.doRequest("GET", fmt.Sprintf("/api/teams/%s/notifications", teamID), token, nil)

	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	var result struct {
		Notifications []notificationEntry `json:"notifications"`
	}
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal notifications response")

	return resp, result.Notifications
}

// notificationEntry mirrors one activity record in API responses
type notificationEntry struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// parseErrorResponse parses error response
func (s *E2ETestSuite) parseErrorResponse(respBody []byte) (string, string) {
	var errResp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	err := json.Unmarshal(respBody, &errResp)
	require.NoError(s.T(), err, "failed to unmarshal error response")
	return errResp.Error.Code, errResp.Error.Message
}

// Assertion helpers

// verifyMigrations checks if database migrations were applied successfully
func (s *E2ETestSuite) verifyMigrations() {
	s.T().Logf("=== Verifying Database Migrations ===")
	tables := []string{"teams", "team_members", "invites", "team_tasks", "notifications"}

	allExist := true
	for _, table := range tables {
		var exists bool
		err := s.db.Raw(`
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_schema = 'public'
				AND table_name = ?
			)`, table).Scan(&exists).Error

		if err != nil {
			s.T().Logf("failed to check if table %s exists: %v", table, err)
			allExist = false
			continue
		}

		if !exists {
			s.T().Logf("table %s does NOT exist - migrations may not have been applied", table)
			allExist = false
		} else {
			s.T().Logf("table %s exists", table)
		}
	}

	if !allExist {
		s.T().Logf("some tables are missing - checking application logs...")
		appLogs := s.getAppLogs()
		if appLogs != "" {
			s.T().Logf("Application logs (migration-related):")
			lines := strings.Split(appLogs, "\n")
			for _, line := range lines {
				if strings.Contains(strings.ToLower(line), "migration") ||
					strings.Contains(strings.ToLower(line), "table") ||
					strings.Contains(strings.ToLower(line), "error") ||
					strings.Contains(strings.ToLower(line), "fatal") {
					s.T().Logf("  %s", line)
				}
			}
		}
	} else {
		s.T().Logf("all migrations verified successfully")
	}
	s.T().Logf("====================================")
}

// logConfiguration logs important configuration values for debugging
func (s *E2ETestSuite) logConfiguration() {
	s.T().Logf("=== E2E Test Configuration ===")
	s.T().Logf("Application URL: %s", s.baseURL)
	s.T().Logf("Database connection: %s", s.connectionString)
	if s.appContainer != nil {
		host, _ := s.appContainer.Host(s.ctx)
		port, _ := s.appContainer.MappedPort(s.ctx, "8080")
		s.T().Logf("Container Host: %s, Port: %s", host, port.Port())
	}
	if s.pgContainer != nil {
		pgHost, _ := s.pgContainer.Host(s.ctx)
		pgPort, _ := s.pgContainer.MappedPort(s.ctx, "5432")
		s.T().Logf("PostgreSQL Host: %s, Port: %s", pgHost, pgPort.Port())
	}
	s.T().Logf("=============================")
}

// logAppStartup logs application container startup logs
func (s *E2ETestSuite) logAppStartup() {
	if s.appContainer == nil {
		return
	}

	logs := s.getAppLogs()
	if logs != "" {
		s.T().Logf("=== Application Startup Logs ===")
		// Show last 50 lines of logs
		lines := strings.Split(logs, "\n")
		start := 0
		if len(lines) > 50 {
			start = len(lines) - 50
		}
		for i := start; i < len(lines); i++ {
			if lines[i] != "" {
				s.T().Logf("%s", lines[i])
			}
		}
		s.T().Logf("================================")
	}
}

// getAppLogs retrieves application container logs
func (s *E2ETestSuite) getAppLogs() string {
	if s.appContainer == nil {
		return ""
	}

	logs, err := s.appContainer.Logs(s.ctx)
	if err != nil {
		return fmt.Sprintf("Failed to get logs: %v", err)
	}
	defer logs.Close()

	logBytes, err := io.ReadAll(logs)
	if err != nil {
		return fmt.Sprintf("Failed to read logs: %v", err)
	}

	return string(logBytes)
}
