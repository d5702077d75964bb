package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/service"
)

func setupExperimentsApp(repo *MockExperimentRepository) *fiber.App {
	app := fiber.New()
	h := NewExperimentsHandler(service.NewExperimentService(zap.NewNop(), repo), zap.NewNop())
	h.RegisterRoutes(app.Group("/v1"))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, raw
}

func TestCreateExperiment(t *testing.T) {
	repo := new(MockExperimentRepository)
	repo.On("NameExists", mock.Anything, "qa-bot").Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	app := setupExperimentsApp(repo)

	status, raw := postJSON(t, app, "/v1/experiments", map[string]any{
		"name": "qa-bot",
		"tags": []string{"prod"},
	})
	require.Equal(t, fiber.StatusCreated, status)

	var created domain.Experiment
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "qa-bot", created.Name)
	assert.NotEmpty(t, created.ID)
}

func TestCreateExperimentNameConflict(t *testing.T) {
	repo := new(MockExperimentRepository)
	repo.On("NameExists", mock.Anything, "qa-bot").Return(true, nil)

	app := setupExperimentsApp(repo)

	status, raw := postJSON(t, app, "/v1/experiments", map[string]any{"name": "qa-bot"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, string(raw), "already exists")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateExperimentValidation(t *testing.T) {
	app := setupExperimentsApp(new(MockExperimentRepository))

	status, raw := postJSON(t, app, "/v1/experiments", map[string]any{"description": "no name"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(raw), "Validation Error")
}

func TestGetExperimentInvalidID(t *testing.T) {
	app := setupExperimentsApp(new(MockExperimentRepository))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/experiments/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
