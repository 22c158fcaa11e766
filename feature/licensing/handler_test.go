package licensing_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"registry-sync/feature/licensing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T, page string) *fiber.App {
	env := setupService(t, page)
	app := fiber.New()
	feature := licensing.NewFeature(env.service, time.Minute)
	require.True(t, feature.IsEnabled())
	require.NoError(t, feature.Load(app))
	return app
}

func decode(t *testing.T, body io.Reader, out any) {
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out), string(data))
}

func TestHandleListRegistries(t *testing.T) {
	app := setupApp(t, "testdata/issued.html")

	resp, err := app.Test(httptest.NewRequest("GET", "/registries", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var regs []map[string]any
	decode(t, resp.Body, &regs)
	require.Len(t, regs, 4)
	assert.Equal(t, "insurance", regs[0]["name"])
	assert.NotContains(t, regs[0], "Dictionary")
}

func TestHandleSync(t *testing.T) {
	app := setupApp(t, "testdata/issued.html")

	resp, err := app.Test(httptest.NewRequest("POST", "/registries/issued/sync", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res struct {
		Run struct {
			Accepted int `json:"accepted"`
			Skipped  int `json:"skipped"`
		} `json:"run"`
	}
	decode(t, resp.Body, &res)
	assert.Equal(t, 1, res.Run.Accepted)
	assert.Equal(t, 2, res.Run.Skipped)

	resp, err = app.Test(httptest.NewRequest("GET", "/organizations/"+knownBIN+"/licenses", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var org struct {
		Identifier string `json:"identifier"`
		Licenses   []struct {
			CurrentLicenseNumber string `json:"current_license_number"`
		} `json:"licenses"`
	}
	decode(t, resp.Body, &org)
	assert.Equal(t, knownBIN, org.Identifier)
	require.Len(t, org.Licenses, 1)
	assert.Equal(t, "L-7", org.Licenses[0].CurrentLicenseNumber)

	resp, err = app.Test(httptest.NewRequest("GET", "/runs?registry=issued", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var recs []map[string]any
	decode(t, resp.Body, &recs)
	assert.Len(t, recs, 1)
}

func TestHandleSync_Errors(t *testing.T) {
	app := setupApp(t, "testdata/missing.html")

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown registry", "/registries/nope/sync", fiber.StatusNotFound},
		{"export only", "/registries/sanctions/sync", fiber.StatusBadRequest},
		{"provider failure", "/registries/issued/sync", fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("POST", tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]any
			decode(t, resp.Body, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleSync_FailedRunIsReturned(t *testing.T) {
	app := setupApp(t, "testdata/missing.html")

	resp, err := app.Test(httptest.NewRequest("POST", "/registries/issued/sync", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
		Run   struct {
			Error string `json:"error"`
		} `json:"run"`
	}
	decode(t, resp.Body, &body)
	assert.Contains(t, body.Run.Error, "failed to render")
}

func TestHandleGetOrganization_NotFound(t *testing.T) {
	app := setupApp(t, "testdata/issued.html")

	resp, err := app.Test(httptest.NewRequest("GET", "/organizations/000000000000/licenses", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleExtract(t *testing.T) {
	app := setupApp(t, "testdata/sanctions.html")

	resp, err := app.Test(httptest.NewRequest("GET", "/registries/sanctions/extract", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var export struct {
		Count     int              `json:"count"`
		Sanctions []map[string]any `json:"sanctions"`
	}
	decode(t, resp.Body, &export)
	assert.Equal(t, 1, export.Count)
	require.Len(t, export.Sanctions, 1)
	assert.Equal(t, "S-42", export.Sanctions[0]["decision_number"])
}
