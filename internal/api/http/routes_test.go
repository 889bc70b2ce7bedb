package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"weather-gateway/internal/audit"
	"weather-gateway/internal/weather"
	"weather-gateway/internal/weather/providers"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	auditLog, err := audit.NewSQLite(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("failed to open audit log: %v", err)
	}
	t.Cleanup(func() { _ = auditLog.Close() })

	registry := weather.NewRegistry(map[weather.Kind]weather.Provider{
		weather.KindMock:        providers.NewMock(),
		weather.KindOpenWeather: providers.NewOpenWeather(&http.Client{Timeout: time.Second}, "http://127.0.0.1:1"),
	})

	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := weather.NewService(registry, auditLog, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})
	RegisterRoutes(app, svc, auditLog)
	return app
}

func get(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

// TestWeatherMockSuccess verifies the normalized response shape for the
// default provider.
func TestWeatherMockSuccess(t *testing.T) {
	app := newTestApp(t)

	resp := get(t, app, "/api/v1/weather?city=Madrid&source=mock")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var reading weather.WeatherReading
	if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	resp.Body.Close()

	if reading.City != "Madrid" {
		t.Fatalf("expected city Madrid, got %q", reading.City)
	}
	if reading.Temperature.Unit != weather.UnitCelsius {
		t.Fatalf("expected temperature unit C, got %q", reading.Temperature.Unit)
	}
	if reading.Wind.Unit != weather.UnitKmh {
		t.Fatalf("expected wind unit kmh, got %q", reading.Wind.Unit)
	}
}

// TestWeatherDefaultsToMock verifies an absent source behaves like mock.
func TestWeatherDefaultsToMock(t *testing.T) {
	app := newTestApp(t)

	resp := get(t, app, "/api/v1/weather?city=Madrid")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	resp.Body.Close()
}

func TestWeatherStatusMapping(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name   string
		target string
		status int
	}{
		{"blank city", "/api/v1/weather?source=mock", http.StatusBadRequest},
		{"unknown source", "/api/v1/weather?city=Madrid&source=accuweather", http.StatusBadRequest},
		{"malformed config", "/api/v1/weather?city=Madrid&source=mock&config=" + url.QueryEscape(`{bad json`), http.StatusBadRequest},
		{"missing credential", "/api/v1/weather?city=Madrid&source=openweather&config=" + url.QueryEscape(`{}`), http.StatusInternalServerError},
		{"upstream unavailable", "/api/v1/weather?city=Madrid&source=openweather&config=" + url.QueryEscape(`{"apiKey":"X"}`), http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, app, tc.target)
			defer resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.StatusCode)
			}
		})
	}
}

// TestAuditRecent verifies the diagnostics endpoint returns the records the
// pipeline wrote, including failures.
func TestAuditRecent(t *testing.T) {
	app := newTestApp(t)

	resp := get(t, app, "/api/v1/weather?city=Madrid&source=mock")
	resp.Body.Close()
	resp = get(t, app, "/api/v1/weather?city=Madrid&source=accuweather")
	resp.Body.Close()

	resp = get(t, app, "/api/v1/audit/recent?limit=10")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Records []audit.Record `json:"records"`
		Count   int            `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	resp.Body.Close()

	if body.Count != 2 {
		t.Fatalf("expected 2 audit records, got %d", body.Count)
	}

	var sawFailure bool
	for _, rec := range body.Records {
		if rec.Outcome == audit.OutcomeFailure && rec.ErrorKind == "unknown_source" {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Fatal("expected an unknown_source failure record")
	}
}

func TestAuditRecentLimitValidation(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{
		"/api/v1/audit/recent?limit=1000",
		"/api/v1/audit/recent?limit=-1",
		"/api/v1/audit/recent?limit=abc",
	} {
		resp := get(t, app, target)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", target, http.StatusBadRequest, resp.StatusCode)
		}
	}
}
