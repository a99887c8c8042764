package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/javonjax/OpenAQ-App/internal/airquality"
	"github.com/javonjax/OpenAQ-App/internal/openaq"
	"github.com/javonjax/OpenAQ-App/internal/session"
)

type staticSource struct{}

func (staticSource) FetchRecent(ctx context.Context, locationID int, parameter string) ([]openaq.Measurement, error) {
	return nil, openaq.ErrNoRecentData
}

func testApp(t *testing.T) *fiber.App {
	t.Helper()

	value := 12.0
	datasets := map[airquality.PollutantKind]*airquality.Dataset{
		airquality.PM25: {
			Pollutant: airquality.PM25,
			Locations: []airquality.Location{{
				ID:          101,
				Name:        "Station A",
				Coordinates: airquality.Coordinates{Lat: 40.7128, Lon: -74.006},
				LastUpdated: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
				Readings:    map[airquality.PollutantKind]airquality.Reading{airquality.PM25: {LastValue: value}},
			}},
		},
		airquality.PM10: {Pollutant: airquality.PM10},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := session.NewManager(datasets, func() session.RecentSource {
		return staticSource{}
	}, time.Hour, logger)

	app := fiber.New()
	RegisterRoutes(app, manager, "")
	return app
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.ID == "" {
		t.Fatal("expected a session id")
	}
	return body.ID
}

func TestSessionLifecycle(t *testing.T) {
	app := testApp(t)
	id := createSession(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/view", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+id, nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/view", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d after delete, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestRegionTriggerMovesCamera(t *testing.T) {
	app := testApp(t)
	id := createSession(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/region",
		strings.NewReader(`{"region":"Europe"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var view session.View
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decoding view: %v", err)
	}
	if view.Camera != (airquality.Camera{Lat: 57, Lon: 16, Zoom: 2}) {
		t.Fatalf("unexpected camera %+v", view.Camera)
	}
}

func TestInvalidTriggerPayloads(t *testing.T) {
	app := testApp(t)
	id := createSession(t, app)

	cases := []struct {
		path string
		body string
	}{
		{"/pollutant", `{"pollutant":"ozone"}`},
		{"/pollutant", `{}`},
		{"/region", `{"region":"Atlantis"}`},
		{"/display", `{"mode":"Globe"}`},
		{"/clicks/row", `{"locationId":101,"coordinates":"garbage"}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+tc.path,
			strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s %s: expected status %d, got %d", tc.path, tc.body, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestLocateUnavailableWithoutKey(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/map/locate?city=Paris", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
}
