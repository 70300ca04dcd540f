package songs

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(store *MockStore) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, newTestService(store))
	return app
}

func TestDeleteSong_RequiresSetlistID(t *testing.T) {
	app := newTestApp(NewMockStore())

	req := httptest.NewRequest("DELETE", "/songs/song-1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}

func TestUpdateSong_RequiresSetlistID(t *testing.T) {
	app := newTestApp(NewMockStore())

	req := httptest.NewRequest("PUT", "/songs/song-1", strings.NewReader(`{"name":"Renamed"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}
