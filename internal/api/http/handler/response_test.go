package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinicdesk_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"
)

func TestErrorHandlerStatus(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    int
		wantMsg string
	}{
		{"validation", apperr.Validation("bad month"), http.StatusBadRequest, "bad month"},
		{"not found", apperr.NotFound("booking not found"), http.StatusNotFound, "booking not found"},
		{"conflict", apperr.Conflict("email taken"), http.StatusConflict, "email taken"},
		{"fiber error", fiber.NewError(http.StatusTeapot, "teapot"), http.StatusTeapot, "teapot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			var body map[string]string
			raw, _ := io.ReadAll(resp.Body)
			_ = json.Unmarshal(raw, &body)
			if body["error"] != tt.wantMsg {
				t.Errorf("error = %q, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}

func TestInternalErrorLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(middleware.RequestID())
	app.Get("/", func(fiber.Ctx) error { return errors.New("connection reset") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(raw), "connection reset") {
		t.Errorf("internal error leaked to client: %s", raw)
	}
	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Errorf("log line missing request id: %s", buf.String())
	}
}
