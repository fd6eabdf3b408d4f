package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/reqctx"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestContextHandlerAddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&contextHandler{Handler: slog.NewJSONHandler(&buf, nil)})

	staffID := uuid.New()
	ctx := reqctx.WithRequestMeta(context.Background(), &reqctx.RequestMeta{RequestID: "req-42"})
	ctx = reqctx.WithPrincipal(ctx, &reqctx.Principal{StaffID: staffID, Access: authorize.FullAdmin{}})

	logger.InfoContext(ctx, "booking status changed")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if rec["request_id"] != "req-42" {
		t.Errorf("request_id = %v", rec["request_id"])
	}
	if rec["staff_id"] != staffID.String() {
		t.Errorf("staff_id = %v, want %s", rec["staff_id"], staffID)
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}
	slog.New(h).Info("hello")

	if !strings.Contains(a.String(), "hello") {
		t.Error("info handler did not receive record")
	}
	if b.Len() != 0 {
		t.Error("error-level handler received an info record")
	}
}

func TestLokiPayload(t *testing.T) {
	lw := &lokiWriter{labels: map[string]string{"service": "clinicdesk_backend", "env": "test"}}
	at := time.Unix(0, 1700000000000000000)

	body, err := lw.payload([]byte(`{"msg":"quoted \"value\""}`+"\n"), at)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}

	var push lokiPush
	if err := json.Unmarshal(body, &push); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	v := push.Streams[0].Values[0]
	if v[0] != "1700000000000000000" {
		t.Errorf("timestamp = %s", v[0])
	}
	if v[1] != `{"msg":"quoted \"value\""}` {
		t.Errorf("line = %s", v[1])
	}
	if push.Streams[0].Stream["env"] != "test" {
		t.Errorf("labels = %v", push.Streams[0].Stream)
	}
}
