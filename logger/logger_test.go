package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSetupWithJSONLevel(t *testing.T) {
	var buf bytes.Buffer
	l := SetupWith(&buf, "warn", "json")

	l.Info("hidden")
	l.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestTimeLogsError(t *testing.T) {
	var buf bytes.Buffer
	SetupWith(&buf, "debug", "text")

	ctx := context.WithValue(context.Background(), RequestIDKey, "abc")
	err := errors.New("no route")
	Time(ctx, "osrm.Route")(&err)

	out := buf.String()
	for _, want := range []string{"op_failed", "req_id=abc", "op=osrm.Route", "no route"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}
