package logs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/reusee/dscope"
	slogmulti "github.com/samber/slog-multi"
)

func withLevel(t *testing.T, l slog.Level) {
	t.Helper()
	old := level.Level()
	SetLevel(l)
	t.Cleanup(func() {
		SetLevel(old)
	})
}

func TestHandler(t *testing.T) {
	withLevel(t, slog.LevelInfo)
	buf := new(bytes.Buffer)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		logger Logger,
	) {
		ctx := WithUnit(context.Background(), "main.seen")
		logger.InfoContext(ctx, "parse", "nodes", 42)
		logger.With("stage", "check").InfoContext(ctx, "done")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("got %q", buf.String())
		}
		if !strings.Contains(lines[0], "unit=main.seen") || !strings.Contains(lines[0], "nodes=42") {
			t.Fatalf("got %v", lines[0])
		}
		if !strings.Contains(lines[1], "unit=main.seen") || !strings.Contains(lines[1], "stage=check") {
			t.Fatalf("got %v", lines[1])
		}
	})
}

func TestLevel(t *testing.T) {
	withLevel(t, slog.LevelWarn)
	buf := new(bytes.Buffer)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		logger Logger,
	) {
		logger.Debug("hidden")
		logger.Info("hidden")
		if buf.Len() != 0 {
			t.Fatalf("got %q", buf.String())
		}
		SetLevel(slog.LevelDebug)
		logger.Debug("shown")
		if !strings.Contains(buf.String(), "msg=shown") {
			t.Fatalf("got %q", buf.String())
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("should error")
	}
}

func TestWrapUnit(t *testing.T) {
	base := errors.New("boom")
	if err := WrapUnit(context.Background(), base); err != base {
		t.Fatalf("got %v", err)
	}
	err := WrapUnit(WithUnit(context.Background(), "a.seen"), base)
	if !errors.Is(err, base) {
		t.Fatalf("got %v", err)
	}
	if !strings.Contains(err.Error(), "unit: a.seen") {
		t.Fatalf("got %v", err)
	}
	if WrapUnit(context.Background(), nil) != nil {
		t.Fatal("nil error should stay nil")
	}
}

func TestJournalKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"unit", "UNIT"},
		{"logs.unit-path", "LOGS_UNIT_PATH"},
		{"check.Errors", "CHECK_ERRORS"},
		{"_private", "PRIVATE"},
		{"2nd", "ND"},
		{"كلمة", "SEEN_FIELD"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := journalKey(tt.in); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnderSystemd(t *testing.T) {
	tests := []struct {
		name   string
		cgroup string
		want   bool
	}{
		{"unified service", "0::/system.slice/seend.service\n", true},
		{"unified scope", "0::/user.slice/user-1000.slice/session-2.scope\n", false},
		{"nested in service", "0::/system.slice/seend.service/worker\n", true},
		{"legacy hierarchies", "12:pids:/user.slice\n1:name=systemd:/system.slice/seend.service\n", true},
		{"container root", "0::/\n", false},
		{"malformed", "garbage", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := underSystemd([]byte(tt.cgroup)); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandlersUnderService(t *testing.T) {
	withLevel(t, slog.LevelDebug)
	buf := new(bytes.Buffer)
	slog.New(slogmulti.Fanout(handlers(buf, true)...)).Error("to journal only")
	if buf.Len() != 0 {
		t.Fatalf("service logs should skip the terminal, got %q", buf.String())
	}

	slog.New(slogmulti.Fanout(handlers(buf, false)...)).Info("to terminal")
	if !strings.Contains(buf.String(), "msg=\"to terminal\"") {
		t.Fatalf("got %q", buf.String())
	}
}
