package logs

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Logger is the logger handed to the driver, the REPL and the workspace.
// Records carry the compilation unit of their context, see WithUnit.
type Logger = *slog.Logger

// Logger writes text records to writer. When seenc runs as a systemd
// service the records go to the journal instead; elsewhere the journal
// receives a copy if its socket is reachable.
func (Module) Logger(
	writer Writer,
) Logger {
	service := false
	if cgroup, err := os.ReadFile("/proc/self/cgroup"); err == nil {
		service = underSystemd(cgroup)
	}
	return slog.New(&Handler{
		Handler: slogmulti.Fanout(handlers(writer, service)...),
	})
}

func handlers(writer Writer, service bool) []slog.Handler {
	var out []slog.Handler
	var text slog.Handler
	if !service {
		text = slog.NewTextHandler(writer, &slog.HandlerOptions{
			Level: level,
		})
		out = append(out, text)
	}

	journal, err := journalHandler()
	switch {
	case err == nil:
		out = append(out, journal)
	case text != nil:
		slog.New(text).Debug("journal unavailable", "error", err)
	}
	return out
}

func journalHandler() (slog.Handler, error) {
	return slogjournal.NewHandler(&slogjournal.Options{
		Level:        level,
		ReplaceGroup: journalKey,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			a.Key = journalKey(a.Key)
			return a
		},
	})
}

// underSystemd reports whether any hierarchy in a /proc/self/cgroup
// listing places the process in a .service unit.
func underSystemd(cgroup []byte) bool {
	for line := range bytes.Lines(cgroup) {
		// hierarchy-ID:controllers:path
		fields := strings.SplitN(strings.TrimSpace(string(line)), ":", 3)
		if len(fields) < 3 {
			continue
		}
		for seg := range strings.SplitSeq(fields[2], "/") {
			if strings.HasSuffix(seg, ".service") {
				return true
			}
		}
	}
	return false
}

// journalKey maps an attribute key such as "unit" or "check.errors" to a
// journal field name. Fields are upper case A-Z, 0-9 and '_', and may not
// start with '_' or a digit.
func journalKey(key string) string {
	key = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, key)
	key = strings.TrimLeft(key, "_0123456789")
	if key == "" {
		return "SEEN_FIELD"
	}
	return key
}
