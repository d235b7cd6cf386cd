package shared

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestErrorKind(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "not found", err: fmt.Errorf("lookup: %w", ErrNotFound), want: KindNotFound},
		{name: "remote 404", err: fmt.Errorf("%w: %w: status 404", ErrNetwork, ErrNotFound), want: KindNotFound},
		{name: "network", err: fmt.Errorf("%w: dial tcp", ErrNetwork), want: KindNetwork},
		{name: "storage", err: fmt.Errorf("%w: disk I/O", ErrStorage), want: KindStorage},
		{name: "closed", err: ErrStoreClosed, want: KindStorage},
		{name: "unavailable", err: fmt.Errorf("%w: %w", ErrNetwork, ErrServiceUnavailable), want: KindUnavailable},
		{name: "invalid", err: ErrInvalidInput, want: KindInvalid},
		{name: "canceled", err: context.Canceled, want: KindCanceled},
		{name: "other", err: errors.New("boom"), want: KindUnknown},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tc := []struct {
		in   string
		n    int
		want string
	}{
		{"Spider-Man", 20, "Spider-Man"},
		{"Spider-Man", 7, "Spider…"},
		{"Spider-Man", 1, "…"},
		{"Spider-Man", 0, "Spider-Man"},
	}

	for _, tt := range tc {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	if ParseLogLevel("DEBUG") != log.DebugLevel {
		t.Error("expected debug level")
	}
	if ParseLogLevel("") != log.InfoLevel {
		t.Error("expected info level for empty string")
	}
	if ParseLogLevel("chatty") != log.InfoLevel {
		t.Error("expected info level for unknown string")
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "marvelx.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create file logger: %v", err)
	}
	logger.Info("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("expected log file to contain message, got %q", data)
	}
}

func TestOpenBrowser(t *testing.T) {
	origRuntime, origStart := getRuntime, startCommand
	t.Cleanup(func() { getRuntime, startCommand = origRuntime, origStart })

	var started []string
	startCommand = func(cmd *exec.Cmd) error {
		started = cmd.Args
		return nil
	}

	t.Run("rejects non http URLs", func(t *testing.T) {
		for _, u := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "http://"} {
			if err := OpenBrowser(u); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("OpenBrowser(%q) = %v, want ErrInvalidInput", u, err)
			}
		}
	})

	t.Run("linux uses xdg-open", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		if err := OpenBrowser("https://example.com/a.jpg"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(started) == 0 || filepath.Base(started[0]) != "xdg-open" {
			t.Errorf("expected xdg-open, got %v", started)
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}
