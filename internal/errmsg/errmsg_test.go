package errmsg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
)

func TestFormat_NilError(t *testing.T) {
	result := Format(nil, nil)
	if result != "" {
		t.Errorf("expected empty string for nil error, got %q", result)
	}
}

func TestFormat_GenericError(t *testing.T) {
	err := errors.New("something went wrong")
	result := Format(err, nil)
	if result != "something went wrong" {
		t.Errorf("expected original error message, got %q", result)
	}
}

func assertContains(t *testing.T, result string, checks ...string) {
	t.Helper()
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected result to contain %q, got:\n%s", check, result)
		}
	}
}

func TestFormat_NetworkError(t *testing.T) {
	err := errs.WrapNetwork(context.DeadlineExceeded, "paper catalog", "request failed")
	result := Format(fmt.Errorf("failed to resolve paper version latest: %w", err), nil)

	assertContains(t, result,
		"failed to resolve paper version latest",
		"Possible causes:",
		"Request timed out",
		"Suggestions:",
		"MVM_API_TIMEOUT",
	)
}

func TestFormat_NotFoundWithContext(t *testing.T) {
	err := errs.New(errs.KindNotFound, "paper catalog", "version 9.9 not found")
	result := Format(err, &ErrorContext{Flavor: flavor.Paper, Version: "9.9"})

	assertContains(t, result,
		"version 9.9 not found",
		"mvm versions --paper",
		"mvm list --paper",
		"latest",
	)
}

func TestFormat_NotFoundVanilla(t *testing.T) {
	err := errs.New(errs.KindNotFound, "install", "vanilla version 1.0 is not installed")
	result := Format(err, &ErrorContext{Flavor: flavor.Vanilla})

	if strings.Contains(result, "--paper") {
		t.Errorf("vanilla suggestions should not mention --paper:\n%s", result)
	}
	assertContains(t, result, "mvm versions'")
}

func TestFormat_DataIntegrity(t *testing.T) {
	err := errs.New(errs.KindDataIntegrity, "paper catalog", "version 1.21.4 has no builds")
	assertContains(t, Format(err, nil), "has no builds", "empty listing", "try again later")
}

func TestFormat_Serialization(t *testing.T) {
	err := errs.Wrap(errs.KindSerialization, "state", "failed to parse config.toml", errors.New("bad toml"))
	assertContains(t, Format(err, nil), "config.toml", "Fix or delete")
}

func TestFormat_Configuration(t *testing.T) {
	err := errs.New(errs.KindConfiguration, "config", "cannot determine a home directory")
	assertContains(t, Format(err, nil), "MVM_HOME")
}

func TestFormat_PermissionError(t *testing.T) {
	err := fmt.Errorf("failed to create directory: %w", os.ErrPermission)
	assertContains(t, Format(err, nil), "Insufficient permissions", "~/.mvm")
}

func TestFormat_ValidationPassesThrough(t *testing.T) {
	err := errs.New(errs.KindValidation, "use", "'recent' is already the active version")
	if got := Format(err, nil); got != err.Error() {
		t.Errorf("Format() = %q, want %q", got, err.Error())
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, errors.New("boom"), nil)
	if got := buf.String(); got != "Error: boom\n" {
		t.Errorf("Fprint() = %q", got)
	}

	buf.Reset()
	Fprint(&buf, nil, nil)
	if buf.Len() != 0 {
		t.Errorf("Fprint(nil) wrote %q", buf.String())
	}
}
