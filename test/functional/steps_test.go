package functional

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tsukumogami/mvm/internal/catalog/catalogtest"
)

// aCleanMvmEnvironment is a no-op because the Before hook already sets up
// the environment. This step exists so feature files read naturally.
func aCleanMvmEnvironment(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

func thePaperCatalogPublishesNoVersions(ctx context.Context) error {
	getState(ctx).catalog.Set(func(s *catalogtest.Server) {
		s.PaperVersions = []string{}
	})
	return nil
}

// iRun executes a command string, replacing "mvm" with the test binary path.
func iRun(ctx context.Context, command string) (context.Context, error) {
	state := getState(ctx)
	if state == nil {
		return ctx, fmt.Errorf("no test state; is the Before hook running?")
	}

	args := strings.Fields(command)
	if len(args) > 0 && args[0] == "mvm" {
		args[0] = state.binPath
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = state.homeDir
	cmd.Env = append(os.Environ(),
		"MVM_HOME="+state.homeDir,
		"MVM_VANILLA_MANIFEST_URL="+state.catalog.ManifestURL(),
		"MVM_PAPER_API_URL="+state.catalog.PaperURL(),
		"NO_COLOR=1",
	)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	state.stdout = stdout.String()
	state.stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		state.exitCode = 0
	case errors.As(err, &exitErr):
		state.exitCode = exitErr.ExitCode()
	default:
		return ctx, fmt.Errorf("command execution failed: %w", err)
	}

	return ctx, nil
}

func theExitCodeIs(ctx context.Context, expected int) error {
	state := getState(ctx)
	if state.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s",
			expected, state.exitCode, state.stdout, state.stderr)
	}
	return nil
}

func theExitCodeIsNot(ctx context.Context, notExpected int) error {
	state := getState(ctx)
	if state.exitCode == notExpected {
		return fmt.Errorf("expected exit code to not be %d\nstdout: %s\nstderr: %s",
			notExpected, state.stdout, state.stderr)
	}
	return nil
}

func theOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	if strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout not to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

// theOutputIsThePath checks stdout is exactly one line naming path under
// the scenario's root.
func theOutputIsThePath(ctx context.Context, path string) error {
	state := getState(ctx)
	want := filepath.Join(state.homeDir, filepath.FromSlash(path))
	if got := strings.TrimRight(state.stdout, "\n"); got != want {
		return fmt.Errorf("expected stdout to be %q, got %q", want, got)
	}
	return nil
}

func theErrorOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stderr, text) {
		return fmt.Errorf("expected stderr to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theFileExists(ctx context.Context, path string) error {
	state := getState(ctx)
	fullPath := filepath.Join(state.homeDir, filepath.FromSlash(path))
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("expected file %q to exist", fullPath)
	}
	return nil
}

func theFileDoesNotExist(ctx context.Context, path string) error {
	state := getState(ctx)
	fullPath := filepath.Join(state.homeDir, filepath.FromSlash(path))
	if _, err := os.Lstat(fullPath); err == nil {
		return fmt.Errorf("expected file %q not to exist", fullPath)
	}
	return nil
}

func theFileContainsText(ctx context.Context, path, text string) error {
	state := getState(ctx)
	data, err := os.ReadFile(filepath.Join(state.homeDir, filepath.FromSlash(path)))
	if err != nil {
		return err
	}
	if !strings.Contains(string(data), text) {
		return fmt.Errorf("expected %s to contain %q, got:\n%s", path, text, data)
	}
	return nil
}

func theActiveVersionIsRecordedAs(ctx context.Context, flavor, version string) error {
	return theFileContainsText(ctx, "config.toml", fmt.Sprintf("%s = %q", flavor, version))
}

func theCatalogServedDownloads(ctx context.Context, n int) error {
	state := getState(ctx)
	if got := state.catalog.JarHits(); got != n {
		return fmt.Errorf("expected %d artifact downloads, got %d", n, got)
	}
	return nil
}
