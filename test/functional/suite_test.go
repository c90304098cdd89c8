package functional

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/cucumber/godog"

	"github.com/tsukumogami/mvm/internal/catalog/catalogtest"
)

type stateKeyType struct{}

var stateKey = stateKeyType{}

type testState struct {
	homeDir  string
	binPath  string
	catalog  *catalogtest.Server
	stdout   string
	stderr   string
	exitCode int
}

func getState(ctx context.Context) *testState {
	if s, ok := ctx.Value(stateKey).(*testState); ok {
		return s
	}
	return nil
}

func setState(ctx context.Context, s *testState) context.Context {
	return context.WithValue(ctx, stateKey, s)
}

func TestFeatures(t *testing.T) {
	binPath := os.Getenv("MVM_TEST_BINARY")
	if binPath == "" {
		t.Skip("MVM_TEST_BINARY not set; build cmd/mvm and point MVM_TEST_BINARY at it")
	}

	// Resolve to absolute path since go test changes the working directory
	absBin, err := filepath.Abs(binPath)
	if err != nil {
		t.Fatalf("resolving binary path: %v", err)
	}
	binPath = absBin

	opts := &godog.Options{
		Format:   "pretty",
		Paths:    []string{"features"},
		TestingT: t,
	}
	if tags := os.Getenv("MVM_TEST_TAGS"); tags != "" {
		opts.Tags = tags
	}

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			initializeScenario(ctx, binPath)
		},
		Options: opts,
	}
	if suite.Run() != 0 {
		t.Fatal("functional tests failed")
	}
}

func initializeScenario(ctx *godog.ScenarioContext, binPath string) {
	// Every scenario gets its own root directory and fake catalog.
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		homeDir, err := os.MkdirTemp("", "mvm-functional-*")
		if err != nil {
			return ctx, err
		}

		state := &testState{
			homeDir: homeDir,
			binPath: binPath,
			catalog: catalogtest.New(),
		}
		return setState(ctx, state), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if state := getState(ctx); state != nil {
			state.catalog.Close()
			os.RemoveAll(state.homeDir)
		}
		return ctx, nil
	})

	// Environment steps
	ctx.Step(`^a clean mvm environment$`, aCleanMvmEnvironment)
	ctx.Step(`^the artifact server answers (\d+)$`, respondsWithStatus(func(s *catalogtest.Server, code int) {
		s.JarStatus = code
	}))
	ctx.Step(`^the vanilla manifest answers (\d+)$`, respondsWithStatus(func(s *catalogtest.Server, code int) {
		s.ManifestStatus = code
	}))
	ctx.Step(`^the paper catalog publishes no versions$`, thePaperCatalogPublishesNoVersions)
	ctx.Step(`^the file "([^"]*)" contains "([^"]*)"$`, theFileContainsText)
	ctx.Step(`^the active (vanilla|paper) version is recorded as "([^"]*)"$`, theActiveVersionIsRecordedAs)

	// Command steps
	ctx.Step(`^I run "([^"]*)"$`, iRun)

	// Assertion steps
	ctx.Step(`^the exit code is (\d+)$`, theExitCodeIs)
	ctx.Step(`^the exit code is not (\d+)$`, theExitCodeIsNot)
	ctx.Step(`^the output contains "([^"]*)"$`, theOutputContains)
	ctx.Step(`^the output does not contain "([^"]*)"$`, theOutputDoesNotContain)
	ctx.Step(`^the output is the path "([^"]*)"$`, theOutputIsThePath)
	ctx.Step(`^the error output contains "([^"]*)"$`, theErrorOutputContains)
	ctx.Step(`^the file "([^"]*)" exists$`, theFileExists)
	ctx.Step(`^the file "([^"]*)" does not exist$`, theFileDoesNotExist)
	ctx.Step(`^the catalog served (\d+) downloads?$`, theCatalogServedDownloads)
}

// respondsWithStatus builds a step that makes part of the fake catalog
// fail with the given HTTP status.
func respondsWithStatus(set func(*catalogtest.Server, int)) func(context.Context, int) error {
	return func(ctx context.Context, code int) error {
		state := getState(ctx)
		if http.StatusText(code) == "" {
			return fmt.Errorf("unknown HTTP status %d", code)
		}
		state.catalog.Set(func(s *catalogtest.Server) { set(s, code) })
		return nil
	}
}
