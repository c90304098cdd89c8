package install

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsukumogami/mvm/internal/catalog/catalogtest"
	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
	"github.com/tsukumogami/mvm/internal/testutil"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *catalogtest.Server) {
	t.Helper()
	srv := catalogtest.New()
	t.Cleanup(srv.Close)
	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	return New(testutil.NewTestConfig(t), opts...), srv
}

func jarURL(srv *catalogtest.Server, version string) string {
	return srv.URL + "/objects/vanilla/" + version + "/server.jar"
}

func TestStore_InstallAndLocate(t *testing.T) {
	s, srv := newTestStore(t)

	path, err := s.Install(context.Background(), flavor.Vanilla, "1.21.4", jarURL(srv, "1.21.4"))
	require.NoError(t, err)

	assert.True(t, s.IsInstalled(flavor.Vanilla, "1.21.4"))
	assert.False(t, s.IsInstalled(flavor.Paper, "1.21.4"))
	assert.True(t, strings.HasSuffix(path, filepath.Join("vanilla", "versions", "1.21.4", "server.jar")), path)

	located, err := s.Locate(flavor.Vanilla, "1.21.4")
	require.NoError(t, err)
	assert.Equal(t, path, located)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, srv.Jar, data)
}

func TestStore_InstallIsIdempotent(t *testing.T) {
	s, srv := newTestStore(t)
	ctx := context.Background()

	path, err := s.Install(ctx, flavor.Vanilla, "1.20.4", jarURL(srv, "1.20.4"))
	require.NoError(t, err)
	before, err := os.Stat(path)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, err = s.Install(ctx, flavor.Vanilla, "1.20.4", jarURL(srv, "1.20.4"))
	require.NoError(t, err)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.Equal(t, 1, srv.JarHits())
}

func TestStore_ConcurrentInstallsDownloadOnce(t *testing.T) {
	s, srv := newTestStore(t)
	other := New(s.config, WithHTTPClient(srv.Client()))

	var wg sync.WaitGroup
	for _, st := range []*Store{s, other, s, other} {
		wg.Add(1)
		go func(st *Store) {
			defer wg.Done()
			_, err := st.Install(context.Background(), flavor.Paper, "1.21.4", jarURL(srv, "1.21.4"))
			assert.NoError(t, err)
		}(st)
	}
	wg.Wait()

	assert.Equal(t, 1, srv.JarHits())
	assert.True(t, s.IsInstalled(flavor.Paper, "1.21.4"))
}

func TestStore_InstallNon2xxLeavesNothing(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		s, srv := newTestStore(t)
		srv.Set(func(s *catalogtest.Server) { s.JarStatus = status })

		_, err := s.Install(context.Background(), flavor.Vanilla, "1.21.4", jarURL(srv, "1.21.4"))
		require.Error(t, err, "status %d", status)
		assert.True(t, errs.Is(err, errs.KindNetwork), "status %d: got %v", status, err)

		assert.False(t, s.IsInstalled(flavor.Vanilla, "1.21.4"))
		assert.NoDirExists(t, s.config.VersionDir(flavor.Vanilla, "1.21.4"))
	}
}

func TestStore_InstallTruncatedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4096")
		w.WriteHeader(http.StatusOK)
		w.Write(bytes.Repeat([]byte("x"), 100))
	}))
	defer ts.Close()

	s := New(testutil.NewTestConfig(t), WithHTTPClient(ts.Client()))
	_, err := s.Install(context.Background(), flavor.Vanilla, "1.21.4", ts.URL+"/server.jar")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindNetwork), "got %v", err)
	assert.False(t, s.IsInstalled(flavor.Vanilla, "1.21.4"))
	assert.NoDirExists(t, s.config.VersionDir(flavor.Vanilla, "1.21.4"))
}

func TestStore_InstallEmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	s := New(testutil.NewTestConfig(t), WithHTTPClient(ts.Client()))
	_, err := s.Install(context.Background(), flavor.Paper, "1.21.4", ts.URL+"/server.jar")
	assert.True(t, errs.Is(err, errs.KindDataIntegrity), "got %v", err)
	assert.False(t, s.IsInstalled(flavor.Paper, "1.21.4"))
}

func TestStore_InstallCancelled(t *testing.T) {
	s, srv := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Install(ctx, flavor.Vanilla, "1.21.4", jarURL(srv, "1.21.4"))
	require.Error(t, err)
	assert.False(t, s.IsInstalled(flavor.Vanilla, "1.21.4"))
}

func TestStore_FailedInstallKeepsExistingDir(t *testing.T) {
	s, srv := newTestStore(t)
	dir := s.config.VersionDir(flavor.Vanilla, "1.21.4")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eula.txt"), []byte("eula=true\n"), 0644))
	srv.Set(func(s *catalogtest.Server) { s.JarStatus = http.StatusBadGateway })

	_, err := s.Install(context.Background(), flavor.Vanilla, "1.21.4", jarURL(srv, "1.21.4"))
	require.Error(t, err)

	assert.FileExists(t, filepath.Join(dir, "eula.txt"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestStore_InstallRejectsTraversal(t *testing.T) {
	s, srv := newTestStore(t)

	_, err := s.Install(context.Background(), flavor.Vanilla, "../../etc", jarURL(srv, "1.21.4"))
	assert.True(t, errs.Is(err, errs.KindValidation), "got %v", err)
	assert.Equal(t, 0, srv.TotalHits())
}

func TestStore_LocateMissing(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Locate(flavor.Paper, "1.21.4")
	assert.True(t, errs.Is(err, errs.KindNotFound), "got %v", err)
}

func TestStore_DirectoryWithoutJarIsNotInstalled(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.config.VersionDir(flavor.Vanilla, "1.21.4"), 0755))

	assert.False(t, s.IsInstalled(flavor.Vanilla, "1.21.4"))
	_, err := s.Locate(flavor.Vanilla, "1.21.4")
	assert.True(t, errs.Is(err, errs.KindNotFound), "got %v", err)
}

func TestStore_Remove(t *testing.T) {
	s, _ := newTestStore(t)
	testutil.PlantArtifact(t, s.config, flavor.Paper, "1.20.4", []byte("jar"))
	require.NoError(t, s.state.WriteActive(flavor.Paper, "1.20.4"))

	require.NoError(t, s.Remove(flavor.Paper, "1.20.4"))
	assert.False(t, s.IsInstalled(flavor.Paper, "1.20.4"))
	assert.NoDirExists(t, s.config.VersionDir(flavor.Paper, "1.20.4"))

	active, err := s.state.ReadActive(flavor.Paper)
	require.NoError(t, err)
	assert.Equal(t, "1.20.4", active, "record must not change on removal")
}

func TestStore_RemoveMissing(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Remove(flavor.Vanilla, "1.21.4")
	assert.True(t, errs.Is(err, errs.KindNotFound), "got %v", err)
}

func TestStore_List(t *testing.T) {
	s, _ := newTestStore(t)

	versions, err := s.List(flavor.Vanilla)
	require.NoError(t, err)
	assert.Empty(t, versions)

	for _, v := range []string{"1.9.4", "1.21.4", "1.20.4"} {
		testutil.PlantArtifact(t, s.config, flavor.Vanilla, v, []byte("jar"))
	}
	testutil.PlantArtifact(t, s.config, flavor.Paper, "1.8.9", []byte("jar"))
	require.NoError(t, os.MkdirAll(s.config.VersionDir(flavor.Vanilla, "1.19"), 0755))

	versions, err = s.List(flavor.Vanilla)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.21.4", "1.20.4", "1.9.4"}, versions)
}

func TestStore_ProgressOutput(t *testing.T) {
	var out bytes.Buffer
	s, srv := newTestStore(t, WithProgress(&out))

	_, err := s.Install(context.Background(), flavor.Vanilla, "1.21.4", jarURL(srv, "1.21.4"))
	require.NoError(t, err)
	assert.NotEmpty(t, out.String())
}
