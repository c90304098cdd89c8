// Package install owns mvm's durable state: the per-flavor tree of
// installed server.jar artifacts and the active-version record.
//
// Layout under the root directory:
//
//	config.toml                         active-version record
//	config.toml.lock                    advisory lock for the record
//	<flavor>/versions/<v>/server.jar    installed artifact
//	<flavor>/versions/.<v>.lock         advisory lock for one install
package install

import (
	"io"
	"net/http"
	"os"

	"github.com/tsukumogami/mvm/internal/config"
	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
	"github.com/tsukumogami/mvm/internal/httputil"
	"github.com/tsukumogami/mvm/internal/log"
)

// Store manages installed artifacts under a root directory.
type Store struct {
	config     *config.Config
	state      *StateManager
	httpClient *http.Client
	logger     log.Logger
	progress   io.Writer
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets the client used for artifact downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		s.httpClient = c
	}
}

// WithLogger sets the store's logger.
func WithLogger(l log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithProgress draws a download progress bar on w. A nil writer disables it.
func WithProgress(w io.Writer) Option {
	return func(s *Store) {
		s.progress = w
	}
}

// New creates a Store rooted at cfg.HomeDir.
func New(cfg *config.Config, opts ...Option) *Store {
	s := &Store{
		config: cfg,
		state:  NewStateManager(cfg),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpClient == nil {
		s.httpClient = NewDownloadClient()
	}
	return s
}

// NewDownloadClient returns the client used for server.jar downloads. Its
// overall timeout follows MVM_DOWNLOAD_TIMEOUT.
func NewDownloadClient() *http.Client {
	return httputil.NewClient(httputil.ClientOptions{
		Timeout: config.GetDownloadTimeout(),
	})
}

// State returns the active-version record manager.
func (s *Store) State() *StateManager {
	return s.state
}

// Config returns the layout the store was created with.
func (s *Store) Config() *config.Config {
	return s.config
}

// IsInstalled reports whether the artifact for (f, version) exists.
func (s *Store) IsInstalled(f flavor.Flavor, version string) bool {
	if ValidateVersionString(version) != nil {
		return false
	}
	info, err := os.Stat(s.config.ArtifactPath(f, version))
	return err == nil && info.Mode().IsRegular()
}

// Locate returns the artifact path for (f, version), or a KindNotFound
// error if it is not installed.
func (s *Store) Locate(f flavor.Flavor, version string) (string, error) {
	if err := ValidateVersionString(version); err != nil {
		return "", err
	}
	if !s.IsInstalled(f, version) {
		return "", errs.Newf(errs.KindNotFound, "install",
			"%s version %s is not installed", f, version)
	}
	return s.config.ArtifactPath(f, version), nil
}
