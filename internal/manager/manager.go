// Package manager implements mvm's user-level operations on top of the
// catalog and the install store: install, use, which, uninstall, list and
// available.
package manager

import (
	"context"
	"fmt"

	"github.com/tsukumogami/mvm/internal/catalog"
	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
	"github.com/tsukumogami/mvm/internal/install"
	"github.com/tsukumogami/mvm/internal/log"
)

// Recent is the token that refers to the version recorded as active.
const Recent = "recent"

// Catalog resolves version tokens to artifacts. *catalog.Client
// implements it.
type Catalog interface {
	ResolveDownload(ctx context.Context, f flavor.Flavor, token string) (*catalog.DownloadLink, error)
	ListVersions(ctx context.Context, f flavor.Flavor) ([]string, error)
}

// Result describes the outcome of Install or Use.
type Result struct {
	Flavor     flavor.Flavor
	Version    string // Concrete version, never a sentinel
	Path       string // Artifact path
	Downloaded bool   // False when the artifact was already present
}

// InstalledVersion is one entry of List.
type InstalledVersion struct {
	Flavor  flavor.Flavor
	Version string
	Path    string
	Active  bool
}

// Manager coordinates the catalog and the install store.
type Manager struct {
	catalog Catalog
	store   *install.Store
	logger  log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l log.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// New creates a Manager.
func New(cat Catalog, store *install.Store, opts ...Option) *Manager {
	m := &Manager{
		catalog: cat,
		store:   store,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying install store.
func (m *Manager) Store() *install.Store {
	return m.store
}

// Install makes the requested version present on disk. A literal version
// that is already installed is returned without touching the network.
func (m *Manager) Install(ctx context.Context, f flavor.Flavor, token string) (*Result, error) {
	if token == Recent {
		return nil, errs.New(errs.KindValidation, "install",
			"'recent' cannot be installed; name a version or use 'latest'")
	}
	if token == "" {
		return nil, errs.New(errs.KindValidation, "install", "version must not be empty")
	}

	if token != catalog.Latest && m.store.IsInstalled(f, token) {
		path, err := m.store.Locate(f, token)
		if err != nil {
			return nil, err
		}
		m.logger.Debug("already installed", "flavor", f.String(), "version", token)
		return &Result{Flavor: f, Version: token, Path: path}, nil
	}

	link, err := m.catalog.ResolveDownload(ctx, f, token)
	if err != nil {
		return nil, err
	}
	m.logger.Info("resolved", "flavor", f.String(), "token", token, "version", link.Version, "url", link.URL)

	if m.store.IsInstalled(f, link.Version) {
		path, err := m.store.Locate(f, link.Version)
		if err != nil {
			return nil, err
		}
		return &Result{Flavor: f, Version: link.Version, Path: path}, nil
	}

	path, err := m.store.Install(ctx, f, link.Version, link.URL)
	if err != nil {
		return nil, err
	}
	return &Result{Flavor: f, Version: link.Version, Path: path, Downloaded: true}, nil
}

// Use installs the requested version if needed and records it as active
// for f. The record is written only after the artifact is in place.
func (m *Manager) Use(ctx context.Context, f flavor.Flavor, token string) (*Result, error) {
	if token == Recent {
		return nil, errs.New(errs.KindValidation, "use",
			"'recent' is already the active version; name a version or use 'latest'")
	}

	res, err := m.Install(ctx, f, token)
	if err != nil {
		return nil, err
	}
	if err := m.store.State().WriteActive(f, res.Version); err != nil {
		return nil, fmt.Errorf("failed to record active version: %w", err)
	}
	m.logger.Info("activated", "flavor", f.String(), "version", res.Version)
	return res, nil
}

// Which returns the artifact path for token. Recent is looked up in the
// active-version record; any other token, "latest" included, is taken
// literally.
func (m *Manager) Which(ctx context.Context, f flavor.Flavor, token string) (string, error) {
	version := token
	if token == Recent {
		active, err := m.store.State().ReadActive(f)
		if err != nil {
			return "", err
		}
		if active == "" {
			return "", errs.Newf(errs.KindNotFound, "which",
				"no active %s version; run 'mvm use <version>' first", f)
		}
		version = active
	}
	return m.store.Locate(f, version)
}

// Uninstall removes an installed version. The active-version record is
// left as is, so Which(recent) reports NotFound afterwards if the removed
// version was active.
func (m *Manager) Uninstall(ctx context.Context, f flavor.Flavor, version string) error {
	if version == Recent || version == catalog.Latest {
		return errs.Newf(errs.KindValidation, "uninstall",
			"'%s' cannot be uninstalled; name a concrete version", version)
	}
	return m.store.Remove(f, version)
}

// List returns the installed versions of f, newest first, marking the one
// recorded as active.
func (m *Manager) List(ctx context.Context, f flavor.Flavor) ([]InstalledVersion, error) {
	versions, err := m.store.List(f)
	if err != nil {
		return nil, err
	}

	active, err := m.store.State().ReadActive(f)
	if err != nil && !errs.Is(err, errs.KindNotFound) {
		return nil, err
	}

	out := make([]InstalledVersion, 0, len(versions))
	for _, v := range versions {
		path, err := m.store.Locate(f, v)
		if err != nil {
			continue
		}
		out = append(out, InstalledVersion{
			Flavor:  f,
			Version: v,
			Path:    path,
			Active:  v == active,
		})
	}
	return out, nil
}

// Available returns the versions the catalog publishes for f, newest first.
func (m *Manager) Available(ctx context.Context, f flavor.Flavor) ([]string, error) {
	return m.catalog.ListVersions(ctx, f)
}
