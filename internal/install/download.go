package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/tsukumogami/mvm/internal/config"
	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
	"github.com/tsukumogami/mvm/internal/httputil"
	"github.com/tsukumogami/mvm/internal/progress"
)

const (
	copyBufferSize = 32 * 1024
	tempPattern    = config.ArtifactName + ".part-*"
)

// Install downloads url into the artifact slot for (f, version) and returns
// the artifact path. It holds the per-version install lock for the whole
// transfer; if the artifact is present once the lock is held, nothing is
// downloaded. On failure no artifact is left behind, and the version
// directory is removed if this call created it.
func (s *Store) Install(ctx context.Context, f flavor.Flavor, version, url string) (string, error) {
	if err := ValidateVersionString(version); err != nil {
		return "", err
	}
	if url == "" {
		return "", errs.New(errs.KindValidation, "install", "download URL must not be empty")
	}

	if err := os.MkdirAll(s.config.VersionsDir(f), 0755); err != nil {
		return "", fmt.Errorf("failed to create versions directory: %w", err)
	}

	lock := NewFileLock(s.config.InstallLockPath(f, version))
	s.logger.Debug("acquiring install lock", "flavor", f.String(), "version", version)
	if err := lock.LockExclusive(); err != nil {
		return "", fmt.Errorf("failed to acquire install lock: %w", err)
	}
	defer lock.Unlock()

	dest := s.config.ArtifactPath(f, version)
	if s.IsInstalled(f, version) {
		s.logger.Debug("artifact already present", "path", dest)
		return dest, nil
	}

	versionDir := s.config.VersionDir(f, version)
	created := false
	if _, err := os.Stat(versionDir); os.IsNotExist(err) {
		created = true
	}
	if err := os.MkdirAll(versionDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create version directory: %w", err)
	}

	if err := s.download(ctx, url, versionDir, dest, f.String()+" "+version); err != nil {
		if created {
			os.RemoveAll(versionDir)
		}
		return "", fmt.Errorf("failed to install %s %s: %w", f, version, err)
	}

	s.logger.Info("installed", "flavor", f.String(), "version", version, "path", dest)
	return dest, nil
}

// download streams url into a temp file in dir and renames it to dest.
func (s *Store) download(ctx context.Context, url, dir, dest, label string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errs.Wrap(errs.KindValidation, "download", "invalid download URL "+url, err)
	}

	s.logger.Info("downloading", "url", url)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errs.WrapNetwork(err, "download", "request to "+url+" failed")
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp, "download", url); err != nil {
		// Any non-2xx response, 404 included, is a transfer failure here:
		// the catalog already vouched for the URL.
		return errs.Wrap(errs.KindNetwork, "download", "artifact request rejected", err)
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	var dst io.Writer = tmp
	var bar *progress.Writer
	if s.progress != nil {
		bar = progress.NewWriter(tmp, resp.ContentLength, s.progress, label)
		dst = bar
	}

	n, err := io.CopyBuffer(dst, resp.Body, make([]byte, copyBufferSize))
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return fmt.Errorf("failed to write %s: %w", tmpPath, err)
		}
		return errs.WrapNetwork(err, "download", "transfer from "+url+" interrupted")
	}
	if resp.ContentLength > 0 && n < resp.ContentLength {
		return errs.Newf(errs.KindNetwork, "download",
			"truncated transfer from %s: got %d of %d bytes", url, n, resp.ContentLength)
	}
	if n == 0 {
		return errs.Newf(errs.KindDataIntegrity, "download", "empty artifact from %s", url)
	}
	s.logger.Debug("download complete", "bytes", n)

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	committed = true
	return nil
}
