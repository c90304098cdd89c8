package catalog

import (
	"context"
	"net/http"
	"path"

	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
	"github.com/tsukumogami/mvm/internal/log"
)

const vanillaOp = "vanilla catalog"

// vanillaManifest mirrors the parts of version_manifest.json mvm reads.
type vanillaManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []vanillaEntry `json:"versions"`
}

type vanillaEntry struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// vanillaDetail is the per-version document the manifest links to.
type vanillaDetail struct {
	Downloads struct {
		Server *struct {
			URL  string `json:"url"`
			Size int64  `json:"size"`
		} `json:"server"`
	} `json:"downloads"`
}

// VanillaResolver resolves versions against the Mojang launcher manifest.
type VanillaResolver struct {
	client      *http.Client
	manifestURL string
	logger      log.Logger
}

// NewVanillaResolver creates a resolver reading manifestURL.
func NewVanillaResolver(client *http.Client, manifestURL string, logger log.Logger) *VanillaResolver {
	if logger == nil {
		logger = log.NewNoop()
	}
	return &VanillaResolver{client: client, manifestURL: manifestURL, logger: logger}
}

func (r *VanillaResolver) Flavor() flavor.Flavor { return flavor.Vanilla }

func (r *VanillaResolver) SourceDescription() string { return "mojang:" + r.manifestURL }

func (r *VanillaResolver) fetchManifest(ctx context.Context) (*vanillaManifest, error) {
	var m vanillaManifest
	if err := getJSON(ctx, r.client, r.manifestURL, vanillaOp, "fetch version manifest", &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Latest returns the manifest's declared latest release. Snapshots are
// never considered.
func (r *VanillaResolver) Latest(ctx context.Context) (string, error) {
	m, err := r.fetchManifest(ctx)
	if err != nil {
		return "", err
	}
	if m.Latest.Release == "" {
		return "", errs.New(errs.KindDataIntegrity, vanillaOp, "manifest declares no latest release")
	}
	return m.Latest.Release, nil
}

// ResolveDownload resolves token to the server.jar URL of a manifest entry.
// The manifest is fetched once for "latest" and once more for the version
// list; the two fetches may fail independently.
func (r *VanillaResolver) ResolveDownload(ctx context.Context, token string) (*DownloadLink, error) {
	if token == "" {
		return nil, errs.New(errs.KindValidation, vanillaOp, "empty version")
	}

	id := token
	if token == Latest {
		latest, err := r.Latest(ctx)
		if err != nil {
			return nil, err
		}
		r.logger.Info("resolved latest vanilla release", "version", latest)
		id = latest
	}

	m, err := r.fetchManifest(ctx)
	if err != nil {
		return nil, err
	}
	if len(m.Versions) == 0 {
		return nil, errs.New(errs.KindDataIntegrity, vanillaOp, "manifest lists no versions")
	}

	entry := findEntry(m.Versions, id)
	if entry == nil {
		return nil, errs.Newf(errs.KindNotFound, vanillaOp, "version %s not found", id)
	}

	var detail vanillaDetail
	if err := getJSON(ctx, r.client, entry.URL, vanillaOp, "fetch details for "+id, &detail); err != nil {
		return nil, err
	}
	server := detail.Downloads.Server
	if server == nil || server.URL == "" {
		// Pre-1.2.5 releases shipped no standalone server.
		return nil, errs.Newf(errs.KindNotFound, vanillaOp, "version %s has no server download", id)
	}

	r.logger.Debug("vanilla download resolved", "version", id, "url", server.URL)
	return &DownloadLink{
		URL:      server.URL,
		Version:  id,
		FileName: path.Base(server.URL),
		Size:     server.Size,
	}, nil
}

// ListVersions returns every manifest id in manifest order, which Mojang
// publishes newest first.
func (r *VanillaResolver) ListVersions(ctx context.Context) ([]string, error) {
	m, err := r.fetchManifest(ctx)
	if err != nil {
		return nil, err
	}
	if len(m.Versions) == 0 {
		return nil, errs.New(errs.KindDataIntegrity, vanillaOp, "manifest lists no versions")
	}
	ids := make([]string, 0, len(m.Versions))
	for _, v := range m.Versions {
		ids = append(ids, v.ID)
	}
	return ids, nil
}

// findEntry returns the first entry with the given id.
func findEntry(entries []vanillaEntry, id string) *vanillaEntry {
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i]
		}
	}
	return nil
}
