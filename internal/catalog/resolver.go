// Package catalog resolves Minecraft server version tokens against the
// upstream catalogs: the Mojang launcher manifest for vanilla and the
// PaperMC builds API for paper.
//
// Each flavor is served by its own Resolver. The two protocols share no
// code beyond the JSON fetch helper; Client only dispatches. Nothing is
// cached: every call goes to the network.
package catalog

import (
	"context"

	"github.com/tsukumogami/mvm/internal/flavor"
)

// Latest is the token that asks the catalog for its newest published version.
const Latest = "latest"

// DownloadLink is a resolved artifact location.
type DownloadLink struct {
	URL      string // Artifact URL
	Version  string // Concrete version the URL belongs to (never "latest")
	Build    int    // Paper build number; 0 for vanilla
	FileName string // Upstream file name, informational
	Size     int64  // Advertised size in bytes, 0 when unknown
}

// Resolver is implemented once per server flavor.
type Resolver interface {
	// Flavor returns the flavor this resolver serves.
	Flavor() flavor.Flavor

	// Latest returns the newest published version id.
	Latest(ctx context.Context) (string, error)

	// ResolveDownload maps a literal version or Latest to a DownloadLink.
	ResolveDownload(ctx context.Context, token string) (*DownloadLink, error)

	// ListVersions returns published versions, newest first.
	ListVersions(ctx context.Context) ([]string, error)

	// SourceDescription names the upstream, e.g. "mojang:launchermeta".
	SourceDescription() string
}
