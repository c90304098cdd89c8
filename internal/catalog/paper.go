package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
	"github.com/tsukumogami/mvm/internal/log"
)

const paperOp = "paper catalog"

type paperProject struct {
	Versions []string `json:"versions"`
}

type paperVersion struct {
	Builds []int `json:"builds"`
}

// PaperResolver resolves versions against the PaperMC v2 builds API.
type PaperResolver struct {
	client  *http.Client
	baseURL string // .../v2/projects/paper, no trailing slash
	logger  log.Logger
}

// NewPaperResolver creates a resolver rooted at the project endpoint.
func NewPaperResolver(client *http.Client, projectURL string, logger log.Logger) *PaperResolver {
	if logger == nil {
		logger = log.NewNoop()
	}
	return &PaperResolver{
		client:  client,
		baseURL: strings.TrimRight(projectURL, "/"),
		logger:  logger,
	}
}

func (r *PaperResolver) Flavor() flavor.Flavor { return flavor.Paper }

func (r *PaperResolver) SourceDescription() string { return "papermc:" + r.baseURL }

func (r *PaperResolver) fetchVersions(ctx context.Context) ([]string, error) {
	var p paperProject
	if err := getJSON(ctx, r.client, r.baseURL, paperOp, "fetch version list", &p); err != nil {
		return nil, err
	}
	if len(p.Versions) == 0 {
		return nil, errs.New(errs.KindDataIntegrity, paperOp, "project lists no versions")
	}
	return p.Versions, nil
}

// Latest returns the highest published version.
func (r *PaperResolver) Latest(ctx context.Context) (string, error) {
	versions, err := r.fetchVersions(ctx)
	if err != nil {
		return "", err
	}
	return newestVersion(versions), nil
}

// ResolveDownload resolves token to the jar of the highest build of the
// version. The constructed URL is not probed.
func (r *PaperResolver) ResolveDownload(ctx context.Context, token string) (*DownloadLink, error) {
	if token == "" {
		return nil, errs.New(errs.KindValidation, paperOp, "empty version")
	}

	version := token
	if token == Latest {
		latest, err := r.Latest(ctx)
		if err != nil {
			return nil, err
		}
		r.logger.Info("resolved latest paper version", "version", latest)
		version = latest
	}

	var pv paperVersion
	err := getJSON(ctx, r.client, r.versionURL(version), paperOp, "fetch builds for "+version, &pv)
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return nil, errs.Wrap(errs.KindNotFound, paperOp, fmt.Sprintf("version %s not found", version), err)
		}
		return nil, err
	}
	if len(pv.Builds) == 0 {
		return nil, errs.Newf(errs.KindDataIntegrity, paperOp, "version %s has no builds", version)
	}

	build := newestBuild(pv.Builds)
	name := fmt.Sprintf("paper-%s-%d.jar", version, build)
	link := fmt.Sprintf("%s/builds/%d/downloads/%s", r.versionURL(version), build, url.PathEscape(name))

	r.logger.Debug("paper download resolved", "version", version, "build", build, "url", link)
	return &DownloadLink{
		URL:      link,
		Version:  version,
		Build:    build,
		FileName: name,
	}, nil
}

// ListVersions returns the project's versions, newest first.
func (r *PaperResolver) ListVersions(ctx context.Context) ([]string, error) {
	versions, err := r.fetchVersions(ctx)
	if err != nil {
		return nil, err
	}
	return SortDescending(versions), nil
}

func (r *PaperResolver) versionURL(version string) string {
	return r.baseURL + "/versions/" + url.PathEscape(version)
}
