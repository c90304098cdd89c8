package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/httputil"
)

// maxCatalogResponse bounds catalog documents. The vanilla manifest is
// well under 1MB today.
const maxCatalogResponse = 16 * 1024 * 1024

// getJSON fetches rawURL and decodes the body into v. Transport failures
// become network-family errors, 404 becomes KindNotFound, other non-2xx
// statuses KindNetwork, and undecodable bodies KindSerialization.
func getJSON(ctx context.Context, client *http.Client, rawURL, op, what string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errs.Wrap(errs.KindConfiguration, op, "invalid catalog URL "+rawURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := client.Do(req)
	if err != nil {
		return errs.WrapNetwork(err, op, what)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp, op, what); err != nil {
		return err
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCatalogResponse)).Decode(v); err != nil {
		return errs.Wrap(errs.KindSerialization, op, what+": malformed response", err)
	}
	return nil
}
