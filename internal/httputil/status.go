package httputil

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tsukumogami/mvm/internal/errs"
)

// maxErrorBody bounds how much of an error response is quoted back.
const maxErrorBody = 512

// CheckStatus turns a non-2xx response into an *errs.Error. 404 maps to
// KindNotFound, everything else to KindNetwork. The body is not closed.
func CheckStatus(resp *http.Response, op, what string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	snippet := readSnippet(resp.Body)
	msg := fmt.Sprintf("%s: unexpected HTTP status %s", what, resp.Status)
	if snippet != "" {
		msg += " (" + snippet + ")"
	}

	if resp.StatusCode == http.StatusNotFound {
		return errs.New(errs.KindNotFound, op, msg)
	}
	return errs.New(errs.KindNetwork, op, msg)
}

func readSnippet(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	s := strings.TrimSpace(string(b))
	return strings.Join(strings.Fields(s), " ")
}
