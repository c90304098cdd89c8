// Package errmsg renders errors for the terminal with possible causes and
// suggestions.
package errmsg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
)

// ErrorContext provides additional context for error formatting
type ErrorContext struct {
	Flavor  flavor.Flavor
	Version string // The version token the user asked for
}

// Fprint writes the formatted error to w, prefixed with "Error: ".
func Fprint(w io.Writer, err error, ctx *ErrorContext) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", strings.TrimRight(Format(err, ctx), "\n"))
}

// Format returns a formatted error message with possible causes and suggestions.
// The context parameter is optional - pass nil for generic formatting.
func Format(err error, ctx *ErrorContext) string {
	if err == nil {
		return ""
	}

	kind, ok := errs.KindOf(err)
	if !ok {
		if errors.Is(err, os.ErrPermission) || isPermissionError(err.Error()) {
			return formatPermissionError(err.Error())
		}
		return err.Error()
	}

	switch {
	case kind.IsNetwork():
		return formatNetworkError(err, kind)
	case kind == errs.KindNotFound:
		return formatNotFoundError(err, ctx)
	case kind == errs.KindDataIntegrity:
		return formatDataIntegrityError(err)
	case kind == errs.KindSerialization:
		return formatSerializationError(err)
	case kind == errs.KindConfiguration:
		return formatConfigurationError(err)
	}
	return err.Error()
}

func formatNetworkError(err error, kind errs.Kind) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	switch kind {
	case errs.KindTimeout:
		sb.WriteString("  - Request timed out\n")
		sb.WriteString("  - Slow or unstable network connection\n")
	case errs.KindDNS:
		sb.WriteString("  - DNS resolution failure\n")
	case errs.KindTLS:
		sb.WriteString("  - Certificate problem or incorrect system clock\n")
	default:
		sb.WriteString("  - Network connectivity issue\n")
		sb.WriteString("  - Service temporarily unavailable\n")
	}
	sb.WriteString("  - Firewall or proxy blocking the connection\n")

	sb.WriteString("\nSuggestions:\n")
	writeSuggestion(&sb, err)
	sb.WriteString("  - Try again in a few minutes\n")

	return sb.String()
}

func formatNotFoundError(err error, ctx *ErrorContext) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - The version does not exist or is not installed\n")
	sb.WriteString("  - Typo in the version\n")

	sb.WriteString("\nSuggestions:\n")
	if ctx != nil {
		sb.WriteString(fmt.Sprintf("  - Run 'mvm versions%s' to see published versions\n", paperFlag(ctx.Flavor)))
		sb.WriteString(fmt.Sprintf("  - Run 'mvm list%s' to see installed versions\n", paperFlag(ctx.Flavor)))
	} else {
		writeSuggestion(&sb, err)
	}
	sb.WriteString("  - Use 'latest' to get the most recent version\n")

	return sb.String()
}

func formatDataIntegrityError(err error) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - The upstream catalog returned an empty listing\n")

	sb.WriteString("\nSuggestions:\n")
	writeSuggestion(&sb, err)

	return sb.String()
}

func formatSerializationError(err error) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - A local file such as config.toml was edited by hand and is no longer valid TOML\n")
	sb.WriteString("  - The upstream catalog changed its response format\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Fix or delete the file named above\n")

	return sb.String()
}

func formatConfigurationError(err error) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nSuggestions:\n")
	writeSuggestion(&sb, err)

	return sb.String()
}

func formatPermissionError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg)
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - Insufficient permissions on the $MVM_HOME directory\n")
	sb.WriteString("  - File or directory owned by different user\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Check permissions on ~/.mvm directory\n")
	sb.WriteString("  - Ensure you own the mvm directories: ls -la ~/.mvm\n")

	return sb.String()
}

func writeSuggestion(sb *strings.Builder, err error) {
	var e *errs.Error
	if errors.As(err, &e) {
		if s := e.Suggestion(); s != "" {
			sb.WriteString("  - " + s + "\n")
		}
	}
}

func paperFlag(f flavor.Flavor) string {
	if f == flavor.Paper {
		return " --paper"
	}
	return ""
}

// isPermissionError checks if the error message indicates a permission issue
func isPermissionError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "operation not permitted")
}
