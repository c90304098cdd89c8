// Package errs defines the error taxonomy shared by every mvm layer.
//
// Callers wrap with fmt.Errorf("...: %w", err) freely. The Kind of the
// outermost *Error in the chain is recovered with Is or KindOf.
package errs

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Kind classifies failures for reporting and exit codes.
type Kind int

const (
	// KindNetwork is a generic transport failure or an unexpected HTTP status.
	KindNetwork Kind = iota
	// KindTimeout indicates a request deadline was exceeded
	KindTimeout
	// KindDNS indicates host name resolution failed
	KindDNS
	// KindConnection indicates a refused or reset connection
	KindConnection
	// KindTLS indicates certificate or handshake problems
	KindTLS
	// KindNotFound means a version, artifact or record does not exist.
	KindNotFound
	// KindSerialization means a document could not be decoded or encoded.
	KindSerialization
	// KindDataIntegrity means a remote catalog returned structurally valid
	// but semantically empty data (no versions, no builds).
	KindDataIntegrity
	// KindConfiguration means the environment cannot support mvm, e.g. no
	// home directory.
	KindConfiguration
	// KindValidation means the caller supplied an unusable argument.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindDNS:
		return "dns"
	case KindConnection:
		return "connection"
	case KindTLS:
		return "tls"
	case KindNotFound:
		return "not found"
	case KindSerialization:
		return "serialization"
	case KindDataIntegrity:
		return "data integrity"
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// IsNetwork reports whether k belongs to the network family.
func (k Kind) IsNetwork() bool {
	switch k {
	case KindNetwork, KindTimeout, KindDNS, KindConnection, KindTLS:
		return true
	}
	return false
}

// Error is the structured error carried through mvm.
type Error struct {
	Kind    Kind
	Op      string // Component or operation that failed, e.g. "paper catalog"
	Message string // Human-readable error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error for error chain support
func (e *Error) Unwrap() error {
	return e.Err
}

// Suggestion returns an actionable hint for the user, or "".
func (e *Error) Suggestion() string {
	switch e.Kind {
	case KindTimeout:
		return "Check your internet connection and try again, or raise MVM_API_TIMEOUT"
	case KindDNS:
		return "Check your DNS settings and internet connection"
	case KindConnection:
		return "The service may be down or blocked. Check if you can access it in a browser"
	case KindTLS:
		return "There may be a certificate issue. Check your system time is correct"
	case KindNetwork:
		return "Check your internet connection and try again"
	case KindNotFound:
		return "Run 'mvm versions' to see what the catalog publishes, or 'mvm list' for installed versions"
	case KindDataIntegrity:
		return "The upstream catalog returned no usable data; try again later"
	case KindConfiguration:
		return "Set MVM_HOME to an existing directory"
	default:
		return ""
	}
}

// New creates an *Error without an underlying cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Newf is New with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error around err.
func Wrap(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// WrapNetwork wraps a transport error with the most specific network Kind.
func WrapNetwork(err error, op, message string) *Error {
	return &Error{Kind: Classify(err), Op: op, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given Kind. KindNetwork matches the
// whole network family.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	if kind == KindNetwork {
		return k.IsNetwork()
	}
	return k == kind
}

// Classify examines a transport error and returns the most specific network Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindNetwork
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindNetwork
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return KindTimeout
		}
		return KindDNS
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return KindTLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return KindTimeout
		}
		var innerDNS *net.DNSError
		if errors.As(opErr.Err, &innerDNS) {
			return KindDNS
		}
		return KindConnection
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return KindTimeout
		}
		msg := urlErr.Err.Error()
		if strings.Contains(msg, "certificate") ||
			strings.Contains(msg, "tls") ||
			strings.Contains(msg, "x509") {
			return KindTLS
		}
		return Classify(urlErr.Err)
	}

	return KindNetwork
}
