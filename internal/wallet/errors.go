package wallet

import (
	"fmt"
	"strings"
)

// ErrorKind classifies failures reported by wallet providers. Providers
// return loosely shaped errors (numeric codes, free-form messages), so the
// boundary collapses them into a closed set the rest of the code can
// switch on.
type ErrorKind int

const (
	// KindUnknown covers anything the boundary could not classify.
	KindUnknown ErrorKind = iota

	// KindUserRejected means the user declined the signature or connection
	// prompt (provider code 4001).
	KindUserRejected

	// KindTimeout means the provider did not respond within the deadline.
	KindTimeout

	// KindProviderError covers provider-side failures such as a pending
	// request already in flight (provider code -32002).
	KindProviderError
)

func (k ErrorKind) String() string {
	switch k {
	case KindUserRejected:
		return "user_rejected"
	case KindTimeout:
		return "timeout"
	case KindProviderError:
		return "provider_error"
	default:
		return "unknown"
	}
}

// Error is a classified wallet-provider failure.
type Error struct {
	Kind ErrorKind
	// Code is the provider's numeric error code, zero when absent.
	Code int
	// Message is the provider's original message, kept for logs.
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("wallet error: %s", e.Kind)
	}
	return fmt.Sprintf("wallet error (%s): %s", e.Kind, e.Message)
}

// ClassifyProviderError maps a provider error code and message into a
// wallet [Error]. Code 4001 is the EIP-1193 user-rejection code; -32002
// signals a request already pending in the provider.
func ClassifyProviderError(code int, message string) *Error {
	kind := KindUnknown
	switch {
	case code == 4001:
		kind = KindUserRejected
	case code == -32002:
		kind = KindProviderError
	case containsFold(message, "timed out") || containsFold(message, "timeout"):
		kind = KindTimeout
	case containsFold(message, "cancel") || containsFold(message, "rejected"):
		kind = KindUserRejected
	}

	return &Error{Kind: kind, Code: code, Message: message}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
