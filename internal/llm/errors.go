package llm

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// transientSignatures are the error fragments that mark a provider
// failure as likely to succeed on retry. Anything else is permanent
// and surfaces immediately.
var transientSignatures = []string{
	"rate limit",
	"rate_limit",
	"too many requests",
	"overload",
	"timeout",
	"timed out",
	"service unavailable",
	"429",
	"503",
}

// IsTransient reports whether err matches the transient-signature set
// (rate limiting, overload, timeout, 429, 503).
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// isGeminiTransient additionally understands the gRPC status codes the
// Gemini transport reports for quota exhaustion and overload.
func isGeminiTransient(err error) bool {
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded:
			return true
		}
	}
	return IsTransient(err)
}
