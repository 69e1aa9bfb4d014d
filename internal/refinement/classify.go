package refinement

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
)

// Classification is the outcome of mapping a failure to a kind, a fixed
// user-facing message and an HTTP status.
type Classification struct {
	Kind        ErrorKind
	UserMessage string
	Status      int
}

var userMessages = map[ErrorKind]string{
	KindQuotaExhausted:           "The AI service account has insufficient balance. Please add credits or configure an alternative API.",
	KindRateLimited:              "The AI service is currently experiencing high demand. Please try again in a few minutes.",
	KindMisconfiguredCredentials: "There seems to be an issue with the API key configuration.",
	KindUpstreamBadResponse:      "The AI service returned an unexpected response. Our team has been notified.",
	KindMalformedResponse:        "The AI service returned an unexpected response. Our team has been notified.",
	KindModelUnavailable:         "The configured AI model is not available. Please check the API version configuration.",
	KindTransport:                "The AI service could not be reached.",
	KindTimeout:                  "The AI service took too long to respond.",
	KindUnknown:                  "I couldn't refine your prompt due to a technical issue.",
}

var statusCodes = map[ErrorKind]int{
	KindQuotaExhausted:           http.StatusServiceUnavailable,
	KindRateLimited:              http.StatusTooManyRequests,
	KindMisconfiguredCredentials: http.StatusInternalServerError,
	KindUpstreamBadResponse:      http.StatusBadGateway,
	KindMalformedResponse:        http.StatusBadGateway,
	KindModelUnavailable:         http.StatusServiceUnavailable,
	KindTransport:                http.StatusBadGateway,
	KindTimeout:                  http.StatusGatewayTimeout,
	KindUnknown:                  http.StatusInternalServerError,
}

var modelNotFoundPattern = regexp.MustCompile(`models/\S+ is not found`)

// ClassificationFor returns the fixed classification for kind.
func ClassificationFor(kind ErrorKind) Classification {
	msg, ok := userMessages[kind]
	if !ok {
		kind = KindUnknown
		msg = userMessages[KindUnknown]
	}
	return Classification{
		Kind:        kind,
		UserMessage: msg,
		Status:      statusCodes[kind],
	}
}

// KindForStatus maps an upstream HTTP status to a kind.
func KindForStatus(status int) (ErrorKind, bool) {
	switch status {
	case http.StatusNotFound:
		return KindModelUnavailable, true
	case http.StatusTooManyRequests:
		return KindRateLimited, true
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindMisconfiguredCredentials, true
	case http.StatusPaymentRequired:
		return KindQuotaExhausted, true
	default:
		return "", false
	}
}

// ClassifyMessage maps an error message to a kind by substring. The checks
// run in a fixed order and the first match wins.
func ClassifyMessage(msg string) ErrorKind {
	switch {
	case strings.Contains(msg, "insufficient balance"), strings.Contains(msg, "Insufficient Balance"):
		return KindQuotaExhausted
	case strings.Contains(msg, "rate limit"):
		return KindRateLimited
	case strings.Contains(msg, "API key"):
		return KindMisconfiguredCredentials
	case strings.Contains(msg, "invalid response"):
		return KindUpstreamBadResponse
	case modelNotFoundPattern.MatchString(msg),
		strings.Contains(msg, "not found for API version"),
		strings.Contains(msg, "model not found"):
		return KindModelUnavailable
	default:
		return KindUnknown
	}
}

// Classify maps err to a Classification. Structured information wins over
// message text: a ProviderError's kind or status is used first, then context
// deadline and malformed-output sentinels, and only then ClassifyMessage.
func Classify(err error) Classification {
	if err == nil {
		return ClassificationFor(KindUnknown)
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		if providerErr.Kind != "" && providerErr.Kind != KindUnknown {
			return ClassificationFor(providerErr.Kind)
		}
		if kind, ok := KindForStatus(providerErr.StatusCode); ok {
			return ClassificationFor(kind)
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ClassificationFor(KindTimeout)
	case errors.Is(err, ErrMalformedResponse):
		return ClassificationFor(KindMalformedResponse)
	case errors.Is(err, ErrContentBlocked):
		return ClassificationFor(KindUpstreamBadResponse)
	}

	return ClassificationFor(ClassifyMessage(err.Error()))
}
