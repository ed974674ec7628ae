// Package redact provides utilities for masking sensitive information in
// strings before they are logged or returned in error responses. Upstream AI
// providers echo request credentials back in error bodies, so every string
// derived from an upstream error must pass through this package on its way
// to a log line or a client-visible message.
package redact

import "regexp"

// MaskedPlaceholder replaces every API-key-shaped substring.
const MaskedPlaceholder = "***MASKED***"

// Precompiled masking patterns.
var (
	// Provider API keys: the "sk-" prefix followed by 10+ alphanumerics.
	apiKeyRegex = regexp.MustCompile(`\bsk-[A-Za-z0-9]{10,}\b`)

	// Bearer credentials embedded in echoed request headers.
	bearerRegex = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.~+/]{8,}`)

	// key=value style credential assignments.
	keyValueRegex = regexp.MustCompile(`(?i)(api[_-]?key|secret|token)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)

	patterns = []*regexp.Regexp{apiKeyRegex, bearerRegex, keyValueRegex}
)

// String masks API-key-shaped substrings in the input.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, pattern := range patterns {
		result = pattern.ReplaceAllString(result, MaskedPlaceholder)
	}

	return result
}

// Error masks sensitive information in an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
