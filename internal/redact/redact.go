// Package redact provides utilities for redacting sensitive information from
// strings before they are logged. Error messages that cross a logging
// boundary may embed tokens, credentials, or internal network locations;
// redacting them here prevents accidental leakage without losing the rest of
// the message.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

// Precompiled regex patterns
var (
	// Database connection strings with inline credentials
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|db|database)://[^@\s]+@`)

	// JWT token pattern - matches the standard three-part base64url-encoded format
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Internal host:port locations (e.g. backend addresses in proxy errors)
	hostPortRegex = regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`)

	// Email addresses
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
)

// String returns a copy of s with sensitive fragments replaced by
// placeholders.
func String(s string) string {
	if s == "" {
		return s
	}

	s = dbConnRegex.ReplaceAllString(s, RedactedCredentialPlaceholder+"@")
	s = jwtTokenRegex.ReplaceAllString(s, RedactedJWTPlaceholder)
	s = emailRegex.ReplaceAllString(s, RedactedEmailPlaceholder)
	s = hostPortRegex.ReplaceAllString(s, RedactedHostPlaceholder)

	return s
}

// Error returns the redacted message of err, or the empty string for nil.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
