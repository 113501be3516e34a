// Package logsafe sanitizes sensitive values before they reach log output.
// Session identifiers are only ever logged as short, irreversible prefixes;
// passwords and URL-embedded credentials are never logged at all.
package logsafe

import (
	"fmt"
	"strings"
)

const sessionIDPrefixLen = 8

// SessionID truncates a session identifier for logging, keeping only the
// first 8 characters followed by an ellipsis.
func SessionID(id string) string {
	if id == "" {
		return "unknown"
	}
	if len(id) <= sessionIDPrefixLen {
		return id + "..."
	}
	return id[:sessionIDPrefixLen] + "..."
}

// Password replaces a password with a length indicator.
func Password(password string) string {
	if password == "" {
		return "***"
	}
	return fmt.Sprintf("***[%d chars]", len(password))
}

// URL masks userinfo credentials embedded in a URL, if any.
func URL(rawURL string) string {
	if rawURL == "" {
		return "unknown"
	}
	scheme, rest, found := strings.Cut(rawURL, "://")
	if !found {
		return rawURL
	}
	authority, path, _ := strings.Cut(rest, "/")
	if !strings.Contains(authority, "@") {
		return rawURL
	}
	_, host, _ := strings.Cut(authority, "@")
	if path != "" {
		return scheme + "://***:***@" + host + "/" + path
	}
	return scheme + "://***:***@" + host
}

// Email masks the local part of an email address.
func Email(email string) string {
	if email == "" {
		return "unknown"
	}
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return "***"
	}
	if len(local) <= 1 {
		return "***@" + domain
	}
	return local[:1] + "***@" + domain
}
