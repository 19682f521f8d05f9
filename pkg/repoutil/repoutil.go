// Package repoutil provides helpers for working with source repository URLs.
package repoutil

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/githubnext/argolint/pkg/logger"
)

var log = logger.New("repoutil:repoutil")

// HashURL returns the hex-encoded SHA-256 digest of a repository URL. The URL is
// hashed verbatim: two spellings of the same remote are two cache entries.
func HashURL(repoURL string) string {
	sum := sha256.Sum256([]byte(repoURL))
	return hex.EncodeToString(sum[:])
}

// RedactURL strips credentials from a repository URL so it can be logged or shown
// in diagnostics. scp-style SSH remotes (git@host:org/repo.git) carry no secret
// and are returned unchanged.
func RedactURL(repoURL string) string {
	if !strings.Contains(repoURL, "://") {
		return repoURL
	}

	parsed, err := url.Parse(repoURL)
	if err != nil {
		log.Printf("Unparseable repository URL, redacting entirely: %v", err)
		return "<redacted>"
	}
	if parsed.User == nil {
		return repoURL
	}
	if _, hasPassword := parsed.User.Password(); hasPassword {
		parsed.User = url.UserPassword(parsed.User.Username(), "xxxxx")
	} else {
		// A bare userinfo on https is usually a token.
		parsed.User = url.User("xxxxx")
	}
	return parsed.String()
}
