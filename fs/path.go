// Package fs exports the documentation corpus to the local filesystem.
package fs

import (
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/gemdocs"
)

// URLToPath converts a page URL to a relative file path.
// Example: https://ai.google.dev/gemini-api/docs/models → gemini-api/docs/models.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", gemdocs.Errorf(gemdocs.EINVALID, "invalid page URL %q: %v", rawURL, err)
	}

	p := u.Path
	if p == "" || p == "/" {
		return "index.md", nil
	}

	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return "", gemdocs.Errorf(gemdocs.EINVALID, "path traversal in %q", rawURL)
		}
	}

	p = strings.TrimPrefix(path.Clean(p), "/")
	if strings.HasSuffix(u.Path, "/") {
		return p + "/index.md", nil
	}
	return p + ".md", nil
}
