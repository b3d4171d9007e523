package gifscii

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// Version is the gifscii release, reported by the CLI and sent as the
// fetcher's User-Agent.
const Version = "1.0.0"

const userAgent = "gifscii/" + Version

var fetchClient = &http.Client{Timeout: 30 * time.Second}

// IsURL reports whether s names a remote input.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

/*
Fetch downloads a remote image to a temporary file and returns the file path
and the response content type. The file keeps the URL's image extension when
it has a recognizable one. The caller removes the file when done.
*/
func Fetch(rawurl string) (string, string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", "", fmt.Errorf("gifscii: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", fmt.Errorf("gifscii: unsupported url scheme %q", u.Scheme)
	}

	req, err := http.NewRequest(http.MethodGet, rawurl, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := fetchClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("gifscii: fetch %s: %w", rawurl, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", fmt.Errorf("gifscii: fetch %s: unexpected status %s", rawurl, resp.Status)
	}

	f, err := os.CreateTemp("", "gifscii-*"+urlExt(u))
	if err != nil {
		return "", "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", "", fmt.Errorf("gifscii: download %s: %w", rawurl, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", "", err
	}
	return f.Name(), resp.Header.Get("Content-Type"), nil
}

func urlExt(u *url.URL) string {
	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".gif", ".png", ".jpg", ".jpeg", ".webp", ".bmp":
		return ext
	default:
		return ".gif"
	}
}
