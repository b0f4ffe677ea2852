// Package proxy forwards prefixed API requests to the agent backend.
package proxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// New returns a handler that strips prefix from the request path and
// forwards the request to target.
func New(target, prefix string, logger *slog.Logger) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse proxy target: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("proxy target must be absolute, got %q", target)
	}
	prefix = strings.TrimSuffix(prefix, "/")

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.Out.URL.Path = singleJoin(u.Path, strip(pr.In.URL.Path, prefix))
			pr.Out.URL.RawPath = ""
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("proxy error", "path", r.URL.Path, "target", target, "error", err)
			http.Error(w, "Bad gateway", http.StatusBadGateway)
		},
	}
	return rp, nil
}

func strip(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return rest
}

func singleJoin(base, path string) string {
	if base == "" || base == "/" {
		return path
	}
	return strings.TrimSuffix(base, "/") + path
}
