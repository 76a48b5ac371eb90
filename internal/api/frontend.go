package api

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/soaringjerry/Candor/internal/middleware"
)

// NewFrontend picks how pages are served: files from staticDir when set,
// otherwise a reverse proxy to the dev server at devURL. It returns nil
// when neither is configured.
func NewFrontend(staticDir, devURL string) (http.Handler, error) {
	if staticDir != "" {
		return staticPages(staticDir), nil
	}
	if devURL == "" {
		return nil, nil
	}
	u, err := url.Parse(devURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid dev frontend url %q", devURL)
	}
	rp := httputil.NewSingleHostReverseProxy(u)
	rp.ModifyResponse = func(res *http.Response) error {
		middleware.SetNoStore(res.Header)
		return nil
	}
	return rp, nil
}

// staticPages serves an exported site. Extensionless page paths resolve to
// their .html file; pages are never cached, assets are. A page file asked for
// by name is redirected to its page path so there is one URL per page.
func staticPages(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + r.URL.Path)
		switch ext := path.Ext(p); ext {
		case ".html", ".htm":
			target := strings.TrimSuffix(p, ext)
			if target == "/index" {
				target = "/"
			}
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		case "":
		default:
			fs.ServeHTTP(w, r)
			return
		}
		middleware.SetNoStore(w.Header())
		if p != "/" {
			html := p + ".html"
			if st, err := os.Stat(filepath.Join(dir, filepath.FromSlash(html))); err == nil && !st.IsDir() {
				r2 := r.Clone(r.Context())
				r2.URL.Path = html
				r2.URL.RawPath = ""
				fs.ServeHTTP(w, r2)
				return
			}
		}
		fs.ServeHTTP(w, r)
	})
}
