package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type clientView string

const (
	desktopView clientView = "web"
	mobileView  clientView = "mobile"

	viewCookie    = "shadowchess_view"
	viewCookieTTL = 30 * 24 * time.Hour
)

var mobileAgents = []string{"android", "iphone", "ipad", "ipod", "mobile", "windows phone", "harmony"}

func (v clientView) root() string {
	if v == mobileView {
		return "/web_mobile/"
	}
	return "/web/"
}

// RegisterStaticRoutes serves the desktop client under /web/ and the
// mobile one under /web_mobile/. A bare / redirects to whichever fits the
// caller: ?view= first, then the remembered cookie, then the User-Agent.
func RegisterStaticRoutes(r chi.Router, desktopDir, mobileDir string) {
	if desktopDir == "" {
		desktopDir = "."
	}
	if mobileDir == "" {
		mobileDir = desktopDir
	}
	mount := func(prefix, dir string) {
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(dir))))
		r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, prefix+"/", http.StatusFound)
		})
	}
	mount("/web", desktopDir)
	mount("/web_mobile", mobileDir)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Vary", "User-Agent, Cookie")
		http.Redirect(w, req, chooseView(w, req).root(), http.StatusFound)
	})
}

func chooseView(w http.ResponseWriter, r *http.Request) clientView {
	if v, ok := parseView(r.URL.Query().Get("view")); ok {
		http.SetCookie(w, &http.Cookie{
			Name:     viewCookie,
			Value:    string(v),
			Path:     "/",
			MaxAge:   int(viewCookieTTL / time.Second),
			SameSite: http.SameSiteLaxMode,
		})
		return v
	}
	if c, err := r.Cookie(viewCookie); err == nil {
		if v, ok := parseView(c.Value); ok {
			return v
		}
	}
	ua := strings.ToLower(r.UserAgent())
	for _, needle := range mobileAgents {
		if strings.Contains(ua, needle) {
			return mobileView
		}
	}
	return desktopView
}

func parseView(s string) (clientView, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "web", "desktop", "pc":
		return desktopView, true
	case "mobile", "m", "phone", "web_mobile":
		return mobileView, true
	}
	return "", false
}
