package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"profile-site/pkg/site"
)

const (
	// ThemeCookie stores an explicit theme choice
	ThemeCookie = "mt_theme"
	// SystemThemeHeader carries the client's preferred color scheme
	SystemThemeHeader = "Sec-CH-Prefers-Color-Scheme"

	themeCookieMaxAge = 365 * 24 * 60 * 60
)

// Theme actions accepted by POST /api/theme
const (
	ThemeActionToggle = "toggle"
	ThemeActionSet    = "set"
	ThemeActionSystem = "system"
)

type themeRequest struct {
	Action string `json:"action"`
	Theme  string `json:"theme,omitempty"`
}

type themeResponse struct {
	Theme     site.Theme `json:"theme"`
	Persisted bool       `json:"persisted"`
}

func themeFromRequest(r *http.Request) *site.ThemeStore {
	var saved string
	if c, err := r.Cookie(ThemeCookie); err == nil {
		saved = c.Value
	}
	return site.NewThemeStore(saved, r.Header.Get(SystemThemeHeader))
}

// ThemeHandler reports the theme on GET and changes it on POST
func (h *Handler) ThemeHandler(w http.ResponseWriter, r *http.Request) {
	store := themeFromRequest(r)
	if r.Method == http.MethodGet {
		writeJSON(w, http.StatusOK, themeResponse{Theme: store.Current(), Persisted: store.Persisted()})
		return
	}

	form := isFormPost(r)
	req, err := decodeThemeRequest(w, r, form)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid theme request")
		return
	}

	system := r.Header.Get(SystemThemeHeader)
	switch req.Action {
	case ThemeActionToggle:
		store.Toggle()
	case ThemeActionSet:
		t, ok := site.ParseTheme(req.Theme)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown theme: "+req.Theme)
			return
		}
		store.Set(t, true)
	case ThemeActionSystem:
		store.FollowSystem(system)
	default:
		writeError(w, http.StatusBadRequest, "unknown theme action: "+req.Action)
		return
	}

	cookie := &http.Cookie{
		Name:     ThemeCookie,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	if store.Persisted() {
		cookie.Value = string(store.Current())
		cookie.MaxAge = themeCookieMaxAge
	} else {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)

	h.log.Debug("Theme changed", zap.String("action", req.Action), zap.String("theme", string(store.Current())))
	if form {
		http.Redirect(w, r, backTo(r), http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: store.Current(), Persisted: store.Persisted()})
}

// isFormPost reports whether the request was submitted by an HTML form
func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

func decodeThemeRequest(w http.ResponseWriter, r *http.Request, form bool) (themeRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<10)

	var req themeRequest
	if form {
		if err := r.ParseMultipartForm(1 << 10); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return req, err
		}
		req.Action = r.PostFormValue("action")
		req.Theme = r.PostFormValue("theme")
		return req, nil
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

// backTo is the same-site page a form post returns to
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	return ref.RequestURI()
}
