package server

import (
	"encoding/json"
	"net/http"

	"github.com/drivelane/lingo"
)

type languageResponse struct {
	Success  bool   `json:"success"`
	Language string `json:"language"`
}

// handleSetLanguage persists the language preference in a year-long cookie.
// An unsupported code is rejected before the cookie is touched.
func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	lang, err := lingo.ParseLanguage(req.Language)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookie,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   languageCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.CookieSecure,
	})

	writeJSON(w, http.StatusOK, languageResponse{
		Success:  true,
		Language: string(lang),
	})
}

// handleGetLanguage reads the preference cookie, falling back to the
// configured default. It always succeeds.
func (s *Server) handleGetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := s.defaultLang

	if c, err := r.Cookie(LanguageCookie); err == nil {
		// A tampered cookie value reads as "no preference".
		if parsed, perr := lingo.ParseLanguage(c.Value); perr == nil {
			lang = parsed
		}
	}

	writeJSON(w, http.StatusOK, languageResponse{
		Success:  true,
		Language: string(lang),
	})
}
