package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/server/auth"
)

type selectRequest struct {
	UserID string `json:"user_id"`
}

// getSession returns the selected profile, or no data when nothing valid is
// selected. A stale cookie is cleared.
func (s *HTTPServer) getSession(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(common.SelectedUserKey)
	if err != nil {
		writeData(w, http.StatusOK, nil)
		return
	}

	userID, err := auth.GetUserIDFromToken(c.Value, s.opts.SessionKey)
	if err != nil {
		s.logger.Debug(r.Context(), "discarding selection cookie", "error", err)
		s.clearCookie(w)
		writeData(w, http.StatusOK, nil)
		return
	}

	u, err := s.users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.clearCookie(w)
			writeData(w, http.StatusOK, nil)
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (s *HTTPServer) selectUser(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeBodyError(w, r, err)
		return
	}

	u, err := s.users.Get(r.Context(), req.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(u.ID, s.opts.SessionKey, s.opts.SessionValidity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cookie := &http.Cookie{
		Name:     common.SelectedUserKey,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if s.opts.SessionValidity > 0 {
		cookie.Expires = time.Now().Add(s.opts.SessionValidity)
	}
	http.SetCookie(w, cookie)

	writeData(w, http.StatusOK, u)
}

func (s *HTTPServer) forgetUser(w http.ResponseWriter, r *http.Request) {
	s.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SelectedUserKey,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
