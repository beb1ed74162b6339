package server

import (
	"net/http"
	"net/url"
	"time"

	"habiterr/internal/models"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userResponse struct {
	User models.User `json:"user"`
}

func readCredentials(w http.ResponseWriter, r *http.Request) (credentials, error) {
	var c credentials
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return c, badRequest("error parsing form: %v", err)
		}
		c.Email = r.PostFormValue("email")
		c.Password = r.PostFormValue("password")
		c.Name = r.PostFormValue("name")
		return c, nil
	}
	err := decodeJSON(w, r, &c)
	return c, err
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// authFailed answers form posts from the login page with a redirect and
// everything else with a JSON error.
func authFailed(w http.ResponseWriter, r *http.Request, err error) {
	if isForm(r) {
		http.Redirect(w, r, "/login?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}
	writeError(w, r, err)
}

func (s *Server) signupHandler(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(w, r)
	if err != nil {
		authFailed(w, r, err)
		return
	}
	u, sess, err := s.auth.Signup(r.Context(), c.Email, c.Password, c.Name)
	if err != nil {
		authFailed(w, r, err)
		return
	}
	s.setSessionCookie(w, sess)
	if isForm(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{User: u})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(w, r)
	if err != nil {
		authFailed(w, r, err)
		return
	}
	u, sess, err := s.auth.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		authFailed(w, r, err)
		return
	}
	s.setSessionCookie(w, sess)
	if isForm(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: u})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if err := s.auth.Logout(r.Context(), c.Value); err != nil {
			writeError(w, r, err)
			return
		}
	}
	s.clearSessionCookie(w)
	if isForm(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	writeJSON(w, http.StatusOK, userResponse{User: u})
}
