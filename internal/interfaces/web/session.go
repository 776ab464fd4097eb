package web

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const cookieName = "laundrysched_session"

const cookieMaxAge = 7 * 24 * time.Hour

// SessionManager keeps the scheduling session id in a signed, encrypted cookie.
type SessionManager struct{ sc *securecookie.SecureCookie }

func NewSessionManager(hashKey, blockKey []byte) *SessionManager {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(cookieMaxAge.Seconds()))
	return &SessionManager{sc: sc}
}

func (s *SessionManager) SetSessionID(w http.ResponseWriter, r *http.Request, id string) error {
	encoded, err := s.sc.Encode(cookieName, map[string]string{"sid": id})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		MaxAge:   int(cookieMaxAge.Seconds()),
	})
	return nil
}

func (s *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name: cookieName, Value: "", Path: "/", MaxAge: -1,
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
}

// SessionID returns the id stored in the request cookie, if any.
func (s *SessionManager) SessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return "", false
	}
	value := map[string]string{}
	if err := s.sc.Decode(cookieName, c.Value, &value); err != nil {
		return "", false
	}
	sid := value["sid"]
	if sid == "" {
		return "", false
	}
	return sid, true
}
