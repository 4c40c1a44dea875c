package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/petermazzocco/renovation-portal/internal/access"
	"github.com/petermazzocco/renovation-portal/internal/config"
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/models"
)

const (
	SessionName = "_portal_session"

	keyUserID = "user_id"
	keyRole   = "role"
)

// NewCookieStore builds the cookie store shared by the portal session and
// the OAuth handshake.
func NewCookieStore(cfg *config.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.MaxAge(cfg.SessionMaxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.SessionSecure
	return store
}

// Sessions reads and writes the signed-in actor and one-shot notices.
type Sessions struct {
	store sessions.Store
}

func NewSessions(store sessions.Store) *Sessions {
	return &Sessions{store: store}
}

// Login stores the user in the session cookie.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, u *models.User) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values[keyUserID] = u.ID
	session.Values[keyRole] = string(u.Role)
	return session.Save(r, w)
}

// Logout expires the session cookie.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// Actor returns the signed-in actor. ok is false for anonymous requests or
// a session whose values do not decode.
func (s *Sessions) Actor(r *http.Request) (access.Actor, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return access.Actor{}, false
	}
	id, ok := session.Values[keyUserID].(uint)
	if !ok || id == 0 {
		return access.Actor{}, false
	}
	role, err := models.ParseRole(stringValue(session.Values[keyRole]))
	if err != nil {
		return access.Actor{}, false
	}
	return access.Actor{UserID: id, Role: role}, true
}

// AddFlash queues a notice for the next response.
func (s *Sessions) AddFlash(w http.ResponseWriter, r *http.Request, notice string) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.AddFlash(notice)
	return session.Save(r, w)
}

// Flashes pops every queued notice.
func (s *Sessions) Flashes(w http.ResponseWriter, r *http.Request) []string {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		utils.Logger.WithError(err).Warn("Failed to clear flashes")
	}

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
