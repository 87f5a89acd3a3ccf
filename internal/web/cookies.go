package web

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookie = "wordfeed-session"
	profileCookie = "wordfeed-profile"

	// profileMaxAge keeps the profile cookie for a year
	profileMaxAge = 365 * 24 * 60 * 60

	keySessionID = "sid"
	keySeed      = "seed"
	keyProfile   = "profile"
)

// cookieJar issues the two cookies of a browser: a session cookie that ends with the
// browser session and carries the seed, and a long-lived profile cookie that names
// the completion set
type cookieJar struct {
	session *sessions.CookieStore
	profile *sessions.CookieStore
}

func newCookieJar(secret []byte) *cookieJar {
	session := sessions.NewCookieStore(secret)
	session.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	profile := sessions.NewCookieStore(secret)
	profile.MaxAge(profileMaxAge)
	profile.Options.HttpOnly = true
	profile.Options.SameSite = http.SameSiteLaxMode

	return &cookieJar{session: session, profile: profile}
}

// visitor is one browser as seen through its cookies
type visitor struct {
	session *sessions.Session
	profile *sessions.Session
}

// load reads both cookies. Undecodable cookies are replaced by fresh ones.
func (j *cookieJar) load(r *http.Request) *visitor {
	return &visitor{
		session: get(j.session, r, sessionCookie),
		profile: get(j.profile, r, profileCookie),
	}
}

func get(store *sessions.CookieStore, r *http.Request, name string) *sessions.Session {
	s, err := store.Get(r, name)
	if err != nil {
		s.Values = make(map[interface{}]interface{})
		s.IsNew = true
	}
	return s
}

// SessionID identifies the browser session in the feed registry
func (v *visitor) SessionID() string {
	return value(v.session, keySessionID)
}

// ProfileID names the browser profile's completion set
func (v *visitor) ProfileID() string {
	return value(v.profile, keyProfile)
}

func value(s *sessions.Session, key string) string {
	if id, ok := s.Values[key].(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	s.Values[key] = id
	return id
}

// save writes both cookies; it must run before the response body
func (v *visitor) save(w http.ResponseWriter, r *http.Request) error {
	if err := v.session.Save(r, w); err != nil {
		return err
	}
	return v.profile.Save(r, w)
}

// cookieSeeds stores the session seed in the browser-session cookie
type cookieSeeds struct {
	session *sessions.Session
}

func (c cookieSeeds) Get(_ context.Context) (string, bool, error) {
	seed, ok := c.session.Values[keySeed].(string)
	return seed, ok && seed != "", nil
}

func (c cookieSeeds) Set(_ context.Context, seed string) error {
	c.session.Values[keySeed] = seed
	return nil
}
