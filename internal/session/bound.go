package session

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/pkg/ulid"
)

// IDCookieName is the cookie that carries the server-side session id.
const IDCookieName = "testaurant_sid"

const idValueKey = "sid"

// idCookie reads and issues the opaque session id cookie.
type idCookie struct {
	cookies sessions.Store
}

func newIDCookie(cookies sessions.Store) *idCookie {
	return &idCookie{cookies: cookies}
}

func (c *idCookie) current(r *http.Request) string {
	sess, _ := c.cookies.Get(r, IDCookieName)
	if sess == nil {
		return ""
	}
	id, _ := sess.Values[idValueKey].(string)
	if !ulid.IsValid(id) {
		return ""
	}
	return id
}

func (c *idCookie) issue(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, _ := c.cookies.Get(r, IDCookieName)
	if sess == nil {
		sess = sessions.NewSession(c.cookies, IDCookieName)
	}
	id := ulid.New()
	sess.Values[idValueKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}

// boundStore resolves the per-browser Store lazily. No id cookie is issued
// until the first write.
type boundStore struct {
	ids  *idCookie
	w    http.ResponseWriter
	r    *http.Request
	open func(id string) Store

	id string
}

func (s *boundStore) backing(create bool) (Store, error) {
	if s.id == "" {
		s.id = s.ids.current(s.r)
	}
	if s.id == "" {
		if !create {
			return nil, nil
		}
		id, err := s.ids.issue(s.w, s.r)
		if err != nil {
			return nil, err
		}
		s.id = id
	}
	return s.open(s.id), nil
}

func (s *boundStore) Get(ctx context.Context, key Key) (string, bool, error) {
	st, err := s.backing(false)
	if err != nil || st == nil {
		return "", false, err
	}
	return st.Get(ctx, key)
}

func (s *boundStore) Set(ctx context.Context, key Key, value string) error {
	st, err := s.backing(true)
	if err != nil {
		return err
	}
	return st.Set(ctx, key, value)
}

func (s *boundStore) Delete(ctx context.Context, key Key) error {
	st, err := s.backing(false)
	if err != nil || st == nil {
		return err
	}
	return st.Delete(ctx, key)
}

func (s *boundStore) Clear(ctx context.Context) error {
	st, err := s.backing(false)
	if err != nil || st == nil {
		return err
	}
	return st.Clear(ctx)
}

func (s *boundStore) Replace(ctx context.Context, values map[Key]string) error {
	st, err := s.backing(hasValue(values))
	if err != nil || st == nil {
		return err
	}
	return st.Replace(ctx, values)
}

func hasValue(values map[Key]string) bool {
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}
