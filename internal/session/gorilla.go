package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

// GorillaSessionName is the gorilla session holding values for GorillaBackend.
const GorillaSessionName = "testaurant_session"

// GorillaBackend keeps session values in a gorilla session. With a
// FilesystemStore the browser only holds the signed session id.
type GorillaBackend struct {
	store sessions.Store
}

// NewGorillaBackend creates a GorillaBackend on top of a gorilla store.
func NewGorillaBackend(store sessions.Store) *GorillaBackend {
	return &GorillaBackend{store: store}
}

// Open loads the gorilla session. A session that fails to decode yields an
// empty one.
func (b *GorillaBackend) Open(w http.ResponseWriter, r *http.Request) (Store, error) {
	sess, err := b.store.Get(r, GorillaSessionName)
	if sess == nil {
		return nil, err
	}
	return &gorillaStore{session: sess, w: w, r: r}, nil
}

type gorillaStore struct {
	session *sessions.Session
	w       http.ResponseWriter
	r       *http.Request
}

func (s *gorillaStore) Get(_ context.Context, key Key) (string, bool, error) {
	v, ok := s.session.Values[string(key)].(string)
	return v, ok, nil
}

func (s *gorillaStore) Set(_ context.Context, key Key, value string) error {
	prev, had := s.session.Values[string(key)]
	s.session.Values[string(key)] = value
	if err := s.save(); err != nil {
		if had {
			s.session.Values[string(key)] = prev
		} else {
			delete(s.session.Values, string(key))
		}
		return err
	}
	return nil
}

func (s *gorillaStore) Delete(_ context.Context, key Key) error {
	if _, ok := s.session.Values[string(key)]; !ok {
		return nil
	}
	delete(s.session.Values, string(key))
	return s.save()
}

func (s *gorillaStore) Clear(_ context.Context) error {
	for _, key := range Manifest {
		delete(s.session.Values, string(key))
	}
	return s.save()
}

func (s *gorillaStore) Replace(_ context.Context, values map[Key]string) error {
	prev := make(map[Key]interface{}, len(Manifest))
	for _, key := range Manifest {
		if v, ok := s.session.Values[string(key)]; ok {
			prev[key] = v
		}
	}

	s.setManifest(values)
	if err := s.save(); err != nil {
		for _, key := range Manifest {
			delete(s.session.Values, string(key))
		}
		for key, v := range prev {
			s.session.Values[string(key)] = v
		}
		return err
	}
	return nil
}

func (s *gorillaStore) setManifest(values map[Key]string) {
	for _, key := range Manifest {
		delete(s.session.Values, string(key))
	}
	for key, v := range values {
		if v != "" {
			s.session.Values[string(key)] = v
		}
	}
}

// save writes the session, replacing any Set-Cookie header written by an
// earlier mutation in the same request. A failed save leaves the headers as
// they were.
func (s *gorillaStore) save() error {
	header := s.w.Header()
	before := append([]string(nil), header.Values("Set-Cookie")...)

	dropSetCookie(header, s.session.Name())
	if err := s.session.Save(s.r, s.w); err != nil {
		header.Del("Set-Cookie")
		for _, c := range before {
			header.Add("Set-Cookie", c)
		}
		return err
	}
	return nil
}

func dropSetCookie(h http.Header, name string) {
	prefix := name + "="
	var kept []string
	for _, c := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(c, prefix) {
			kept = append(kept, c)
		}
	}
	h.Del("Set-Cookie")
	for _, c := range kept {
		h.Add("Set-Cookie", c)
	}
}
