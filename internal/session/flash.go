package session

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

// FlashCookieName is the cookie carrying notices across redirects.
const FlashCookieName = "testaurant_flash"

// NoticeKind controls how a notice is styled.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Flashes queues notices for the next page view. It is not part of the
// session manifest and survives logout.
type Flashes struct {
	store sessions.Store
}

// NewFlashes creates a Flashes on top of a gorilla store.
func NewFlashes(store sessions.Store) *Flashes {
	return &Flashes{store: store}
}

// Add queues a notice.
func (f *Flashes) Add(w http.ResponseWriter, r *http.Request, n Notice) error {
	sess, err := f.store.Get(r, FlashCookieName)
	if sess == nil {
		return err
	}
	sess.AddFlash(string(n.Kind) + "|" + n.Message)
	dropSetCookie(w.Header(), FlashCookieName)
	return sess.Save(r, w)
}

// Pop returns and clears the queued notices.
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) []Notice {
	sess, _ := f.store.Get(r, FlashCookieName)
	if sess == nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	notices := make([]Notice, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		kind, msg, found := strings.Cut(s, "|")
		if !found {
			kind, msg = string(NoticeInfo), s
		}
		notices = append(notices, Notice{Kind: NoticeKind(kind), Message: msg})
	}
	dropSetCookie(w.Header(), FlashCookieName)
	_ = sess.Save(r, w)
	return notices
}
