// Package entity turns raw gateway list payloads into uniform table rows and
// decides what a user may do with each row.
package entity

import (
	"errors"
	"strings"
)

// Kind names one list collection.
type Kind string

const (
	KindWorkitems    Kind = "workitems"
	KindTestcases    Kind = "testcases"
	KindTestsuites   Kind = "testsuites"
	KindExecutions   Kind = "executions"
	KindMembers      Kind = "members"
	KindJoinRequests Kind = "join-requests"
)

// Kinds lists every collection in navigation order.
var Kinds = []Kind{
	KindWorkitems,
	KindTestcases,
	KindTestsuites,
	KindExecutions,
	KindMembers,
	KindJoinRequests,
}

// ErrUnknownKind is returned by ParseKind for an unrecognized collection.
var ErrUnknownKind = errors.New("unknown entity kind")

// ParseKind resolves a route segment to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrUnknownKind
}

// Singular drops the trailing "s": "workitems" becomes "workitem".
func (k Kind) Singular() string {
	return strings.TrimSuffix(string(k), "s")
}

// OrgScoped reports whether the collection lives under the active organization.
func (k Kind) OrgScoped() bool {
	return k == KindMembers || k == KindJoinRequests
}

// Runnable reports whether rows of this kind can be executed.
func (k Kind) Runnable() bool {
	switch k {
	case KindWorkitems, KindTestcases, KindTestsuites:
		return true
	}
	return false
}

// Expandable reports whether rows open an execution detail panel.
func (k Kind) Expandable() bool {
	return k == KindExecutions
}

// Title is the page heading.
func (k Kind) Title() string {
	switch k {
	case KindJoinRequests:
		return "Pending Join Requests"
	case KindMembers:
		return "Members"
	}
	s := string(k)
	return strings.ToUpper(s[:1]) + s[1:]
}

// RemoveVerb is the verb used for delete prompts and notices.
func (k Kind) RemoveVerb() string {
	if k == KindMembers {
		return "remove"
	}
	return "delete"
}

// FetchError is the notice shown when the collection cannot be loaded.
func (k Kind) FetchError() string {
	return "Failed to fetch " + string(k)
}
