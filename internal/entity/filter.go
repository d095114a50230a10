package entity

import (
	"sort"
	"strings"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// Categories are the execution type filters in display order.
var Categories = []string{CategoryAll, "workitem", "testcase", "testsuite"}

// Filter narrows a row list. The zero value keeps every row.
type Filter struct {
	Category string
	Search   string
	User     string
}

// Active reports whether any filter narrows the list.
func (f Filter) Active() bool {
	return (f.Category != "" && f.Category != CategoryAll) || f.Search != "" || f.User != ""
}

// Apply returns the rows that pass category, then search, then user.
func (f Filter) Apply(rows []Entity) []Entity {
	category := strings.ToLower(f.Category)
	search := strings.ToLower(f.Search)
	user := strings.ToLower(f.User)

	out := make([]Entity, 0, len(rows))
	for _, e := range rows {
		if category != "" && category != CategoryAll && strings.ToLower(e.Type) != category {
			continue
		}
		if search != "" && !containsFold(search, e.Name, e.ID, e.Description) {
			continue
		}
		if user != "" && !containsFold(user, e.CreatedByName, e.CreatedBy) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func containsFold(needle string, haystack ...string) bool {
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// UniqueUsers returns the sorted distinct creator and runner names.
func UniqueUsers(rows []Entity) []string {
	seen := make(map[string]struct{})
	for _, e := range rows {
		for _, name := range []string{e.CreatedByName, e.LastRanByName} {
			if name != "" {
				seen[name] = struct{}{}
			}
		}
	}
	users := make([]string, 0, len(seen))
	for name := range seen {
		users = append(users, name)
	}
	sort.Strings(users)
	return users
}
