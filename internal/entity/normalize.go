package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Entity is one normalized table row. ID is never empty.
type Entity struct {
	ID            string
	EntityID      string
	Name          string
	Type          string
	Description   string
	CreatedAt     string
	CreatedBy     string
	CreatedByName string
	LastRanAt     string
	LastRanBy     string
	LastRanByName string
	LastRunStatus string

	Email         string
	Role          string
	RequestedRole string
	RequestID     string

	Raw map[string]any
}

// ActionID is the identifier used for approve and reject on join requests.
func (e Entity) ActionID() string {
	return first(e.RequestID, e.ID)
}

// Creator is the display name of whoever created the row.
func (e Entity) Creator() string {
	return first(e.CreatedByName, e.CreatedBy, "Unknown")
}

// Runner is the display name of whoever ran the row last.
func (e Entity) Runner() string {
	return first(e.LastRanByName, e.LastRanBy, "System")
}

// Unwrap extracts the item list from a gateway payload. A bare array wins,
// then a "runs" field, then an "items" field. Anything else is empty.
func Unwrap(data []byte) ([]map[string]any, error) {
	var root any
	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&root); err != nil {
			return nil, fmt.Errorf("decode list payload: %w", err)
		}
	}

	var list []any
	switch v := root.(type) {
	case []any:
		list = v
	case map[string]any:
		if runs, ok := v["runs"].([]any); ok {
			list = runs
		} else if items, ok := v["items"].([]any); ok {
			list = items
		}
	}

	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		m, _ := item.(map[string]any)
		if m == nil {
			m = map[string]any{}
		}
		out = append(out, m)
	}
	return out, nil
}

// Normalize maps raw items of kind k to rows, one per item, in order.
func Normalize(k Kind, items []map[string]any) []Entity {
	rows := make([]Entity, len(items))
	for i, item := range items {
		rows[i] = normalizeItem(k, i, item)
	}
	return rows
}

func normalizeItem(k Kind, index int, item map[string]any) Entity {
	pick := func(keys ...string) string {
		for _, key := range keys {
			if s := Text(item[key]); s != "" {
				return s
			}
		}
		return ""
	}

	id := first(pick("id", "workitem_id", "testcase_id", "testsuite_id",
		"run_workitem_id", "run_testcase_id", "user_id", "request_id", "_id"),
		"unknown-"+strconv.Itoa(index))

	typ := pick("type")
	if typ == "" {
		switch {
		case k == KindMembers:
			typ = "member"
		case k != KindExecutions:
			typ = k.Singular()
		default:
			typ = "unknown"
		}
	}

	return Entity{
		ID:          id,
		EntityID:    first(pick("entity_id"), id),
		Name:        first(pick("name", "workitem_title", "testcase_title", "testsuite_title", "email"), "Run "+id),
		Type:        typ,
		Description: pick("description", "testcase_subtitle", "testsuite_subtitle"),
		CreatedAt: pick("created_at", "workitem_created_date", "testcase_created_date",
			"testsuite_created_date", "run_workitem_created_date", "run_testcase_created_date"),
		CreatedBy:     pick("created_by", "executor_context"),
		CreatedByName: pick("created_by_name", "executor_name"),
		LastRanAt:     pick("last_ran_at", "run_workitem_start_time", "run_testcase_start_time"),
		LastRanBy:     pick("last_ran_by", "executor_context"),
		LastRanByName: pick("last_ran_by_name", "executor_name"),
		LastRunStatus: pick("last_run_status", "execution_status", "overall_status", "status"),
		Email:         pick("email"),
		Role:          pick("role"),
		RequestedRole: pick("requested_role"),
		RequestID:     pick("request_id"),
		Raw:           item,
	}
}

// Text renders a decoded JSON value for display. Null and missing are "".
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := t.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
