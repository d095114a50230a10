package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DetailKind selects how an execution detail panel is drawn.
type DetailKind int

const (
	DetailEmpty DetailKind = iota
	DetailTestcases
	DetailWorkitems
	DetailSingle
)

// LogLine is one execution log entry.
type LogLine struct {
	Type    string
	Message string
	Payload string
}

// String formats the line as "[TYPE] message".
func (l LogLine) String() string {
	return "[" + l.Type + "] " + l.Message
}

// TestcaseResult is a nested testcase row of a testsuite run.
type TestcaseResult struct {
	Title     string
	Status    string
	StartTime string
}

// WorkitemResult is a nested workitem row of a testcase run.
type WorkitemResult struct {
	Title  string
	Status string
	Logs   []LogLine
}

// LogText joins the logs one per line.
func (w WorkitemResult) LogText() string {
	lines := make([]string, len(w.Logs))
	for i, l := range w.Logs {
		lines[i] = l.String()
	}
	return strings.Join(lines, "\n")
}

// Detail is the expanded view of one execution.
type Detail struct {
	Kind      DetailKind
	Testcases []TestcaseResult
	Workitems []WorkitemResult
	Config    string
	Response  string
	Logs      []LogLine
}

// ParseDetail decodes an execution detail payload. A null or empty payload
// yields DetailEmpty.
func ParseDetail(data []byte) (*Detail, error) {
	var root any
	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&root); err != nil {
			return nil, fmt.Errorf("decode execution detail: %w", err)
		}
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return &Detail{Kind: DetailEmpty}, nil
	}

	if list, ok := obj["testcase_results"].([]any); ok {
		d := &Detail{Kind: DetailTestcases}
		for _, item := range objects(list) {
			d.Testcases = append(d.Testcases, TestcaseResult{
				Title:     Text(item["testcase_title"]),
				Status:    Text(item["overall_status"]),
				StartTime: Text(item["run_testcase_start_time"]),
			})
		}
		return d, nil
	}

	if list, ok := obj["workitem_results"].([]any); ok {
		d := &Detail{Kind: DetailWorkitems}
		for _, item := range objects(list) {
			d.Workitems = append(d.Workitems, WorkitemResult{
				Title:  Text(item["workitem_title"]),
				Status: Text(item["execution_status"]),
				Logs:   logLines(item["execution_logs"]),
			})
		}
		return d, nil
	}

	return &Detail{
		Kind:     DetailSingle,
		Config:   pretty(obj["workitem_config"]),
		Response: pretty(obj["actual_response"]),
		Logs:     logLines(obj["execution_logs"]),
	}, nil
}

func objects(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func logLines(v any) []LogLine {
	list, _ := v.([]any)
	var lines []LogLine
	for _, item := range objects(list) {
		line := LogLine{
			Type:    Text(item["log_type"]),
			Message: Text(item["message"]),
		}
		if p, ok := item["payload"]; ok && p != nil {
			line.Payload = pretty(p)
		}
		lines = append(lines, line)
	}
	return lines
}

// pretty indents v as JSON. Missing values render as an empty object.
func pretty(v any) string {
	if v == nil {
		v = map[string]any{}
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
