package wizard

import (
	"encoding/json"
	"net/url"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

// Env insertion targets.
const (
	TargetPath = "path"
	TargetBody = "body"
)

// RestDraft is the REST sub-form. Headers and query params are edited as
// JSON text.
type RestDraft struct {
	Method      string
	Path        string
	Headers     string
	QueryParams string
	Body        string
}

// BodyAllowed reports whether the method carries a request body.
func (r RestDraft) BodyAllowed() bool {
	switch r.Method {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// WorkitemDraft is the in-progress workitem form.
type WorkitemDraft struct {
	Name        string `validate:"required"`
	Description string
	Type        models.WorkitemType
	Rest        RestDraft
	SQL         models.SQLConfig
	Mongo       models.MongoConfig
}

// NewWorkitemDraft returns a REST draft with every sub-form at its defaults.
func NewWorkitemDraft() WorkitemDraft {
	return WorkitemDraft{
		Type: models.WorkitemREST,
		Rest: RestDraft{Method: "GET", Headers: "{}", QueryParams: "{}"},
		SQL:  models.SQLConfig{QueryType: "SELECT", DatabaseName: "default"},
		Mongo: models.MongoConfig{
			Operation:    "FIND",
			Query:        "{}",
			Document:     "{}",
			DatabaseName: "default",
		},
	}
}

// WorkitemDraftFromForm rebuilds a draft from submitted fields. Missing
// fields keep their defaults and unknown select values are reset.
func WorkitemDraftFromForm(form url.Values) WorkitemDraft {
	d := NewWorkitemDraft()
	d.Name = form.Get("name")
	d.Description = form.Get("description")
	d.Type = oneOf(models.WorkitemType(form.Get("workitem_type")), models.WorkitemTypes, models.WorkitemREST)

	d.Rest.Method = oneOf(form.Get("rest_method"), models.HTTPMethods, d.Rest.Method)
	setIfPresent(form, "rest_path", &d.Rest.Path)
	setIfPresent(form, "rest_headers", &d.Rest.Headers)
	setIfPresent(form, "rest_query_params", &d.Rest.QueryParams)
	setIfPresent(form, "rest_body", &d.Rest.Body)

	setIfPresent(form, "sql_query", &d.SQL.Query)
	d.SQL.QueryType = oneOf(form.Get("sql_query_type"), models.SQLQueryTypes, d.SQL.QueryType)
	setIfPresent(form, "sql_database_name", &d.SQL.DatabaseName)

	setIfPresent(form, "mongo_collection", &d.Mongo.Collection)
	d.Mongo.Operation = oneOf(form.Get("mongo_operation"), models.MongoOperations, d.Mongo.Operation)
	setIfPresent(form, "mongo_query", &d.Mongo.Query)
	setIfPresent(form, "mongo_document", &d.Mongo.Document)
	setIfPresent(form, "mongo_database_name", &d.Mongo.DatabaseName)
	return d
}

func setIfPresent(form url.Values, key string, dst *string) {
	if _, ok := form[key]; ok {
		*dst = form.Get(key)
	}
}

func oneOf[T comparable](v T, allowed []T, fallback T) T {
	for _, a := range allowed {
		if a == v {
			return v
		}
	}
	return fallback
}

// InsertEnv appends a {{key}} reference to the end of the REST path or body.
func (d *WorkitemDraft) InsertEnv(target, key string) {
	if key == "" {
		return
	}
	token := "{{" + key + "}}"
	switch target {
	case TargetPath:
		d.Rest.Path += token
	case TargetBody:
		d.Rest.Body += token
	}
}

// Payload validates the draft and builds the create request. Only the config
// matching the draft's type is set; the other two stay nil.
func (d WorkitemDraft) Payload() (models.CreateWorkitemRequest, error) {
	req := models.CreateWorkitemRequest{
		Name:         trimmed(d.Name),
		Description:  d.Description,
		WorkitemType: d.Type,
	}
	d.Name = req.Name
	if err := validate.Struct(d); err != nil {
		return req, messageFor(err, map[string]string{"Name": "Name is required"}, "Invalid workitem")
	}

	switch d.Type {
	case models.WorkitemSQL:
		cfg := d.SQL
		req.SQLConfig = &cfg
	case models.WorkitemMongo:
		cfg := d.Mongo
		req.MongoConfig = &cfg
	default:
		headers, err := stringObject(d.Rest.Headers)
		if err != nil {
			return req, invalid("Headers must be a JSON object of strings")
		}
		params, err := stringObject(d.Rest.QueryParams)
		if err != nil {
			return req, invalid("Query params must be a JSON object of strings")
		}
		req.RestConfig = &models.RestConfig{
			Method:      d.Rest.Method,
			Path:        d.Rest.Path,
			Headers:     headers,
			QueryParams: params,
			Body:        d.Rest.Body,
		}
	}
	return req, nil
}

// stringObject parses a JSON object whose values are all strings. Blank text
// is an empty object.
func stringObject(text string) (map[string]string, error) {
	out := map[string]string{}
	if trimmed(text) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]string{}
	}
	return out, nil
}

// CompatibleConnections returns the credentials a workitem type can target.
// REST workitems use none.
func CompatibleConnections(t models.WorkitemType, creds []models.DatabaseCredential) []models.DatabaseCredential {
	var out []models.DatabaseCredential
	for _, c := range creds {
		switch t {
		case models.WorkitemSQL:
			if c.DatabaseType == models.DatabaseMySQL || c.DatabaseType == models.DatabasePostgreSQL {
				out = append(out, c)
			}
		case models.WorkitemMongo:
			if c.DatabaseType == models.DatabaseMongoDB {
				out = append(out, c)
			}
		}
	}
	return out
}
