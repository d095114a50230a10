package models

// WorkitemType selects which configuration a workitem carries.
type WorkitemType string

const (
	WorkitemREST  WorkitemType = "REST"
	WorkitemSQL   WorkitemType = "SQL"
	WorkitemMongo WorkitemType = "MONGO"
)

// WorkitemTypes lists the workitem kinds in display order.
var WorkitemTypes = []WorkitemType{WorkitemREST, WorkitemSQL, WorkitemMongo}

// Allowed values for the workitem configuration selects.
var (
	HTTPMethods     = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}
	SQLQueryTypes   = []string{"SELECT", "INSERT", "UPDATE", "DELETE"}
	MongoOperations = []string{"FIND", "INSERT", "UPDATE", "DELETE", "AGGREGATE"}
)

// RestConfig describes a single HTTP call.
type RestConfig struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        string            `json:"body"`
}

// SQLConfig describes a single SQL statement.
type SQLConfig struct {
	Query        string `json:"query"`
	QueryType    string `json:"query_type"`
	DatabaseName string `json:"database_name"`
}

// MongoConfig describes a single MongoDB operation.
type MongoConfig struct {
	Collection   string `json:"collection"`
	Operation    string `json:"operation"`
	Query        string `json:"query"`
	Document     string `json:"document"`
	DatabaseName string `json:"database_name"`
}

// CreateWorkitemRequest is the workitem creation payload.
// Exactly one of the configs is non-nil.
type CreateWorkitemRequest struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	WorkitemType WorkitemType `json:"workitem_type"`
	RestConfig   *RestConfig  `json:"rest_config"`
	SQLConfig    *SQLConfig   `json:"sql_config"`
	MongoConfig  *MongoConfig `json:"mongo_config"`
}

// CreateTestcaseRequest is the testcase creation payload.
type CreateTestcaseRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	WorkitemIDs []string `json:"workitem_ids"`
}

// CreateTestsuiteRequest is the testsuite creation payload.
type CreateTestsuiteRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TestcaseIDs []string `json:"testcase_ids"`
}
