package types

type OperatorType string

const (
	OperatorNormalization OperatorType = "normalization"
	OperatorDbt           OperatorType = "dbt"
)

// NormalizationType is the form-side normalization choice; RAW is a sentinel
// meaning no normalization operation is persisted at all.
type NormalizationType string

const (
	RAW   NormalizationType = "raw"
	BASIC NormalizationType = "basic"
)

type Normalization struct {
	Option NormalizationType `json:"option"`
}

type Dbt struct {
	DockerImage   string `json:"dockerImage"`
	DbtArguments  string `json:"dbtArguments"`
	GitRepoURL    string `json:"gitRepoUrl,omitempty"`
	GitRepoBranch string `json:"gitRepoBranch,omitempty"`
}

type OperatorConfiguration struct {
	OperatorType  OperatorType   `json:"operatorType"`
	Normalization *Normalization `json:"normalization,omitempty"`
	Dbt           *Dbt           `json:"dbt,omitempty"`
}

// Operation is a named, workspace-scoped transformation step attached to a
// connection. Normalization operations precede dbt operations in the
// persisted list; the execution system depends on that order.
type Operation struct {
	OperationID           string                `json:"operationId,omitempty"`
	WorkspaceID           string                `json:"workspaceId,omitempty"`
	Name                  string                `json:"name,omitempty"`
	OperatorConfiguration OperatorConfiguration `json:"operatorConfiguration"`
}

func (o *Operation) IsNormalization() bool {
	return o.OperatorConfiguration.OperatorType == OperatorNormalization
}

func (o *Operation) IsDbt() bool {
	return o.OperatorConfiguration.OperatorType == OperatorDbt
}
