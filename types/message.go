package types

type MessageType string

const (
	LogMessage              MessageType = "LOG"
	ConnectionStatusMessage MessageType = "CONNECTION_STATUS"
	CatalogMessage          MessageType = "CATALOG"
	ConnectionMessage       MessageType = "CONNECTION"
	SpecMessage             MessageType = "SPEC"
	ValidationResultMessage MessageType = "VALIDATION_RESULT"
)

type Status string

const (
	ConnectionSucceed Status = "SUCCEEDED"
	ConnectionFailed  Status = "FAILED"
)

// Message is a dto for lakedeck output row representation
type Message struct {
	Type             MessageType       `json:"type"`
	Log              *Log              `json:"log,omitempty"`
	ConnectionStatus *StatusRow        `json:"connectionStatus,omitempty"`
	Catalog          *SyncCatalog      `json:"catalog,omitempty"`
	Connection       *Connection       `json:"connection,omitempty"`
	Spec             map[string]any    `json:"spec,omitempty"`
	ValidationResult *ValidationResult `json:"validationResult,omitempty"`
}

// Log is a dto for log row serialization
type Log struct {
	Level   string `json:"level,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatusRow is a dto for check result serialization
type StatusRow struct {
	Status  Status `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidationResult carries the outcome of form validation.
type ValidationResult struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError is a field-scoped validation failure. Path addresses the field
// in the submitted form, with stream errors keyed by position, e.g.
// syncCatalog.streams[2].config.primaryKey.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Path + ": " + e.Message
}
