package constants

// Viper keys shared across commands; flags and env set them, packages read them.
const (
	ConfigFolder    = "CONFIG_FOLDER"
	EncryptionKey   = "ENCRYPTION_KEY"
	CatalogPath     = "CATALOG_PATH"
	ConnectionPath  = "CONNECTION_PATH"
	FormPath        = "FORM_PATH"
	FrequenciesPath = "FREQUENCIES_PATH"
	StorePath       = "STORE_PATH"
	ListenAddr      = "LISTEN_ADDR"
	SnapshotBucket  = "SNAPSHOT_BUCKET"
	TelemetryKey    = "TELEMETRY_KEY"
)

const (
	// SourceNamespaceFormat is the default custom-format template; it expands
	// to the namespace of the source stream at sync time.
	SourceNamespaceFormat = "${SOURCE_NAMESPACE}"

	// DefaultNormalizationName names normalization operations minted by the mapper.
	DefaultNormalizationName = "Normalization"

	// KMSARNPrefix selects KMS-backed encryption when the key starts with it.
	KMSARNPrefix = "arn:aws:kms:"

	DefaultListenAddr = ":8080"
)
