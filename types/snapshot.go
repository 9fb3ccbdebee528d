package types

import (
	"path/filepath"
	"strings"
)

// SnapshotStorageConfig configures the optional S3 export of connection
// snapshots.
type SnapshotStorageConfig struct {
	Bucket         string `json:"bucket"`
	Region         string `json:"region"`
	BasePath       string `json:"basePath,omitempty"`
	AccessKey      string `json:"accessKey,omitempty"`
	SecretKey      string `json:"secretKey,omitempty"`
	SessionToken   string `json:"sessionToken,omitempty"`
	Endpoint       string `json:"endpoint,omitempty"`
	UseSSL         bool   `json:"useSsl,omitempty"`
	PathStyle      bool   `json:"pathStyle,omitempty"`
	UploadInterval string `json:"uploadInterval,omitempty"`
}

func (cfg *SnapshotStorageConfig) GetFullBasePath(snapshotSubDir string) string {
	trimmedBasePath := strings.Trim(cfg.BasePath, "/")
	fullBasePath := snapshotSubDir
	if trimmedBasePath != "" {
		fullBasePath = filepath.Join(trimmedBasePath, snapshotSubDir)
	}
	return filepath.ToSlash(fullBasePath) // Ensure forward slashes for S3
}
