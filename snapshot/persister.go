package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/goccy/go-json"
	"github.com/spf13/viper"

	"github.com/lakedeck/lakedeck/constants"
	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils"
	"github.com/lakedeck/lakedeck/utils/logger"
)

const snapshotSubDir = "lakedeck" // directory within the base path for connection snapshots

// Persister uploads connection snapshots to S3. A nil Persister is inactive;
// uploads are best-effort and never fail the caller's operation.
type Persister struct {
	s3Client     *s3.S3
	s3Uploader   *s3manager.Uploader
	bucket       string
	fullBasePath string
	interval     time.Duration
}

// NewPersister creates and verifies a Persister from storage config.
// Any setup failure logs and returns nil; snapshots are optional.
func NewPersister(cfg types.SnapshotStorageConfig) *Persister {
	if cfg.Bucket == "" {
		logger.Error("S3 bucket name cannot be empty for snapshot persistence - snapshots disabled")
		return nil
	}

	awsCfg := aws.NewConfig()

	if cfg.Region != "" {
		awsCfg.WithRegion(cfg.Region)
	} else if cfg.Endpoint == "" {
		logger.Warn("S3 region not explicitly provided for snapshots, attempting to use default AWS credential chain resolution")
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken))
	}

	if cfg.Endpoint != "" {
		logger.Infof("Using custom S3 endpoint for snapshots: %s", cfg.Endpoint)
		awsCfg.WithEndpoint(cfg.Endpoint)
		awsCfg.WithS3ForcePathStyle(cfg.PathStyle)
		if !cfg.UseSSL {
			awsCfg.WithDisableSSL(true)
		}
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *awsCfg,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		logger.Errorf("Failed to create AWS session: %s - snapshots disabled", err)
		return nil
	}

	if _, err := sess.Config.Credentials.Get(); err != nil {
		logger.Errorf("Failed to get AWS credentials: %s - snapshots disabled", err)
		return nil
	}

	s3Client := s3.New(sess)
	fullBasePath := cfg.GetFullBasePath(snapshotSubDir)

	// write check; a bucket we cannot write to is as good as no bucket
	testKey := strings.Join([]string{fullBasePath, ".lakedeck_write_test"}, "/")
	_, err = s3Client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(cfg.Bucket),
		Key:    aws.String(testKey),
		Body:   strings.NewReader("lakedeck snapshot write test"),
	})
	if err != nil {
		logger.Errorf("S3 write check failed: %s - snapshots disabled", err)
		return nil
	}
	_, _ = s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(cfg.Bucket),
		Key:    aws.String(testKey),
	})

	interval := 5 * time.Minute
	if cfg.UploadInterval != "" {
		customInterval, err := time.ParseDuration(cfg.UploadInterval)
		if err == nil && customInterval > 0 {
			interval = customInterval
		} else {
			logger.Warnf("Invalid snapshot interval (%s), using default (5m)", cfg.UploadInterval)
		}
	}

	persister := &Persister{
		s3Client:     s3Client,
		s3Uploader:   s3manager.NewUploader(sess),
		bucket:       cfg.Bucket,
		fullBasePath: fullBasePath,
		interval:     interval,
	}

	logger.Infof("Snapshot persister initialized. Target: s3://%s/%s/", cfg.Bucket, fullBasePath)
	return persister
}

// Init loads the snapshot storage config from the configured path; a missing
// or empty path disables snapshots.
func Init() *Persister {
	configPath := viper.GetString(constants.SnapshotBucket)
	if configPath == "" {
		return nil
	}

	var cfg types.SnapshotStorageConfig
	if err := utils.UnmarshalFile(configPath, &cfg, false); err != nil {
		logger.Errorf("Failed to load snapshot storage config: %s - snapshots disabled", err)
		return nil
	}

	return NewPersister(cfg)
}

func (p *Persister) Interval() time.Duration {
	if p == nil {
		return 0
	}
	return p.interval
}

// UploadConnection writes one connection snapshot under
// <base>/<workspace>/<connection>/<unix-ts>.json.
func (p *Persister) UploadConnection(ctx context.Context, connection *types.Connection) error {
	if p == nil || p.s3Uploader == nil {
		return fmt.Errorf("snapshot persister not initialized")
	}

	data, err := json.MarshalIndent(connection, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal connection %s: %s", connection.ConnectionID, err)
	}

	workspace := connection.WorkspaceID
	if workspace == "" {
		workspace = "default"
	}
	s3Key := path.Join(p.fullBasePath, workspace, connection.ConnectionID,
		fmt.Sprintf("%d.json", time.Now().Unix()))

	logger.Debugf("Uploading snapshot of %s to s3://%s/%s", connection.ConnectionID, p.bucket, s3Key)

	_, err = p.s3Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(s3Key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot to s3://%s/%s: %w", p.bucket, s3Key, err)
	}

	return nil
}

// RunPeriodicSnapshots uploads a snapshot of every listed connection on the
// persister's interval until the context ends, with a final pass on shutdown.
func RunPeriodicSnapshots(ctx context.Context, persister *Persister, list func(ctx context.Context) ([]*types.Connection, error)) {
	if persister == nil {
		return
	}

	uploadAll := func(uploadCtx context.Context) {
		connections, err := list(uploadCtx)
		if err != nil {
			logger.Warnf("Snapshot pass skipped; listing connections failed: %s", err)
			return
		}
		_ = utils.Concurrent(uploadCtx, connections, 4, func(ctx context.Context, connection *types.Connection, _ int) error {
			err := utils.RetryExec(func() error {
				return persister.UploadConnection(ctx, connection)
			}, 2, time.Second)
			if err != nil {
				logger.Warnf("Snapshot upload failed for %s: %s", connection.ConnectionID, err)
			}
			// uploads are best-effort; one failure must not cancel the pass
			return nil
		})
	}

	logger.Infof("Starting periodic connection snapshots. Interval: %v. Target: s3://%s/%s",
		persister.interval, persister.bucket, persister.fullBasePath)

	ticker := time.NewTicker(persister.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			finalCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			logger.Info("Attempting final snapshot pass before shutdown")
			uploadAll(finalCtx)
			cancel()
			return
		case <-ticker.C:
			uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			uploadAll(uploadCtx)
			cancel()
		}
	}
}
