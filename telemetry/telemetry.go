package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	analytics "github.com/segmentio/analytics-go/v3"
	"github.com/spf13/viper"

	"github.com/lakedeck/lakedeck/constants"
	"github.com/lakedeck/lakedeck/utils"
	"github.com/lakedeck/lakedeck/utils/logger"
)

const (
	anonymousIDFile = "telemetry_id"
	version         = "0.1.0"
)

var (
	once     sync.Once
	instance *Telemetry
	idLock   sync.Mutex
)

// Telemetry sends anonymous usage events through Segment. A disabled
// instance swallows events; no caller ever branches on the switch.
type Telemetry struct {
	client   analytics.Client
	enabled  bool
	platform platformInfo
}

type platformInfo struct {
	OS      string
	Arch    string
	Version string
	NumCPU  int
}

// Init creates the singleton; called by the root command after viper is
// wired. Telemetry stays off unless a Segment write key is configured and
// LAKEDECK_TELEMETRY_DISABLED is not set.
func Init() {
	GetInstance()
}

func GetInstance() *Telemetry {
	once.Do(createTelemetry)
	return instance
}

func createTelemetry() {
	writeKey := viper.GetString(constants.TelemetryKey)
	enabled := writeKey != "" && os.Getenv("LAKEDECK_TELEMETRY_DISABLED") == ""

	instance = &Telemetry{
		enabled: enabled,
		platform: platformInfo{
			OS:      runtime.GOOS,
			Arch:    runtime.GOARCH,
			Version: version,
			NumCPU:  runtime.NumCPU(),
		},
	}
	if !enabled {
		logger.Debug("Telemetry is disabled")
		return
	}

	instance.client = analytics.New(writeKey)
}

// SendEvent enqueues one tracked event with platform properties attached.
func (t *Telemetry) SendEvent(eventName string, properties map[string]interface{}) error {
	if t == nil || !t.enabled || t.client == nil {
		return nil
	}

	props := map[string]interface{}{
		"os":               t.platform.OS,
		"arch":             t.platform.Arch,
		"lakedeck_version": t.platform.Version,
		"num_cpu":          t.platform.NumCPU,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range properties {
		props[k] = v
	}

	err := t.client.Enqueue(analytics.Track{
		UserId:     GetAnonymousID(),
		Event:      eventName,
		Properties: props,
	})
	if err != nil {
		logger.Debugf("Failed to enqueue telemetry event %s: %s", eventName, err)
	}

	return err
}

// Flush drains queued events; called before command exit.
func (t *Telemetry) Flush() error {
	if t == nil || t.client == nil {
		return nil
	}

	return t.client.Close()
}

// GetAnonymousID returns the persisted anonymous identifier, minting one
// under the config folder on first use.
func GetAnonymousID() string {
	idLock.Lock()
	defer idLock.Unlock()

	configDir := viper.GetString(constants.ConfigFolder)
	idPath := filepath.Join(configDir, anonymousIDFile)

	if idBytes, err := os.ReadFile(idPath); err == nil && len(idBytes) > 0 {
		return string(idBytes)
	}

	newID := utils.ULID()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		logger.Debugf("Failed to create config dir for telemetry id: %s", err)
		return newID
	}
	if err := os.WriteFile(idPath, []byte(newID), 0o600); err != nil {
		logger.Debugf("Failed to persist telemetry id: %s", err)
	}

	return newID
}

// TrackCommand wraps a command run with a completion event carrying the
// duration and outcome.
func TrackCommand(command string, run func() error) error {
	start := time.Now()
	err := run()

	client := GetInstance()
	props := map[string]interface{}{
		"duration_sec": time.Since(start).Seconds(),
		"success":      err == nil,
	}
	if err != nil {
		props["error"] = err.Error()
	}
	if sendErr := client.SendEvent(fmt.Sprintf("%sCompleted", command), props); sendErr != nil {
		logger.Debugf("Failed to send %s completion event: %s", command, sendErr)
	}
	if flushErr := client.Flush(); flushErr != nil {
		logger.Debugf("Failed to flush telemetry: %s", flushErr)
	}

	return err
}
