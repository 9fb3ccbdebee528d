package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-json"
	"github.com/oklog/ulid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/yaml"
)

var (
	ulidMutex   sync.Mutex
	ulidEntropy = ulid.Monotonic(rand.Reader, 0)
)

// ULID returns a lexicographically sortable unique identifier.
func ULID() string {
	ulidMutex.Lock()
	defer ulidMutex.Unlock()

	return ulid.MustNew(ulid.Now(), ulidEntropy).String()
}

func Ternary(cond bool, a, b any) any {
	if cond {
		return a
	}

	return b
}

// ArrayContains checks if an element is present in the array via the
// provided check; returns the index of the first match.
func ArrayContains[T any](array []T, check func(elem T) bool) (int, bool) {
	for idx, elem := range array {
		if check(elem) {
			return idx, true
		}
	}

	return -1, false
}

func MapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	return keys
}

func IsValidSubcommand(available []*cobra.Command, sub string) bool {
	for _, command := range available {
		if sub == command.Name() {
			return true
		}
	}

	return false
}

func CheckIfFilesExists(files ...string) error {
	for _, file := range files {
		// Check if the file exists
		if _, err := os.Stat(file); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", file)
		}
	}

	return nil
}

// UnmarshalFile reads a JSON or YAML file into dest; with validateConfig it
// also runs struct validation on the decoded value.
func UnmarshalFile(filePath string, dest any, validateConfig bool) error {
	if err := CheckIfFilesExists(filePath); err != nil {
		return err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %s", filePath, err)
	}

	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal file %s: %s", filePath, err)
	}

	if validateConfig {
		if err := Validate(dest); err != nil {
			return fmt.Errorf("invalid config in %s: %s", filePath, err)
		}
	}

	return nil
}

// Unmarshal transfers a decoded value into a typed destination through a
// JSON round trip; used for opaque per-backend config payloads.
func Unmarshal(source, dest any) error {
	data, err := json.Marshal(source)
	if err != nil {
		return fmt.Errorf("failed to remarshal source: %s", err)
	}

	return json.Unmarshal(data, dest)
}

// WriteFile marshals content as indented JSON and writes it at filePath.
func WriteFile(filePath string, content any) error {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal content: %s", err)
	}

	return os.WriteFile(filePath, data, 0o644)
}

// Concurrent executes one call per element with bounded parallelism; the
// first error cancels the remaining calls.
func Concurrent[T any](ctx context.Context, array []T, concurrency int, execute func(ctx context.Context, one T, executionNumber int) error) error {
	executor, ctx := errgroup.WithContext(ctx)
	executor.SetLimit(concurrency)

	for idx, one := range array {
		executor.Go(func() error {
			return execute(ctx, one, idx+1)
		})
	}

	return executor.Wait()
}
