package snark

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/go-envparse"
)

// Default timeouts, matching the original Rust server's constants.
const (
	DefaultLockTimeout              = 10 * time.Second
	DefaultTaskGetBackTimeout       = 60 * time.Second
	DefaultExitTimeoutAfterTaskDone = 300 * time.Second
	DefaultPort                     = "50051"
)

// Config holds the server's tunables: the listen port and the three
// timeouts from spec section 3. Zero Config{} is not valid; use
// DefaultConfig.
type Config struct {
	Port string

	LockTimeout              time.Duration
	TaskGetBackTimeout       time.Duration
	ExitTimeoutAfterTaskDone time.Duration
}

// DefaultConfig returns the server's out-of-the-box tunables.
func DefaultConfig() *Config {
	return &Config{
		Port:                     DefaultPort,
		LockTimeout:              DefaultLockTimeout,
		TaskGetBackTimeout:       DefaultTaskGetBackTimeout,
		ExitTimeoutAfterTaskDone: DefaultExitTimeoutAfterTaskDone,
	}
}

// env var names recognized by LoadEnv.
const (
	envPort                     = "SNARK_SERVER_PORT"
	envLockTimeout              = "SNARK_SERVER_LOCK_TIMEOUT"
	envTaskGetBackTimeout       = "SNARK_SERVER_TASK_GET_BACK_TIMEOUT"
	envExitTimeoutAfterTaskDone = "SNARK_SERVER_EXIT_TIMEOUT_AFTER_TASK_DONE"
)

// LoadEnv parses a flat KEY=value environment block (one assignment per
// line) and applies any keys it recognizes over cfg. Unknown keys are
// ignored; durations are parsed with time.ParseDuration.
func (c *Config) LoadEnv(data []byte) error {
	vars, err := envparse.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing env config: %w", err)
	}

	if v, ok := vars[envPort]; ok && v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("%s: %w", envPort, err)
		}
		c.Port = v
	}
	if v, ok := vars[envLockTimeout]; ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envLockTimeout, err)
		}
		c.LockTimeout = d
	}
	if v, ok := vars[envTaskGetBackTimeout]; ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envTaskGetBackTimeout, err)
		}
		c.TaskGetBackTimeout = d
	}
	if v, ok := vars[envExitTimeoutAfterTaskDone]; ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envExitTimeoutAfterTaskDone, err)
		}
		c.ExitTimeoutAfterTaskDone = d
	}
	return nil
}
