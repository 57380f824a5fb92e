package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ErrAlreadyRunning is returned when a live process holds the lock.
var ErrAlreadyRunning = errors.New("bot is already running")

type lockData struct {
	PID       int    `json:"pid"`
	Timestamp int64  `json:"timestamp"`
	Started   string `json:"started"`
}

// Lock is an acquired singleton lock file.
type Lock struct {
	path string
	pid  int
}

// pidAlive is swapped in tests.
var pidAlive = func(pid int) bool {
	alive, err := process.PidExists(int32(pid))
	return err == nil && alive
}

// AcquireLock writes a lock file for the current process. A lock left by a
// dead process, or by PID 1 after a container restart, is taken over.
func AcquireLock(path string) (*Lock, error) {
	return acquireLock(path, os.Getpid(), time.Now())
}

func acquireLock(path string, pid int, now time.Time) (*Lock, error) {
	if raw, err := os.ReadFile(path); err == nil {
		var existing lockData
		if jerr := json.Unmarshal(raw, &existing); jerr == nil &&
			existing.PID != 1 && existing.PID != pid && pidAlive(existing.PID) {
			started := time.UnixMilli(existing.Timestamp).Format(time.RFC3339)
			return nil, fmt.Errorf("%w (PID: %d, started: %s)", ErrAlreadyRunning, existing.PID, started)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read lock file: %w", err)
	}

	data, err := json.MarshalIndent(lockData{
		PID:       pid,
		Timestamp: now.UnixMilli(),
		Started:   now.UTC().Format(time.RFC3339Nano),
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write lock file: %w", err)
	}
	return &Lock{path: path, pid: pid}, nil
}

// Release removes the lock file if it still belongs to this process.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	raw, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var existing lockData
	if err := json.Unmarshal(raw, &existing); err != nil || existing.PID != l.pid {
		return nil
	}
	return os.Remove(l.path)
}
