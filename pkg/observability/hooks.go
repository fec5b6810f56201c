// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about backup runs and the child processes they spawn.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBackupHooks(&myBackupHooks{})
//	    observability.SetProcessHooks(&myProcessHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Backup().OnArchiveStart(ctx, id, version)
//	// ... install package ...
//	observability.Backup().OnArchiveComplete(ctx, id, version, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Backup Hooks
// =============================================================================

// BackupHooks receives events from the backup pipeline.
type BackupHooks interface {
	// Listing events
	OnListStart(ctx context.Context, project string)
	OnListComplete(ctx context.Context, project string, size int, duration time.Duration, err error)

	// Archive events, one pair per package
	OnArchiveStart(ctx context.Context, id, version string)
	OnArchiveComplete(ctx context.Context, id, version string, duration time.Duration, err error)

	// Normalize events
	OnNormalizeComplete(ctx context.Context, moved, failed int, duration time.Duration)
}

// =============================================================================
// Process Hooks
// =============================================================================

// ProcessHooks receives events about child processes.
type ProcessHooks interface {
	// OnStart records a process about to be started.
	OnStart(ctx context.Context, name string, args []string)

	// OnExit records a finished process. exitCode is -1 if it never started.
	OnExit(ctx context.Context, name string, exitCode int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBackupHooks is a no-op implementation of BackupHooks.
type NoopBackupHooks struct{}

func (NoopBackupHooks) OnListStart(context.Context, string)                                     {}
func (NoopBackupHooks) OnListComplete(context.Context, string, int, time.Duration, error)       {}
func (NoopBackupHooks) OnArchiveStart(context.Context, string, string)                          {}
func (NoopBackupHooks) OnArchiveComplete(context.Context, string, string, time.Duration, error) {}
func (NoopBackupHooks) OnNormalizeComplete(context.Context, int, int, time.Duration)            {}

// NoopProcessHooks is a no-op implementation of ProcessHooks.
type NoopProcessHooks struct{}

func (NoopProcessHooks) OnStart(context.Context, string, []string)                 {}
func (NoopProcessHooks) OnExit(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	backupHooks  BackupHooks  = NoopBackupHooks{}
	processHooks ProcessHooks = NoopProcessHooks{}
	hooksMu      sync.RWMutex
)

// SetBackupHooks registers custom backup hooks.
// This should be called once at application startup before any backup runs.
func SetBackupHooks(h BackupHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		backupHooks = h
	}
}

// SetProcessHooks registers custom process hooks.
// This should be called once at application startup before any process is spawned.
func SetProcessHooks(h ProcessHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		processHooks = h
	}
}

// Backup returns the registered backup hooks.
func Backup() BackupHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return backupHooks
}

// Process returns the registered process hooks.
func Process() ProcessHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return processHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	backupHooks = NoopBackupHooks{}
	processHooks = NoopProcessHooks{}
}
