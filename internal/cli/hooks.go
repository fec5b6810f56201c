package cli

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// processLogHooks logs every child process at debug level. It is registered
// with -v.
type processLogHooks struct {
	logger *log.Logger
}

func (h processLogHooks) OnStart(_ context.Context, name string, args []string) {
	h.logger.Debug("Exec", "cmd", strings.TrimSpace(name+" "+strings.Join(args, " ")))
}

func (h processLogHooks) OnExit(_ context.Context, name string, exitCode int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Exited", "cmd", name, "code", exitCode, "elapsed", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("Exited", "cmd", name, "code", exitCode, "elapsed", d.Round(time.Millisecond))
}

// backupLogHooks logs pipeline timings at debug level. It is registered
// with -v.
type backupLogHooks struct {
	logger *log.Logger
}

func (h backupLogHooks) OnListStart(_ context.Context, project string) {
	h.logger.Debug("Listing dependencies", "project", project)
}

func (h backupLogHooks) OnListComplete(_ context.Context, project string, size int, d time.Duration, err error) {
	h.logger.Debug("Listed dependencies", "project", project, "bytes", size, "elapsed", d.Round(time.Millisecond), "ok", err == nil)
}

func (h backupLogHooks) OnArchiveStart(context.Context, string, string) {}

func (h backupLogHooks) OnArchiveComplete(_ context.Context, id, version string, d time.Duration, err error) {
	h.logger.Debug("Install finished", "package", id+":"+version, "elapsed", d.Round(time.Millisecond), "ok", err == nil)
}

func (h backupLogHooks) OnNormalizeComplete(_ context.Context, moved, failed int, d time.Duration) {
	h.logger.Debug("Normalize finished", "moved", moved, "failed", failed, "elapsed", d.Round(time.Millisecond))
}
