//go:build !windows

package platform

import (
	"os"
	"syscall"
)

// SIGHUP arrives when the desktop shell that spawned the sidecar goes away.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
