//go:build windows

package platform

import "os"

// Windows does not reliably deliver SIGTERM to console apps, so we only listen for os.Interrupt.
var shutdownSignals = []os.Signal{os.Interrupt}
