//go:build !linux && !windows

package cpu

import "runtime"

// Pin locks the calling goroutine to an OS thread. Core pinning is not
// available on this platform.
func Pin(workerID int) func() {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}
