//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to an OS thread and binds that thread
// to a single core chosen from workerID. The returned func releases the
// thread lock and must be deferred by the worker.
func Pin(workerID int) func() {
	runtime.LockOSThread()

	core := workerID % runtime.NumCPU()
	if core < 0 {
		core += runtime.NumCPU()
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)
	_ = unix.SchedSetaffinity(0, &mask) // 0 = current thread; failure just means no pinning

	return runtime.UnlockOSThread
}
