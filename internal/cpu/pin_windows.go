//go:build windows

package cpu

import (
	"runtime"
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread      = kernel32.NewProc("GetCurrentThread")
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

	handle, _, _ := getCurrentThread.Call()
	// Bit N of the mask selects CPU N.
	_, _, _ = setThreadAffinityMask.Call(handle, uintptr(1)<<uint(core))

	return runtime.UnlockOSThread
}
