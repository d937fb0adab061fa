//go:build windows

package output

import (
	"syscall"
	"unsafe"
)

const (
	enableVirtualTerminalProcessing = 0x0004
	stdOutputHandle                 = uint32(0xFFFFFFF5) // -11
)

var (
	kernel32           = syscall.NewLazyDLL("kernel32.dll")
	procGetConsoleMode = kernel32.NewProc("GetConsoleMode")
	procSetConsoleMode = kernel32.NewProc("SetConsoleMode")
	procGetStdHandle   = kernel32.NewProc("GetStdHandle")
)

// enableANSI switches the console into virtual terminal mode so ANSI
// escape sequences render. Fails closed on legacy consoles.
func enableANSI() bool {
	handle, _, _ := procGetStdHandle.Call(uintptr(stdOutputHandle))
	if handle == uintptr(syscall.InvalidHandle) {
		return false
	}

	var mode uint32
	ret, _, _ := procGetConsoleMode.Call(handle, uintptr(unsafe.Pointer(&mode)))
	if ret == 0 {
		return false
	}

	mode |= enableVirtualTerminalProcessing
	ret, _, _ = procSetConsoleMode.Call(handle, uintptr(mode))
	return ret != 0
}
