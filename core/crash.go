package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// crashHandler is invoked with the recovered value when a goroutine
// launched via Go panics. Defaults to a stderr dump + exit.
var crashHandler atomic.Value // func(any)

// SetCrashHandler installs a process-wide panic handler for Go goroutines.
// Call once during startup before any engine goroutines are spawned.
func SetCrashHandler(fn func(any)) {
	crashHandler.Store(fn)
}

// HandleCrash dispatches a recovered panic value to the installed handler
func HandleCrash(r any) {
	if r == nil {
		return
	}
	if fn, ok := crashHandler.Load().(func(any)); ok && fn != nil {
		fn(r)
		return
	}
	fmt.Fprintf(os.Stderr, "\nCRASH DETECTED: %v\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword so a crash always reaches the
// installed handler (terminal restore, log flush) before exit.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
