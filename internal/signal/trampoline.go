package signal

import (
	"os"
	gosignal "os/signal"
	"sync"
	"syscall"
)

// osInstaller routes OS signal delivery through a notification channel to
// the dispatcher. One forwarding goroutine drains the channel for the life
// of the process; per-signal subscription is handled by os/signal.
type osInstaller struct {
	dispatcher *Dispatcher

	mu      sync.Mutex
	ch      chan os.Signal
	started bool
}

func newOSInstaller(d *Dispatcher) *osInstaller {
	return &osInstaller{dispatcher: d}
}

func (o *osInstaller) install(sig int) error {
	o.mu.Lock()
	if !o.started {
		// Buffered so a delivery during a slow Dispatch is not lost.
		o.ch = make(chan os.Signal, 8)
		go o.forward(o.ch)
		o.started = true
	}
	ch := o.ch
	o.mu.Unlock()

	gosignal.Notify(ch, syscall.Signal(sig))
	return nil
}

func (o *osInstaller) restore(sig int) error {
	gosignal.Reset(syscall.Signal(sig))
	return nil
}

// forward is the trampoline body: it shrinks the signal-unsafe surface to a
// registry lookup and callback invocation inside Dispatch.
func (o *osInstaller) forward(ch <-chan os.Signal) {
	for s := range ch {
		if sig, ok := s.(syscall.Signal); ok {
			o.dispatcher.Dispatch(int(sig))
		}
	}
}
