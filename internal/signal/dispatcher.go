// Package signal provides a process-wide registry mapping signal numbers to
// callbacks. Registration installs an OS-level trampoline that forwards
// deliveries to Dispatch; Dispatch is safe to invoke from the asynchronous
// delivery context because it never blocks on the registry lock.
package signal

import (
	"errors"
	"fmt"
	"sync"
)

// Dispatcher errors.
var (
	// ErrInvalidSignal indicates a non-positive signal number.
	ErrInvalidSignal = errors.New("invalid signal number")

	// ErrNilCallback indicates a nil callback was offered to Register.
	ErrNilCallback = errors.New("nil callback")

	// ErrRegisterFailed indicates the OS-level trampoline could not be
	// installed. The registry entry is rolled back.
	ErrRegisterFailed = errors.New("signal registration failed")

	// ErrUnregisterFailed indicates the OS default disposition could not be
	// restored.
	ErrUnregisterFailed = errors.New("signal unregistration failed")
)

// Callback is invoked when a registered signal is dispatched. Callbacks run
// on the delivery context and must restrict themselves to signal-safe work,
// such as flipping a stop flag. Terminal teardown belongs to the session
// loop's own exit path, never here.
type Callback func()

// installer abstracts the OS-level trampoline so registration failures have
// a real code path and tests can inject them.
type installer interface {
	install(sig int) error
	restore(sig int) error
}

// Dispatcher is the signal registry. The zero value is not usable; use
// NewDispatcher or the process-wide Default.
type Dispatcher struct {
	mu        sync.Mutex
	callbacks map[int]Callback
	installer installer
	logf      func(format string, args ...any)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogf sets the function used to report dropped dispatches and callback
// panics. The default discards them.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(d *Dispatcher) {
		if logf != nil {
			d.logf = logf
		}
	}
}

// withInstaller overrides the OS trampoline, for tests.
func withInstaller(in installer) Option {
	return func(d *Dispatcher) {
		d.installer = in
	}
}

// NewDispatcher creates a dispatcher with its own registry. Most callers
// want Default instead: the OS delivers signals process-wide.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		callbacks: make(map[int]Callback),
		logf:      func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.installer == nil {
		d.installer = newOSInstaller(d)
	}
	return d
}

var (
	defaultOnce       sync.Once
	defaultDispatcher *Dispatcher
)

// Default returns the process-wide dispatcher. It outlives any single
// session, so sessions must unregister their signals at teardown rather
// than rely on it going away.
func Default() *Dispatcher {
	defaultOnce.Do(func() {
		defaultDispatcher = NewDispatcher()
	})
	return defaultDispatcher
}

// Register stores a callback for the given signal and installs the OS
// trampoline. Registering an already-registered signal replaces the
// callback. If trampoline installation fails the registry entry is rolled
// back and ErrRegisterFailed is returned.
func (d *Dispatcher) Register(sig int, callback Callback) error {
	if sig <= 0 {
		return ErrInvalidSignal
	}
	if callback == nil {
		return ErrNilCallback
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	prev, existed := d.callbacks[sig]
	d.callbacks[sig] = callback

	if err := d.installer.install(sig); err != nil {
		if existed {
			d.callbacks[sig] = prev
		} else {
			delete(d.callbacks, sig)
		}
		return fmt.Errorf("%w: signal %d: %v", ErrRegisterFailed, sig, err)
	}
	return nil
}

// Unregister removes the callback for the given signal and restores the OS
// default disposition. Unregistering a signal that was never registered is
// a successful no-op.
func (d *Dispatcher) Unregister(sig int) error {
	if sig <= 0 {
		return ErrInvalidSignal
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.callbacks[sig]; !ok {
		return nil
	}
	delete(d.callbacks, sig)

	if err := d.installer.restore(sig); err != nil {
		return fmt.Errorf("%w: signal %d: %v", ErrUnregisterFailed, sig, err)
	}
	return nil
}

// Dispatch looks up and invokes the callback for a delivered signal. It
// runs on the delivery context, which may interrupt a holder of the
// registry lock, so the lock is only try-acquired: when it is already held
// the delivery is logged and dropped instead of deadlocking. A panic inside
// the callback is caught and reported; it never propagates out of Dispatch.
func (d *Dispatcher) Dispatch(sig int) {
	if !d.mu.TryLock() {
		d.logf("signal %d received while registry busy; dropped", sig)
		return
	}
	defer d.mu.Unlock()

	callback, ok := d.callbacks[sig]
	if !ok || callback == nil {
		return
	}
	d.invoke(sig, callback)
}

func (d *Dispatcher) invoke(sig int, callback Callback) {
	defer func() {
		if r := recover(); r != nil {
			d.logf("panic in callback for signal %d: %v", sig, r)
		}
	}()
	callback()
}

// registered reports whether a callback exists for sig, for tests.
func (d *Dispatcher) registered(sig int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.callbacks[sig]
	return ok
}
