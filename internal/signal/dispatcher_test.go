package signal

import (
	"errors"
	"fmt"
	"testing"
)

// fakeInstaller records trampoline operations and can fail on demand.
type fakeInstaller struct {
	installed  map[int]bool
	installErr error
	restoreErr error
}

func newFakeInstaller() *fakeInstaller {
	return &fakeInstaller{installed: make(map[int]bool)}
}

func (f *fakeInstaller) install(sig int) error {
	if f.installErr != nil {
		return f.installErr
	}
	f.installed[sig] = true
	return nil
}

func (f *fakeInstaller) restore(sig int) error {
	if f.restoreErr != nil {
		return f.restoreErr
	}
	delete(f.installed, sig)
	return nil
}

func newTestDispatcher(in installer, opts ...Option) *Dispatcher {
	return NewDispatcher(append([]Option{withInstaller(in)}, opts...)...)
}

func TestRegisterInvalidSignal(t *testing.T) {
	d := newTestDispatcher(newFakeInstaller())

	if err := d.Register(0, func() {}); !errors.Is(err, ErrInvalidSignal) {
		t.Errorf("expected ErrInvalidSignal, got %v", err)
	}
	if err := d.Register(-2, func() {}); !errors.Is(err, ErrInvalidSignal) {
		t.Errorf("expected ErrInvalidSignal, got %v", err)
	}
}

func TestRegisterNilCallback(t *testing.T) {
	d := newTestDispatcher(newFakeInstaller())

	if err := d.Register(2, nil); !errors.Is(err, ErrNilCallback) {
		t.Errorf("expected ErrNilCallback, got %v", err)
	}
}

func TestRegisterAndDispatch(t *testing.T) {
	d := newTestDispatcher(newFakeInstaller())

	fired := false
	if err := d.Register(2, func() { fired = true }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d.Dispatch(2)
	if !fired {
		t.Error("expected callback to fire")
	}
}

func TestRegisterReplacesCallback(t *testing.T) {
	d := newTestDispatcher(newFakeInstaller())

	var got string
	if err := d.Register(2, func() { got = "first" }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Register(2, func() { got = "second" }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d.Dispatch(2)
	if got != "second" {
		t.Errorf("expected second callback to fire, got %q", got)
	}
}

func TestRegisterRollsBackOnInstallFailure(t *testing.T) {
	in := newFakeInstaller()
	in.installErr = errors.New("sigaction failed")
	d := newTestDispatcher(in)

	err := d.Register(2, func() {})
	if !errors.Is(err, ErrRegisterFailed) {
		t.Fatalf("expected ErrRegisterFailed, got %v", err)
	}
	if d.registered(2) {
		t.Error("expected registry entry to be rolled back")
	}
}

func TestRegisterRollbackKeepsPreviousCallback(t *testing.T) {
	in := newFakeInstaller()
	d := newTestDispatcher(in)

	var got string
	if err := d.Register(2, func() { got = "first" }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in.installErr = errors.New("sigaction failed")
	if err := d.Register(2, func() { got = "second" }); !errors.Is(err, ErrRegisterFailed) {
		t.Fatalf("expected ErrRegisterFailed, got %v", err)
	}

	d.Dispatch(2)
	if got != "first" {
		t.Errorf("expected original callback to survive rollback, got %q", got)
	}
}

func TestUnregisterUnknownSignalIsNoop(t *testing.T) {
	d := newTestDispatcher(newFakeInstaller())

	if err := d.Unregister(15); err != nil {
		t.Errorf("expected no-op success, got %v", err)
	}
}

func TestUnregisterRemovesCallback(t *testing.T) {
	in := newFakeInstaller()
	d := newTestDispatcher(in)

	if err := d.Register(15, func() {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Unregister(15); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.registered(15) {
		t.Error("expected entry removed")
	}
	if in.installed[15] {
		t.Error("expected OS disposition restored")
	}
}

func TestUnregisterReportsRestoreFailure(t *testing.T) {
	in := newFakeInstaller()
	d := newTestDispatcher(in)

	if err := d.Register(15, func() {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in.restoreErr = errors.New("sigaction failed")
	if err := d.Unregister(15); !errors.Is(err, ErrUnregisterFailed) {
		t.Errorf("expected ErrUnregisterFailed, got %v", err)
	}
}

func TestDispatchUnknownSignalIsNoop(t *testing.T) {
	d := newTestDispatcher(newFakeInstaller())
	d.Dispatch(99) // must not panic
}

func TestDispatchDropsWhenRegistryBusy(t *testing.T) {
	var logged string
	d := newTestDispatcher(newFakeInstaller(), WithLogf(func(format string, args ...any) {
		logged = fmt.Sprintf(format, args...)
	}))

	fired := false
	if err := d.Register(2, func() { fired = true }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulate a delivery arriving while normal-context code holds the
	// registry lock: dispatch must log and return, never block.
	d.mu.Lock()
	d.Dispatch(2)
	d.mu.Unlock()

	if fired {
		t.Error("expected callback not to fire while registry busy")
	}
	if logged == "" {
		t.Error("expected a dropped-dispatch log line")
	}
}

func TestDispatchRecoversCallbackPanic(t *testing.T) {
	var logged string
	d := newTestDispatcher(newFakeInstaller(), WithLogf(func(format string, args ...any) {
		logged = fmt.Sprintf(format, args...)
	}))

	if err := d.Register(2, func() { panic("boom") }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d.Dispatch(2) // must not propagate the panic
	if logged == "" {
		t.Error("expected the panic to be reported")
	}

	// The registry stays consistent after a misbehaving callback.
	if !d.registered(2) {
		t.Error("expected registration to survive the panic")
	}
}

func TestDefaultIsProcessWide(t *testing.T) {
	if Default() != Default() {
		t.Error("expected the same dispatcher instance")
	}
}
