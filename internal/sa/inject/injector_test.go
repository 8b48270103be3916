package inject

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeRegion struct {
	addr uint64
	size int
}

func (r *fakeRegion) Address() uint64   { return r.addr }
func (r *fakeRegion) Size() int         { return r.size }
func (r *fakeRegion) Deallocate() error { return nil }

type fakeTask struct {
	nextAddr uint64
	writes   map[uint64][]byte
}

func newFakeTask() *fakeTask {
	return &fakeTask{nextAddr: 0x10000, writes: make(map[uint64][]byte)}
}

func (t *fakeTask) Pid() int { return 1234 }

func (t *fakeTask) AllocateRegion(size int, prot Protection) (RemoteRegion, error) {
	r := &fakeRegion{addr: t.nextAddr, size: size}
	t.nextAddr += uint64(size) + 0x1000
	return r, nil
}

func (t *fakeTask) WriteMemory(region RemoteRegion, data []byte) error {
	t.writes[region.Address()] = data
	return nil
}

func (t *fakeTask) Close() error { return nil }

type fakeThread struct {
	completionValue uint64
}

func (t *fakeThread) ReadCompletionRegister() (uint64, error) { return t.completionValue, nil }
func (t *fakeThread) Terminate() error                        { return nil }

type fakeThreads struct {
	createRunningErr error
	completion       uint64
}

func (f *fakeThreads) CreateRunning(entry, sp uint64) (RemoteThread, error) {
	if f.createRunningErr != nil {
		return nil, f.createRunningErr
	}
	return &fakeThread{completionValue: f.completion}, nil
}

func (f *fakeThreads) CreateSuspended(entry, sp uint64) (RemoteThread, error) {
	return &fakeThread{}, nil
}

func (f *fakeThreads) ConvertThreadState(t RemoteThread) (RemoteThread, error) {
	return &fakeThread{completionValue: f.completion}, nil
}

type fakeResolver struct {
	addrs map[string]uint64
}

func (r *fakeResolver) Resolve(symbol string) (uint64, error) {
	addr, ok := r.addrs[symbol]
	if !ok {
		return 0, fmt.Errorf("unresolved symbol %q", symbol)
	}
	return addr, nil
}

func newTestInjector(completion uint64) *Injector {
	inj := New(newFakeTask(), &fakeThreads{completion: completion}, &fakeResolver{addrs: map[string]uint64{
		symPthreadCreate: 0xAA00_0000_1000,
		symDlopen:        0xAA00_0000_2000,
	}}, ArchARM64)
	inj.Sleep = func(time.Duration) {}
	return inj
}

func TestInjectSucceedsWhenThreadReportsCompletion(t *testing.T) {
	inj := newTestInjector(CompletionMagic)
	socketPath := filepath.Join(t.TempDir(), "sa.socket")
	if err := inj.Inject(context.Background(), "/tmp/payload.dylib", socketPath); err != nil {
		t.Fatalf("Inject: %v", err)
	}
}

func TestInjectTimesOutWithoutCompletion(t *testing.T) {
	inj := newTestInjector(0)
	socketPath := filepath.Join(t.TempDir(), "sa.socket")
	if err := inj.Inject(context.Background(), "/tmp/payload.dylib", socketPath); err == nil {
		t.Errorf("expected a timeout error")
	}
}

func TestInjectSkipsWhenSocketAlreadyExists(t *testing.T) {
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "sa.socket")
	if err := os.WriteFile(socketPath, nil, 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	inj := New(nil, nil, nil, ArchARM64) // no task/threads/resolver needed; skip happens first
	if err := inj.Inject(context.Background(), "/tmp/payload.dylib", socketPath); err != nil {
		t.Errorf("expected injection to be skipped without error, got %v", err)
	}
}

func TestInjectFallsBackToCreateSuspendedOnCreateRunningFailure(t *testing.T) {
	task := newFakeTask()
	threads := &fakeThreads{createRunningErr: fmt.Errorf("create-running unsupported"), completion: CompletionMagic}
	resolver := &fakeResolver{addrs: map[string]uint64{symPthreadCreate: 0x1000, symDlopen: 0x2000}}
	inj := New(task, threads, resolver, ArchARM64)
	inj.Sleep = func(time.Duration) {}
	socketPath := filepath.Join(t.TempDir(), "sa.socket")
	if err := inj.Inject(context.Background(), "/tmp/payload.dylib", socketPath); err != nil {
		t.Errorf("expected the create-suspended fallback path to succeed, got %v", err)
	}
}
