package inject

import (
	"context"
	"fmt"
	"os"
	"time"
)

// stackSize is the ~16 KiB remote stack spec.md §4.6.3 step 2 calls for.
const stackSize = 16 * 1024

// pollInterval and pollTotal bound how long the injector waits for the
// remote thread's completion magic (spec.md §4.6.3 step 5, §5).
const (
	pollInterval = 20 * time.Millisecond
	pollTotal    = 300 * time.Millisecond
)

const (
	symPthreadCreate = "pthread_create_from_mach_thread"
	symDlopen        = "dlopen"
)

// Injector drives task-port acquisition, remote allocation, shellcode
// construction, and remote thread creation through the interfaces in
// task.go, following spec.md §4.6.3's five steps.
type Injector struct {
	Task     TaskPort
	Threads  ThreadCreator
	Resolver FunctionResolver
	Arch     Arch

	// Sleep defaults to time.Sleep; tests substitute a no-op so the
	// poll loop doesn't actually wait.
	Sleep func(time.Duration)
}

func New(task TaskPort, threads ThreadCreator, resolver FunctionResolver, arch Arch) *Injector {
	return &Injector{Task: task, Threads: threads, Resolver: resolver, Arch: arch, Sleep: time.Sleep}
}

// Inject performs the injection sequence, writing payloadPath into the
// shellcode so the remote dlopen call loads it. socketPath is the SA
// control socket the payload will create once loaded; if it already
// exists, injection is skipped and treated as already-done (spec.md
// §4.6.3's skip policy).
func (inj *Injector) Inject(ctx context.Context, payloadPath, socketPath string) error {
	if _, err := os.Stat(socketPath); err == nil {
		return nil
	}

	pthreadAddr, err := inj.Resolver.Resolve(symPthreadCreate)
	if err != nil {
		return fmt.Errorf("inject: resolve %s: %w", symPthreadCreate, err)
	}
	dlopenAddr, err := inj.Resolver.Resolve(symDlopen)
	if err != nil {
		return fmt.Errorf("inject: resolve %s: %w", symDlopen, err)
	}
	pthreadAddr = StripPAC(pthreadAddr)
	dlopenAddr = StripPAC(dlopenAddr)

	shellcode, err := BuildShellcode(inj.Arch, pthreadAddr, dlopenAddr, payloadPath)
	if err != nil {
		return fmt.Errorf("inject: build shellcode: %w", err)
	}

	stack, err := inj.Task.AllocateRegion(stackSize, ProtRead|ProtWrite)
	if err != nil {
		return fmt.Errorf("inject: allocate stack: %w", err)
	}
	defer stack.Deallocate()

	code, err := inj.Task.AllocateRegion(len(shellcode), ProtRead|ProtExecute)
	if err != nil {
		return fmt.Errorf("inject: allocate code region: %w", err)
	}
	defer code.Deallocate()

	if err := inj.Task.WriteMemory(code, shellcode); err != nil {
		return fmt.Errorf("inject: write shellcode: %w", err)
	}

	thread, err := inj.createThread(code.Address(), stack.Address()+uint64(stackSize))
	if err != nil {
		return fmt.Errorf("inject: create remote thread: %w", err)
	}
	defer thread.Terminate()

	return inj.awaitCompletion(ctx, thread)
}

// createThread implements spec.md §4.6.3 step 4: a direct create-
// running attempt first, falling back to create -> convert (for
// pointer-auth re-signing) -> terminate -> create-running with the
// converted state.
func (inj *Injector) createThread(entry, sp uint64) (RemoteThread, error) {
	if t, err := inj.Threads.CreateRunning(entry, sp); err == nil {
		return t, nil
	}
	suspended, err := inj.Threads.CreateSuspended(entry, sp)
	if err != nil {
		return nil, fmt.Errorf("create-running and create-suspended both failed: %w", err)
	}
	converted, err := inj.Threads.ConvertThreadState(suspended)
	suspended.Terminate()
	if err != nil {
		return nil, fmt.Errorf("convert thread state: %w", err)
	}
	return converted, nil
}

// awaitCompletion polls the remote thread's completion register every
// pollInterval, up to pollTotal total, for CompletionMagic.
func (inj *Injector) awaitCompletion(ctx context.Context, thread RemoteThread) error {
	deadline := time.Now().Add(pollTotal)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		v, err := thread.ReadCompletionRegister()
		if err == nil && v == CompletionMagic {
			return nil
		}
		inj.Sleep(pollInterval)
	}
	return fmt.Errorf("inject: timed out waiting for completion magic after %s", pollTotal)
}
