package inject

// Protection is a remote memory region's page protection, modeled on
// the VM_PROT_* flags spec.md §4.6.3 implies (RW stack, RX code).
type Protection int

const (
	ProtRead Protection = 1 << iota
	ProtWrite
	ProtExecute
)

// RemoteRegion is memory allocated inside the target process's address
// space.
type RemoteRegion interface {
	Address() uint64
	Size() int
	Deallocate() error
}

// TaskPort is a handle to the target process obtained via task_for_pid,
// scoped to the operations injection needs: allocate/write remote
// memory, and release the port itself.
type TaskPort interface {
	Pid() int
	AllocateRegion(size int, prot Protection) (RemoteRegion, error)
	WriteMemory(region RemoteRegion, data []byte) error
	Close() error
}

// RemoteThread is a thread running inside the target process.
type RemoteThread interface {
	// ReadCompletionRegister reads the register the shellcode leaves
	// CompletionMagic in once it has finished (spec.md §6).
	ReadCompletionRegister() (uint64, error)
	Terminate() error
}

// ThreadCreator creates and converts remote threads. ARM64 attempts a
// direct "create-running" call first; on failure it falls back to
// create -> ConvertThreadState (for pointer-auth re-signing) ->
// terminate -> create-running with the converted state (spec.md
// §4.6.3 step 4). ConvertThreadState encapsulates that whole fallback
// tail and returns the thread that ends up running.
type ThreadCreator interface {
	CreateRunning(entry, stackPointer uint64) (RemoteThread, error)
	CreateSuspended(entry, stackPointer uint64) (RemoteThread, error)
	ConvertThreadState(t RemoteThread) (RemoteThread, error)
}

// FunctionResolver looks up a symbol's address in the injector's own
// address space (spec.md §4.6.3 step 3: "looked up in the injector's
// own address space").
type FunctionResolver interface {
	Resolve(symbol string) (uint64, error)
}
