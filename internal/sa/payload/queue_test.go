package payload

import (
	"context"
	"testing"
	"time"
)

func TestMainQueueRunsJobsSerially(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := NewMainQueue()
	q.Start(ctx)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		q.Run(func() { order = append(order, i) })
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("expected sequential execution, got %v", order)
		}
	}
}

func TestMainQueueRunBlocksUntilJobCompletes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := NewMainQueue()
	q.Start(ctx)

	done := false
	q.Run(func() {
		time.Sleep(5 * time.Millisecond)
		done = true
	})
	if !done {
		t.Errorf("expected Run to block until the job set done=true")
	}
}
