package swap

import (
	"sync"
	"testing"
)

func TestLockTableMutualExclusion(t *testing.T) {
	table := newLockTable()
	var id [32]byte
	id[0] = 0x01

	const workers = 16
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := table.lock(id)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("counter = %d, want %d", counter, workers)
	}
	if len(table.entries) != 0 {
		t.Fatalf("lock table not drained: %d entries", len(table.entries))
	}
}

func TestLockTableIndependentIDs(t *testing.T) {
	table := newLockTable()
	unlockA := table.lock([32]byte{0x0A})

	done := make(chan struct{})
	go func() {
		unlockB := table.lock([32]byte{0x0B})
		unlockB()
		close(done)
	}()
	<-done

	unlockA()
	if len(table.entries) != 0 {
		t.Fatalf("lock table not drained: %d entries", len(table.entries))
	}
}
