package state

import (
	"errors"
	"math/big"
	"testing"

	"swapvault/storage"
)

func testAddr(fill byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = fill
	}
	return addr
}

func TestTransitionCommits(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())
	alice := testAddr(0xA1)

	err := mgr.Transition(func() error {
		return mgr.Mint(alice, big.NewInt(100))
	})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}

	err = mgr.View(func() error {
		account, err := mgr.GetAccount(alice)
		if err != nil {
			return err
		}
		if account.Balance.Cmp(big.NewInt(100)) != 0 {
			t.Fatalf("balance = %s, want 100", account.Balance)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestTransitionRollsBackOnError(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())
	alice := testAddr(0xA1)

	sentinel := errors.New("abort")
	err := mgr.Transition(func() error {
		if err := mgr.Mint(alice, big.NewInt(100)); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want %v", err, sentinel)
	}

	_ = mgr.View(func() error {
		account, err := mgr.GetAccount(alice)
		if err != nil {
			t.Fatalf("GetAccount: %v", err)
		}
		if account.Balance.Sign() != 0 {
			t.Fatalf("aborted mint leaked: balance = %s", account.Balance)
		}
		return nil
	})
}

func TestTransitionDetachesOverlayOnPanic(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())
	alice := testAddr(0xA1)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = mgr.Transition(func() error {
			if err := mgr.Mint(alice, big.NewInt(100)); err != nil {
				return err
			}
			panic("mid-transition failure")
		})
	}()

	// The aborted overlay must not keep serving buffered writes.
	_ = mgr.View(func() error {
		account, err := mgr.GetAccount(alice)
		if err != nil {
			t.Fatalf("GetAccount: %v", err)
		}
		if account.Balance.Sign() != 0 {
			t.Fatalf("aborted write visible after panic: %s", account.Balance)
		}
		return nil
	})

	// And mutations outside a transition must be rejected again.
	err := mgr.View(func() error {
		return mgr.Mint(alice, big.NewInt(1))
	})
	if !errors.Is(err, errNoTransition) {
		t.Fatalf("err = %v, want %v", err, errNoTransition)
	}

	// The manager stays usable for subsequent transitions.
	if err := mgr.Transition(func() error { return mgr.Mint(alice, big.NewInt(7)) }); err != nil {
		t.Fatalf("Transition after panic: %v", err)
	}
}

// commitCountingDB fails Write on demand and records how the manager commits.
type commitCountingDB struct {
	*storage.MemDB
	writes    int
	puts      int
	deletes   int
	failWrite bool
}

func (db *commitCountingDB) Put(key, value []byte) error {
	db.puts++
	return db.MemDB.Put(key, value)
}

func (db *commitCountingDB) Delete(key []byte) error {
	db.deletes++
	return db.MemDB.Delete(key)
}

func (db *commitCountingDB) Write(batch *storage.Batch) error {
	db.writes++
	if db.failWrite {
		return errors.New("injected write failure")
	}
	return db.MemDB.Write(batch)
}

func TestTransitionCommitsAsSingleBatch(t *testing.T) {
	db := &commitCountingDB{MemDB: storage.NewMemDB()}
	mgr := NewManager(db)
	alice := testAddr(0xA1)
	bob := testAddr(0xB1)

	err := mgr.Transition(func() error {
		if err := mgr.Mint(alice, big.NewInt(10)); err != nil {
			return err
		}
		return mgr.Mint(bob, big.NewInt(20))
	})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if db.writes != 1 {
		t.Fatalf("batch writes = %d, want 1", db.writes)
	}
	if db.puts != 0 || db.deletes != 0 {
		t.Fatalf("commit bypassed the batch: %d puts, %d deletes", db.puts, db.deletes)
	}
}

func TestTransitionCommitFailureLeavesNothing(t *testing.T) {
	db := &commitCountingDB{MemDB: storage.NewMemDB(), failWrite: true}
	mgr := NewManager(db)
	alice := testAddr(0xA1)

	err := mgr.Transition(func() error {
		return mgr.Mint(alice, big.NewInt(10))
	})
	if err == nil {
		t.Fatal("commit failure not surfaced")
	}

	db.failWrite = false
	_ = mgr.View(func() error {
		account, viewErr := mgr.GetAccount(alice)
		if viewErr != nil {
			t.Fatalf("GetAccount: %v", viewErr)
		}
		if account.Balance.Sign() != 0 {
			t.Fatalf("failed commit persisted state: %s", account.Balance)
		}
		return nil
	})
}

func TestMutationOutsideTransitionFails(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())
	err := mgr.View(func() error {
		return mgr.Mint(testAddr(0xA1), big.NewInt(1))
	})
	if !errors.Is(err, errNoTransition) {
		t.Fatalf("err = %v, want %v", err, errNoTransition)
	}
}

func TestTransferSemantics(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())
	alice := testAddr(0xA1)
	bob := testAddr(0xB1)

	err := mgr.Transition(func() error {
		if err := mgr.Mint(alice, big.NewInt(100)); err != nil {
			return err
		}
		if err := mgr.Transfer(alice, bob, big.NewInt(30)); err != nil {
			return err
		}
		// Zero and nil amounts are no-ops.
		if err := mgr.Transfer(alice, bob, nil); err != nil {
			return err
		}
		if err := mgr.Transfer(alice, bob, big.NewInt(0)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}

	err = mgr.Transition(func() error {
		return mgr.Transfer(alice, bob, big.NewInt(100))
	})
	if err == nil {
		t.Fatal("overdraft accepted")
	}

	err = mgr.Transition(func() error {
		return mgr.Transfer(alice, bob, big.NewInt(-1))
	})
	if err == nil {
		t.Fatal("negative transfer accepted")
	}

	_ = mgr.View(func() error {
		aliceAcc, _ := mgr.GetAccount(alice)
		bobAcc, _ := mgr.GetAccount(bob)
		if aliceAcc.Balance.Cmp(big.NewInt(70)) != 0 || bobAcc.Balance.Cmp(big.NewInt(30)) != 0 {
			t.Fatalf("balances = %s / %s, want 70 / 30", aliceAcc.Balance, bobAcc.Balance)
		}
		return nil
	})
}

func TestTransferToSelf(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())
	alice := testAddr(0xA1)

	err := mgr.Transition(func() error {
		if err := mgr.Mint(alice, big.NewInt(10)); err != nil {
			return err
		}
		return mgr.Transfer(alice, alice, big.NewInt(5))
	})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	_ = mgr.View(func() error {
		account, _ := mgr.GetAccount(alice)
		if account.Balance.Cmp(big.NewInt(10)) != 0 {
			t.Fatalf("self transfer changed balance: %s", account.Balance)
		}
		return nil
	})
}

func TestDeleteVisibleInsideOverlay(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())
	alice := testAddr(0xA1)

	if err := mgr.Transition(func() error { return mgr.Mint(alice, big.NewInt(5)) }); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := mgr.Transition(func() error {
		if err := mgr.remove(accountKey(alice)); err != nil {
			return err
		}
		account, err := mgr.GetAccount(alice)
		if err != nil {
			return err
		}
		if account.Balance.Sign() != 0 {
			t.Fatalf("deleted account still visible: %s", account.Balance)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
}
