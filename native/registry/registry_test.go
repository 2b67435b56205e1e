package registry

import (
	"testing"

	"swapvault/storage"
)

func addr(fill byte) [20]byte {
	var a [20]byte
	for i := range a {
		a[i] = fill
	}
	return a
}

func TestAuthorizeRevoke(t *testing.T) {
	reg, err := Load(storage.NewMemDB())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	collection := addr(0x0A)

	if reg.IsEligible(collection) {
		t.Fatal("fresh registry reports eligibility")
	}
	if err := reg.Authorize(collection); err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if !reg.IsEligible(collection) {
		t.Fatal("authorized collection not eligible")
	}
	// Idempotent.
	if err := reg.Authorize(collection); err != nil {
		t.Fatalf("re-Authorize: %v", err)
	}
	if err := reg.Revoke(collection); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if reg.IsEligible(collection) {
		t.Fatal("revoked collection still eligible")
	}
}

func TestZeroCollectionRejected(t *testing.T) {
	reg, err := Load(storage.NewMemDB())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := reg.Authorize([20]byte{}); err == nil {
		t.Fatal("zero collection authorized")
	}
	if err := reg.Revoke([20]byte{}); err == nil {
		t.Fatal("zero collection revoked")
	}
}

func TestPersistenceAcrossLoad(t *testing.T) {
	db := storage.NewMemDB()
	reg, err := Load(db)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a, b := addr(0x0A), addr(0x0B)
	if err := reg.Authorize(a); err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if err := reg.Authorize(b); err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if err := reg.Revoke(b); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	reloaded, err := Load(db)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.IsEligible(a) {
		t.Fatal("persisted eligibility lost on reload")
	}
	if reloaded.IsEligible(b) {
		t.Fatal("revocation lost on reload")
	}
}

func TestListSorted(t *testing.T) {
	reg, err := Load(storage.NewMemDB())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, fill := range []byte{0x0C, 0x0A, 0x0B} {
		if err := reg.Authorize(addr(fill)); err != nil {
			t.Fatalf("Authorize: %v", err)
		}
	}
	list := reg.List()
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	expected := []byte{0x0A, 0x0B, 0x0C}
	for i, collection := range list {
		if collection != addr(expected[i]) {
			t.Fatalf("list[%d] = %x, want fill %x", i, collection, expected[i])
		}
	}
}
