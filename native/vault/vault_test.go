package vault

import (
	"errors"
	"math/big"
	"testing"
)

type fakeLedger struct {
	owners map[string][20]byte
}

func key(collection [20]byte, tokenID *big.Int) string {
	return string(collection[:]) + "/" + tokenID.String()
}

func (l *fakeLedger) OwnerOf(collection [20]byte, tokenID *big.Int) ([20]byte, bool, error) {
	owner, ok := l.owners[key(collection, tokenID)]
	return owner, ok, nil
}

func (l *fakeLedger) TokenTransfer(collection [20]byte, tokenID *big.Int, from, to [20]byte) error {
	ref := key(collection, tokenID)
	owner, ok := l.owners[ref]
	if !ok {
		return errors.New("token does not exist")
	}
	if owner != from {
		return errors.New("transfer from non-owner")
	}
	l.owners[ref] = to
	return nil
}

func addr(fill byte) [20]byte {
	var a [20]byte
	for i := range a {
		a[i] = fill
	}
	return a
}

func newTestVault(t *testing.T) (*Vault, *fakeLedger) {
	t.Helper()
	ledger := &fakeLedger{owners: make(map[string][20]byte)}
	v, err := New(ledger, addr(0xFD))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v, ledger
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, addr(0xFD)); err == nil {
		t.Fatal("nil ledger accepted")
	}
	if _, err := New(&fakeLedger{}, [20]byte{}); err == nil {
		t.Fatal("zero custody address accepted")
	}
}

func TestDepositAndRelease(t *testing.T) {
	v, ledger := newTestVault(t)
	collection := addr(0x0A)
	alice := addr(0xA1)
	bob := addr(0xB1)
	tokenID := big.NewInt(1)
	ledger.owners[key(collection, tokenID)] = alice

	if err := v.Deposit(alice, collection, tokenID); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if owner := ledger.owners[key(collection, tokenID)]; owner != v.Address() {
		t.Fatalf("owner = %x, want custody account", owner)
	}

	if err := v.Release(collection, tokenID, bob); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if owner := ledger.owners[key(collection, tokenID)]; owner != bob {
		t.Fatalf("owner = %x, want %x", owner, bob)
	}
}

func TestDepositValidation(t *testing.T) {
	v, ledger := newTestVault(t)
	collection := addr(0x0A)
	alice := addr(0xA1)
	bob := addr(0xB1)
	tokenID := big.NewInt(1)

	if err := v.Deposit(alice, collection, tokenID); err == nil {
		t.Fatal("deposit of nonexistent token accepted")
	}

	ledger.owners[key(collection, tokenID)] = alice
	if err := v.Deposit(bob, collection, tokenID); err == nil {
		t.Fatal("deposit by non-owner accepted")
	}

	if err := v.Deposit(alice, collection, tokenID); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := v.Deposit(alice, collection, tokenID); err == nil {
		t.Fatal("double deposit accepted")
	}
}

func TestReleaseRequiresCustody(t *testing.T) {
	v, ledger := newTestVault(t)
	collection := addr(0x0A)
	alice := addr(0xA1)
	tokenID := big.NewInt(1)

	if err := v.Release(collection, tokenID, alice); err == nil {
		t.Fatal("release of nonexistent token accepted")
	}

	ledger.owners[key(collection, tokenID)] = alice
	if err := v.Release(collection, tokenID, alice); err == nil {
		t.Fatal("release of token outside custody accepted")
	}

	if err := v.Deposit(alice, collection, tokenID); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := v.Release(collection, tokenID, alice); err != nil {
		t.Fatalf("Release: %v", err)
	}
	// Once released, the same asset cannot be released again.
	if err := v.Release(collection, tokenID, alice); err == nil {
		t.Fatal("double release accepted")
	}
}
