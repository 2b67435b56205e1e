package storage

import (
	"errors"
	"testing"
)

func TestMemDBRoundTrip(t *testing.T) {
	db := NewMemDB()

	if _, err := db.Get([]byte("missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, ErrNotFound)
	}

	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	value, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(value) != "v" {
		t.Fatalf("value = %q, want %q", value, "v")
	}

	if err := db.Delete([]byte("k")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Get([]byte("k")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err after delete = %v, want %v", err, ErrNotFound)
	}
}

func TestMemDBValueIsolation(t *testing.T) {
	db := NewMemDB()
	original := []byte("value")
	if err := db.Put([]byte("k"), original); err != nil {
		t.Fatalf("Put: %v", err)
	}
	original[0] = 'X'

	stored, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(stored) != "value" {
		t.Fatalf("stored value mutated: %q", stored)
	}
	stored[0] = 'Y'

	again, _ := db.Get([]byte("k"))
	if string(again) != "value" {
		t.Fatalf("returned slice aliases storage: %q", again)
	}
}

func TestMemDBWriteBatch(t *testing.T) {
	db := NewMemDB()
	if err := db.Put([]byte("stale"), []byte("old")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	batch := NewBatch()
	batch.Put([]byte("a"), []byte("1"))
	batch.Put([]byte("b"), []byte("2"))
	batch.Delete([]byte("stale"))
	if batch.Len() != 3 {
		t.Fatalf("batch length = %d, want 3", batch.Len())
	}
	if err := db.Write(batch); err != nil {
		t.Fatalf("Write: %v", err)
	}

	for key, want := range map[string]string{"a": "1", "b": "2"} {
		value, err := db.Get([]byte(key))
		if err != nil {
			t.Fatalf("Get %q: %v", key, err)
		}
		if string(value) != want {
			t.Fatalf("value for %q = %q, want %q", key, value, want)
		}
	}
	if _, err := db.Get([]byte("stale")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("batched delete not applied: %v", err)
	}
}

func TestBatchCopiesInputs(t *testing.T) {
	db := NewMemDB()
	key := []byte("k")
	value := []byte("v")
	batch := NewBatch()
	batch.Put(key, value)
	key[0] = 'X'
	value[0] = 'Y'

	if err := db.Write(batch); err != nil {
		t.Fatalf("Write: %v", err)
	}
	stored, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(stored) != "v" {
		t.Fatalf("batch aliased caller slices: %q", stored)
	}
}

func TestMemDBIterate(t *testing.T) {
	db := NewMemDB()
	entries := map[string]string{
		"prefix/a": "1",
		"prefix/b": "2",
		"prefix/c": "3",
		"other/x":  "9",
	}
	for k, v := range entries {
		if err := db.Put([]byte(k), []byte(v)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	var keys []string
	err := db.Iterate([]byte("prefix/"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		return true
	})
	if err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("visited %d keys, want 3", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("keys not ascending: %v", keys)
		}
	}

	// Early stop.
	visited := 0
	err = db.Iterate([]byte("prefix/"), func(key, value []byte) bool {
		visited++
		return false
	})
	if err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if visited != 1 {
		t.Fatalf("visited = %d, want 1", visited)
	}
}
