package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireLockCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".csb.lock")

	lock, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock failed: %v", err)
	}
	defer lock.Release()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("lock file not created: %v", err)
	}
}

func TestTryAcquireLockContended(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".csb.lock")

	held, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock failed: %v", err)
	}

	_, ok, err := TryAcquireLock(path)
	if err != nil {
		t.Fatalf("TryAcquireLock failed: %v", err)
	}
	if ok {
		t.Fatal("expected lock to be contended")
	}

	if err := held.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := held.Release(); err != nil {
		t.Fatalf("second Release should be a no-op: %v", err)
	}

	again, ok, err := TryAcquireLock(path)
	if err != nil || !ok {
		t.Fatalf("expected lock after release, ok=%v err=%v", ok, err)
	}
	again.Release()
}
