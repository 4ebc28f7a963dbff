//go:build !unix

package platform

import (
	"fmt"
	"os"
	"sync"
)

// Without flock, locking falls back to an in-process mutex per path.
var (
	locksMu sync.Mutex
	locks   = map[string]*sync.Mutex{}
)

// Lock is the in-process fallback lock.
type Lock struct {
	mu *sync.Mutex
}

func mutexFor(path string) (*sync.Mutex, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", path, err)
	}
	f.Close()

	locksMu.Lock()
	defer locksMu.Unlock()
	mu, ok := locks[path]
	if !ok {
		mu = &sync.Mutex{}
		locks[path] = mu
	}
	return mu, nil
}

// AcquireLock blocks until the per-path mutex is held.
func AcquireLock(path string) (*Lock, error) {
	mu, err := mutexFor(path)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	return &Lock{mu: mu}, nil
}

// TryAcquireLock is AcquireLock without blocking.
func TryAcquireLock(path string) (*Lock, bool, error) {
	mu, err := mutexFor(path)
	if err != nil {
		return nil, false, err
	}
	if !mu.TryLock() {
		return nil, false, nil
	}
	return &Lock{mu: mu}, true, nil
}

// Release unlocks. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.mu == nil {
		return nil
	}
	l.mu.Unlock()
	l.mu = nil
	return nil
}
