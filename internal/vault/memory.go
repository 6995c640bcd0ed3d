package vault

import "sync"

// MemoryVault is an in-process Vault used by tests. The zero value is not
// usable; call NewMemoryVault. FailNext, if set, is returned by the next
// mutating call and cleared, which lets tests force vault failures at exact
// points in a flow.
type MemoryVault struct {
	mu       sync.Mutex
	entries  map[string]string
	FailNext error

	// Capture fields for assertions.
	LastPutKey    string
	LastDeleteKey string
}

// NewMemoryVault returns an empty in-memory vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{entries: map[string]string{}}
}

func (v *MemoryVault) takeFailure() error {
	err := v.FailNext
	v.FailNext = nil
	return err
}

func (v *MemoryVault) Put(key, secret string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.takeFailure(); err != nil {
		return err
	}
	v.entries[key] = secret
	v.LastPutKey = key
	return nil
}

func (v *MemoryVault) Get(key string) (string, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	secret, ok := v.entries[key]
	return secret, ok, nil
}

func (v *MemoryVault) Delete(key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.takeFailure(); err != nil {
		return err
	}
	delete(v.entries, key)
	v.LastDeleteKey = key
	return nil
}

// Len reports how many entries the vault currently holds.
func (v *MemoryVault) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}
