package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/midunthangavel/fixmyevent-sub001/internal/models"
)

// Key namespaces a request hash by task so identical payloads for
// different tasks never share an entry.
type Key struct {
	Task models.Task
	Hash string
}

// String renders the key as <TASK>:<HASH_HEX>.
func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Task, k.Hash)
}

// BuildKey hashes a canonical JSON rendering of req. The request is encoded,
// decoded into generic values and re-encoded, so object keys come out sorted
// and map insertion order never changes the key.
func BuildKey(task models.Task, req any) (Key, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return Key{}, fmt.Errorf("cache key: marshal request: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return Key{}, fmt.Errorf("cache key: normalize request: %w", err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return Key{}, fmt.Errorf("cache key: marshal canonical form: %w", err)
	}

	sum := sha256.Sum256(append([]byte("task:"+string(task)+"|body:"), canonical...))
	return Key{
		Task: task,
		Hash: hex.EncodeToString(sum[:]),
	}, nil
}
