package vectorindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codequery/pkg/types"
)

// SnapshotFile is the name of the persisted index document inside a data dir
const SnapshotFile = "snapshot.json"

// snapshot is the single persisted document: chunk records plus the
// id-to-vector map. It is always written and read wholesale.
type snapshot struct {
	Model     string               `json:"model,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	Chunks    []types.Chunk        `json:"chunks"`
	Vectors   map[string][]float32 `json:"embeddings"`
}

// Save writes the full index state as one document. The write is atomic:
// a temp file in the same directory is renamed over the target, so a reader
// never observes a partial snapshot.
func (x *Index) Save(path string) error {
	snap := snapshot{
		Model:     x.Model,
		CreatedAt: time.Now().UTC(),
		Chunks:    x.Chunks(),
		Vectors:   x.vectors,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load replaces the in-memory state wholesale from a snapshot document.
// A missing file is fatal to the call and surfaces types.ErrMissingSnapshot.
func (x *Index) Load(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", types.ErrMissingSnapshot, path)
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	x.Reset()
	x.Model = snap.Model
	if snap.Vectors == nil {
		snap.Vectors = make(map[string][]float32)
	}
	x.Add(snap.Chunks, snap.Vectors)
	return nil
}
