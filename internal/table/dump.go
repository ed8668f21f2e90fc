package table

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	apperrors "github.com/spidercore/engine/internal/errors"
)

func init() {
	// Register the concrete types SharedTable values commonly hold so gob
	// can encode/decode them through the map[string]any envelope.
	gob.Register("")
	gob.Register(0)
	gob.Register(int64(0))
	gob.Register(0.0)
	gob.Register(false)
	gob.Register([]byte(nil))
	gob.Register([]string(nil))
	gob.Register(map[string]string(nil))
}

// fileSuffix returns the conventional "<base>_<role>.ets" file name for a role.
func fileSuffix(base string, role Role) string {
	return fmt.Sprintf("%s_%s.ets", base, role)
}

// DumpAll writes all seven tables to "<base>_<role>.ets" files, creating the
// parent directory if absent. Each file carries a length-prefixed gob
// payload followed by a 64-bit xxhash trailer of the payload, and is
// flushed synchronously before an atomic rename into place.
func DumpAll(base string, handles map[Role]Handle) error {
	dir := filepath.Dir(base)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dump directory: %w", err)
		}
	}

	for _, role := range Roles {
		h, ok := handles[role]
		if !ok || !h.Valid() {
			return apperrors.NewLoadError(fileSuffix(base, role), fmt.Errorf("no table handle for role %s", role))
		}
		if err := dumpOne(fileSuffix(base, role), h.Table()); err != nil {
			return err
		}
	}
	return nil
}

func dumpOne(path string, t *Table) error {
	snapshot := t.Snapshot()

	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(snapshot); err != nil {
		return apperrors.NewLoadError(path, fmt.Errorf("encode table: %w", err))
	}

	sum := xxhash.Sum64(payload.Bytes())

	var out bytes.Buffer
	var lenPrefix [8]byte
	binary.BigEndian.PutUint64(lenPrefix[:], uint64(payload.Len()))
	out.Write(lenPrefix[:])
	out.Write(payload.Bytes())
	var trailer [8]byte
	binary.BigEndian.PutUint64(trailer[:], sum)
	out.Write(trailer[:])

	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return apperrors.NewLoadError(path, fmt.Errorf("open temp file: %w", err))
	}
	if _, err := f.Write(out.Bytes()); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return apperrors.NewLoadError(path, fmt.Errorf("write temp file: %w", err))
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return apperrors.NewLoadError(path, fmt.Errorf("sync temp file: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewLoadError(path, fmt.Errorf("close temp file: %w", err))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewLoadError(path, fmt.Errorf("rename temp file: %w", err))
	}
	return nil
}

// LoadAll reads all seven "<base>_<role>.ets" files and returns a fresh
// Table per role, verifying the integrity trailer on each.
func LoadAll(base string) (map[Role]Handle, error) {
	handles := make(map[Role]Handle, len(Roles))
	for _, role := range Roles {
		path := fileSuffix(base, role)
		t, err := loadOne(path, role)
		if err != nil {
			return nil, err
		}
		handles[role] = HandleFor(t)
	}
	return handles, nil
}

func loadOne(path string, role Role) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}
	if len(raw) < 16 {
		return nil, apperrors.NewLoadError(path, fmt.Errorf("truncated table file"))
	}

	payloadLen := binary.BigEndian.Uint64(raw[:8])
	if uint64(len(raw)) != 8+payloadLen+8 {
		return nil, apperrors.NewLoadError(path, fmt.Errorf("truncated table file"))
	}

	payload := raw[8 : 8+payloadLen]
	wantSum := binary.BigEndian.Uint64(raw[8+payloadLen:])
	gotSum := xxhash.Sum64(payload)
	if gotSum != wantSum {
		return nil, apperrors.NewLoadError(path, fmt.Errorf("integrity check failed: checksum mismatch"))
	}

	var data map[string]any
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&data); err != nil {
		return nil, apperrors.NewLoadError(path, fmt.Errorf("decode table: %w", err))
	}

	t := New(role)
	t.Replace(data)
	return t, nil
}
