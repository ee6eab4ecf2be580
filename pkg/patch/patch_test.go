package patch

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func newTestLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "patch_test",
		Level: hclog.Trace,
	})
}

// writeTarget creates a zero-filled file of size bytes and returns its path.
func writeTarget(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Journey.exe")
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	return data
}

func TestReadValueLittleEndian(t *testing.T) {
	path := writeTarget(t, 0x40)
	data := readFile(t, path)
	copy(data[0x10:], []byte{0x01, 0x00, 0x00, 0x00})
	copy(data[0x20:], []byte{0x78, 0x56, 0x34, 0x12})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name   string
		offset int64
		want   uint32
	}{
		{"one", 0x10, 1},
		{"mixed bytes", 0x20, 0x12345678},
		{"zero", 0x00, 0},
		{"last full word", 0x3C, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadValue(path, tt.offset)
			if err != nil {
				t.Fatalf("ReadValue: %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadValue(0x%X) = %d, want %d", tt.offset, got, tt.want)
			}
		})
	}
}

func TestReadValueFailures(t *testing.T) {
	path := writeTarget(t, 0x20)

	tests := []struct {
		name    string
		path    string
		offset  int64
		wantErr error
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.exe"), 0, ErrOpen},
		{"beyond eof", path, 0x100, ErrShortRead},
		{"straddles eof", path, 0x1E, ErrShortRead},
		{"exactly at eof", path, 0x20, ErrShortRead},
		{"negative", path, -4, ErrInvalidOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadValue(tt.path, tt.offset)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadValue error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteValueKeepsOffsetsInSync(t *testing.T) {
	path := writeTarget(t, 0x40)
	offsets := []int64{0x10, 0x20}

	if err := WriteValue(path, offsets, 2); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}

	data := readFile(t, path)
	want := []byte{0x02, 0x00, 0x00, 0x00}
	for _, off := range offsets {
		if !bytes.Equal(data[off:off+4], want) {
			t.Errorf("bytes at 0x%X = % x, want % x", off, data[off:off+4], want)
		}
		got, err := ReadValue(path, off)
		if err != nil {
			t.Fatalf("ReadValue: %v", err)
		}
		if got != 2 {
			t.Errorf("ReadValue(0x%X) = %d, want 2", off, got)
		}
	}

	// Bytes outside the patched words stay untouched.
	for i, b := range data {
		inPatch := (i >= 0x10 && i < 0x14) || (i >= 0x20 && i < 0x24)
		if !inPatch && b != 0 {
			t.Errorf("byte 0x%X changed to 0x%02X", i, b)
		}
	}
}

func TestWriteValueRoundTrip(t *testing.T) {
	offsets := []int64{0x161D7F, 0x2169F7}
	path := writeTarget(t, 0x2169F7+0x100)

	for _, v := range []uint32{1, 2, 3} {
		if err := WriteValue(path, offsets, v); err != nil {
			t.Fatalf("WriteValue(%d): %v", v, err)
		}
		values, err := ReadAll(path, offsets)
		if err != nil {
			t.Fatalf("ReadAll: %v", err)
		}
		for i, got := range values {
			if got != v {
				t.Errorf("value %d: offset 0x%X holds %d", v, offsets[i], got)
			}
		}
	}
}

func TestWriteValueIdempotent(t *testing.T) {
	path := writeTarget(t, 0x40)
	offsets := []int64{0x04, 0x30}

	if err := WriteValue(path, offsets, 3); err != nil {
		t.Fatalf("first write: %v", err)
	}
	once := readFile(t, path)
	if err := WriteValue(path, offsets, 3); err != nil {
		t.Fatalf("second write: %v", err)
	}
	twice := readFile(t, path)
	if !bytes.Equal(once, twice) {
		t.Error("second identical write changed the file")
	}
}

func TestWriteValueOutOfRangeWritesNothing(t *testing.T) {
	path := writeTarget(t, 0x20)
	before := readFile(t, path)

	err := WriteValue(path, []int64{0x04, 0x1E}, 2)
	if !errors.Is(err, ErrOffsetOutOfRange) {
		t.Fatalf("WriteValue error = %v, want %v", err, ErrOffsetOutOfRange)
	}
	after := readFile(t, path)
	if !bytes.Equal(before, after) {
		t.Error("file changed after rejected write")
	}
	if len(after) != 0x20 {
		t.Errorf("file size = %d, want %d", len(after), 0x20)
	}
}

func TestWriteValueHugeOffsetWritesNothing(t *testing.T) {
	path := writeTarget(t, 0x40)
	before := readFile(t, path)

	tests := []struct {
		name    string
		offsets []int64
	}{
		{"max int64 minus one", []int64{0x04, math.MaxInt64 - 1}},
		{"max int64", []int64{0x10, math.MaxInt64}},
		{"max int64 minus value size", []int64{0x10, math.MaxInt64 - ValueSize + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WriteValue(path, tt.offsets, 2)
			if !errors.Is(err, ErrOffsetOutOfRange) {
				t.Fatalf("WriteValue error = %v, want %v", err, ErrOffsetOutOfRange)
			}
			if !bytes.Equal(before, readFile(t, path)) {
				t.Error("file changed after rejected write")
			}
		})
	}
}

func TestWriteValueTinyFile(t *testing.T) {
	path := writeTarget(t, 2)
	if err := WriteValue(path, []int64{0}, 1); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("WriteValue error = %v, want %v", err, ErrOffsetOutOfRange)
	}
}

func TestWriteValueMissingFileNotCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Journey.exe")
	err := WriteValue(path, []int64{0x10}, 1)
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("WriteValue error = %v, want %v", err, ErrOpen)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("target was created: %v", err)
	}
}

func TestWriteValueReadOnlyFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permission bits")
	}
	path := writeTarget(t, 0x40)
	if err := WriteValue(path, []int64{0x10, 0x20}, 1); err != nil {
		t.Fatalf("seed write: %v", err)
	}
	if err := os.Chmod(path, 0o444); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	before := readFile(t, path)

	err := WriteValue(path, []int64{0x10, 0x20}, 2)
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("WriteValue error = %v, want %v", err, ErrOpen)
	}
	if !bytes.Equal(before, readFile(t, path)) {
		t.Error("read-only file changed")
	}
}

func TestWriteValueUnopenableTarget(t *testing.T) {
	dir := t.TempDir()
	err := WriteValue(dir, []int64{0x10, 0x20}, 2)
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("WriteValue error = %v, want %v", err, ErrOpen)
	}
	if _, err := ReadValue(dir, 0x10); err == nil {
		t.Error("ReadValue on a directory succeeded")
	}
}

func TestWriteValueNoOffsets(t *testing.T) {
	path := writeTarget(t, 0x10)
	if err := WriteValue(path, nil, 1); !errors.Is(err, ErrNoOffsets) {
		t.Errorf("WriteValue error = %v, want %v", err, ErrNoOffsets)
	}
}

func TestPatcher(t *testing.T) {
	logger := newTestLogger()
	path := writeTarget(t, 0x40)

	p, err := NewPatcher(path, []int64{0x10, 0x20}, logger)
	if err != nil {
		t.Fatalf("NewPatcher: %v", err)
	}

	current, err := p.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current != 0 {
		t.Errorf("Current() = %d, want 0", current)
	}

	if err := p.Apply(3); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if current, _ = p.Current(); current != 3 {
		t.Errorf("Current() after Apply = %d, want 3", current)
	}
	if err := p.Verify(3); err != nil {
		t.Errorf("Verify: %v", err)
	}

	// Corrupt the secondary offset behind the patcher's back.
	if err := WriteValue(path, []int64{0x20}, 7); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	if current, _ = p.Current(); current != 3 {
		t.Errorf("primary offset changed: %d", current)
	}
	if err := p.Verify(3); !errors.Is(err, ErrInconsistent) {
		t.Errorf("Verify error = %v, want %v", err, ErrInconsistent)
	}
}

func TestNewPatcherRequiresOffsets(t *testing.T) {
	if _, err := NewPatcher("x", nil, nil); !errors.Is(err, ErrNoOffsets) {
		t.Errorf("NewPatcher error = %v, want %v", err, ErrNoOffsets)
	}
}

func TestEncode(t *testing.T) {
	got := Encode(0x01020304)
	want := []byte{0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % x, want % x", got, want)
	}
}
