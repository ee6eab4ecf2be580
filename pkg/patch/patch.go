// Package patch reads and writes 4-byte little-endian values at fixed offsets
// of an existing file. The file is opened and closed inside every call.
package patch

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ValueSize is the width of every patched value in bytes.
const ValueSize = 4

// ReadValue reads the little-endian uint32 stored at offset in the file at path.
func ReadValue(path string, offset int64) (uint32, error) {
	values, err := ReadAll(path, []int64{offset})
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

// ReadAll reads the value at every offset, in order, within a single open of
// the file.
func ReadAll(path string, offsets []int64) ([]uint32, error) {
	if len(offsets) == 0 {
		return nil, ErrNoOffsets
	}
	for _, off := range offsets {
		if off < 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidOffset, off)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer file.Close()

	values := make([]uint32, len(offsets))
	buf := make([]byte, ValueSize)
	for i, off := range offsets {
		if _, err := file.ReadAt(buf, off); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w 0x%X", ErrShortRead, off)
			}
			return nil, fmt.Errorf("read at 0x%X: %w", off, err)
		}
		values[i] = binary.LittleEndian.Uint32(buf)
	}
	return values, nil
}

// WriteValue writes value, little-endian, at every offset of the file at path.
//
// The file must already exist and every offset must lie fully inside it; if
// either check fails nothing is written.
func WriteValue(path string, offsets []int64, value uint32) (err error) {
	if len(offsets) == 0 {
		return ErrNoOffsets
	}

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	for _, off := range offsets {
		if off < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidOffset, off)
		}
		if off > info.Size()-ValueSize {
			return fmt.Errorf("%w: 0x%X (size %d)", ErrOffsetOutOfRange, off, info.Size())
		}
	}

	data := Encode(value)
	for _, off := range offsets {
		if _, err := file.WriteAt(data, off); err != nil {
			return fmt.Errorf("write at 0x%X: %w", off, err)
		}
	}
	return nil
}

// Encode returns the little-endian encoding of value.
func Encode(value uint32) []byte {
	return binary.LittleEndian.AppendUint32(make([]byte, 0, ValueSize), value)
}
