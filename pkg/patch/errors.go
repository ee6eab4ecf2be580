package patch

import "errors"

var (
	// I/O errors 📂
	ErrOpen             = errors.New("❌ cannot open target file")
	ErrShortRead        = errors.New("❌ fewer than 4 bytes at offset")
	ErrInvalidOffset    = errors.New("❌ invalid offset")
	ErrOffsetOutOfRange = errors.New("❌ offset beyond end of file")
	ErrNoOffsets        = errors.New("❌ no offsets given")

	// Verification errors 🔍
	ErrInconsistent = errors.New("❌ offsets hold different values")
)
