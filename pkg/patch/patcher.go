package patch

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Patcher binds a target file to the ordered offsets that must stay in sync.
// The first offset is the primary one, used to report the current value.
type Patcher struct {
	path    string
	offsets []int64
	logger  hclog.Logger
}

// NewPatcher creates a Patcher for the file at path.
func NewPatcher(path string, offsets []int64, logger hclog.Logger) (*Patcher, error) {
	if len(offsets) == 0 {
		return nil, ErrNoOffsets
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Patcher{
		path:    path,
		offsets: append([]int64(nil), offsets...),
		logger:  logger,
	}, nil
}

// Path returns the target file path.
func (p *Patcher) Path() string { return p.path }

// Current reads the value at the primary offset.
func (p *Patcher) Current() (uint32, error) {
	value, err := ReadValue(p.path, p.offsets[0])
	if err != nil {
		p.logger.Debug("Failed to read primary offset", "offset", hex(p.offsets[0]), "error", err)
		return 0, err
	}
	p.logger.Debug("Read primary offset", "offset", hex(p.offsets[0]), "value", value)
	return value, nil
}

// Apply writes value at every offset.
func (p *Patcher) Apply(value uint32) error {
	p.logger.Info("✏️ Writing value", "path", p.path, "value", value, "offsets", len(p.offsets))
	if err := WriteValue(p.path, p.offsets, value); err != nil {
		p.logger.Error("Write failed", "error", err)
		return err
	}
	p.logger.Debug("✅ Write complete")
	return nil
}

// ReadAll reads every offset.
func (p *Patcher) ReadAll() ([]uint32, error) {
	return ReadAll(p.path, p.offsets)
}

// Verify checks that every offset holds want.
func (p *Patcher) Verify(want uint32) error {
	values, err := p.ReadAll()
	if err != nil {
		return err
	}
	var bad []string
	for i, v := range values {
		if v != want {
			bad = append(bad, fmt.Sprintf("%s=%d", hex(p.offsets[i]), v))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: want %d, got %s", ErrInconsistent, want, strings.Join(bad, ", "))
	}
	return nil
}

func hex(off int64) string {
	return fmt.Sprintf("0x%X", off)
}
