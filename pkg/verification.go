package pkg

import (
	"fmt"

	"github.com/provide-io/robepatch/pkg/patch"
	"github.com/provide-io/robepatch/pkg/profile"
)

// OffsetReport is the value found at one offset.
type OffsetReport struct {
	Offset   profile.Offset
	Raw      uint32
	Choice   profile.Choice
	Selected bool
}

// Verify reads every offset, logs each one, and returns patch.ErrInconsistent
// when they do not all hold the primary offset's value.
func (s *Session) Verify() ([]OffsetReport, error) {
	s.logger.Info("Verifying offsets", "path", s.Path())

	values, err := patch.ReadAll(s.Path(), s.Profile.OffsetList())
	if err != nil {
		s.logger.Error("Read failed", "error", err)
		return nil, err
	}

	reports := make([]OffsetReport, len(values))
	var mismatched []string
	for i, raw := range values {
		off := s.Profile.Offsets[i]
		c, _, ok := s.Profile.Lookup(raw)
		reports[i] = OffsetReport{Offset: off, Raw: raw, Choice: c, Selected: ok}

		if raw != values[0] {
			mismatched = append(mismatched, off.String())
			s.logger.Error("✗ Offset differs from primary", "offset", off.String(), "value", raw, "primary", values[0])
			continue
		}
		if !ok {
			s.logger.Warn("Offset holds a value outside the allowed set", "offset", off.String(), "value", raw)
		} else {
			s.logger.Info("✓ Offset consistent", "offset", off.String(), "value", raw, "label", c.Label)
		}
	}

	if len(mismatched) > 0 {
		return reports, fmt.Errorf("%w: %v", patch.ErrInconsistent, mismatched)
	}
	s.logger.Info("✓ Verification passed")
	return reports, nil
}
