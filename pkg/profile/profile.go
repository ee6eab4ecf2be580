// Package profile describes what to patch: the target file relative to the
// Steam root, the offsets that must hold the same value, and the closed set
// of values a user may choose from.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/provide-io/robepatch/pkg/utils/hexoffset"
)

var (
	ErrInvalidProfile = errors.New("❌ invalid profile")
	ErrUnknownChoice  = errors.New("❌ value is not one of the allowed choices")
)

// Profile is a patch target definition.
type Profile struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Target      string   `json:"target"`
	ProcessName string   `json:"process_name,omitempty"`
	Offsets     []Offset `json:"offsets"`
	Choices     []Choice `json:"choices"`
}

// Choice is one allowed value.
type Choice struct {
	Raw   uint32 `json:"raw"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// Offset is a byte position in the target file. It is written to JSON as a
// hex string.
type Offset int64

func (o Offset) String() string {
	return hexoffset.Format(int64(o))
}

func (o Offset) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Offset) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n int64
		if nerr := json.Unmarshal(data, &n); nerr != nil {
			return fmt.Errorf("offset must be a string or integer: %s", data)
		}
		s = strconv.FormatInt(n, 10)
	}
	v, err := hexoffset.Parse(s)
	if err != nil {
		return err
	}
	*o = Offset(v)
	return nil
}

// Load reads a JSON profile from path and validates it.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidProfile, path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that the profile can drive a patch.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Target) == "" {
		return fmt.Errorf("%w: target is empty", ErrInvalidProfile)
	}
	if len(p.Offsets) == 0 {
		return fmt.Errorf("%w: no offsets", ErrInvalidProfile)
	}
	seenOff := make(map[Offset]bool, len(p.Offsets))
	for _, off := range p.Offsets {
		if off < 0 {
			return fmt.Errorf("%w: negative offset %d", ErrInvalidProfile, int64(off))
		}
		if off > MaxOffset {
			return fmt.Errorf("%w: offset %s beyond %s", ErrInvalidProfile, off, Offset(MaxOffset))
		}
		if seenOff[off] {
			return fmt.Errorf("%w: duplicate offset %s", ErrInvalidProfile, off)
		}
		seenOff[off] = true
	}
	if len(p.Choices) == 0 {
		return fmt.Errorf("%w: no choices", ErrInvalidProfile)
	}
	seenRaw := make(map[uint32]bool, len(p.Choices))
	for _, c := range p.Choices {
		if seenRaw[c.Raw] {
			return fmt.Errorf("%w: duplicate choice value %d", ErrInvalidProfile, c.Raw)
		}
		seenRaw[c.Raw] = true
	}
	return nil
}

// Primary is the offset whose value is reported as current.
func (p *Profile) Primary() Offset {
	return p.Offsets[0]
}

// OffsetList returns the offsets as plain int64 values.
func (p *Profile) OffsetList() []int64 {
	out := make([]int64, len(p.Offsets))
	for i, off := range p.Offsets {
		out[i] = int64(off)
	}
	return out
}

// Lookup maps a raw value read from the file to its choice. ok is false for
// values outside the allowed set.
func (p *Profile) Lookup(raw uint32) (choice Choice, index int, ok bool) {
	for i, c := range p.Choices {
		if c.Raw == raw {
			return c, i, true
		}
	}
	return Choice{}, -1, false
}

// Resolve finds the choice named by user input: a label ("Tier 3", "tier3")
// or a raw value ("2").
func (p *Profile) Resolve(input string) (Choice, error) {
	key := normalize(input)
	for _, c := range p.Choices {
		if normalize(c.Label) == key {
			return c, nil
		}
	}
	if n, err := strconv.ParseUint(strings.TrimSpace(input), 10, 32); err == nil {
		if c, _, ok := p.Lookup(uint32(n)); ok {
			return c, nil
		}
	}
	return Choice{}, fmt.Errorf("%w: %q (allowed: %s)", ErrUnknownChoice, input, p.describeChoices())
}

func (p *Profile) describeChoices() string {
	parts := make([]string, len(p.Choices))
	for i, c := range p.Choices {
		parts[i] = fmt.Sprintf("%d=%s", c.Raw, c.Label)
	}
	return strings.Join(parts, ", ")
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
