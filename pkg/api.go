// Package pkg ties the profile, installation lookup, and patch operation
// together into a session the command line drives.
package pkg

import (
	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/robepatch/internal/locate"
	"github.com/provide-io/robepatch/pkg/patch"
	"github.com/provide-io/robepatch/pkg/profile"
)

// Options select the profile and target. Zero values use the built-in
// profile and the Steam lookup.
type Options struct {
	ProfilePath string
	SteamPath   string
	TargetPath  string
	Logger      hclog.Logger
}

// Session is an opened patch target.
type Session struct {
	Profile   *profile.Profile
	SteamRoot string
	patcher   *patch.Patcher
	logger    hclog.Logger
}

// Status is the value at the primary offset.
type Status struct {
	Path     string
	Raw      uint32
	Choice   profile.Choice
	Selected bool
}

// Label returns the current choice's label, or "none" when the raw value is
// outside the allowed set.
func (s Status) Label() string {
	if !s.Selected {
		return "none"
	}
	return s.Choice.Label
}

// LoadProfile returns the profile at path, or the built-in default when path
// is empty.
func LoadProfile(path string) (*profile.Profile, error) {
	if path == "" {
		return profile.Default(), nil
	}
	return profile.Load(path)
}

// Open resolves the profile and target file. A missing Steam installation or
// target file is returned here, before any read or write.
func Open(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	prof, err := LoadProfile(opts.ProfilePath)
	if err != nil {
		return nil, err
	}
	logger.Debug("📋 Using profile", "name", prof.Name, "offsets", len(prof.Offsets), "choices", len(prof.Choices))

	var root, target string
	if opts.TargetPath != "" {
		target, err = locate.CheckTarget(opts.TargetPath)
	} else {
		root, err = locate.SteamRoot(opts.SteamPath, logger)
		if err != nil {
			return nil, err
		}
		target, err = locate.ResolveTarget(root, prof.Target)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("🎯 Target resolved", "path", target)

	patcher, err := patch.NewPatcher(target, prof.OffsetList(), logger.Named("patch"))
	if err != nil {
		return nil, err
	}
	return &Session{
		Profile:   prof,
		SteamRoot: root,
		patcher:   patcher,
		logger:    logger,
	}, nil
}

// Path returns the resolved target file.
func (s *Session) Path() string { return s.patcher.Path() }

// Status reads the primary offset.
func (s *Session) Status() (Status, error) {
	raw, err := s.patcher.Current()
	if err != nil {
		return Status{Path: s.Path()}, err
	}
	c, _, ok := s.Profile.Lookup(raw)
	return Status{Path: s.Path(), Raw: raw, Choice: c, Selected: ok}, nil
}

// Set writes choice at every offset and reads back the primary offset. When
// verify is true every offset is read back and compared. If an error occurs
// after the write, the returned Status still reflects the file when the
// primary offset can be read.
func (s *Session) Set(choice profile.Choice, verify bool) (Status, error) {
	if _, _, ok := s.Profile.Lookup(choice.Raw); !ok {
		return Status{Path: s.Path()}, profile.ErrUnknownChoice
	}
	if err := s.patcher.Apply(choice.Raw); err != nil {
		return Status{Path: s.Path()}, err
	}
	if verify {
		if err := s.patcher.Verify(choice.Raw); err != nil {
			st, _ := s.Status()
			return st, err
		}
		s.logger.Info("✓ All offsets verified", "value", choice.Raw)
	}
	return s.Status()
}
