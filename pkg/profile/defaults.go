package profile

// =================================
// Journey robe defaults
// =================================
const (
	DefaultName        = "journey-robe"
	DefaultTarget      = "steamapps/common/Journey/Journey.exe"
	DefaultProcessName = "Journey.exe"

	// MaxOffset bounds profile offsets to the 4 GiB a PE image can address.
	MaxOffset = 0xFFFFFFFF - 4
)

// Default returns the built-in Journey robe color profile.
func Default() *Profile {
	return &Profile{
		Name:        DefaultName,
		Description: "Journey robe color tier",
		Target:      DefaultTarget,
		ProcessName: DefaultProcessName,
		Offsets:     []Offset{0x161D7F, 0x2169F7},
		Choices: []Choice{
			{Raw: 1, Label: "Tier 2", Color: "#b5332e"},
			{Raw: 2, Label: "Tier 3", Color: "#d9a441"},
			{Raw: 3, Label: "Tier 4", Color: "#f2efe6"},
		},
	}
}
