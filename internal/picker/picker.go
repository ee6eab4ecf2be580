// Package picker is a full-screen terminal view for choosing a profile value.
//
// One entry is drawn per choice with a color swatch, followed by the value
// currently stored at the primary offset. Enter asks for confirmation and a
// "y" applies the highlighted choice. After every apply attempt, successful or
// not, the stored value is read back and redrawn.
package picker

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/robepatch/pkg/profile"
)

// ApplyFunc writes choice to the target.
type ApplyFunc func(choice profile.Choice) error

// ReadFunc reads the raw value at the primary offset.
type ReadFunc func() (uint32, error)

// Picker owns the draw loop. The caller owns the screen's lifetime.
type Picker struct {
	screen  tcell.Screen
	profile *profile.Profile
	read    ReadFunc
	apply   ApplyFunc
	logger  hclog.Logger

	cursor     int
	current    uint32
	currentErr error
	confirming bool
	status     string
	applied    int
}

// New creates a picker and reads the current value.
func New(screen tcell.Screen, prof *profile.Profile, read ReadFunc, apply ApplyFunc, logger hclog.Logger) *Picker {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	p := &Picker{
		screen:  screen,
		profile: prof,
		read:    read,
		apply:   apply,
		logger:  logger,
	}
	p.refresh()
	if _, idx, ok := prof.Lookup(p.current); ok && p.currentErr == nil {
		p.cursor = idx
	}
	return p
}

// Run draws the picker and handles input until the user quits or the screen
// is finalized.
func (p *Picker) Run() error {
	p.draw()
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !p.handle(ev) {
			return nil
		}
		p.draw()
	}
}

// Applied returns how many writes succeeded during Run.
func (p *Picker) Applied() int { return p.applied }

func (p *Picker) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		p.screen.Sync()
	case *tcell.EventKey:
		if p.confirming {
			p.confirming = false
			if ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y') {
				p.applySelected()
			} else {
				p.status = "Cancelled"
			}
			return true
		}

		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft, tcell.KeyUp, tcell.KeyBacktab:
			p.move(-1)
		case tcell.KeyRight, tcell.KeyDown, tcell.KeyTab:
			p.move(1)
		case tcell.KeyEnter:
			p.confirming = true
			p.status = ""
		case tcell.KeyRune:
			r := ev.Rune()
			if r == 'q' || r == 'Q' {
				return false
			}
			if r >= '1' && r <= '9' {
				if n := int(r - '1'); n < len(p.profile.Choices) {
					p.cursor = n
				}
			}
		}
	}
	return true
}

func (p *Picker) move(delta int) {
	n := len(p.profile.Choices)
	p.cursor = ((p.cursor+delta)%n + n) % n
}

func (p *Picker) applySelected() {
	choice := p.profile.Choices[p.cursor]
	p.logger.Debug("Applying choice", "label", choice.Label, "raw", choice.Raw)

	err := p.apply(choice)
	// The write may have reached the file even when apply reports an error.
	p.refresh()
	if err != nil {
		p.status = fmt.Sprintf("Failed to set %s: %v", choice.Label, err)
		p.logger.Error("Apply failed", "label", choice.Label, "error", err)
		return
	}
	p.applied++
	p.status = fmt.Sprintf("Set %s", choice.Label)
}

func (p *Picker) refresh() {
	p.current, p.currentErr = p.read()
	if p.currentErr != nil {
		p.logger.Debug("Read of primary offset failed", "error", p.currentErr)
	}
}

// currentText describes the stored value. Raw values outside the allowed set
// show as "none".
func (p *Picker) currentText() string {
	if p.currentErr != nil {
		return "unreadable"
	}
	if c, _, ok := p.profile.Lookup(p.current); ok {
		return c.Label
	}
	return fmt.Sprintf("none (raw %d)", p.current)
}

func (p *Picker) draw() {
	s := p.screen
	s.Clear()

	bold := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Dim(true)

	drawText(s, 1, 0, bold, "robepatch: "+p.profile.Name)

	x := 1
	for i, c := range p.profile.Choices {
		style := tcell.StyleDefault
		if i == p.cursor {
			style = style.Reverse(true)
		}
		s.SetContent(x, 2, '█', nil, swatchStyle(c))
		s.SetContent(x+1, 2, '█', nil, swatchStyle(c))
		x = drawText(s, x+3, 2, style, fmt.Sprintf(" %d %s ", i+1, c.Label)) + 2
	}

	x = drawText(s, 1, 4, bold, fmt.Sprintf("Current (%s): ", p.profile.Primary()))
	if c, _, ok := p.profile.Lookup(p.current); ok && p.currentErr == nil {
		s.SetContent(x, 4, '█', nil, swatchStyle(c))
		s.SetContent(x+1, 4, '█', nil, swatchStyle(c))
		x += 3
	}
	drawText(s, x, 4, tcell.StyleDefault, p.currentText())

	if p.confirming {
		label := p.profile.Choices[p.cursor].Label
		drawText(s, 1, 6, bold, fmt.Sprintf("Set %s? (y/n)", label))
	} else if p.status != "" {
		drawText(s, 1, 6, tcell.StyleDefault, p.status)
	}

	drawText(s, 1, 8, dim, "←/→ move  1-9 jump  enter select  q quit")
	s.Show()
}

// swatchStyle colors a choice's swatch. A missing or unknown color falls back
// to the default style.
func swatchStyle(c profile.Choice) tcell.Style {
	color := tcell.GetColor(c.Color)
	if c.Color == "" || color == tcell.ColorDefault {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(color)
}

// drawText draws str starting at (x, y) and returns the column after it.
func drawText(s tcell.Screen, x, y int, style tcell.Style, str string) int {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
