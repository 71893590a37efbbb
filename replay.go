package patchbay

import (
	"encoding/json"
	"fmt"
)

// replayStep represents a single action in a replay script.
type replayStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Steps  int     `json:"steps,omitempty"`
	Dy     float64 `json:"dy,omitempty"`
	Button string  `json:"button,omitempty"`
	Alt    bool    `json:"alt,omitempty"`
	Ctrl   bool    `json:"ctrl,omitempty"`
}

// replayScript is the top-level JSON structure for a replay script.
type replayScript struct {
	Steps []replayStep `json:"steps"`
}

// Replay sequences scripted pointer events against a Controller for
// automated interaction testing. Scripts are JSON: a list of steps with
// actions "click", "drag", "wheel", and "cancel". Clicks and drags take
// screen coordinates, exactly like real input.
type Replay struct {
	steps  []replayStep
	cursor int
	done   bool
}

// LoadReplayScript parses a JSON replay script.
func LoadReplayScript(jsonData []byte) (*Replay, error) {
	var script replayScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("patchbay: parse replay script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("patchbay: parse replay script: no steps")
	}
	return &Replay{steps: script.Steps}, nil
}

// Done reports whether all steps in the script have been executed.
func (r *Replay) Done() bool {
	return r.done
}

// Step executes the next scripted action against the controller. Call
// repeatedly until Done reports true; extra calls are no-ops.
func (r *Replay) Step(c *Controller) {
	if r.done {
		return
	}
	st := r.steps[r.cursor]
	r.cursor++
	if r.cursor >= len(r.steps) {
		r.done = true
	}

	switch st.Action {
	case "click":
		p := Vec2{X: st.X, Y: st.Y}
		c.PointerDown(p, st.mouseButton(), st.modifiers())
		c.PointerUp(p)
	case "drag":
		dragPointer(c, st)
	case "wheel":
		c.Wheel(Vec2{X: st.X, Y: st.Y}, st.Dy)
	case "cancel":
		c.Cancel()
	}
}

// Run executes the remaining steps back to back.
func (r *Replay) Run(c *Controller) {
	for !r.done {
		r.Step(c)
	}
}

// dragPointer presses at the from point, moves through steps-2 linearly
// interpolated positions, and releases at the to point. Minimum steps is 2
// (press + release).
func dragPointer(c *Controller, st replayStep) {
	c.PointerDown(Vec2{X: st.FromX, Y: st.FromY}, st.mouseButton(), st.modifiers())
	moves := st.Steps - 2
	for i := 1; i <= moves; i++ {
		t := float64(i) / float64(moves+1)
		c.PointerMove(Vec2{
			X: st.FromX + (st.ToX-st.FromX)*t,
			Y: st.FromY + (st.ToY-st.FromY)*t,
		})
	}
	c.PointerMove(Vec2{X: st.ToX, Y: st.ToY})
	c.PointerUp(Vec2{X: st.ToX, Y: st.ToY})
}

func (st replayStep) mouseButton() MouseButton {
	switch st.Button {
	case "right":
		return MouseButtonRight
	case "middle":
		return MouseButtonMiddle
	default:
		return MouseButtonLeft
	}
}

func (st replayStep) modifiers() KeyModifiers {
	var mods KeyModifiers
	if st.Alt {
		mods |= ModAlt
	}
	if st.Ctrl {
		mods |= ModCtrl
	}
	return mods
}
