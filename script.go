package murmur

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a headless run script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Count  int     `json:"count,omitempty"`
}

// script is the top-level JSON structure for a run script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences pointer input against a Sim across frames for
// reproducible headless runs. Load a JSON script, then call Step once per
// tick before Sim.Update.
//
// Supported actions: "pointer" (move the pointer to x, y in screen space),
// "clearpointer", "wait" (hold for frames ticks), and "targets" (install
// count procedural target samples, so scripted runs exercise the reveal
// without an image; count 0 uses the configured fallback size).
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON run script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse run script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse run script: no steps")
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame, applying the next action to the
// sim. Call once per tick.
func (r *ScriptRunner) Step(s *Sim) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "pointer":
		s.SetPointer(st.X, st.Y)
	case "clearpointer":
		s.ClearPointer()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "targets":
		if st.Count > 0 {
			s.SetTargets(FallbackSamples(s.DisplayArea(), st.Count, s.cfg.Seed))
		} else {
			s.SetTargets(nil)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

// RunScript drives sim with the script under a fixed step until the script
// completes, up to maxFrames ticks. Returns the number of ticks executed.
func RunScript(sim *Sim, r *ScriptRunner, dt float64, maxFrames int) int {
	frames := 0
	for !r.Done() && frames < maxFrames {
		r.Step(sim)
		sim.Update(dt)
		frames++
	}
	return frames
}
