package murmur

import (
	"fmt"
	"os"
)

// simStats holds the per-phase counts printed in debug mode.
type simStats struct {
	forming   int
	flocking  int
	revealing int
	atTarget  int
	slots     int
	arrived   int
	fired     int
}

// collectStats counts the current phase distribution.
func (s *Sim) collectStats() simStats {
	var st simStats
	for i := range s.agents {
		switch s.agents[i].Phase {
		case PhaseForming:
			st.forming++
		case PhaseFlocking:
			st.flocking++
		case PhaseRevealing:
			st.revealing++
		}
		if s.agents[i].AtTarget {
			st.atTarget++
		}
	}
	if s.particles != nil {
		st.slots = s.particles.Len()
		st.arrived = s.particles.ArrivedCount()
	}
	for _, f := range s.fired {
		if f {
			st.fired++
		}
	}
	return st
}

// debugLog prints phase and particle stats to stderr. Only called when
// debug mode is on, once a second.
func (s *Sim) debugLog() {
	st := s.collectStats()
	_, _ = fmt.Fprintf(os.Stderr,
		"[murmur] t=%.1fs forming: %d | flocking: %d | revealing: %d | at target: %d\n",
		s.now, st.forming, st.flocking, st.revealing, st.atTarget)
	_, _ = fmt.Fprintf(os.Stderr,
		"[murmur] slots: %d/%d arrived | milestones fired: %d/4\n",
		st.arrived, st.slots, st.fired)
}
