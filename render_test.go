package murmur

import "testing"

// renderSim returns a sim with two visible flocking agents and a small
// particle set, without ticking.
func renderSim() *Sim {
	s := New(testConfig(), gridSeeds(2, false), 1280, 720)
	for i := range s.agents {
		s.agents[i].enterFlocking(s.Config())
	}
	return s
}

func TestBuildBirdsGeometry(t *testing.T) {
	s := renderSim()
	r := NewRenderer()
	r.build(s)

	if got := len(r.birdVerts); got != 2*4 {
		t.Fatalf("bird vertices = %d, want %d", got, 2*4)
	}
	if got := len(r.birdInds); got != 2*6 {
		t.Fatalf("bird indices = %d, want %d", got, 2*6)
	}
	for _, idx := range r.birdInds {
		if int(idx) >= len(r.birdVerts) {
			t.Fatalf("index %d out of range", idx)
		}
	}
	// No particles were installed; those buffers stay empty.
	if len(r.particleVerts) != 0 || len(r.fieldVerts) != 0 {
		t.Error("unexpected particle or field geometry")
	}
}

func TestBuildSkipsInvisibleAgents(t *testing.T) {
	s := renderSim()
	s.agents[0].hidden = true
	r := NewRenderer()
	r.build(s)
	if got := len(r.birdVerts); got != 4 {
		t.Errorf("bird vertices = %d, want 4 for the one visible agent", got)
	}

	s.agents[1].Alpha = 0
	r.build(s)
	if len(r.birdVerts) != 0 {
		t.Errorf("bird vertices = %d for fully faded agents, want 0", len(r.birdVerts))
	}
}

func TestBirdColorsPremultiplied(t *testing.T) {
	s := renderSim()
	s.agents[0].Alpha = 0.5
	s.agents[1].hidden = true
	r := NewRenderer()
	r.build(s)

	c := s.agents[0].Color
	v := r.birdVerts[0]
	if v.ColorA != 0.5 {
		t.Errorf("ColorA = %v, want alpha 0.5", v.ColorA)
	}
	if v.ColorR != float32(c.R*0.5) || v.ColorG != float32(c.G*0.5) || v.ColorB != float32(c.B*0.5) {
		t.Errorf("vertex RGB = (%v,%v,%v), want premultiplied by alpha", v.ColorR, v.ColorG, v.ColorB)
	}
}

func TestBuildParticlesSkipsTransparentSlots(t *testing.T) {
	s := renderSim()
	s.SetTargets(lineTargets(6))
	r := NewRenderer()
	r.build(s)
	if len(r.particleVerts) != 0 {
		t.Fatalf("particle vertices = %d for all-transparent slots, want 0", len(r.particleVerts))
	}

	s.particles.claim(2, ColorWhite)
	s.particles.track(2, s.particles.Target(2).Position, ColorWhite)
	r.build(s)
	if got := len(r.particleVerts); got != 4 {
		t.Errorf("particle vertices = %d, want 4 for one lit slot", got)
	}
	if got := len(r.particleInds); got != 6 {
		t.Errorf("particle indices = %d, want 6", got)
	}
}

func TestDarkerParticlesRenderLarger(t *testing.T) {
	s := renderSim()
	targets := []TargetSample{
		{Position: Vec3{X: -50}, Color: Color{A: 1}, Brightness: 0.05},
		{Position: Vec3{X: 50}, Color: Color{R: 0.8, G: 0.8, B: 0.8, A: 1}, Brightness: 0.85},
	}
	s.SetTargets(targets)
	for i := range targets {
		s.particles.claim(i, ColorWhite)
		s.particles.track(i, targets[i].Position, ColorWhite)
	}

	r := NewRenderer()
	r.build(s)
	if len(r.particleVerts) != 8 {
		t.Fatalf("particle vertices = %d, want 8", len(r.particleVerts))
	}
	width := func(base int) float32 {
		return r.particleVerts[base+1].DstX - r.particleVerts[base].DstX
	}
	if width(0) <= width(4) {
		t.Errorf("dark quad width %v <= bright quad width %v, want darker larger", width(0), width(4))
	}
}

func TestBuildFieldEmitsLitCellsOnly(t *testing.T) {
	s := renderSim()
	r := NewRenderer()
	r.build(s)
	if len(r.fieldVerts) != 0 {
		t.Fatalf("field vertices = %d with an empty field, want 0", len(r.fieldVerts))
	}

	s.SetPointer(640, 360)
	r.build(s)
	if len(r.fieldVerts) == 0 {
		t.Error("no field geometry after a pointer deposit")
	}
	if len(r.fieldVerts)%4 != 0 || len(r.fieldInds) != len(r.fieldVerts)/4*6 {
		t.Errorf("field buffers inconsistent: %d verts, %d inds", len(r.fieldVerts), len(r.fieldInds))
	}
	for _, v := range r.fieldVerts {
		if v.ColorA < 0 || v.ColorA > 1 {
			t.Fatalf("field vertex alpha %v out of range", v.ColorA)
		}
	}
}

func TestBuildBuffersReset(t *testing.T) {
	s := renderSim()
	r := NewRenderer()
	r.build(s)
	first := len(r.birdVerts)
	r.build(s)
	if len(r.birdVerts) != first {
		t.Errorf("vertex count grew across rebuilds: %d -> %d", first, len(r.birdVerts))
	}
}
