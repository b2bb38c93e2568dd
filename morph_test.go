package murmur

import (
	"math"
	"testing"
)

func TestMorphTweenWritesFields(t *testing.T) {
	a := Agent{Alpha: 0, Scale: 0.2}
	g := newFormingTween(&a, 0.5)

	for i := 0; i < 60; i++ {
		g.Update(1.0 / 60)
	}
	if !g.Done {
		t.Fatal("tween group not done after full duration")
	}
	if math.Abs(a.Alpha-1) > 1e-6 {
		t.Errorf("Alpha = %v, want 1", a.Alpha)
	}
	if math.Abs(a.Scale-1) > 1e-6 {
		t.Errorf("Scale = %v, want 1", a.Scale)
	}
}

func TestMorphTweenUpdateAfterDoneIsNoop(t *testing.T) {
	a := Agent{Alpha: 0, Scale: 0}
	g := newFormingTween(&a, 0.1)
	for i := 0; i < 30; i++ {
		g.Update(1.0 / 60)
	}
	alpha, scale := a.Alpha, a.Scale
	g.Update(1.0 / 60)
	if a.Alpha != alpha || a.Scale != scale {
		t.Error("finished group kept writing fields")
	}
}

func TestBirdMorphBlendsFollowerFully(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MorphDuration = 0.4
	a := Agent{Scale: 1, Color: cfg.BirdColor}
	target := Color{R: 0.9, G: 0.2, B: 0.1, A: 1}
	g := newBirdMorph(&a, target, &cfg)

	for i := 0; i < 60; i++ {
		g.Update(1.0 / 60)
	}
	if math.Abs(a.Color.R-target.R) > 0.01 ||
		math.Abs(a.Color.G-target.G) > 0.01 ||
		math.Abs(a.Color.B-target.B) > 0.01 {
		t.Errorf("follower color = %+v, want near target %+v", a.Color, target)
	}
	if math.Abs(a.Scale-cfg.ParticleScale) > 0.01 {
		t.Errorf("Scale = %v, want %v", a.Scale, cfg.ParticleScale)
	}
}

func TestBirdMorphBlendsLeaderPartially(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MorphDuration = 0.4
	a := Agent{Scale: 1, IsLeader: true, Color: cfg.LeaderColor}
	target := Color{R: 0.1, G: 0.1, B: 0.9, A: 1}
	g := newBirdMorph(&a, target, &cfg)

	for i := 0; i < 60; i++ {
		g.Update(1.0 / 60)
	}
	want := cfg.LeaderColor.Lerp(target, cfg.LeaderColorBlend)
	if math.Abs(a.Color.R-want.R) > 0.01 ||
		math.Abs(a.Color.B-want.B) > 0.01 {
		t.Errorf("leader color = %+v, want partial blend %+v", a.Color, want)
	}
	if math.Abs(a.Color.B-target.B) < 0.1 {
		t.Error("leader color reached the target; identity blend lost")
	}
}

func TestEaseOutCubicEndpoints(t *testing.T) {
	if got := easeOutCubic(0); math.Abs(got) > 1e-6 {
		t.Errorf("easeOutCubic(0) = %v, want 0", got)
	}
	if got := easeOutCubic(1); math.Abs(got-1) > 1e-6 {
		t.Errorf("easeOutCubic(1) = %v, want 1", got)
	}
	// Ease-out covers more ground early than late.
	if easeOutCubic(0.5) <= 0.5 {
		t.Errorf("easeOutCubic(0.5) = %v, want above linear", easeOutCubic(0.5))
	}
}
