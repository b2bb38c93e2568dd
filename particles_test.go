package murmur

import "testing"

func lineTargets(n int) []TargetSample {
	samples := make([]TargetSample, n)
	for i := range samples {
		samples[i] = TargetSample{
			Position:   Vec3{X: float64(i) * 10},
			Color:      Color{R: 0.5, G: 0.5, B: 0.5, A: 1},
			Brightness: float64(i) / float64(n),
		}
	}
	return samples
}

func TestSlotsStartTransparentAtTargets(t *testing.T) {
	cfg := testConfig()
	b := newParticleBuffer(lineTargets(4), &cfg)
	for i := 0; i < b.Len(); i++ {
		if b.Opacity(i) != 0 {
			t.Errorf("slot %d opacity = %v, want 0", i, b.Opacity(i))
		}
		if b.Position(i) != b.Target(i).Position {
			t.Errorf("slot %d position = %+v, want target", i, b.Position(i))
		}
	}
}

func TestTrackRampsOpacityByProximity(t *testing.T) {
	cfg := testConfig()
	b := newParticleBuffer(lineTargets(2), &cfg)
	bird := Color{R: 0.2, G: 0.2, B: 0.3, A: 1}
	b.claim(0, bird)

	// Far outside the proximity threshold: clamped at zero, never negative.
	far := Vec3{X: cfg.ProximityThreshold * 3}
	b.track(0, far, bird)
	if b.Opacity(0) != 0 {
		t.Errorf("opacity at distance = %v, want 0", b.Opacity(0))
	}
	if b.Position(0) != far {
		t.Errorf("tracked position = %+v, want bird position", b.Position(0))
	}

	near := Vec3{X: cfg.ProximityThreshold / 2}
	b.track(0, near, bird)
	if op := b.Opacity(0); op <= 0 || op > 1 {
		t.Errorf("opacity near target = %v, want in (0, 1]", op)
	}
}

func TestTrackIgnoresUnclaimedSlot(t *testing.T) {
	cfg := testConfig()
	b := newParticleBuffer(lineTargets(2), &cfg)
	b.track(1, Vec3{X: 999}, ColorWhite)
	if b.Position(1) != b.Target(1).Position {
		t.Error("unclaimed slot moved")
	}
}

func TestClaimIsFirstComeOnly(t *testing.T) {
	cfg := testConfig()
	b := newParticleBuffer(lineTargets(2), &cfg)
	first := Color{R: 0.1, A: 1}
	b.claim(0, first)
	b.claim(0, Color{R: 0.9, A: 1})
	if b.Color(0) != first {
		t.Errorf("second claim overwrote color: %+v", b.Color(0))
	}
}

func TestFlightReachesExactTarget(t *testing.T) {
	cfg := testConfig()
	b := newParticleBuffer(lineTargets(3), &cfg)
	b.claim(1, ColorWhite)
	b.track(1, Vec3{X: 200, Y: 150}, ColorWhite)
	b.beginFlight(1, 0)

	now := 0.0
	for i := 0; i < 600 && !b.atTarget(1); i++ {
		now += testDT
		b.update(testDT, now)
	}
	if !b.atTarget(1) {
		t.Fatal("flight never arrived")
	}
	if b.Position(1) != b.Target(1).Position {
		t.Errorf("arrived at %+v, want exact %+v", b.Position(1), b.Target(1).Position)
	}
	if b.Opacity(1) != 1 {
		t.Errorf("arrived opacity = %v, want 1", b.Opacity(1))
	}
	if b.Color(1) != b.Target(1).Color {
		t.Errorf("arrived color = %+v, want target color", b.Color(1))
	}
	if b.ArrivedCount() != 1 {
		t.Errorf("ArrivedCount = %d, want 1", b.ArrivedCount())
	}
}

func TestHardSnapBoundsFlightTime(t *testing.T) {
	cfg := testConfig()
	// Make natural arrival unreachable so only the timeout can end the
	// flight.
	cfg.FlightDuration = 1000
	cfg.ArriveEpsilon = 1e-9
	cfg.RelaxedEpsilon = 1e-9
	cfg.HardSnapTimeout = 0.5

	b := newParticleBuffer(lineTargets(2), &cfg)
	b.claim(0, ColorWhite)
	b.track(0, Vec3{X: 300, Y: 300}, ColorWhite)
	b.beginFlight(0, 0)

	now := 0.0
	for i := 0; i < 120; i++ {
		now += testDT
		b.update(testDT, now)
	}
	if !b.atTarget(0) {
		t.Fatal("hard snap timeout did not fire")
	}
	if b.Position(0) != b.Target(0).Position {
		t.Errorf("snap landed at %+v, want exact target", b.Position(0))
	}
}

func TestArrivedSlotIsImmutable(t *testing.T) {
	cfg := testConfig()
	b := newParticleBuffer(lineTargets(2), &cfg)
	b.claim(0, ColorWhite)
	b.track(0, b.Target(0).Position, ColorWhite)
	b.beginFlight(0, 0)
	b.update(testDT, testDT) // within ArriveEpsilon immediately

	if !b.atTarget(0) {
		t.Fatal("precondition: slot should have arrived")
	}
	pos := b.Position(0)

	b.track(0, Vec3{X: 500}, ColorWhite)
	b.setOpacity(0, 0.2)
	b.beginFlight(0, 1)
	b.update(testDT, 1)

	if b.Position(0) != pos {
		t.Errorf("arrived slot moved to %+v", b.Position(0))
	}
	if b.Opacity(0) != 1 {
		t.Errorf("arrived slot opacity = %v, want locked at 1", b.Opacity(0))
	}
	if b.ArrivedCount() != 1 {
		t.Errorf("ArrivedCount = %d after repeat arrivals, want 1", b.ArrivedCount())
	}
}

func TestClaimOvertakesAmbientFade(t *testing.T) {
	cfg := testConfig()
	cfg.AmbientPerSecond = 1000
	cfg.AmbientFadeDuration = 5
	b := newParticleBuffer(lineTargets(3), &cfg)
	b.beginAmbient(0)
	b.update(testDT, testDT)
	if b.state[1] != slotAmbient {
		t.Fatal("precondition: slot should be mid-fade")
	}

	bird := Color{R: 0.2, G: 0.2, B: 0.3, A: 1}
	b.claim(1, bird)
	if b.state[1] != slotTracking {
		t.Fatalf("claimed fading slot state = %d, want tracking", b.state[1])
	}
	pos := Vec3{X: 5}
	b.track(1, pos, bird)
	if b.Position(1) != pos {
		t.Error("claimed slot not driven by its agent")
	}
	// The ambient fade must not finish a slot an agent now owns.
	b.update(testDT, 100)
	if b.atTarget(1) {
		t.Error("ambient pass locked an agent-owned slot")
	}
}

func TestClaimOnArrivedAmbientSlotKeepsResult(t *testing.T) {
	cfg := testConfig()
	cfg.AmbientPerSecond = 1000
	cfg.AmbientFadeDuration = 0.05
	b := newParticleBuffer(lineTargets(2), &cfg)
	b.beginAmbient(0)
	for i := 0; i < 10; i++ {
		b.update(testDT, float64(i+1)*testDT)
	}
	if !b.atTarget(0) {
		t.Fatal("precondition: ambient fade should have locked the slot")
	}

	b.claim(0, ColorWhite)
	if !b.claimed[0] {
		t.Error("arrived slot not marked claimed")
	}
	if !b.atTarget(0) || b.Position(0) != b.Target(0).Position {
		t.Error("claiming an arrived slot disturbed its locked state")
	}
}

func TestFlightOpacityRampsFromLaunch(t *testing.T) {
	cfg := testConfig()
	b := newParticleBuffer(lineTargets(2), &cfg)
	b.claim(0, ColorWhite)
	// Bird released far outside the proximity threshold: opacity 0 at
	// launch, so the flight must fade the slot in rather than pop it.
	b.track(0, Vec3{X: cfg.ProximityThreshold * 4}, ColorWhite)
	if b.Opacity(0) != 0 {
		t.Fatalf("precondition: launch opacity = %v, want 0", b.Opacity(0))
	}
	b.beginFlight(0, 0)

	now := testDT
	b.update(testDT, now)
	if op := b.Opacity(0); op >= 0.5 {
		t.Errorf("opacity = %v on the first flight tick, want a gradual ramp", op)
	}
	prev := b.Opacity(0)
	for i := 0; i < 600 && !b.atTarget(0); i++ {
		now += testDT
		b.update(testDT, now)
		if op := b.Opacity(0); op < prev {
			t.Fatalf("opacity regressed %v -> %v mid-flight", prev, op)
		}
		prev = b.Opacity(0)
	}
	if !b.atTarget(0) || b.Opacity(0) != 1 {
		t.Errorf("flight ended at opacity %v, arrived %v", b.Opacity(0), b.atTarget(0))
	}
}

func TestAmbientOrderDeterministic(t *testing.T) {
	cfg := testConfig()
	a := newParticleBuffer(lineTargets(50), &cfg)
	b := newParticleBuffer(lineTargets(50), &cfg)
	a.beginAmbient(0)
	b.beginAmbient(0)

	if len(a.ambientOrder) != len(b.ambientOrder) {
		t.Fatalf("order lengths differ: %d vs %d", len(a.ambientOrder), len(b.ambientOrder))
	}
	for i := range a.ambientOrder {
		if a.ambientOrder[i] != b.ambientOrder[i] {
			t.Fatalf("ambient order diverged at %d: %d vs %d", i, a.ambientOrder[i], b.ambientOrder[i])
		}
	}
}

func TestAmbientFadeArrivesEverySlot(t *testing.T) {
	cfg := testConfig()
	b := newParticleBuffer(lineTargets(30), &cfg)
	b.beginAmbient(0)

	now := 0.0
	for i := 0; i < 300; i++ {
		now += testDT
		b.update(testDT, now)
		for s := 0; s < b.Len(); s++ {
			if op := b.Opacity(s); op < 0 || op > 1 {
				t.Fatalf("slot %d opacity %v out of range mid-fade", s, op)
			}
		}
	}
	if b.ArrivedCount() != b.Len() {
		t.Errorf("ArrivedCount = %d, want all %d", b.ArrivedCount(), b.Len())
	}
}

func TestAmbientSkipsClaimedSlots(t *testing.T) {
	cfg := testConfig()
	b := newParticleBuffer(lineTargets(10), &cfg)
	b.claim(3, ColorWhite)
	b.beginAmbient(0)

	for _, slot := range b.ambientOrder {
		if slot == 3 {
			t.Error("claimed slot queued for ambient reveal")
		}
	}
}
