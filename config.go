package murmur

// Config holds every tuning constant for the simulation. The zero value is
// not usable; start from DefaultConfig and adjust. All distances are in
// world units, durations in seconds, fractions in [0, 1].
//
// The defaults are aesthetic choices, not correctness requirements. The
// invariants the engine guarantees (forward-only phases, unique target
// assignment, clamped opacity, eventual arrival) hold for any positive
// configuration.
type Config struct {
	// Seed drives all deterministic pseudo-randomness: reveal stagger,
	// fallback samples, flight swoops, and ambient reveal order.
	Seed uint64

	// --- Flocking zones ---

	// SeparationDistance is the inner band in which neighbors repel.
	SeparationDistance float64
	// AlignmentDistance is the width of the middle band in which agents
	// match neighbor headings.
	AlignmentDistance float64
	// CohesionDistance is the width of the outer band in which agents are
	// drawn toward neighbors. The full zone radius is the sum of all three.
	CohesionDistance float64
	// SeparationScale, AlignmentScale, and CohesionScale weight the three
	// zone forces.
	SeparationScale float64
	AlignmentScale  float64
	CohesionScale   float64

	// --- Containment ---

	// ComfortRadius is the distance from the world center beyond which the
	// center-seeking force engages.
	ComfortRadius float64
	// CenterPull scales the center-seeking force per world unit beyond
	// ComfortRadius.
	CenterPull float64
	// BoundsMargin is the width of the soft band inside the world bounds in
	// which the push-back force ramps up.
	BoundsMargin float64
	// BoundsPush scales the boundary push-back force.
	BoundsPush float64
	// BoundsDamp is the per-second damping applied to the outward velocity
	// component while inside the margin band.
	BoundsDamp float64

	// --- Pointer avoidance ---

	// AvoidRadius is the distance within which agents flee the pointer.
	AvoidRadius float64
	// AvoidStrength scales the pointer repulsion.
	AvoidStrength float64
	// AvoidLateral scales the deterministic per-agent sideways component of
	// the avoidance force.
	AvoidLateral float64

	// --- Leader ---

	// LeaderForwardBias is the constant acceleration along the leader's
	// heading.
	LeaderForwardBias float64
	// LeaderMinLead is the minimum distance the leader keeps ahead of the
	// flock centroid before the lead impulse engages.
	LeaderMinLead float64
	// LeaderLeadImpulse scales the impulse pushing the leader away from a
	// centroid that has caught up.
	LeaderLeadImpulse float64
	// LeaderGateInset is how far inside the world bounds the leader must be
	// before followers may leave Forming.
	LeaderGateInset float64
	// LeaderColorBlend is how far the leader's color moves toward its
	// target sample during the morph. Below 1 the leader keeps a
	// recognizable identity color for most of the morph.
	LeaderColorBlend float64

	// --- Speed ---

	// MaxSpeed clamps agent speed after integration.
	MaxSpeed float64
	// MinSpeed keeps flocking agents from stalling.
	MinSpeed float64
	// SpeedMultiplier scales position integration so apparent flock speed
	// is tunable independent of the physics step.
	SpeedMultiplier float64

	// --- Phase timing ---

	// FormingDuration is the fade-and-grow time before an agent may enter
	// Flocking.
	FormingDuration float64
	// FormingStagger is the extra per-character delay added to forming so
	// the flock does not appear all at once.
	FormingStagger float64
	// MinFlockingDuration is the flight time required before the reveal may
	// begin.
	MinFlockingDuration float64
	// RevealPerTickFraction bounds how many eligible agents may convert to
	// Revealing in one tick, staggering the transition over several
	// seconds.
	RevealPerTickFraction float64

	// --- Morph ---

	// MorphSeek is the acceleration pulling a revealing agent toward its
	// claimed target while it is still a bird.
	MorphSeek float64
	// MorphDuration is the bird-to-particle stage length.
	MorphDuration float64
	// FlightDuration is the particle-to-target stage length.
	FlightDuration float64
	// ParticleScale is the agent scale at the end of the morph.
	ParticleScale float64
	// ProximityThreshold is the distance to the eventual target within
	// which the claimed particle slot ramps in.
	ProximityThreshold float64
	// ArriveEpsilon is the distance below which a flying particle snaps to
	// its target.
	ArriveEpsilon float64
	// RelaxedEpsilon is the wider arrival window used once the flight
	// duration has elapsed, for particles that flocking interference kept
	// circling.
	RelaxedEpsilon float64
	// HardSnapTimeout is the flight time after which a particle snaps to
	// its target unconditionally.
	HardSnapTimeout float64
	// SwoopAmplitude scales the decaying organic perturbation during the
	// particle flight.
	SwoopAmplitude float64
	// FlightFlockScale weights the separation/alignment/cohesion applied
	// among in-flight particles.
	FlightFlockScale float64
	// FlightFlockRadius is the neighbor radius for in-flight particles.
	FlightFlockRadius float64

	// --- Ambient reveal (unassigned slots) ---

	// AmbientThreshold is the fraction of agents at target that starts the
	// ambient fade-in of unclaimed slots.
	AmbientThreshold float64
	// AmbientPerSecond is how many unclaimed slots begin fading per second.
	AmbientPerSecond float64
	// AmbientFadeDuration is each unclaimed slot's fade-in time.
	AmbientFadeDuration float64

	// --- Milestones ---

	// FlightBeginsFraction of agents must leave Forming to fire the
	// flight-begins milestone.
	FlightBeginsFraction float64
	// OutputReadyDelay is how long the reveal must have been underway
	// before the output-ready milestone fires.
	OutputReadyDelay float64
	// RevealCompleteFraction of revealing agents must arrive to fire the
	// reveal-complete milestone.
	RevealCompleteFraction float64
	// ParticlesFormedFraction of all slots must arrive to fire the final
	// milestone.
	ParticlesFormedFraction float64
	// ParticlesFormedTimeout fires the final milestone on reveal time
	// elapsed even if the fraction condition stalls.
	ParticlesFormedTimeout float64

	// --- Target sampling ---

	// MaxSamples caps the sampler output length.
	MaxSamples int
	// AlphaThreshold discards pixels with alpha at or below it.
	AlphaThreshold float64
	// WhiteThreshold discards near-white background pixels with luminance
	// at or above it.
	WhiteThreshold float64
	// DisplayAreaFraction is the portion of the visible world plane the
	// sampled image occupies.
	DisplayAreaFraction float64
	// FallbackSamples is the size of the procedural sample set used when
	// decoding fails.
	FallbackSamples int

	// --- Interaction field ---

	// FieldResolution is the interaction field grid size per axis.
	FieldResolution int
	// FieldDecay is the per-second exponential decay of the field.
	FieldDecay float64
	// FieldStrength scales the deposit from each pointer update.
	FieldStrength float64
	// FieldDisplacement scales the per-particle draw offset sampled from
	// the field.
	FieldDisplacement float64

	// --- Rendering ---

	// BirdScale is the base agent mesh size in world units.
	BirdScale float64
	// WingFlapRate is the wing phase advance in radians per world unit
	// traveled.
	WingFlapRate float64
	// PointSizeMin and PointSizeMax bound particle sprite sizes. Darker
	// source pixels render closer to PointSizeMax.
	PointSizeMin float64
	PointSizeMax float64

	// --- Projection ---

	// FOV is the vertical field of view in degrees used to relate the host
	// viewport to the world plane.
	FOV float64
	// CameraDistance is the camera's distance from the world plane.
	CameraDistance float64

	// BirdColor is the flight color of follower agents.
	BirdColor Color
	// LeaderColor is the flight color of the leader agent.
	LeaderColor Color
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Seed: 1,

		SeparationDistance: 18,
		AlignmentDistance:  28,
		CohesionDistance:   34,
		SeparationScale:    160,
		AlignmentScale:     70,
		CohesionScale:      50,

		ComfortRadius: 220,
		CenterPull:    1.2,
		BoundsMargin:  80,
		BoundsPush:    400,
		BoundsDamp:    2.5,

		AvoidRadius:   120,
		AvoidStrength: 320,
		AvoidLateral:  120,

		LeaderForwardBias: 60,
		LeaderMinLead:     60,
		LeaderLeadImpulse: 150,
		LeaderGateInset:   40,
		LeaderColorBlend:  0.35,

		MaxSpeed:        170,
		MinSpeed:        40,
		SpeedMultiplier: 1.0,

		FormingDuration:       1.2,
		FormingStagger:        0.08,
		MinFlockingDuration:   4.0,
		RevealPerTickFraction: 0.04,

		MorphSeek:          260,
		MorphDuration:      1.1,
		FlightDuration:     1.6,
		ParticleScale:      0.04,
		ProximityThreshold: 90,
		ArriveEpsilon:      0.75,
		RelaxedEpsilon:     4.0,
		HardSnapTimeout:    4.5,
		SwoopAmplitude:     26,
		FlightFlockScale:   0.25,
		FlightFlockRadius:  14,

		AmbientThreshold:    0.6,
		AmbientPerSecond:    240,
		AmbientFadeDuration: 0.9,

		FlightBeginsFraction:    0.95,
		OutputReadyDelay:        1.0,
		RevealCompleteFraction:  0.55,
		ParticlesFormedFraction: 0.98,
		ParticlesFormedTimeout:  12.0,

		MaxSamples:          4000,
		AlphaThreshold:      0.1,
		WhiteThreshold:      0.92,
		DisplayAreaFraction: 0.55,
		FallbackSamples:     900,

		FieldResolution:   32,
		FieldDecay:        2.2,
		FieldStrength:     1.0,
		FieldDisplacement: 10,

		BirdScale:    7,
		WingFlapRate: 0.45,
		PointSizeMin: 1.5,
		PointSizeMax: 4.5,

		FOV:            55,
		CameraDistance: 900,

		BirdColor:   Color{R: 0.16, G: 0.19, B: 0.26, A: 1},
		LeaderColor: Color{R: 0.82, G: 0.45, B: 0.2, A: 1},
	}
}

// zoneRadius is the full neighborhood radius: the sum of the three bands.
func (c *Config) zoneRadius() float64 {
	return c.SeparationDistance + c.AlignmentDistance + c.CohesionDistance
}
