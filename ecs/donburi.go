// Package ecs provides ECS adapters for murmur.
package ecs

import (
	"github.com/phanxgames/murmur"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// MilestoneEvent carries one run-level milestone into the ECS.
type MilestoneEvent struct {
	Kind murmur.Milestone
	// Elapsed is the simulation time at which the milestone fired.
	Elapsed float64
}

// MilestoneEventType is the Donburi event type for murmur milestones.
// Subscribe to this in your ECS systems to react to transition progress.
var MilestoneEventType = events.NewEventType[MilestoneEvent]()

// Hook installs milestone callbacks on sim that publish MilestoneEvents to
// the given Donburi world. Consume them with events.Subscribe and
// ProcessEvents. Hook replaces any callbacks previously set on sim.
func Hook(world donburi.World, sim *murmur.Sim) {
	publish := func(kind murmur.Milestone) func() {
		return func() {
			MilestoneEventType.Publish(world, MilestoneEvent{
				Kind:    kind,
				Elapsed: sim.Elapsed(),
			})
		}
	}
	sim.SetCallbacks(murmur.Callbacks{
		OnFlightBegins:    publish(murmur.MilestoneFlightBegins),
		OnOutputReady:     publish(murmur.MilestoneOutputReady),
		OnRevealComplete:  publish(murmur.MilestoneRevealComplete),
		OnParticlesFormed: publish(murmur.MilestoneParticlesFormed),
	})
}
