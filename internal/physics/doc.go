// Package physics holds the environment a fabric is iterated in.
//
// A [Physics] value describes gravity, drag, viscosity, the global stiffness
// scale, and how joints interact with the ground plane at y=0:
//
//   - [Absent]: no ground, joints fall forever
//   - [Frozen]: joints touching the ground are locked just below it
//   - [Sticky]: horizontal motion is damped while sinking
//   - [Bouncy]: velocity is cushioned by the degree of submersion
//
// Growth and shaping run in [Liquid], which has no gravity and heavy
// viscosity. Pretensing and the interactive lab use [AirGravity].
//
// # Units
//
// All quantities are per tick. Gravity is the velocity added to a joint each
// iteration, so a joint in free fall reaches speed n*Gravity after n ticks.
package physics
