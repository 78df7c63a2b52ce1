// Package viz draws fabrics in the terminal.
//
// The package implements a live view using the Bubble Tea framework:
//
//   - [Model]: watches a crucible grow, pretense and flex a plan
//   - [RunInteractive]: plan picker in front of the live view
//   - [Canvas]: braille pixel canvas, two by four dots per cell
//   - [Camera]: orbiting perspective projection of fabric snapshots
//   - Theme selection with five built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	H/L   - Orbit the camera
//	P     - Pretense again
//	M     - Toggle the muscle cycle
//	G     - Toggle gravity
//	?     - Show help overlay
package viz
