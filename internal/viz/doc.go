// Package viz renders runs in the terminal: the step table printed by the
// run command, and a Bubble Tea live view that advances a run while drawing
// the particles on a Braille canvas.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	X/Y/Z - Rotate the box (shift reverses)
//	+/-   - Zoom
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
