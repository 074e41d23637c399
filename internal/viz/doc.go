// Package viz provides the terminal front end of bouncebox.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Scene]: a dynamo.Renderer that draws the bordered area and the
//     square on Braille [Canvas] layers
//   - [Model]: live view driving a simulator from wall-clock ticks
//   - [RunInteractive]: preset picker with parameter editing
//   - [Recorder]: GIF capture of the scene
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Reset to the initial body
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// Host keys never touch the body; they only control the clock and display.
package viz
