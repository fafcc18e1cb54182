// Package keycode holds the X11 keysym values the Engine Adapter and the
// Input State Machine both need to agree on (spec §6), in a package with
// no cgo dependency so the state machine can be exercised without linking
// the native library.
package keycode

// Bit-exact with X11 keysyms; verify locally with `xmodmap -pk`.
const (
	Backspace = 0xff08
	Escape    = 0xff1b
	F4        = 0xffc1
	PageUp    = 0xff55
	PageDown  = 0xff56
)
