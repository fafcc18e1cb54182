// Package rime is the Engine Adapter (spec §4.1): a thin, safe surface
// over librime's synchronous C API.
//
// The adapter is a process-wide singleton, mirroring librime itself —
// RimeSetup/RimeInitialize operate on global state inside the library, so
// wrapping it per-instance would buy nothing but false isolation (spec §9,
// "Global engine singleton"). Callers reach it through Init/Global/Destroy
// rather than constructing values of Adapter directly; Global panics if
// called before Init, the same contract the source repo keeps around its
// own Rime::global() accessor.
//
// cgo does the FFI work: small typed wrappers around C structs and
// functions, with Go-side ownership of every C string reclaimed before the
// wrapping call returns.
package rime
