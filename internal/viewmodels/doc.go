// Package viewmodels holds per-screen UI state for the character screens.
//
// Each view model owns a cancellable context derived from its parent. Every data-layer call it makes is bound
// to that context, and Close cancels it: outstanding work is abandoned and its results are discarded. A write
// that was already in flight may or may not have completed; nothing is rolled back.
//
// State is read with State and change notifications arrive on Changed, a one-slot channel that coalesces
// bursts into a single wake-up.
package viewmodels
