package rime

// Candidate is one entry in the current menu (spec §3). Order is 1-based;
// 0 is overloaded to mean "directly committed text, no menu left" (spec §9
// open question — the overload is kept here, matching the source).
type Candidate struct {
	Text    string
	Comment string
	Order   int
}

// Response is the Engine Adapter's observation of one session's state
// (spec §4.1).
type Response struct {
	// IsIncomplete is true iff Candidates came from a non-empty menu —
	// the engine still has more to say.
	IsIncomplete bool
	// Submitted is the portion of the preedit the engine has already
	// auto-committed (typically leading punctuation).
	Submitted string
	Candidates []Candidate
}
