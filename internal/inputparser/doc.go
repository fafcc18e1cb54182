// Package inputparser carves the trailing segment of a document line into
// a pinyin run and an optional numeric/paging selector, using regexes
// compiled by github.com/coregx/coregex.
//
// Two patterns cover the two supported modes:
//
//   - no-trigger mode, always active, matches an alphabetic/punctuation run
//     followed by an optional digit/paging suffix anchored to line end;
//   - trigger mode, active only when the server is configured with trigger
//     characters, additionally requires one of those characters immediately
//     before the run.
//
// Mode selection happens once per completion request (see NeedsTrigger)
// rather than inside the parser itself, so the parser stays a pure
// regex-to-Input mapping.
package inputparser
