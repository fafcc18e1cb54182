package inputparser

import (
	"strings"

	"github.com/coregx/coregex"
)

// Bit-exact with the canonical Rime-LSP regexes (spec §6).
const (
	noTriggerPattern  = `((?P<py>[a-zA-Z[:punct:]]+)(?P<se>[0-9,\.\-=]*))$`
	rawPattern        = `[a-zA-Z[:punct:]]+`
	autoTriggerSuffix = `[^a-zA-Z[:punct:]\s][a-zA-Z[:punct:]]+[0-9,\.\-=]*$`
)

// groupPy and groupSe are the 1-based submatch indices of the py/se
// capture groups in noTriggerPattern; coregex has no named-capture
// support, so the groups are addressed positionally instead. The
// triggerGroup* constants are the same indices for a trigger-mode pattern,
// whose extra trigger-character group (triggerGroupTr) shifts py/se by one.
const (
	groupWhole = 0
	groupPy    = 2
	groupSe    = 3
)

const (
	triggerGroupWhole = 0
	triggerGroupTr    = 2
	triggerGroupPy    = 3
	triggerGroupSe    = 4
)

var (
	noTriggerRegex = coregex.MustCompile(noTriggerPattern)
	rawRegex       = coregex.MustCompile(rawPattern)
	autoTriggerRe  = coregex.MustCompile(autoTriggerSuffix)
)

// StripRawAlphabet removes every substring of s that matches the
// raw-alphabet pattern (spec §6 RAW_PTN), used by the Engine Adapter to
// compute the "submitted" portion of a response from the engine's preedit.
func StripRawAlphabet(s string) string {
	matches := rawRegex.FindAllString(s, -1)
	if len(matches) == 0 {
		return s
	}
	out := s
	for _, m := range matches {
		out = strings.Replace(out, m, "", 1)
	}
	return out
}

// buildTriggerPattern splices a trigger-character class group `([chars])`
// in front of the no-trigger pattern's pinyin group, the same
// transformation the original trigger_ptn! macro performs at runtime
// (spec §4.2). The groups it writes are unnamed; Parse addresses them by
// position.
func buildTriggerPattern(triggerChars []string) string {
	var b strings.Builder
	b.WriteString(`((`)
	b.WriteString(`[`)
	for _, c := range triggerChars {
		b.WriteString(escapeClassChar(c))
	}
	b.WriteString(`])`)
	b.WriteString(`([a-zA-Z[:punct:]]+)`)
	b.WriteString(`([0-9,\.\-=]*)`)
	b.WriteString(`)$`)
	return b.String()
}

// escapeClassChar escapes characters that are special inside a regex
// character class ([, ], ^, -, \).
func escapeClassChar(c string) string {
	switch c {
	case "[", "]", "^", "-", "\\":
		return `\` + c
	default:
		return c
	}
}

// CompileTrigger compiles the trigger-mode pattern for the given set of
// configured trigger characters. Called through lspserver.RegexState's
// Recompile on initialize and whenever a didChangeConfiguration payload
// carries trigger_characters.
func CompileTrigger(triggerChars []string) (*coregex.Regex, error) {
	return coregex.Compile(buildTriggerPattern(triggerChars))
}

// NeedsTrigger reports whether the trigger-mode pattern must be used: true
// only when trigger characters are configured and the trailing line
// segment does not already look like the user is "inside" an alpha run
// preceded by a non-word character (spec §4.2's auto-trigger relaxation).
// When it returns false, the no-trigger pattern applies.
func NeedsTrigger(hasTriggerChars bool, lineTail string) bool {
	if !hasTriggerChars {
		return false
	}
	return !autoTriggerRe.MatchString(lineTail)
}
