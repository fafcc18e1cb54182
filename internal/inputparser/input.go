package inputparser

import "github.com/coregx/coregex"

// Input is the immutable record produced from the current line's tail
// (spec §3). It owns rawText and exposes pinyin/select as offset/length
// views into it rather than as independent pointers — the Go restatement
// of the source's self-referential raw_text/pinyin/select cell (spec §9).
type Input struct {
	rawText string

	pinyinStart, pinyinEnd int
	selectStart, selectEnd int

	isSchema bool
}

// RawText is the full regex match.
func (in Input) RawText() string { return in.rawText }

// Pinyin is the alphabetic/punctuation run that will be replayed to the
// engine.
func (in Input) Pinyin() string { return in.rawText[in.pinyinStart:in.pinyinEnd] }

// Select is the trailing digit/paging-character run, possibly empty.
func (in Input) Select() string { return in.rawText[in.selectStart:in.selectEnd] }

// IsSchema reports whether Pinyin equals the configured schema-menu
// trigger string.
func (in Input) IsSchema() bool { return in.isSchema }

// IsSelecting reports whether Select is non-empty.
func (in Input) IsSelecting() bool { return in.Select() != "" }

// Parse runs re against lineTail and builds an Input from the py/se
// submatches, returning ok=false if the pattern didn't match (spec §4.2).
// triggerMode selects which positional submatch layout to use: a
// trigger-mode pattern has one extra leading group ahead of pinyin/select.
func Parse(re *coregex.Regex, lineTail string, triggerMode bool, schemaTrigger string) (Input, bool) {
	idx := re.FindStringSubmatchIndex(lineTail)
	if idx == nil {
		return Input{}, false
	}

	wholeIdx, pyIdx, seIdx := groupWhole, groupPy, groupSe
	if triggerMode {
		wholeIdx, pyIdx, seIdx = triggerGroupWhole, triggerGroupPy, triggerGroupSe
	}

	wholeStart, wholeEnd := idx[2*wholeIdx], idx[2*wholeIdx+1]
	pyStart, pyEnd := idx[2*pyIdx], idx[2*pyIdx+1]
	seStart, seEnd := idx[2*seIdx], idx[2*seIdx+1]

	rawText := lineTail[wholeStart:wholeEnd]
	in := Input{
		rawText:     rawText,
		pinyinStart: pyStart - wholeStart,
		pinyinEnd:   pyEnd - wholeStart,
		selectStart: seStart - wholeStart,
		selectEnd:   seEnd - wholeStart,
	}
	if schemaTrigger != "" && in.Pinyin() == schemaTrigger {
		in.isSchema = true
	}
	return in, true
}

// ParseNoTrigger parses lineTail with the always-active no-trigger pattern.
func ParseNoTrigger(lineTail, schemaTrigger string) (Input, bool) {
	return Parse(noTriggerRegex, lineTail, false, schemaTrigger)
}

// ParseTrigger parses lineTail with a compiled trigger-mode pattern (see
// CompileTrigger).
func ParseTrigger(re *coregex.Regex, lineTail, schemaTrigger string) (Input, bool) {
	return Parse(re, lineTail, true, schemaTrigger)
}
