package teensymon

import "bytes"

// Severity is the classification level assigned to a line based on its
// leading tag letter.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInfo
	SeverityDebug
	SeverityWarning
	SeverityError
	SeverityCritical

	severityCount
)

var severityNames = [severityCount]string{
	SeverityNone:     "none",
	SeverityInfo:     "info",
	SeverityDebug:    "debug",
	SeverityWarning:  "warning",
	SeverityError:    "error",
	SeverityCritical: "critical",
}

func (s Severity) String() string {
	if s < 0 || s >= severityCount {
		return "unknown"
	}
	return severityNames[s]
}

// severityByTag maps the recognized tag letters to severities
var severityByTag = map[byte]Severity{
	'I': SeverityInfo,
	'D': SeverityDebug,
	'W': SeverityWarning,
	'E': SeverityError,
	'C': SeverityCritical,
}

// Classify inspects the leading tag of a line. A line is tagged iff its
// first character is one of I, D, W, E, C and its second character is a
// colon. Anything else, including multi-letter prefixes and colons later in
// the line, yields SeverityNone and a zero tag.
func Classify(text string) (byte, Severity) {
	if len(text) >= 2 && text[1] == ':' {
		if sev, ok := severityByTag[text[0]]; ok {
			return text[0], sev
		}
	}
	return 0, SeverityNone
}

// LogLine is one newline-delimited segment of device output, classified by
// its leading tag. Partial is set when the line was flushed without a
// terminating newline (device disconnected mid-line).
type LogLine struct {
	Text     string
	Tag      byte
	Severity Severity
	Partial  bool
}

func newLogLine(text string, partial bool) LogLine {
	tag, sev := Classify(text)
	return LogLine{Text: text, Tag: tag, Severity: sev, Partial: partial}
}

// LineAssembler splits a byte stream into LogLines at newline boundaries.
// The split is chunk-invariant: feeding a stream in arbitrary pieces yields
// the same lines as feeding it whole.
type LineAssembler struct {
	buf []byte
}

// Feed appends a chunk of raw bytes and returns all lines completed by it.
// The trailing newline is not part of the line text.
func (a *LineAssembler) Feed(p []byte) []LogLine {
	a.buf = append(a.buf, p...)

	var lines []LogLine
	for {
		i := bytes.IndexByte(a.buf, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, newLogLine(string(a.buf[:i]), false))
		a.buf = a.buf[i+1:]
	}
	if len(a.buf) == 0 {
		a.buf = nil
	}
	return lines
}

// Flush returns any unterminated tail as a final partial line. A non-empty
// tail is never dropped; an empty buffer reports ok=false.
func (a *LineAssembler) Flush() (LogLine, bool) {
	if len(a.buf) == 0 {
		return LogLine{}, false
	}
	line := newLogLine(string(a.buf), true)
	a.buf = nil
	return line, true
}
