package manifest

import "github.com/kr/pretty"

// DebugLogging gates the cost of building a verbose dump of decoded
// manifest state. It defaults to off: pretty-printing a Version with
// every file across every level is useful when diagnosing a corrupt
// or unexpected manifest, but wasteful on every open.
var DebugLogging = false

// DebugString returns a verbose, field-by-field dump of v using
// kr/pretty, or "" when DebugLogging is off. Callers that always want
// the detail regardless of the flag should call pretty.Sprint directly.
func (v *Version) DebugString() string {
	if !DebugLogging {
		return ""
	}
	return pretty.Sprint(v)
}

// DebugString returns a verbose dump of ve using kr/pretty, or "" when
// DebugLogging is off.
func (ve *VersionEdit) DebugString() string {
	if !DebugLogging {
		return ""
	}
	return pretty.Sprint(ve)
}
