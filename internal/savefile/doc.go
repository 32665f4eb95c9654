// Package savefile interprets the extraction tool's JSON payloads.
//
// Reader.Validate turns the `validate` payload into a ValidationVerdict and
// Reader.Extract turns the `extract` payload into raw games, players and
// draft picks. Neither returns a Go error: gateway failures, tool-reported
// errors and malformed JSON all surface as a *sidecar.Failure on the result,
// and an extraction that failed always carries empty record slices.
package savefile
