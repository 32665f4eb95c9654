package sidecar

import "fmt"

// Failure kinds surfaced by the gateway and by payload decoding.
const (
	KindSpawn        = "spawn_error"
	KindSidecar      = "sidecar_error"
	KindParse        = "parse_error"
	KindFileNotFound = "file_not_found"
)

// Failure is a structured error payload: the kind reported by the gateway or
// by the tool itself, plus a human-readable message.
type Failure struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	if f.Message == "" {
		return f.Kind
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Result is the outcome of one tool invocation. Exactly one of Output or
// Failure is meaningful: when Failure is nil, Output holds the trimmed stdout.
type Result struct {
	Output  string
	Failure *Failure
}

// Failed reports whether the invocation produced a failure instead of output.
func (r Result) Failed() bool {
	return r.Failure != nil
}

func failed(kind, message string) Result {
	return Result{Failure: &Failure{Kind: kind, Message: message}}
}
