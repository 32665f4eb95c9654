// Package preflight provides readiness checks for the extraction tool, the
// save file and the data directory dynastysync depends on.
//
// The watch daemon runs RunAll before it starts watching and refuses to start
// when a required check fails. The CLI "dynastysync status" command prints the
// same results as a table.
package preflight
