// Package extensions provides a changeset model for exchange
// trading calendars.
//
// The core code is in package 'changes', and some command-line tools
// are in `cmd`.
//
// See https://github.com/jenskeiner/exchange-calendars-extensions-api/blob/main/README.md for more.
package extensions
