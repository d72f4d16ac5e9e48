// Package store persists terminal-session configuration entries. The
// on-disk layout is a tree of flat option-per-line files mirroring the
// session folder hierarchy, seeded from a Default entry.
package store

// DefaultSessionName is the template entry new sessions inherit from.
const DefaultSessionName = "Default"

// defaultPorts are applied when a record carries no explicit port.
var defaultPorts = map[string]int{
	"SSH2":   22,
	"SSH1":   22,
	"Telnet": 23,
	"RDP":    3389,
}

// DefaultPort returns the conventional port for a canonical protocol
// name, or 0 when the protocol has no convention.
func DefaultPort(protocol string) int {
	return defaultPorts[protocol]
}
