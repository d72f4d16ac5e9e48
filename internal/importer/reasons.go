package importer

// reasons.go defines the coded rejection reasons attached to data lines
// that cannot become sessions. Each code carries a remediation action so
// the batch report can tell the operator how to fix the line before
// resubmitting it. Codes are stable identifiers; message text is not.

import "fmt"

// ReasonCode identifies one class of recoverable rejection.
type ReasonCode string

const (
	// Record shape problems.
	ReasonInsufficientData   ReasonCode = "REC001"
	ReasonFieldCountMismatch ReasonCode = "REC002"

	// Field value problems.
	ReasonInvalidPort         ReasonCode = "VAL001"
	ReasonUnsupportedProtocol ReasonCode = "VAL002"
	ReasonInvalidProtocol     ReasonCode = "VAL003"
	ReasonEmptyHostname       ReasonCode = "VAL004"
	ReasonInvalidEmulation    ReasonCode = "VAL005"
	ReasonEmulationVersion    ReasonCode = "VAL006"

	// Session and folder naming problems.
	ReasonInvalidNameChar     ReasonCode = "NAME001"
	ReasonReservedName        ReasonCode = "NAME002"
	ReasonRelativePathSegment ReasonCode = "NAME003"

	// Environment gates.
	ReasonRdpEnvironment ReasonCode = "ENV001"

	// Persistence problems local to one line.
	ReasonStoreFailure ReasonCode = "STORE001"
)

// reasonActions maps each code to a remediation hint. Enumerated by
// tests so a new code cannot ship without an action.
var reasonActions = map[ReasonCode]string{
	ReasonInsufficientData:   "Add the missing field values to the line.",
	ReasonFieldCountMismatch: "Match the number of values to the header fields, or check for stray delimiters.",
	ReasonInvalidPort:        "Use a numeric port between 1 and 65535.",
	ReasonUnsupportedProtocol: "Remove the line or switch to a supported protocol " +
		"(ssh2, ssh1, telnet, rlogin, or rdp).",
	ReasonInvalidProtocol:     "Use one of: ssh2, ssh1, telnet, rlogin, rdp.",
	ReasonEmptyHostname:       "Provide a hostname value.",
	ReasonInvalidEmulation:    "Use a recognized emulation (xterm, vt100, vt102, vt220, vt320, ansi, linux, scoansi, vshell, wyse50, wyse60).",
	ReasonEmulationVersion:    "Upgrade the host application or pick a different emulation.",
	ReasonInvalidNameChar:     "Remove the disallowed character from the name.",
	ReasonReservedName:        "Rename the session or folder segment away from the reserved device name.",
	ReasonRelativePathSegment: `Remove "." and ".." segments from the name.`,
	ReasonRdpEnvironment:      "RDP sessions need the Windows build of the host application, version 9 or later.",
	ReasonStoreFailure:        "Check filesystem permissions and free space, then resubmit the line.",
}

// Reason is one rejection cause with its human-readable detail.
type Reason struct {
	Code    ReasonCode
	Message string
}

func (r Reason) String() string {
	return fmt.Sprintf("[%s] %s", r.Code, r.Message)
}

// Action returns the remediation hint for the reason's code.
func (r Reason) Action() string {
	return reasonActions[r.Code]
}

// Rejection couples a failed data line with everything needed to report
// and resubmit it: the 1-based line number, the verbatim line text, and
// every reason it failed.
type Rejection struct {
	LineNumber int
	Line       string
	Reasons    []Reason
}
