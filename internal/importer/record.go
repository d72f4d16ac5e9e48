package importer

// record.go turns one raw data line into a normalized Record, or into
// the full list of reasons it cannot become one. Normalization is a
// pure function of the schema, the raw values, and the host
// environment, so re-running a line always gives the same answer.

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one fully normalized session ready for persistence.
type Record struct {
	SessionName string
	Hostname    string
	Protocol    string // canonical form: SSH2, SSH1, Telnet, RLogin, RDP
	Port        int    // 0 means use the protocol default
	Username    string
	Emulation   string // canonical form, empty for RDP or when unset
	Folder      string
	Description []string
	LogonScript string
	Domain      string
}

// protocolNames maps accepted protocol spellings to canonical form.
var protocolNames = map[string]string{
	"ssh2":   "SSH2",
	"ssh1":   "SSH1",
	"telnet": "Telnet",
	"rlogin": "RLogin",
}

// unsupportedProtocols are recognized but cannot be bulk-imported.
var unsupportedProtocols = map[string]bool{
	"serial": true,
	"tapi":   true,
}

// emulationNames maps accepted emulation spellings to canonical form.
var emulationNames = map[string]string{
	"xterm":   "Xterm",
	"vt100":   "VT100",
	"vt102":   "VT102",
	"vt220":   "VT220",
	"vt320":   "VT320",
	"ansi":    "ANSI",
	"linux":   "Linux",
	"scoansi": "SCOANSI",
	"vshell":  "VShell",
	"wyse50":  "WYSE50",
	"wyse60":  "WYSE60",
}

// Normalize validates and normalizes one split data line. On success it
// returns the record and a nil reason slice; on failure it returns nil
// and every reason the line was refused, in field order.
func Normalize(s *Schema, values []string, env HostEnv) (*Record, []Reason) {
	if len(values) < len(s.Fields) {
		return nil, []Reason{{
			Code: ReasonInsufficientData,
			Message: fmt.Sprintf("line has %d values but the header declares %d fields",
				len(values), len(s.Fields)),
		}}
	}
	if len(values) > len(s.Fields) {
		return nil, []Reason{{
			Code: ReasonFieldCountMismatch,
			Message: fmt.Sprintf("line has %d values but the header declares %d fields",
				len(values), len(s.Fields)),
		}}
	}

	rec := &Record{}
	var reasons []Reason
	protocolSeen := false
	folderSeen := false

	for i, field := range s.Fields {
		value := strings.TrimSpace(values[i])

		switch field {
		case FieldSessionName:
			rec.SessionName = value

		case FieldHostname:
			if value == "" {
				reasons = append(reasons, Reason{
					Code:    ReasonEmptyHostname,
					Message: "hostname value is empty",
				})
				continue
			}
			rec.Hostname = value

		case FieldProtocol:
			protocolSeen = true
			proto, reason := normalizeProtocol(value, s.Defaults.Protocol)
			if reason != nil {
				reasons = append(reasons, *reason)
				continue
			}
			rec.Protocol = proto

		case FieldPort:
			if value == "" {
				continue
			}
			port, reason := parsePort(value)
			if reason != nil {
				reasons = append(reasons, *reason)
				continue
			}
			rec.Port = port

		case FieldUsername:
			rec.Username = value

		case FieldEmulation:
			emu, reason := normalizeEmulation(value, env)
			if reason != nil {
				reasons = append(reasons, *reason)
				continue
			}
			rec.Emulation = emu

		case FieldFolder:
			folderSeen = true
			if value == "" {
				value = s.Defaults.Folder
			}
			rec.Folder = value

		case FieldDescription:
			// Each description column contributes one line.
			rec.Description = append(rec.Description, value)

		case FieldLogonScript:
			rec.LogonScript = value

		case FieldDomain:
			rec.Domain = value
		}
	}

	if !protocolSeen {
		proto, reason := normalizeProtocol("", s.Defaults.Protocol)
		if reason != nil {
			reasons = append(reasons, *reason)
		} else {
			rec.Protocol = proto
		}
	}
	if !folderSeen {
		rec.Folder = s.Defaults.Folder
	}
	if rec.Username == "" {
		rec.Username = s.Defaults.Username
	}
	if rec.SessionName == "" {
		rec.SessionName = rec.Hostname
	}

	if rec.SessionName != "" {
		if v := ValidateName(rec.SessionName, KindSession, env.WindowsLike); v != nil {
			reasons = append(reasons, v.Reason())
		}
	}
	if rec.Folder != "" {
		if v := ValidateName(rec.Folder, KindFolder, env.WindowsLike); v != nil {
			reasons = append(reasons, v.Reason())
		}
	}

	if rec.Protocol == "RDP" {
		if reason := checkRdpSupport(env); reason != nil {
			reasons = append(reasons, *reason)
		}
	}

	if len(reasons) > 0 {
		return nil, reasons
	}
	return rec, nil
}

// normalizeProtocol resolves a raw protocol value against the known
// protocol table. Any spelling containing "rdp" means RDP. Empty or
// unrecognized values fall back to the schema default when one exists;
// serial and tapi never import, default or not.
func normalizeProtocol(value, fallback string) (string, *Reason) {
	lower := strings.ToLower(value)

	if unsupportedProtocols[lower] {
		return "", &Reason{
			Code:    ReasonUnsupportedProtocol,
			Message: fmt.Sprintf("protocol %q cannot be bulk-imported", value),
		}
	}
	if strings.Contains(lower, "rdp") {
		return "RDP", nil
	}
	if canonical, ok := protocolNames[lower]; ok {
		return canonical, nil
	}
	if fallback != "" && !strings.EqualFold(value, fallback) {
		return normalizeProtocol(fallback, "")
	}
	return "", &Reason{
		Code:    ReasonInvalidProtocol,
		Message: fmt.Sprintf("unrecognized protocol %q", value),
	}
}

// normalizeEmulation resolves a raw emulation value. VT320 needs host
// application major version minVT320Major or later.
func normalizeEmulation(value string, env HostEnv) (string, *Reason) {
	canonical, ok := emulationNames[strings.ToLower(value)]
	if !ok {
		return "", &Reason{
			Code:    ReasonInvalidEmulation,
			Message: fmt.Sprintf("unrecognized emulation %q", value),
		}
	}
	if canonical == "VT320" && env.Major < minVT320Major {
		return "", &Reason{
			Code: ReasonEmulationVersion,
			Message: fmt.Sprintf("emulation VT320 needs host application version %d or later (have %d.%d.%d)",
				minVT320Major, env.Major, env.Minor, env.Maintenance),
		}
	}
	return canonical, nil
}

// checkRdpSupport applies the RDP environment gate: major version
// minRDPMajor or later on a Windows-like platform.
func checkRdpSupport(env HostEnv) *Reason {
	if env.Major >= minRDPMajor && env.WindowsLike {
		return nil
	}
	return &Reason{
		Code: ReasonRdpEnvironment,
		Message: fmt.Sprintf("RDP sessions need host application version %d or later on Windows (have %d.%d.%d, windows=%t)",
			minRDPMajor, env.Major, env.Minor, env.Maintenance, env.WindowsLike),
	}
}

// parsePort accepts only all-digit values in the TCP port range.
func parsePort(value string) (int, *Reason) {
	for _, c := range value {
		if c < '0' || c > '9' {
			return 0, &Reason{
				Code:    ReasonInvalidPort,
				Message: fmt.Sprintf("port %q is not numeric", value),
			}
		}
	}
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return 0, &Reason{
			Code:    ReasonInvalidPort,
			Message: fmt.Sprintf("port %q is outside the range 1-65535", value),
		}
	}
	return port, nil
}
