package importer

// names.go validates session and folder names against the host
// application's naming rules. The rules are data tables, not logic:
// a set of characters the session tree cannot store, and the classic
// reserved device names that Windows filesystems refuse.

import (
	"fmt"
	"strings"
)

// NameKind distinguishes the two name namespaces with different rules.
type NameKind int

const (
	KindSession NameKind = iota
	KindFolder
)

func (k NameKind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "session"
}

// disallowedNameChars cannot appear in either kind of name. Sessions
// additionally reject '/' since it is the folder path separator.
var disallowedNameChars = []rune{'|', ':', '*', '?', '"', '<', '>'}

// reservedDeviceNames are refused as session names or standalone folder
// path segments on Windows-like targets, case-insensitively.
var reservedDeviceNames = buildReservedDeviceNames()

func buildReservedDeviceNames() map[string]bool {
	names := map[string]bool{
		"CON": true,
		"PRN": true,
		"AUX": true,
		"NUL": true,
	}
	for i := 0; i <= 9; i++ {
		names[fmt.Sprintf("COM%d", i)] = true
		names[fmt.Sprintf("LPT%d", i)] = true
	}
	return names
}

// NameViolation describes why a name was refused. Exactly one of Char,
// Reserved, and Relative is set.
type NameViolation struct {
	Kind      NameKind
	Component string
	Char      rune   // disallowed character, 0 if none
	Reserved  string // offending reserved device name, "" if none
	Relative  string // offending "." or ".." path segment, "" if none
}

// Reason converts the violation into a coded rejection reason.
func (v *NameViolation) Reason() Reason {
	if v.Reserved != "" {
		return Reason{
			Code:    ReasonReservedName,
			Message: fmt.Sprintf("%s name %q uses reserved device name %q", v.Kind, v.Component, v.Reserved),
		}
	}
	if v.Relative != "" {
		return Reason{
			Code:    ReasonRelativePathSegment,
			Message: fmt.Sprintf("%s name %q uses relative path segment %q", v.Kind, v.Component, v.Relative),
		}
	}
	return Reason{
		Code:    ReasonInvalidNameChar,
		Message: fmt.Sprintf("%s name %q contains disallowed character %q", v.Kind, v.Component, v.Char),
	}
}

// ValidateName checks one session name or folder path against the
// naming rules. Folder paths are checked one '/'-separated segment at a
// time for reserved names; the separator itself is legal in folders.
// Reserved device names only matter when the target environment is
// Windows-like. Returns nil when the name is acceptable.
func ValidateName(component string, kind NameKind, windowsLike bool) *NameViolation {
	for _, c := range disallowedNameChars {
		if strings.ContainsRune(component, c) {
			return &NameViolation{Kind: kind, Component: component, Char: c}
		}
	}
	if kind == KindSession && strings.ContainsRune(component, '/') {
		return &NameViolation{Kind: kind, Component: component, Char: '/'}
	}

	// "." and ".." are path navigation, not names; a folder carrying
	// one could walk out of the session tree.
	if kind == KindSession {
		if component == "." || component == ".." {
			return &NameViolation{Kind: kind, Component: component, Relative: component}
		}
	} else {
		for _, segment := range strings.Split(component, "/") {
			if segment == "." || segment == ".." {
				return &NameViolation{Kind: kind, Component: component, Relative: segment}
			}
		}
	}

	if !windowsLike {
		return nil
	}

	if kind == KindSession {
		if reservedDeviceNames[strings.ToUpper(component)] {
			return &NameViolation{Kind: kind, Component: component, Reserved: strings.ToUpper(component)}
		}
		return nil
	}
	for _, segment := range strings.Split(component, "/") {
		if reservedDeviceNames[strings.ToUpper(segment)] {
			return &NameViolation{Kind: kind, Component: component, Reserved: strings.ToUpper(segment)}
		}
	}
	return nil
}
