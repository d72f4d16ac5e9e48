// Package importer implements the bulk session import pipeline: header
// parsing, record normalization, name validation, and batch reporting.
// This package has no CLI dependencies and can be driven by any frontend.
package importer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Field identifies one recognized column in an import file header.
type Field string

const (
	FieldSessionName Field = "session_name"
	FieldFolder      Field = "folder"
	FieldHostname    Field = "hostname"
	FieldProtocol    Field = "protocol"
	FieldPort        Field = "port"
	FieldUsername    Field = "username"
	FieldEmulation   Field = "emulation"
	FieldDescription Field = "description"
	FieldLogonScript Field = "logon_script"
	FieldDomain      Field = "domain"
)

// supportedFields is the fixed field vocabulary. A header token outside
// this set is a configuration error that aborts the whole run.
var supportedFields = map[Field]bool{
	FieldSessionName: true,
	FieldFolder:      true,
	FieldHostname:    true,
	FieldProtocol:    true,
	FieldPort:        true,
	FieldUsername:    true,
	FieldEmulation:   true,
	FieldDescription: true,
	FieldLogonScript: true,
	FieldDomain:      true,
}

// SupportedFields returns the field vocabulary sorted for error messages.
func SupportedFields() []string {
	names := make([]string, 0, len(supportedFields))
	for f := range supportedFields {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// DelimiterNone selects single-field mode for data files that carry one
// value per line (typically just hostnames).
const DelimiterNone = "NONE"

// Defaults are per-run default values captured from name=value
// annotations in the header line (e.g. "protocol=SSH2").
type Defaults struct {
	Protocol string
	Folder   string
	Username string
}

// Schema is the ordered set of recognized fields for one run. It is built
// once from the header line and read-only afterward.
type Schema struct {
	Fields    []Field
	Defaults  Defaults
	Delimiter string // empty in single-field mode
}

// ErrMissingDelimiter means the configured delimiter does not appear in
// the header line. The caller may prompt for the real one and retry.
var ErrMissingDelimiter = errors.New("delimiter not found in the header line")

// ErrHostnameRequired means the header line has no hostname field.
var ErrHostnameRequired = errors.New("invalid header line: 'hostname' field is required")

// UnknownFieldError reports a header token outside the supported field
// vocabulary. It indicates a mis-specified header, not bad data.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field designation %q (supported fields: %s)",
		e.Name, strings.Join(SupportedFields(), ", "))
}

// DuplicateFieldError reports a field that appears more than once in the
// header. Only description columns may repeat.
type DuplicateFieldError struct {
	Name string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("field %q appears more than once in the header line", e.Name)
}

// DefaultNotAllowedError reports a name=value annotation on a field that
// does not support per-run defaults.
type DefaultNotAllowedError struct {
	Name string
}

func (e *DefaultNotAllowedError) Error() string {
	return fmt.Sprintf("field %q does not support a default value in the header (only protocol, folder, and username do)", e.Name)
}

// DefaultProvider supplies the fallback protocol when the header carries
// neither a protocol field nor a protocol= annotation. The session
// store's Default entry plays this role in production.
type DefaultProvider interface {
	DefaultProtocol() string
}

// ParseSchema builds a Schema from the first line of an import file.
// Field names are matched case-insensitively and name=value tokens record
// per-run defaults. All failures here are fatal to the run.
func ParseSchema(header, delimiter string, defaults DefaultProvider) (*Schema, error) {
	if delimiter == "" {
		delimiter = ","
	}

	var tokens []string
	if delimiter == DelimiterNone {
		tokens = []string{header}
		delimiter = ""
	} else {
		if !strings.Contains(header, delimiter) {
			return nil, fmt.Errorf("%w: configured delimiter %q", ErrMissingDelimiter, delimiter)
		}
		tokens = strings.Split(header, delimiter)
	}

	s := &Schema{Delimiter: delimiter}
	seen := make(map[Field]bool, len(tokens))

	for _, token := range tokens {
		name, value, annotated := strings.Cut(strings.TrimSpace(token), "=")
		name = strings.TrimSpace(name)
		field := Field(strings.ToLower(name))

		if !supportedFields[field] {
			return nil, &UnknownFieldError{Name: name}
		}
		if annotated {
			value = strings.TrimSpace(value)
			switch field {
			case FieldProtocol:
				s.Defaults.Protocol = strings.ToUpper(value)
			case FieldFolder:
				s.Defaults.Folder = value
			case FieldUsername:
				s.Defaults.Username = value
			default:
				return nil, &DefaultNotAllowedError{Name: string(field)}
			}
		}
		if seen[field] && field != FieldDescription {
			return nil, &DuplicateFieldError{Name: string(field)}
		}
		seen[field] = true
		s.Fields = append(s.Fields, field)
	}

	if !seen[FieldHostname] {
		return nil, ErrHostnameRequired
	}

	// No protocol column and no protocol= annotation: inherit the
	// fallback from the default-configuration collaborator.
	if !seen[FieldProtocol] && s.Defaults.Protocol == "" && defaults != nil {
		s.Defaults.Protocol = strings.ToUpper(defaults.DefaultProtocol())
	}

	return s, nil
}

// HasField reports whether the schema includes the given field.
func (s *Schema) HasField(f Field) bool {
	for _, have := range s.Fields {
		if have == f {
			return true
		}
	}
	return false
}

// Split splits one data line into raw values using the schema delimiter.
func (s *Schema) Split(line string) []string {
	if s.Delimiter == "" {
		return []string{line}
	}
	return strings.Split(line, s.Delimiter)
}
