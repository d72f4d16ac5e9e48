// Package export renders device inventory into the vendor session
// import formats: a PuTTY host list, a SuperPuTTY sessions XML file, a
// SecureCRT import CSV, and an XShell import CSV, plus a hosts.csv
// inventory summary.
package export

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"sessionctl/internal/inventory"
)

// Format names one supported vendor output.
type Format string

const (
	FormatPuTTY      Format = "putty"
	FormatSuperPuTTY Format = "superputty"
	FormatSecureCRT  Format = "securecrt"
	FormatXShell     Format = "xshell"
)

// Formats lists every supported format in output order.
var Formats = []Format{FormatPuTTY, FormatSuperPuTTY, FormatSecureCRT, FormatXShell}

// fileNames maps each format to its output file name.
var fileNames = map[Format]string{
	FormatPuTTY:      "putty_hosts.txt",
	FormatSuperPuTTY: "superputty_sessions.xml",
	FormatSecureCRT:  "securecrt_sessions.csv",
	FormatXShell:     "xshell_sessions.csv",
}

// hostsCSVName is the inventory summary file written next to the
// vendor outputs.
const hostsCSVName = "hosts.csv"

const puttyTemplate = `{{range .Devices -}}
{{.Hostname}} {{.IP}}
{{end}}`

const superputtyTemplate = `<?xml version="1.0" encoding="utf-8"?>
<ArrayOfSessionData xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema">
{{- $user := .Username}}
{{- range .Devices}}
  <SessionData SessionId="{{xml .Site}}/{{xml .Hostname}}" SessionName="{{xml .Hostname}}" ImageKey="computer" Host="{{xml .IP}}" Port="22" Proto="SSH" PuttySession="Default Settings" Username="{{xml $user}}" ExtraArgs="" />
{{- end}}
</ArrayOfSessionData>
`

// The SecureCRT CSV uses the importer's own header vocabulary with a
// protocol default annotation, so the output round-trips through the
// import command. The trailing comma on data rows fills the annotated
// protocol column.
const securecrtTemplate = `session_name,hostname,folder,username,description,protocol=SSH2
{{- $user := .Username}}
{{- range .Devices}}
{{.Hostname}},{{.IP}},{{.Site}},{{$user}},{{.Model}},
{{- end}}
`

const xshellTemplate = `Session,Host,Port,Protocol,UserName,Description
{{- $user := .Username}}
{{- range .Devices}}
{{.Hostname}},{{.IP}},22,SSH,{{$user}},{{.Model}}
{{- end}}
`

var formatTemplates = map[Format]string{
	FormatPuTTY:      puttyTemplate,
	FormatSuperPuTTY: superputtyTemplate,
	FormatSecureCRT:  securecrtTemplate,
	FormatXShell:     xshellTemplate,
}

var funcs = template.FuncMap{
	"xml": func(s string) string {
		var b strings.Builder
		xml.EscapeText(&b, []byte(s))
		return b.String()
	},
}

type templateData struct {
	Devices  []inventory.Device
	Username string
}

// Render produces one vendor format as text.
func Render(f Format, devices []inventory.Device, username string) (string, error) {
	text, ok := formatTemplates[f]
	if !ok {
		return "", fmt.Errorf("unsupported export format %q", f)
	}
	tmpl, err := template.New(string(f)).Funcs(funcs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing %s template: %w", f, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, templateData{Devices: devices, Username: username}); err != nil {
		return "", fmt.Errorf("rendering %s: %w", f, err)
	}
	return b.String(), nil
}

// Exporter writes every vendor format plus the inventory summary into
// an output directory.
type Exporter struct {
	OutDir   string
	Username string
}

// WriteAll renders all formats and the hosts.csv summary, returning the
// paths written.
func (e *Exporter) WriteAll(devices []inventory.Device) ([]string, error) {
	if err := os.MkdirAll(e.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var written []string
	for _, f := range Formats {
		text, err := Render(f, devices, e.Username)
		if err != nil {
			return written, err
		}
		path := filepath.Join(e.OutDir, fileNames[f])
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}

	path := filepath.Join(e.OutDir, hostsCSVName)
	if err := e.writeHostsCSV(path, devices); err != nil {
		return written, err
	}
	written = append(written, path)
	return written, nil
}

func (e *Exporter) writeHostsCSV(path string, devices []inventory.Device) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Site_Address", "Hostname", "IP", "Serial_Number_A", "Serial_Number_B", "OS_Version", "Model"}); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for _, d := range devices {
		if err := w.Write([]string{d.Site, d.Hostname, d.IP, d.SerialA, d.SerialB, d.OSVersion, d.Model}); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
