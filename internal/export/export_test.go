package export_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sessionctl/internal/export"
	"sessionctl/internal/importer"
	"sessionctl/internal/inventory"
)

var testDevices = []inventory.Device{
	{Site: "HQ", Hostname: "core-sw-01", IP: "10.0.0.1", SerialA: "FDO1111A1AA", OSVersion: "15.2(4)E7", Model: "WS-C3850-48T"},
	{Site: "Branch", Hostname: "edge-rtr-01", IP: "10.1.0.1", SerialA: "JAE3333C3CC", OSVersion: "16.9.5", Model: "ISR4331"},
}

func TestRenderPuTTY(t *testing.T) {
	got, err := export.Render(export.FormatPuTTY, testDevices, "netops")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "core-sw-01 10.0.0.1\nedge-rtr-01 10.1.0.1\n"
	if got != want {
		t.Errorf("putty output = %q, want %q", got, want)
	}
}

func TestRenderSuperPuTTY(t *testing.T) {
	devices := []inventory.Device{
		{Site: "R&D", Hostname: "lab<1>", IP: "10.2.0.1"},
	}
	got, err := export.Render(export.FormatSuperPuTTY, devices, "netops")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{
		`SessionId="R&amp;D/lab&lt;1&gt;"`,
		`Host="10.2.0.1"`,
		`Username="netops"`,
		"<ArrayOfSessionData",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("superputty output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderXShell(t *testing.T) {
	got, err := export.Render(export.FormatXShell, testDevices, "netops")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if lines[0] != "Session,Host,Port,Protocol,UserName,Description" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("line count = %d:\n%s", len(lines), got)
	}
	if lines[1] != "core-sw-01,10.0.0.1,22,SSH,netops,WS-C3850-48T" {
		t.Errorf("data line = %q", lines[1])
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := export.Render(export.Format("rdp-manager"), testDevices, "u"); err == nil {
		t.Fatal("Render() with unknown format succeeded")
	}
}

// The SecureCRT export must be importable by this tool's own import
// pipeline without modification.
func TestSecureCRTRoundTrip(t *testing.T) {
	got, err := export.Render(export.FormatSecureCRT, testDevices, "netops")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != len(testDevices)+1 {
		t.Fatalf("line count = %d:\n%s", len(lines), got)
	}

	schema, err := importer.ParseSchema(lines[0], ",", nil)
	if err != nil {
		t.Fatalf("exported header does not parse: %v", err)
	}
	if schema.Defaults.Protocol != "SSH2" {
		t.Errorf("Defaults.Protocol = %q, want SSH2", schema.Defaults.Protocol)
	}

	env := importer.HostEnv{Major: 9, WindowsLike: true}
	rec, reasons := importer.Normalize(schema, schema.Split(lines[1]), env)
	if len(reasons) > 0 {
		t.Fatalf("exported line rejected: %v", reasons)
	}
	if rec.SessionName != "core-sw-01" || rec.Hostname != "10.0.0.1" ||
		rec.Protocol != "SSH2" || rec.Folder != "HQ" || rec.Username != "netops" {
		t.Errorf("round-tripped record = %+v", rec)
	}
}

func TestExporterWriteAll(t *testing.T) {
	dir := t.TempDir()
	exp := &export.Exporter{OutDir: filepath.Join(dir, "out"), Username: "netops"}

	written, err := exp.WriteAll(testDevices)
	if err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	wantFiles := []string{
		"putty_hosts.txt", "superputty_sessions.xml",
		"securecrt_sessions.csv", "xshell_sessions.csv", "hosts.csv",
	}
	gotFiles := make([]string, 0, len(written))
	for _, path := range written {
		gotFiles = append(gotFiles, filepath.Base(path))
	}
	if diff := cmp.Diff(wantFiles, gotFiles); diff != "" {
		t.Errorf("written files mismatch (-want +got):\n%s", diff)
	}

	f, err := os.Open(filepath.Join(exp.OutDir, "hosts.csv"))
	if err != nil {
		t.Fatalf("opening hosts.csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parsing hosts.csv: %v", err)
	}
	if len(rows) != len(testDevices)+1 {
		t.Fatalf("hosts.csv rows = %d", len(rows))
	}
	wantHeader := []string{"Site_Address", "Hostname", "IP", "Serial_Number_A", "Serial_Number_B", "OS_Version", "Model"}
	if diff := cmp.Diff(wantHeader, rows[0]); diff != "" {
		t.Errorf("hosts.csv header mismatch (-want +got):\n%s", diff)
	}
	if rows[1][1] != "core-sw-01" || rows[1][2] != "10.0.0.1" {
		t.Errorf("hosts.csv first row = %v", rows[1])
	}
}
