package store

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sessionctl/internal/importer"
)

const sessionExt = ".session"

// Option keys in the session file format.
const (
	keyProtocol    = "Protocol Name"
	keyHostname    = "Hostname"
	keyUsername    = "Username"
	keyPortSSH2    = "[SSH2] Port"
	keyPortSSH1    = "[SSH1] Port"
	keyPort        = "Port"
	keyEmulation   = "Emulation"
	keyLogonScript = "Script Filename V2"
	keyDescription = "Description"
)

// FileStore persists sessions as option-per-line files under a root
// directory. It implements importer.SessionStore and acts as the
// importer's default-configuration provider.
type FileStore struct {
	Root string
}

// NewFileStore opens (creating if needed) a session tree rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session root: %w", err)
	}
	return &FileStore{Root: dir}, nil
}

// Exists reports whether a session file already lives at the path.
func (fs *FileStore) Exists(path string) bool {
	target, err := fs.filePath(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(target)
	return err == nil
}

// DefaultProtocol returns the protocol of the Default entry, falling
// back to SSH2 when there is no Default entry or it carries none.
func (fs *FileStore) DefaultProtocol() string {
	opts, err := fs.readOptions(DefaultSessionName)
	if err == nil {
		if proto := opts[keyProtocol]; proto != "" {
			return proto
		}
	}
	return "SSH2"
}

// Save writes the record as a session file at the path, seeding options
// from the Default entry, then re-reads the file and verifies the
// persisted protocol. A mismatch wraps importer.ErrProtocolMismatch.
func (fs *FileStore) Save(ctx context.Context, path string, rec *importer.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts, err := fs.readOptions(DefaultSessionName)
	if err != nil {
		opts = map[string]string{}
	}

	opts[keyProtocol] = rec.Protocol
	opts[keyHostname] = rec.Hostname

	username := rec.Username
	if rec.Protocol == "RDP" && rec.Domain != "" {
		username = rec.Domain + `\` + rec.Username
	}
	if username != "" {
		opts[keyUsername] = username
	}

	port := rec.Port
	if port == 0 {
		port = DefaultPort(rec.Protocol)
	}
	if port != 0 {
		switch rec.Protocol {
		case "SSH2":
			opts[keyPortSSH2] = fmt.Sprintf("%d", port)
		case "SSH1":
			opts[keyPortSSH1] = fmt.Sprintf("%d", port)
		default:
			opts[keyPort] = fmt.Sprintf("%d", port)
		}
	}

	// RDP sessions have no terminal emulation or logon script.
	if rec.Protocol != "RDP" {
		if rec.Emulation != "" {
			opts[keyEmulation] = rec.Emulation
		}
		if rec.LogonScript != "" {
			opts[keyLogonScript] = rec.LogonScript
		}
	}
	if len(rec.Description) > 0 {
		opts[keyDescription] = strings.Join(rec.Description, "\r")
	}

	if err := fs.writeOptions(path, opts); err != nil {
		return err
	}

	persisted, err := fs.readOptions(path)
	if err != nil {
		return fmt.Errorf("re-reading saved session %q: %w", path, err)
	}
	if persisted[keyProtocol] != rec.Protocol {
		return fmt.Errorf("session %q saved with protocol %q, wanted %q: %w",
			path, persisted[keyProtocol], rec.Protocol, importer.ErrProtocolMismatch)
	}
	return nil
}

// filePath maps a session path to its file location. Paths whose
// cleaned form leaves the root are refused so a crafted folder value
// cannot write outside the session tree.
func (fs *FileStore) filePath(path string) (string, error) {
	target := filepath.Join(fs.Root, filepath.FromSlash(path)+sessionExt)
	prefix := filepath.Clean(fs.Root) + string(filepath.Separator)
	if !strings.HasPrefix(target, prefix) {
		return "", fmt.Errorf("session path %q escapes the session root", path)
	}
	return target, nil
}

func (fs *FileStore) readOptions(path string) (map[string]string, error) {
	target, err := fs.filePath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	opts := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		opts[key] = value
	}
	return opts, scanner.Err()
}

// writeOptions persists the option map sorted by key, via a temp file
// rename so a crash never leaves a truncated session behind.
func (fs *FileStore) writeOptions(path string, opts map[string]string) error {
	target, err := fs.filePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating session folder: %w", err)
	}

	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, opts[k])
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".session-*")
	if err != nil {
		return fmt.Errorf("creating session file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing session file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("placing session file: %w", err)
	}
	return nil
}
