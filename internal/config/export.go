package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ExportSettings configure the inventory export. They live in a YAML
// file rather than the environment so credentials stay next to the
// deployment that uses them.
type ExportSettings struct {
	Zabbix struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"zabbix"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	// DefaultUsername is baked into the generated session entries.
	// Empty means the export command prompts for one.
	DefaultUsername string `yaml:"default_username"`
	Debug           bool   `yaml:"debug"`
}

// LoadExportSettings parses the exporter YAML config file.
func LoadExportSettings(path string) (*ExportSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export config: %w", err)
	}

	settings := &ExportSettings{}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing export config %s: %w", path, err)
	}

	if settings.Zabbix.URL == "" {
		return nil, fmt.Errorf("export config %s: zabbix.url is required", path)
	}
	if settings.Zabbix.Username == "" {
		return nil, fmt.Errorf("export config %s: zabbix.username is required", path)
	}
	if settings.Output.Dir == "" {
		settings.Output.Dir = "exports"
	}

	return settings, nil
}
