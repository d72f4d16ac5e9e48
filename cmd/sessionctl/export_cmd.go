package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sessionctl/internal/config"
	"sessionctl/internal/export"
	"sessionctl/internal/inventory"
)

var (
	exportConfigPath string
	exportOutDir     string
	exportUsername   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export monitored-device inventory into terminal-client session formats",
	Long: `Pulls the device inventory from the configured monitoring endpoint and
writes session import files for PuTTY, SuperPuTTY, SecureCRT, and
XShell, plus a hosts.csv inventory summary. The SecureCRT file uses the
import command's own format, so it can be fed back into "sessionctl
import" directly.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportConfigPath, "config", "c", "config.yml", "export settings file")
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "", "output directory (default from settings file)")
	exportCmd.Flags().StringVarP(&exportUsername, "username", "u", "", "username baked into generated sessions")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	settings, err := config.LoadExportSettings(exportConfigPath)
	if err != nil {
		return err
	}

	username := exportUsername
	if username == "" {
		username = settings.DefaultUsername
	}
	if username == "" {
		username, err = promptUsername()
		if err != nil {
			return err
		}
	}

	outDir := exportOutDir
	if outDir == "" {
		outDir = settings.Output.Dir
	}

	client := inventory.NewClient(settings.Zabbix.URL)
	if err := client.Login(ctx, settings.Zabbix.Username, settings.Zabbix.Password); err != nil {
		return err
	}
	devices, err := client.Devices(ctx)
	if err != nil {
		return err
	}

	exporter := &export.Exporter{OutDir: outDir, Username: username}
	written, err := exporter.WriteAll(devices)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d devices:\n", len(devices))
	for _, path := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", path)
	}
	return nil
}

func promptUsername() (string, error) {
	fmt.Fprint(os.Stderr, "Username for generated sessions: ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading username: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("no username provided")
	}
	return answer, nil
}
