package main

import (
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"sessionctl/internal/mockzabbix"
)

var mockAddr string

var mockZabbixCmd = &cobra.Command{
	Use:   "mock-zabbix",
	Short: "Run a local mock monitoring endpoint",
	Long: `Serves a Zabbix-compatible JSON-RPC endpoint with a small sample
inventory, for exercising "sessionctl export" without a real server.`,
	RunE: runMockZabbix,
}

func init() {
	mockZabbixCmd.Flags().StringVar(&mockAddr, "addr", "127.0.0.1:10051", "listen address")
	rootCmd.AddCommand(mockZabbixCmd)
}

func runMockZabbix(cmd *cobra.Command, args []string) error {
	srv := mockzabbix.NewServer()
	srv.Devices = mockzabbix.SampleDevices()
	srv.RequireLogin = true

	slog.Info("mock monitoring endpoint listening",
		"addr", mockAddr, "url", "http://"+mockAddr+"/api_jsonrpc.php")
	return http.ListenAndServe(mockAddr, srv.Router())
}
