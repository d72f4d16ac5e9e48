// Package inventory fetches device inventory from a Zabbix-compatible
// monitoring endpoint. The client implements exactly the three JSON-RPC
// calls the exporter needs: user.login, host.get, hostinterface.get.
package inventory

// Device is one monitored host with the inventory fields the vendor
// exports consume. Hosts without inventory data keep empty fields.
type Device struct {
	Site      string
	Hostname  string
	IP        string
	SerialA   string
	SerialB   string
	OSVersion string
	Model     string
}
