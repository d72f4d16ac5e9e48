package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client talks JSON-RPC 2.0 to a Zabbix-compatible endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	token    string
	limiter  *rate.Limiter
	nextID   int
}

// NewClient builds a client for the given api_jsonrpc.php endpoint URL.
// Per-host interface lookups are rate-limited so a large inventory does
// not hammer the monitoring server.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(20), 5),
		nextID:   1,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	Auth    string `json:"auth,omitempty"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, e.Data)
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
	ID      int             `json:"id"`
}

// call performs one JSON-RPC request and unmarshals the result.
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID,
	}
	if method != "user.login" {
		reqBody.Auth = c.token
	}
	c.nextID++

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json-rpc")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calling %s: unexpected status %s", method, resp.Status)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s failed: %w", method, rpcResp.Error)
	}
	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decoding %s result: %w", method, err)
		}
	}
	return nil
}

// Login authenticates and stores the session token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var token string
	err := c.call(ctx, "user.login", map[string]string{
		"username": username,
		"password": password,
	}, &token)
	if err != nil {
		return err
	}
	c.token = token
	return nil
}

type hostEntry struct {
	HostID    string          `json:"hostid"`
	Host      string          `json:"host"`
	Inventory json.RawMessage `json:"inventory"`
	Groups    []struct {
		Name string `json:"name"`
	} `json:"groups"`
}

type hostInterface struct {
	IP string `json:"ip"`
}

// Devices fetches all monitored hosts with their inventory and primary
// interface address.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var hosts []hostEntry
	err := c.call(ctx, "host.get", map[string]any{
		"monitored_hosts": true,
		"output":          []string{"hostid", "host"},
		"selectInventory": []string{"site_address_a", "serialno_a", "serialno_b", "os_full", "model"},
		"selectGroups":    []string{"name"},
	}, &hosts)
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(hosts))
	for _, h := range hosts {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var ifaces []hostInterface
		err := c.call(ctx, "hostinterface.get", map[string]any{
			"hostids": h.HostID,
			"output":  []string{"ip"},
		}, &ifaces)
		if err != nil {
			return nil, fmt.Errorf("interfaces for host %s: %w", h.Host, err)
		}

		dev := parseInventory(h)
		dev.Hostname = h.Host
		if len(ifaces) > 0 {
			dev.IP = ifaces[0].IP
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

// parseInventory tolerates the API quirk where hosts with no inventory
// return an empty array instead of an object.
func parseInventory(h hostEntry) Device {
	var dev Device
	if len(h.Groups) > 0 {
		dev.Site = h.Groups[0].Name
	}

	var inv struct {
		SiteAddress string `json:"site_address_a"`
		SerialA     string `json:"serialno_a"`
		SerialB     string `json:"serialno_b"`
		OSFull      string `json:"os_full"`
		Model       string `json:"model"`
	}
	if err := json.Unmarshal(h.Inventory, &inv); err != nil {
		return dev
	}
	if inv.SiteAddress != "" {
		dev.Site = inv.SiteAddress
	}
	dev.SerialA = inv.SerialA
	dev.SerialB = inv.SerialB
	dev.OSVersion = inv.OSFull
	dev.Model = inv.Model
	return dev
}
