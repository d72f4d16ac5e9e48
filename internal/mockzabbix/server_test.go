package mockzabbix

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sessionctl/internal/inventory"
)

func rpcCall(t *testing.T, url, method, auth string, params any) map[string]any {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"auth":    auth,
		"id":      1,
	})
	if err != nil {
		t.Fatalf("encoding request: %v", err)
	}
	resp, err := http.Post(url+"/api_jsonrpc.php", "application/json-rpc", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("posting %s: %v", method, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding %s response: %v", method, err)
	}
	return decoded
}

func TestServerLoginThenHostGet(t *testing.T) {
	mock := NewServer()
	mock.Devices = SampleDevices()
	mock.RequireLogin = true

	srv := httptest.NewServer(mock.Router())
	defer srv.Close()

	login := rpcCall(t, srv.URL, "user.login", "", map[string]string{"username": "u", "password": "p"})
	if login["result"] != Token {
		t.Fatalf("login result = %v", login["result"])
	}

	hosts := rpcCall(t, srv.URL, "host.get", Token, map[string]any{})
	result, ok := hosts["result"].([]any)
	if !ok {
		t.Fatalf("host.get result = %v", hosts["result"])
	}
	if len(result) != len(SampleDevices()) {
		t.Errorf("host.get returned %d hosts, want %d", len(result), len(SampleDevices()))
	}

	if len(mock.Calls) != 2 {
		t.Errorf("Calls = %d, want 2", len(mock.Calls))
	}
}

func TestServerRejectsUnauthenticated(t *testing.T) {
	mock := NewServer()
	mock.RequireLogin = true

	srv := httptest.NewServer(mock.Router())
	defer srv.Close()

	resp := rpcCall(t, srv.URL, "host.get", "", map[string]any{})
	if resp["error"] == nil {
		t.Fatalf("host.get without login = %v, want error", resp)
	}
}

func TestServerUnknownMethod(t *testing.T) {
	mock := NewServer()
	srv := httptest.NewServer(mock.Router())
	defer srv.Close()

	resp := rpcCall(t, srv.URL, "host.delete", "", map[string]any{})
	errBody, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatalf("response = %v, want method-not-found error", resp)
	}
	if errBody["message"] != "Method not found." {
		t.Errorf("error message = %v", errBody["message"])
	}
}

func TestServerInterfaceLookup(t *testing.T) {
	mock := NewServer()
	mock.Devices = []inventory.Device{
		{Hostname: "a", IP: "10.0.0.1"},
		{Hostname: "b", IP: "10.0.0.2"},
	}
	srv := httptest.NewServer(mock.Router())
	defer srv.Close()

	resp := rpcCall(t, srv.URL, "hostinterface.get", "", map[string]any{"hostids": hostID(1)})
	result, ok := resp["result"].([]any)
	if !ok || len(result) != 1 {
		t.Fatalf("result = %v", resp["result"])
	}
	iface := result[0].(map[string]any)
	if iface["ip"] != "10.0.0.2" {
		t.Errorf("ip = %v, want 10.0.0.2", iface["ip"])
	}
}
