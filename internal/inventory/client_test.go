package inventory_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sessionctl/internal/inventory"
	"sessionctl/internal/mockzabbix"
)

func newTestServer(t *testing.T, devices []inventory.Device) (*mockzabbix.Server, *inventory.Client) {
	t.Helper()
	mock := mockzabbix.NewServer()
	mock.Devices = devices
	mock.RequireLogin = true

	srv := httptest.NewServer(mock.Router())
	t.Cleanup(srv.Close)

	return mock, inventory.NewClient(srv.URL + "/api_jsonrpc.php")
}

func TestClientLoginAndDevices(t *testing.T) {
	want := []inventory.Device{
		{Site: "HQ", Hostname: "core-sw-01", IP: "10.0.0.1", SerialA: "FDO1111A1AA", OSVersion: "15.2(4)E7", Model: "WS-C3850-48T"},
		{Site: "Branch", Hostname: "edge-rtr-01", IP: "10.1.0.1", SerialA: "JAE3333C3CC", OSVersion: "16.9.5", Model: "ISR4331"},
	}
	mock, client := newTestServer(t, want)
	ctx := context.Background()

	if err := client.Login(ctx, "user", "pass"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	got, err := client.Devices(ctx)
	if err != nil {
		t.Fatalf("Devices() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Devices() mismatch (-want +got):\n%s", diff)
	}

	// login, host.get, one hostinterface.get per device.
	methods := make([]string, 0, len(mock.Calls))
	for _, call := range mock.Calls {
		methods = append(methods, call.Method)
	}
	wantMethods := []string{"user.login", "host.get", "hostinterface.get", "hostinterface.get"}
	if diff := cmp.Diff(wantMethods, methods); diff != "" {
		t.Errorf("call sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestClientDeviceWithoutInventory(t *testing.T) {
	// The endpoint answers with an empty array instead of an object
	// for hosts that carry no inventory.
	want := []inventory.Device{
		{Site: "Branch", Hostname: "mgmt-ap-01", IP: "10.1.0.50"},
	}
	_, client := newTestServer(t, want)
	ctx := context.Background()

	if err := client.Login(ctx, "user", "pass"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	got, err := client.Devices(ctx)
	if err != nil {
		t.Fatalf("Devices() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Devices() mismatch (-want +got):\n%s", diff)
	}
}

func TestClientUnauthenticated(t *testing.T) {
	_, client := newTestServer(t, nil)
	_, err := client.Devices(context.Background())
	if err == nil {
		t.Fatal("Devices() without Login succeeded, want rpc error")
	}
}
