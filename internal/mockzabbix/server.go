// Package mockzabbix implements a small Zabbix-compatible JSON-RPC
// endpoint for development and tests. It supports the three methods the
// inventory client calls and records every call it serves.
package mockzabbix

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sessionctl/internal/inventory"
	"sessionctl/internal/logging"
)

// Token is the session token the mock hands out on user.login.
const Token = "mock-token"

// Call records one JSON-RPC method invocation.
type Call struct {
	Method string
	Params json.RawMessage
}

// Server is a seedable mock monitoring endpoint.
type Server struct {
	mu sync.Mutex

	// Devices is the inventory the mock serves.
	Devices []inventory.Device

	// RequireLogin rejects authenticated methods until user.login
	// has been called.
	RequireLogin bool

	// Calls records every method invocation in order.
	Calls []Call

	loggedIn bool
}

// NewServer returns an empty mock endpoint.
func NewServer() *Server {
	return &Server{}
}

// Router builds the chi router serving the endpoint.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Post("/api_jsonrpc.php", s.handleRPC)
	return r
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	Auth    string          `json:"auth"`
	ID      int             `json:"id"`
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

type rpcResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	Result  any           `json:"result,omitempty"`
	Error   *rpcErrorBody `json:"error,omitempty"`
	ID      int           `json:"id"`
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON-RPC request", http.StatusBadRequest)
		return
	}
	log := logging.WithFields(r.Context(), "method", req.Method, "rpc_id", req.ID)

	s.mu.Lock()
	s.Calls = append(s.Calls, Call{Method: req.Method, Params: req.Params})
	s.mu.Unlock()

	log.Debug("rpc call")

	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "user.login":
		s.mu.Lock()
		s.loggedIn = true
		s.mu.Unlock()
		resp.Result = Token

	case "host.get":
		if !s.authorized(req.Auth) {
			resp.Error = &rpcErrorBody{Code: -32602, Message: "Invalid params.", Data: "Not authorised."}
			break
		}
		resp.Result = s.hostList()

	case "hostinterface.get":
		if !s.authorized(req.Auth) {
			resp.Error = &rpcErrorBody{Code: -32602, Message: "Invalid params.", Data: "Not authorised."}
			break
		}
		var params struct {
			HostIDs string `json:"hostids"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &rpcErrorBody{Code: -32602, Message: "Invalid params.", Data: err.Error()}
			break
		}
		resp.Result = s.interfaceList(params.HostIDs)

	default:
		resp.Error = &rpcErrorBody{Code: -32601, Message: "Method not found.", Data: req.Method}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("encoding rpc response", "error", err)
	}
}

func (s *Server) authorized(auth string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.RequireLogin {
		return true
	}
	return s.loggedIn && auth == Token
}

type mockHost struct {
	HostID    string      `json:"hostid"`
	Host      string      `json:"host"`
	Inventory any         `json:"inventory"`
	Groups    []mockGroup `json:"groups"`
}

type mockGroup struct {
	Name string `json:"name"`
}

func (s *Server) hostList() []mockHost {
	s.mu.Lock()
	defer s.mu.Unlock()

	hosts := make([]mockHost, 0, len(s.Devices))
	for i, d := range s.Devices {
		h := mockHost{
			HostID: hostID(i),
			Host:   d.Hostname,
			Groups: []mockGroup{{Name: d.Site}},
		}
		if d.SerialA == "" && d.SerialB == "" && d.OSVersion == "" && d.Model == "" {
			// Hosts with no inventory answer with an empty array,
			// matching the real API's quirk.
			h.Inventory = []any{}
		} else {
			h.Inventory = map[string]string{
				"site_address_a": d.Site,
				"serialno_a":     d.SerialA,
				"serialno_b":     d.SerialB,
				"os_full":        d.OSVersion,
				"model":          d.Model,
			}
		}
		hosts = append(hosts, h)
	}
	return hosts
}

func (s *Server) interfaceList(id string) []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.Devices {
		if hostID(i) == id {
			return []map[string]string{{"ip": d.IP}}
		}
	}
	return []map[string]string{}
}

func hostID(i int) string {
	return fmt.Sprintf("10%03d", i)
}

// SampleDevices returns a small inventory for local development.
func SampleDevices() []inventory.Device {
	return []inventory.Device{
		{Site: "HQ", Hostname: "core-sw-01", IP: "10.0.0.1", SerialA: "FDO1111A1AA", OSVersion: "15.2(4)E7", Model: "WS-C3850-48T"},
		{Site: "HQ", Hostname: "core-sw-02", IP: "10.0.0.2", SerialA: "FDO2222B2BB", OSVersion: "15.2(4)E7", Model: "WS-C3850-48T"},
		{Site: "Branch", Hostname: "edge-rtr-01", IP: "10.1.0.1", SerialA: "JAE3333C3CC", OSVersion: "16.9.5", Model: "ISR4331"},
		{Site: "Branch", Hostname: "mgmt-ap-01", IP: "10.1.0.50"},
	}
}
