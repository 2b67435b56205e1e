package rpc

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	nativecommon "swapvault/native/common"
	"swapvault/native/registry"
	"swapvault/native/swap"
	"swapvault/observability"
	"swapvault/state"
)

// AuthTokenEnv names the environment variable holding the bearer token that
// protects mutating and administrative methods. When unset, those methods are
// rejected outright.
const AuthTokenEnv = "SWAPVAULT_RPC_TOKEN"

// JSON-RPC 2.0 error codes, plus server-defined codes for the swap domain.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
	codeUnauthorized   = -32001
	codeRateLimited    = -32002
	codeModulePaused   = -32003
	codeSwapDomain     = -32010
)

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      interface{}       `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// Server exposes the swap engine and its supporting state over a JSON-RPC 2.0
// endpoint, with health and Prometheus endpoints alongside.
type Server struct {
	engine   *swap.Engine
	state    *state.Manager
	registry *registry.Registry
	params   *swap.ParamStore
	pauses   *nativecommon.PauseSet
	log      *slog.Logger
	metrics  *observability.Metrics

	authToken string
	limiter   *clientLimiter
}

// NewServer wires the RPC surface. The auth token is read once from the
// environment; an empty token disables every protected method.
func NewServer(engine *swap.Engine, mgr *state.Manager, reg *registry.Registry, params *swap.ParamStore, pauses *nativecommon.PauseSet, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		engine:    engine,
		state:     mgr,
		registry:  reg,
		params:    params,
		pauses:    pauses,
		log:       log,
		metrics:   observability.SwapMetrics(),
		authToken: strings.TrimSpace(os.Getenv(AuthTokenEnv)),
		limiter:   newClientLimiter(rate.Limit(50), 100),
	}
}

// Router builds the HTTP routing table for the server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/", s.handleRPC)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	orders, err := s.state.OrderCount()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "degraded", "error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "orders": orders})
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(clientIP(r)) {
		writeRPCError(w, http.StatusTooManyRequests, nil, codeRateLimited, "rate limit exceeded")
		return
	}

	var req RPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPCError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Method) == "" {
		writeRPCError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method is required")
		return
	}

	handler, ok := s.methods()[req.Method]
	if !ok {
		writeRPCError(w, http.StatusNotFound, req.ID, codeMethodNotFound, "method not found: "+req.Method)
		return
	}
	if handler.protected && !s.authorized(r) {
		s.metrics.ObserveError(req.Method, "unauthorized")
		writeRPCError(w, http.StatusUnauthorized, req.ID, codeUnauthorized, "unauthorized")
		return
	}

	start := time.Now()
	result, rpcErr := handler.fn(&req)
	if rpcErr != nil {
		s.metrics.ObserveRequest(req.Method, "error", start)
		s.metrics.ObserveError(req.Method, rpcErrCodeLabel(rpcErr.Code))
		s.log.Warn("rpc request failed", "method", req.Method, "code", rpcErr.Code, "message", rpcErr.Message)
		writeRPCError(w, httpStatusFor(rpcErr.Code), req.ID, rpcErr.Code, rpcErr.Message)
		return
	}
	s.metrics.ObserveRequest(req.Method, "ok", start)
	writeResult(w, req.ID, result)
}

type methodHandler struct {
	fn        func(*RPCRequest) (interface{}, *RPCError)
	protected bool
}

func (s *Server) methods() map[string]methodHandler {
	return map[string]methodHandler{
		"swap_place":    {fn: s.handleSwapPlace},
		"swap_complete": {fn: s.handleSwapComplete},
		"swap_cancel":   {fn: s.handleSwapCancel},
		"swap_get":      {fn: s.handleSwapGet},
		"swap_audit":    {fn: s.handleSwapAudit},
		"swap_params":   {fn: s.handleSwapParams},

		"swap_setParams": {fn: s.handleSwapSetParams, protected: true},
		"admin_pause":    {fn: s.handleAdminPause, protected: true},

		"registry_authorize": {fn: s.handleRegistryAuthorize, protected: true},
		"registry_revoke":    {fn: s.handleRegistryRevoke, protected: true},
		"registry_list":      {fn: s.handleRegistryList},

		"token_mint":              {fn: s.handleTokenMint, protected: true},
		"token_approve":           {fn: s.handleTokenApprove},
		"token_setApprovalForAll": {fn: s.handleTokenSetApprovalForAll},
		"token_owner":             {fn: s.handleTokenOwner},

		"balance_get":  {fn: s.handleBalanceGet},
		"balance_mint": {fn: s.handleBalanceMint, protected: true},
	}
}

func (s *Server) authorized(r *http.Request) bool {
	if s.authToken == "" {
		return false
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	presented := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return subtle.ConstantTimeCompare([]byte(presented), []byte(s.authToken)) == 1
}

// engineError translates engine sentinels into JSON-RPC errors, keeping the
// sentinel text as the client-facing message.
func engineError(err error) *RPCError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, nativecommon.ErrModulePaused):
		return &RPCError{Code: codeModulePaused, Message: err.Error()}
	case errors.Is(err, swap.ErrAssetNotSupported),
		errors.Is(err, swap.ErrNotOwnerOrAuthorized),
		errors.Is(err, swap.ErrMarkUpTooHigh),
		errors.Is(err, swap.ErrOrderAlreadyExists),
		errors.Is(err, swap.ErrWantedAssetNonexistent),
		errors.Is(err, swap.ErrInsufficientFee),
		errors.Is(err, swap.ErrOrderNotFound),
		errors.Is(err, swap.ErrSelfMatchForbidden),
		errors.Is(err, swap.ErrNotOrderOwner),
		errors.Is(err, swap.ErrTransferFailed),
		errors.Is(err, swap.ErrInvalidAsset):
		return &RPCError{Code: codeSwapDomain, Message: err.Error()}
	default:
		return &RPCError{Code: codeServerError, Message: err.Error()}
	}
}

func invalidParams(msg string) *RPCError {
	return &RPCError{Code: codeInvalidParams, Message: msg}
}

func httpStatusFor(code int) int {
	switch code {
	case codeInvalidParams, codeInvalidRequest, codeParseError, codeSwapDomain:
		return http.StatusBadRequest
	case codeUnauthorized:
		return http.StatusUnauthorized
	case codeMethodNotFound:
		return http.StatusNotFound
	case codeRateLimited:
		return http.StatusTooManyRequests
	case codeModulePaused:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func rpcErrCodeLabel(code int) string {
	switch code {
	case codeInvalidParams:
		return "invalid_params"
	case codeSwapDomain:
		return "swap"
	case codeModulePaused:
		return "paused"
	default:
		return "server"
	}
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func writeRPCError(w http.ResponseWriter, status int, id interface{}, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}})
}

// clientLimiter tracks one token bucket per client IP.
type clientLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{limit: limit, burst: burst, clients: make(map[string]*rate.Limiter)}
}

func (c *clientLimiter) allow(ip string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	limiter, ok := c.clients[ip]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.clients[ip] = limiter
	}
	return limiter.Allow()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
