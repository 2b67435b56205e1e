package rpc

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"swapvault/native/swap"
)

// Wire forms. Addresses are 0x-prefixed hex, token ids and amounts are decimal
// strings so arbitrary-precision values survive JSON intact.

type assetPayload struct {
	Collection string `json:"collection"`
	TokenID    string `json:"tokenId"`
}

type orderResult struct {
	ID        string       `json:"orderId"`
	Owner     string       `json:"owner"`
	Give      assetPayload `json:"give"`
	Want      assetPayload `json:"want"`
	MarkUp    string       `json:"markUp"`
	CreatedAt int64        `json:"createdAt"`
	Status    string       `json:"status"`
}

type auditResult struct {
	OrderID      string `json:"orderId"`
	Action       string `json:"action"`
	Actor        string `json:"actor"`
	Counterparty string `json:"counterparty,omitempty"`
	Fee          string `json:"fee"`
	MarkUp       string `json:"markUp"`
	Timestamp    int64  `json:"timestamp"`
}

type paramsResult struct {
	Version     uint64 `json:"version"`
	Fee         string `json:"fee"`
	MarkUpLimit string `json:"markUpLimit"`
}

// decodeParams unmarshals the single positional params object into out.
func decodeParams(req *RPCRequest, out interface{}) *RPCError {
	if len(req.Params) != 1 {
		return invalidParams("expected a single params object")
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return invalidParams("invalid params: " + err.Error())
	}
	return nil
}

func parseAddress(field, value string) ([20]byte, *RPCError) {
	var addr [20]byte
	trimmed := strings.TrimSpace(value)
	if !ethcommon.IsHexAddress(trimmed) {
		return addr, invalidParams(field + " must be a 0x-prefixed address")
	}
	copy(addr[:], ethcommon.HexToAddress(trimmed).Bytes())
	if addr == ([20]byte{}) {
		return addr, invalidParams(field + " must not be the zero address")
	}
	return addr, nil
}

func parseAmount(field, value string) (*big.Int, *RPCError) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || amount.Sign() < 0 {
		return nil, invalidParams(field + " must be a non-negative decimal amount")
	}
	return amount, nil
}

func parseAsset(field string, payload assetPayload) (swap.Asset, *RPCError) {
	collection, rpcErr := parseAddress(field+".collection", payload.Collection)
	if rpcErr != nil {
		return swap.Asset{}, rpcErr
	}
	if strings.TrimSpace(payload.TokenID) == "" {
		return swap.Asset{}, invalidParams(field + ".tokenId is required")
	}
	tokenID, rpcErr := parseAmount(field+".tokenId", payload.TokenID)
	if rpcErr != nil {
		return swap.Asset{}, rpcErr
	}
	if tokenID.BitLen() > 256 {
		return swap.Asset{}, invalidParams(field + ".tokenId must fit in 256 bits")
	}
	return swap.Asset{Collection: collection, TokenID: tokenID}, nil
}

func parseOrderID(field, value string) ([32]byte, *RPCError) {
	var id [32]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil || len(raw) != 32 {
		return id, invalidParams(field + " must be a 32-byte hex identifier")
	}
	copy(id[:], raw)
	return id, nil
}

func formatAddress(addr [20]byte) string {
	return ethcommon.BytesToAddress(addr[:]).Hex()
}

func formatOrderID(id [32]byte) string {
	return "0x" + hex.EncodeToString(id[:])
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func formatAsset(a swap.Asset) assetPayload {
	return assetPayload{
		Collection: formatAddress(a.Collection),
		TokenID:    formatAmount(a.TokenID),
	}
}

func formatOrder(o *swap.Order) orderResult {
	return orderResult{
		ID:        formatOrderID(o.ID),
		Owner:     formatAddress(o.Owner),
		Give:      formatAsset(o.Give),
		Want:      formatAsset(o.Want),
		MarkUp:    formatAmount(o.MarkUp),
		CreatedAt: o.CreatedAt,
		Status:    "listed",
	}
}

func formatAudit(r *swap.AuditRecord) auditResult {
	out := auditResult{
		OrderID:   formatOrderID(r.OrderID),
		Action:    r.Action,
		Actor:     formatAddress(r.Actor),
		Fee:       formatAmount(r.Fee),
		MarkUp:    formatAmount(r.MarkUp),
		Timestamp: r.Timestamp,
	}
	if r.Counterparty != ([20]byte{}) {
		out.Counterparty = formatAddress(r.Counterparty)
	}
	return out
}

func formatParams(p swap.Params) paramsResult {
	return paramsResult{
		Version:     p.Version,
		Fee:         formatAmount(p.Fee),
		MarkUpLimit: formatAmount(p.MarkUpLimit),
	}
}
