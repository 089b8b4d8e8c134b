package model

// Response is the envelope returned by every API endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// PayRequest represents the request body for a payment claim
type PayRequest struct {
	TxSignature string `json:"txSignature" binding:"required"`
	Buyer       string `json:"buyer" binding:"required"`
}

// PayResponse is returned after a successful verification and distribution
type PayResponse struct {
	Success bool   `json:"success"`
	Tokens  uint64 `json:"tokens"`
	Sig     string `json:"sig"`
}

// StatsResponse mirrors the sale-progress snapshot. Values are derived from
// raw base units on every request, never from a stored counter.
type StatsResponse struct {
	Success   bool    `json:"success"`
	Target    uint64  `json:"target"`
	Sold      uint64  `json:"sold"`
	Remaining uint64  `json:"remaining"`
	Pct       float64 `json:"pct"`
	Decimals  uint8   `json:"decimals"`
}

// HealthResponse echoes key identities and live RPC state
type HealthResponse struct {
	OK       bool     `json:"ok"`
	Signer   string   `json:"signer"`
	Receiver string   `json:"receiver"`
	Chains   []string `json:"chains"`
	Version  string   `json:"rpc_version,omitempty"`
	Slot     uint64   `json:"rpc_slot,omitempty"`
}
