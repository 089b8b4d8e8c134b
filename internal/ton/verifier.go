package ton

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"github.com/xssnick/tonutils-go/address"

	"presale/internal/chain"
	"presale/internal/model"
)

// Verifier confirms TON payments against the toncenter HTTP API. The
// receiver's transaction list is the source of truth: the claimed hash must
// appear there with a strictly positive inbound value.
type Verifier struct {
	apiKey   string
	baseURL  string
	receiver *address.Address
	http     *http.Client
}

func New(apiKey, receiver string, testnet bool) (*Verifier, error) {
	addr, err := address.ParseAddr(receiver)
	if err != nil {
		return nil, fmt.Errorf("invalid TON receiver address: %w", err)
	}
	baseURL := "https://toncenter.com/api/v2"
	if testnet {
		baseURL = "https://testnet.toncenter.com/api/v2"
	}
	return &Verifier{
		apiKey:   apiKey,
		baseURL:  baseURL,
		receiver: addr,
		http:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (v *Verifier) ID() string      { return "ton" }
func (v *Verifier) AssetID() string { return "the-open-network" }
func (v *Verifier) Decimals() uint8 { return 9 }

type txMessage struct {
	Value       string `json:"value"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type txID struct {
	Hash string `json:"hash"`
}

type tx struct {
	Utime         int64     `json:"utime"`
	TransactionID txID      `json:"transaction_id"`
	InMsg         txMessage `json:"in_msg"`
}

type transactionsResponse struct {
	OK     bool `json:"ok"`
	Result []tx `json:"result"`
}

func (v *Verifier) Verify(ctx context.Context, reference string) (*chain.Payment, error) {
	params := url.Values{
		"address":  {v.receiver.String()},
		"limit":    {"100"},
		"archival": {"true"},
	}
	reqURL := fmt.Sprintf("%s/getTransactions?%s", v.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if v.apiKey != "" {
		req.Header.Set("X-API-Key", v.apiKey)
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query toncenter: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read toncenter response: %w", err)
	}

	var result transactionsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse toncenter response: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("toncenter returned not OK status")
	}

	for _, t := range result.Result {
		if t.TransactionID.Hash != reference {
			continue
		}
		return v.paymentFrom(t)
	}

	return nil, fmt.Errorf("%w: not present in receiver's recent transactions", model.ErrTransactionNotFound)
}

func (v *Verifier) paymentFrom(t tx) (*chain.Payment, error) {
	if t.InMsg.Destination != "" {
		dest, err := address.ParseAddr(t.InMsg.Destination)
		// Compare raw workchain and account id; bounceable flags may differ
		// between representations of the same account.
		if err != nil || dest.Workchain() != v.receiver.Workchain() || !bytes.Equal(dest.Data(), v.receiver.Data()) {
			return nil, model.ErrReceiverNotInvolved
		}
	}

	nano, ok := new(big.Int).SetString(t.InMsg.Value, 10)
	if !ok {
		return nil, fmt.Errorf("unparseable transaction value %q", t.InMsg.Value)
	}
	if nano.Sign() <= 0 {
		return nil, model.ErrNoNetPayment
	}

	return &chain.Payment{
		Chain:        v.ID(),
		Payer:        t.InMsg.Source,
		Receiver:     v.receiver.String(),
		NativeAmount: nano,
		ConfirmedAt:  time.Unix(t.Utime, 0).UTC(),
	}, nil
}
