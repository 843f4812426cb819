package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
	"github.com/tidwall/gjson"
)

// e8sPerToken is the number of base units in one ICP.
const e8sPerToken = 100_000_000

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type account struct {
	Owner      string `json:"owner"`
	Subaccount []int  `json:"subaccount"`
}

// call performs one JSON-RPC 2.0 request and returns its result member.
func (c *Client) call(ctx context.Context, endpoint, method string, params interface{}) (gjson.Result, error) {
	if endpoint == "" {
		return gjson.Result{}, apperror.Unavailable(method + ": ledger endpoint not configured")
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      atomic.AddUint64(&c.rpcNextID, 1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return gjson.Result{}, apperror.InvalidInput("cannot encode ledger request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, apperror.InvalidInput("cannot build ledger request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	token, err := c.bearer(ctx)
	if err != nil {
		return gjson.Result{}, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, apperror.Upstream(method+" failed", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, apperror.Upstream(method+" failed", err)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, apperror.Upstream(fmt.Sprintf("%s: ledger answered %d", method, resp.StatusCode), nil)
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, apperror.Upstream(method+": malformed ledger response", nil)
	}
	doc := gjson.ParseBytes(raw)
	if e := doc.Get("error"); e.Exists() {
		return gjson.Result{}, apperror.Upstream(
			fmt.Sprintf("%s: ledger error %d: %s", method, e.Get("code").Int(), e.Get("message").String()), nil)
	}
	result := doc.Get("result")
	if !result.Exists() {
		return gjson.Result{}, apperror.Upstream(method+": ledger response has no result", nil)
	}
	return result, nil
}

// natural renders a ledger amount without losing precision on large values.
func natural(r gjson.Result) string {
	if r.Type == gjson.Number {
		return r.Raw
	}
	return r.String()
}

// ICPBalance returns the caller's ICP balance in whole tokens, truncated.
// It is "0" when nobody is logged in.
func (c *Client) ICPBalance(ctx context.Context) (string, error) {
	p := c.Principal()
	if p == "" {
		return "0", nil
	}
	addr, err := c.AddressFromPrincipal(ctx, p)
	if err != nil {
		return "", err
	}
	res, err := c.call(ctx, c.icpURL, "account_balance_dfx", map[string]string{"account": addr})
	if err != nil {
		return "", err
	}
	e8s, err := strconv.ParseUint(natural(res.Get("e8s")), 10, 64)
	if err != nil {
		return "", apperror.Upstream("account_balance_dfx: unreadable e8s", err)
	}
	return strconv.FormatUint(e8s/e8sPerToken, 10), nil
}

// TokenSymbol returns the ICRC-1 token symbol, or "" when nobody is logged in.
func (c *Client) TokenSymbol(ctx context.Context) (string, error) {
	if !c.IsAuthenticated() {
		return "", nil
	}
	res, err := c.call(ctx, c.icrcURL, "icrc1_symbol", nil)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// TokenBalance returns the caller's ICRC-1 balance in base units, or "0"
// when nobody is logged in.
func (c *Client) TokenBalance(ctx context.Context) (string, error) {
	p := c.Principal()
	if p == "" {
		return "0", nil
	}
	res, err := c.call(ctx, c.icrcURL, "icrc1_balance_of", account{Owner: p, Subaccount: []int{}})
	if err != nil {
		return "", err
	}
	return natural(res), nil
}

// Approve lets spender transfer up to amount base units from the caller's
// ICRC account and returns the ledger block index.
func (c *Client) Approve(ctx context.Context, spender string, amount uint64) (string, error) {
	p := c.Principal()
	if p == "" {
		return "", apperror.Unauthorized("login required to approve a spender", nil)
	}
	params := struct {
		Spender account `json:"spender"`
		From    account `json:"from"`
		Amount  uint64  `json:"amount"`
	}{
		Spender: account{Owner: spender, Subaccount: []int{}},
		From:    account{Owner: p, Subaccount: []int{}},
		Amount:  amount,
	}
	res, err := c.call(ctx, c.icrcURL, "icrc2_approve", params)
	if err != nil {
		return "", err
	}
	if e := res.Get("Err"); e.Exists() {
		return "", apperror.Upstream("icrc2_approve rejected: "+e.Raw, nil)
	}
	if ok := res.Get("Ok"); ok.Exists() {
		return natural(ok), nil
	}
	return natural(res), nil
}
