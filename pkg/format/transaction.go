package format

import (
	"encoding/json"
	"maps"
)

// TransactionResponse normalizes a transaction returned by a node.
//
// Before the transaction spec is applied, gas is aliased to gasLimit and input to
// data, a zero "to" becomes the zero address, creates is derived from from+nonce
// when neither to nor creates is set, and type 1/2 transactions get an empty access
// list. Afterwards chainId is taken from the payload, or derived from networkId or
// the signature's v, defaulting to 0.
func (f *Formatter) TransactionResponse(raw map[string]any) (Record, error) {
	tx := maps.Clone(raw)
	if tx == nil {
		tx = map[string]any{}
	}

	if tx["gas"] != nil && tx["gasLimit"] == nil {
		tx["gasLimit"] = tx["gas"]
	}
	if to, ok := tx["to"].(string); ok && to != "" {
		if n, err := BigNumber(to); err == nil && n.Sign() == 0 {
			tx["to"] = ZeroAddress
		}
	}
	if tx["input"] != nil && tx["data"] == nil {
		tx["data"] = tx["input"]
	}
	if tx["to"] == nil && tx["creates"] == nil {
		creates, err := f.ContractAddress(tx)
		if err != nil {
			return nil, annotate(err, "creates", nil)
		}
		tx["creates"] = creates
	}
	if t, err := Type(tx["type"]); err == nil && (t == 1 || t == 2) && tx["accessList"] == nil {
		tx["accessList"] = []any{}
	}

	rec, err := Apply(f.formats.Transaction, tx)
	if err != nil {
		return nil, err
	}

	chainID, err := deriveChainID(tx, rec)
	if err != nil {
		return nil, err
	}
	rec["chainId"] = chainID
	return rec, nil
}

func deriveChainID(tx map[string]any, rec Record) (int64, error) {
	if v := tx["chainId"]; v != nil {
		id, err := Number(v)
		if err != nil {
			return 0, annotate(err, "chainId", v)
		}
		return id, nil
	}

	if v := tx["networkId"]; isNumeric(v) {
		id, err := Number(v)
		if err != nil {
			return 0, annotate(err, "networkId", v)
		}
		return id, nil
	}

	if v, ok := rec["v"].(int64); ok {
		id := (v - 35) / 2
		if id < 0 {
			id = 0
		}
		return id, nil
	}
	return 0, nil
}

// isNumeric reports whether v is a Go number or a hex string.
func isNumeric(v any) bool {
	switch t := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return true
	case string:
		return IsHexString(t)
	}
	return false
}
