package format

// Ledger records (mirror-node style contract results) use snake_case keys and carry
// execution details that have no canonical transaction field. The adapters below
// rename what has a canonical name and keep everything else under customData.

// recordFields maps ledger record keys to transaction-response keys.
var recordFields = map[string]string{
	"hash":                     "hash",
	"chain_id":                 "chainId",
	"timestamp":                "timestamp",
	"consensus_timestamp":      "timestamp",
	"from":                     "from",
	"to":                       "to",
	"call_result":              "data",
	"gas_limit":                "gasLimit",
	"gas_price":                "gasPrice",
	"max_fee_per_gas":          "maxFeePerGas",
	"max_priority_fee_per_gas": "maxPriorityFeePerGas",
	"amount":                   "value",
	"nonce":                    "nonce",
	"type":                     "type",
	"r":                        "r",
	"s":                        "s",
	"v":                        "v",
	"access_list":              "accessList",
	"block_hash":               "blockHash",
	"block_number":             "blockNumber",
	"transaction_index":        "transactionIndex",
}

// ResponseFromRecord converts a ledger transaction record into a canonical
// transaction response. Keys without a canonical name are preserved under
// customData; transaction_id is kept as transactionId.
func (f *Formatter) ResponseFromRecord(record map[string]any) (Record, error) {
	tx := map[string]any{}
	custom := Record{}
	for key, value := range record {
		if key == "transaction_id" {
			continue
		}
		if key == "consensus_timestamp" && record["timestamp"] != nil {
			custom[key] = value
			continue
		}
		if name, ok := recordFields[key]; ok {
			tx[name] = value
			continue
		}
		custom[key] = value
	}

	if tx["value"] == nil {
		tx["value"] = 0
	}
	if s, ok := tx["blockHash"].(string); ok && len(s) == 2+2*48 {
		tx["blockHash"] = s[:2+2*32]
	}
	if tx["to"] == nil && tx["creates"] == nil && record["accountAddress"] != nil {
		tx["creates"] = record["accountAddress"]
	}

	rec, err := f.TransactionResponse(tx)
	if err != nil {
		return nil, err
	}
	if id, ok := record["transaction_id"]; ok {
		rec["transactionId"] = id
	}
	rec["customData"] = custom
	return rec, nil
}

// ReceiptFromResponse builds a canonical receipt from a transaction response
// carrying ledger execution details in customData (gas_used, logs, bloom, result,
// accountAddress, transfersList). customData is carried over to the receipt.
func (f *Formatter) ReceiptFromResponse(response map[string]any) (Record, error) {
	custom, _ := asObject(response["customData"])

	contractAddress := response["creates"]
	if contractAddress == nil && response["to"] == nil {
		contractAddress = custom["accountAddress"]
	}

	var logs []any
	if rawLogs, ok := asSlice(custom["logs"]); ok {
		logs = make([]any, 0, len(rawLogs))
		for _, item := range rawLogs {
			log, ok := asObject(item)
			if !ok {
				logs = append(logs, item)
				continue
			}
			txIndex := response["transactionIndex"]
			if txIndex == nil {
				txIndex = log["index"]
			}
			logs = append(logs, map[string]any{
				"transactionIndex": txIndex,
				"blockNumber":      response["blockNumber"],
				"transactionHash":  response["hash"],
				"address":          log["address"],
				"topics":           log["topics"],
				"data":             log["data"],
				"logIndex":         log["index"],
				"blockHash":        response["blockHash"],
			})
		}
	} else {
		logs = []any{}
	}

	var status any
	if result, ok := custom["result"].(string); ok {
		status = 0
		if result == "SUCCESS" {
			status = 1
		}
	}

	rec, err := f.Receipt(map[string]any{
		"to":                response["to"],
		"from":              response["from"],
		"contractAddress":   contractAddress,
		"timestamp":         response["timestamp"],
		"gasUsed":           custom["gas_used"],
		"logsBloom":         custom["bloom"],
		"blockHash":         response["blockHash"],
		"transactionHash":   response["hash"],
		"logs":              logs,
		"blockNumber":       response["blockNumber"],
		"cumulativeGasUsed": custom["gas_used"],
		"type":              response["type"],
		"status":            status,
	})
	if err != nil {
		return nil, err
	}
	if custom != nil {
		rec["customData"] = Record(custom)
	}
	return rec, nil
}
