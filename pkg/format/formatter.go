// Package format normalizes untyped JSON-RPC payloads (transactions, receipts, logs
// and filters) into canonical records.
//
// A record kind is described by a Spec, an ordered list of fields each bound to a
// Coercer. Coercers compose through AllowNull, AllowFalsish and ArrayOf. A Formatter
// builds its field specs once in New and never changes them afterwards, so it is
// safe for concurrent use.
package format

import (
	"fmt"
	"sort"

	"github.com/devblac/rpcformat/pkg/account"
)

// Kinds accepted by Formatter.Lookup.
const (
	KindTransaction        = "transaction"
	KindTransactionRequest = "transactionRequest"
	KindReceiptLog         = "receiptLog"
	KindReceipt            = "receipt"
	KindFilter             = "filter"
	KindFilterLog          = "filterLog"
)

// Formats holds the fixed field specs of each record kind.
type Formats struct {
	Transaction        Spec
	TransactionRequest Spec
	ReceiptLog         Spec
	Receipt            Spec
	Filter             Spec
	FilterLog          Spec
}

// Formatter validates and normalizes RPC payloads.
type Formatter struct {
	formats  Formats
	resolver account.Resolver
}

// New builds a Formatter. A nil resolver resolves only shard.realm.num entity ids.
func New(resolver account.Resolver) *Formatter {
	if resolver == nil {
		resolver = account.EntityResolver{}
	}
	f := &Formatter{resolver: resolver}
	f.formats = f.buildFormats()
	return f
}

// Formats returns the Formatter's field specs. The slices are shared and must
// not be modified.
func (f *Formatter) Formats() Formats {
	return f.formats
}

// Lookup returns the field spec for kind.
func (f *Formatter) Lookup(kind string) (Spec, bool) {
	switch kind {
	case KindTransaction:
		return f.formats.Transaction, true
	case KindTransactionRequest:
		return f.formats.TransactionRequest, true
	case KindReceiptLog:
		return f.formats.ReceiptLog, true
	case KindReceipt:
		return f.formats.Receipt, true
	case KindFilter:
		return f.formats.Filter, true
	case KindFilterLog:
		return f.formats.FilterLog, true
	}
	return nil, false
}

// KindNames lists the kinds accepted by Lookup.
func KindNames() []string {
	names := []string{KindTransaction, KindTransactionRequest, KindReceiptLog, KindReceipt, KindFilter, KindFilterLog}
	sort.Strings(names)
	return names
}

func (f *Formatter) buildFormats() Formats {
	var (
		address     = lift(f.Address)
		accessList  = lift(f.AccessList)
		topics      = Coercer(f.Topics)
		bigNumber   = lift(BigNumber)
		number      = lift(Number)
		typ         = lift(Type)
		timestamp   = lift(Timestamp)
		uint256     = lift(Uint256)
		hex         = lift(func(v any) (string, error) { return Hex(v, false) })
		data        = lift(func(v any) (string, error) { return Data(v, false) })
		strictData  = lift(func(v any) (string, error) { return Data(v, true) })
		hash32      = lift(func(v any) (string, error) { return Hash32(v, false) })
		hash48      = lift(func(v any) (string, error) { return Hash48(v, false) })
		nullAddress = AllowNull(address, nil)
	)

	formats := Formats{
		Transaction: Spec{
			{"hash", AllowNull(hash48, Omit)},
			{"type", typ},
			{"accessList", AllowNull(accessList, nil)},
			{"from", nullAddress},
			{"timestamp", AllowNull(timestamp, nil)},
			{"nonce", AllowNull(number, Omit)},
			{"gasLimit", bigNumber},
			{"gasPrice", AllowNull(bigNumber, Omit)},
			{"maxPriorityFeePerGas", AllowNull(bigNumber, Omit)},
			{"maxFeePerGas", AllowNull(bigNumber, Omit)},
			{"to", nullAddress},
			{"value", AllowNull(bigNumber, Omit)},
			{"data", data},
			{"r", AllowNull(uint256, Omit)},
			{"s", AllowNull(uint256, Omit)},
			{"v", AllowNull(number, Omit)},
			{"creates", nullAddress},
			{"raw", AllowNull(data, Omit)},
			{"blockHash", AllowNull(hash32, Omit)},
			{"blockNumber", AllowNull(number, Omit)},
			{"transactionIndex", AllowNull(number, Omit)},
		},

		TransactionRequest: Spec{
			{"from", AllowNull(address, Omit)},
			{"nonce", AllowNull(number, Omit)},
			{"gasLimit", AllowNull(bigNumber, Omit)},
			{"gasPrice", AllowNull(bigNumber, Omit)},
			{"maxPriorityFeePerGas", AllowNull(bigNumber, Omit)},
			{"maxFeePerGas", AllowNull(bigNumber, Omit)},
			{"to", AllowNull(address, Omit)},
			{"value", AllowNull(bigNumber, Omit)},
			{"data", AllowNull(strictData, Omit)},
			{"type", AllowNull(number, Omit)},
			{"accessList", AllowNull(accessList, nil)},
		},

		ReceiptLog: Spec{
			{"transactionIndex", number},
			{"blockNumber", number},
			{"transactionHash", hash48},
			{"address", address},
			{"topics", ArrayOf(hash32)},
			{"data", data},
			{"logIndex", number},
			{"blockHash", hash32},
		},

		Filter: Spec{
			{"fromTimestamp", AllowNull(timestamp, Omit)},
			{"toTimestamp", AllowNull(timestamp, Omit)},
			{"address", AllowNull(address, Omit)},
			{"topics", AllowNull(topics, Omit)},
		},

		FilterLog: Spec{
			{"timestamp", timestamp},
			{"address", address},
			{"data", AllowFalsish(data, "0x")},
			{"topics", ArrayOf(hash32)},
			{"transactionHash", AllowNull(hash48, nil)},
			{"logIndex", number},
			{"transactionIndex", number},
		},
	}

	formats.Receipt = Spec{
		{"to", nullAddress},
		{"from", nullAddress},
		{"contractAddress", nullAddress},
		{"timestamp", timestamp},
		{"root", AllowNull(hex, Omit)},
		{"gasUsed", bigNumber},
		{"logsBloom", AllowNull(data, Omit)},
		{"blockHash", hash32},
		{"transactionHash", hash48},
		{"logs", ArrayOf(Object(formats.ReceiptLog))},
		{"blockNumber", number},
		{"cumulativeGasUsed", bigNumber},
		{"type", typ},
		{"status", AllowNull(number, Omit)},
	}

	return formats
}

// TransactionRequest normalizes an outgoing transaction request.
func (f *Formatter) TransactionRequest(raw map[string]any) (Record, error) {
	return Apply(f.formats.TransactionRequest, raw)
}

// ReceiptLog normalizes one log entry of a receipt.
func (f *Formatter) ReceiptLog(raw map[string]any) (Record, error) {
	return Apply(f.formats.ReceiptLog, raw)
}

// Receipt normalizes a transaction receipt. byzantium is set whenever status is
// present.
func (f *Formatter) Receipt(raw map[string]any) (Record, error) {
	rec, err := Apply(f.formats.Receipt, raw)
	if err != nil {
		return nil, err
	}
	if rec["status"] != nil {
		rec["byzantium"] = true
	}
	return rec, nil
}

// Filter normalizes a log filter.
func (f *Formatter) Filter(raw map[string]any) (Record, error) {
	return Apply(f.formats.Filter, raw)
}

// FilterLog normalizes a log returned for a filter.
func (f *Formatter) FilterLog(raw map[string]any) (Record, error) {
	return Apply(f.formats.FilterLog, raw)
}

// LogsMapper reshapes ledger log entries into filter logs and validates them.
// transactionHash is always null; the caller fills it in later. logIndex and
// transactionIndex both come from the entry's index.
func (f *Formatter) LogsMapper(rawLogs []any) ([]Record, error) {
	out := make([]Record, 0, len(rawLogs))
	for i, item := range rawLogs {
		log, ok := asObject(item)
		if !ok {
			return nil, annotate(typeError("invalid log entry", item, nil), fmt.Sprintf("[%d]", i), item)
		}
		rec, err := f.FilterLog(map[string]any{
			"timestamp":        log["timestamp"],
			"address":          log["address"],
			"data":             log["data"],
			"topics":           log["topics"],
			"transactionHash":  nil,
			"logIndex":         log["index"],
			"transactionIndex": log["index"],
		})
		if err != nil {
			return nil, annotate(err, fmt.Sprintf("[%d]", i), item)
		}
		out = append(out, rec)
	}
	return out, nil
}
