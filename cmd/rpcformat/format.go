package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"strings"

	"github.com/devblac/rpcformat/internal/config"
	"github.com/devblac/rpcformat/internal/logging"
	"github.com/devblac/rpcformat/internal/metrics"
	"github.com/devblac/rpcformat/pkg/format"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	flagKind       string
	flagMetricsOut string
	flagWorkers    int
)

func init() {
	formatCmd.Flags().StringVarP(&flagKind, "kind", "k", "transaction", "Payload kind: "+strings.Join(handlerNames(), ", "))
	formatCmd.Flags().StringVar(&flagMetricsOut, "metrics-out", "", "Write Prometheus text metrics to this file")
	formatCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 4, "Concurrent workers for JSON array payloads")
}

// handler formats one decoded payload. Batch handlers accept a JSON array and
// format each element on its own.
type handler struct {
	batch      bool
	degradable bool
	run        func(f *format.Formatter, v any) (any, error)
}

var handlers = map[string]handler{
	"transaction":        {batch: true, run: object((*format.Formatter).TransactionResponse)},
	"transactionRequest": {batch: true, run: object((*format.Formatter).TransactionRequest)},
	"receipt":            {batch: true, run: object((*format.Formatter).Receipt)},
	"receiptLog":         {batch: true, run: object((*format.Formatter).ReceiptLog)},
	"filter":             {batch: true, run: object((*format.Formatter).Filter)},
	"filterLog":          {batch: true, run: object((*format.Formatter).FilterLog)},
	"record":             {batch: true, run: object((*format.Formatter).ResponseFromRecord)},
	"recordReceipt": {batch: true, run: object(func(f *format.Formatter, raw map[string]any) (format.Record, error) {
		resp, err := f.ResponseFromRecord(raw)
		if err != nil {
			return nil, err
		}
		return f.ReceiptFromResponse(resp)
	})},
	"logs": {run: func(f *format.Formatter, v any) (any, error) {
		items, ok := v.([]any)
		if !ok {
			return nil, errors.New("logs payload must be a JSON array")
		}
		return f.LogsMapper(items)
	}},
	"topics": {run: func(f *format.Formatter, v any) (any, error) {
		return f.Topics(v)
	}},
	"callAddress": {batch: true, degradable: true, run: func(f *format.Formatter, v any) (any, error) {
		if addr := f.CallAddress(v); addr != nil {
			return *addr, nil
		}
		return nil, nil
	}},
	"difficulty": {batch: true, degradable: true, run: func(_ *format.Formatter, v any) (any, error) {
		d, err := format.Difficulty(v)
		if err != nil || d == nil {
			return nil, err
		}
		return *d, nil
	}},
}

func object(fn func(*format.Formatter, map[string]any) (format.Record, error)) func(*format.Formatter, any) (any, error) {
	return func(f *format.Formatter, v any) (any, error) {
		raw, ok := v.(map[string]any)
		if !ok {
			return nil, errors.New("payload must be a JSON object")
		}
		return fn(f, raw)
	}
}

func handlerNames() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var formatCmd = &cobra.Command{
	Use:   "format [file]",
	Short: "Normalize a JSON payload read from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logLevel := os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			logLevel = cfg.LogLevel
		}
		log := logging.NewWriter(cmd.ErrOrStderr(), logLevel)

		h, ok := handlers[flagKind]
		if !ok {
			return fmt.Errorf("unknown kind %q (want one of %s)", flagKind, strings.Join(handlerNames(), ", "))
		}

		resolver, err := cfg.Resolver()
		if err != nil {
			return err
		}
		f := format.New(resolver)
		mtr := metrics.New()

		payload, err := readPayload(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		result, count, err := runHandler(h, f, payload, flagWorkers, func(in any) {
			mtr.Degraded(flagKind)
			log.Debug("value degraded to null", "kind", flagKind, "value", fmt.Sprint(in))
		})
		if err != nil {
			errKind := "payload"
			var ve *format.ValidationError
			if errors.As(err, &ve) {
				errKind = string(ve.Kind)
				log.Error("format failed", "kind", flagKind, "field", ve.Field, "error", err)
			} else {
				log.Error("format failed", "kind", flagKind, "error", err)
			}
			mtr.Failed(flagKind, errKind)
		} else {
			mtr.Formatted(flagKind, count)
			log.Debug("formatted", "kind", flagKind, "count", count)
		}

		if flagMetricsOut != "" {
			if werr := writeMetrics(mtr, flagMetricsOut); werr != nil {
				log.Error("metrics write failed", "path", flagMetricsOut, "error", werr)
			}
		}
		if err != nil {
			return fmt.Errorf("format %s: %w", flagKind, err)
		}

		return writeJSON(cmd.OutOrStdout(), encodeValue(result, cfg.Output.BigNumbers), *cfg.Output.Indent)
	},
}

// runHandler formats payload with h. Array payloads of batch handlers are fanned out
// over workers goroutines; results keep input order and the lowest failing index is
// reported.
func runHandler(h handler, f *format.Formatter, payload any, workers int, degraded func(in any)) (any, int, error) {
	one := func(v any) (any, error) {
		out, err := h.run(f, v)
		if err == nil && h.degradable && v != nil && out == nil {
			degraded(v)
		}
		return out, err
	}

	items, isArray := payload.([]any)
	if !h.batch || !isArray {
		out, err := one(payload)
		if err != nil {
			return nil, 0, err
		}
		if recs, ok := out.([]format.Record); ok {
			return out, len(recs), nil
		}
		return out, 1, nil
	}

	if workers < 1 {
		workers = 1
	}
	results := make([]any, len(items))
	errs := make([]error, len(items))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			results[i], errs[i] = one(item)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, 0, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return results, len(results), nil
}

func readPayload(stdin io.Reader, args []string) (any, error) {
	r := stdin
	if len(args) == 1 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("open payload: %w", err)
		}
		defer file.Close()
		r = file
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return v, nil
}

// encodeValue renders big integers as hex quantities or decimal strings.
func encodeValue(v any, bigNumbers string) any {
	switch t := v.(type) {
	case *big.Int:
		if bigNumbers == config.BigNumbersDecimal {
			return t.String()
		}
		return (*hexutil.Big)(t)
	case format.Record:
		return encodeValue(map[string]any(t), bigNumbers)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = encodeValue(val, bigNumbers)
		}
		return out
	case []format.Record:
		out := make([]any, 0, len(t))
		for _, val := range t {
			out = append(out, encodeValue(val, bigNumbers))
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			out = append(out, encodeValue(val, bigNumbers))
		}
		return out
	default:
		return v
	}
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func writeMetrics(m *metrics.Metrics, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer file.Close()
	return m.WriteText(file)
}
