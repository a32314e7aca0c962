package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tradeledger/internal/ir"
)

var (
	errEmptySymbol  = errors.New("asset symbol must not be empty")
	errZeroQuantity = errors.New("quantity must be greater than zero")
	errZeroPrice    = errors.New("price must be greater than zero")
)

// tradeFlags are the instruction fields shared by record and encode.
// Quantity and price are human decimals; they are scaled on the way in.
type tradeFlags struct {
	User      string
	Symbol    string
	Side      string
	Quantity  string
	Price     string
	Timestamp int64
	Strict    bool

	cmd *cobra.Command
}

func (f *tradeFlags) register(cmd *cobra.Command) {
	f.cmd = cmd
	cmd.Flags().StringVar(&f.User, "user", "", "user id (UUID)")
	cmd.Flags().StringVar(&f.Symbol, "symbol", "", "asset symbol, e.g. BTC")
	cmd.Flags().StringVar(&f.Side, "side", "", "buy or sell")
	cmd.Flags().StringVar(&f.Quantity, "quantity", "", "quantity in units, up to 8 decimal places")
	cmd.Flags().StringVar(&f.Price, "price", "", "price, up to 2 decimal places")
	cmd.Flags().Int64Var(&f.Timestamp, "timestamp", 0, "unix seconds (default now)")
	cmd.Flags().BoolVar(&f.Strict, "strict", false, "reject empty symbols and zero amounts")

	for _, name := range []string{"user", "symbol", "side", "quantity", "price"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

// instruction builds the RecordTrade the flags describe. now supplies the
// timestamp when --timestamp was not given.
func (f *tradeFlags) instruction(now func() time.Time) (ir.RecordTrade, error) {
	userID, err := uuid.Parse(f.User)
	if err != nil {
		return ir.RecordTrade{}, fmt.Errorf("user: %w", err)
	}
	side, err := ir.ParseTradeType(f.Side)
	if err != nil {
		return ir.RecordTrade{}, err
	}
	quantity, err := parseAmount(f.Quantity, ir.ScaleQuantity)
	if err != nil {
		return ir.RecordTrade{}, err
	}
	price, err := parseAmount(f.Price, ir.ScalePrice)
	if err != nil {
		return ir.RecordTrade{}, err
	}

	ts := f.Timestamp
	if f.cmd == nil || !f.cmd.Flags().Changed("timestamp") {
		ts = now().Unix()
	}

	ins := ir.RecordTrade{
		UserID:      userID,
		AssetSymbol: normalizeSymbol(f.Symbol),
		TradeType:   side,
		Quantity:    quantity,
		Price:       price,
		Timestamp:   ts,
	}
	if f.Strict {
		if err := checkStrict(ins); err != nil {
			return ir.RecordTrade{}, err
		}
	}
	return ins, nil
}

func parseAmount(s string, scale func(decimal.Decimal) (uint64, error)) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return scale(d)
}

// normalizeSymbol trims, NFC-normalizes and upper-cases a symbol so "btc"
// and "BTC" land as the same bytes.
func normalizeSymbol(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return cases.Upper(language.Und).String(s)
}

func checkStrict(ins ir.RecordTrade) error {
	var errs []error
	if ins.AssetSymbol == "" {
		errs = append(errs, errEmptySymbol)
	}
	if ins.Quantity == 0 {
		errs = append(errs, errZeroQuantity)
	}
	if ins.Price == 0 {
		errs = append(errs, errZeroPrice)
	}
	return errors.Join(errs...)
}

// tradeView is the human-facing rendering of a record: amounts unscaled.
type tradeView struct {
	UserID      string `json:"user_id"`
	AssetSymbol string `json:"asset_symbol"`
	TradeType   string `json:"trade_type"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	Timestamp   int64  `json:"timestamp"`
	Time        string `json:"time"`
}

func newTradeView(r ir.TradeRecord) tradeView {
	return tradeView{
		UserID:      r.UserID.String(),
		AssetSymbol: r.AssetSymbol,
		TradeType:   r.TradeType.String(),
		Quantity:    r.QuantityDecimal().String(),
		Price:       r.PriceDecimal().StringFixed(ir.PriceScale),
		Timestamp:   r.Timestamp,
		Time:        time.Unix(r.Timestamp, 0).UTC().Format(time.RFC3339),
	}
}

func (v tradeView) renderText(w io.Writer) {
	fmt.Fprintf(w, "  user:      %s\n", v.UserID)
	fmt.Fprintf(w, "  symbol:    %s\n", v.AssetSymbol)
	fmt.Fprintf(w, "  side:      %s\n", v.TradeType)
	fmt.Fprintf(w, "  quantity:  %s\n", v.Quantity)
	fmt.Fprintf(w, "  price:     %s\n", v.Price)
	fmt.Fprintf(w, "  timestamp: %d (%s)\n", v.Timestamp, v.Time)
}
