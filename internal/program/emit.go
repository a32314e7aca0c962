package program

import (
	"context"
	"log/slog"

	"github.com/roach88/tradeledger/internal/ir"
)

// Emitter writes the program's human-readable trace lines. It is
// observability only: it returns nothing and never affects the call.
type Emitter struct {
	logger *slog.Logger
}

// NewEmitter returns an Emitter writing to logger, or to slog.Default()
// when logger is nil.
func NewEmitter(logger *slog.Logger) *Emitter {
	return &Emitter{logger: logger}
}

func (e *Emitter) log() *slog.Logger {
	if e == nil || e.logger == nil {
		return slog.Default()
	}
	return e.logger
}

// Instruction notes which handler the dispatcher selected.
func (e *Emitter) Instruction(tag ir.InstructionTag) {
	e.log().Debug("Instruction: " + tag.String())
}

// TradeRecorded is the single line emitted after a successful write.
func (e *Emitter) TradeRecorded(ctx context.Context, r ir.TradeRecord) {
	e.log().LogAttrs(ctx, slog.LevelInfo, "Trade recorded",
		slog.String("user_id", r.UserID.String()),
		slog.String("asset_symbol", r.AssetSymbol),
		slog.String("trade_type", r.TradeType.String()),
		slog.Uint64("quantity", r.Quantity),
		slog.Uint64("price", r.Price),
		slog.Int64("timestamp", r.Timestamp),
	)
}
