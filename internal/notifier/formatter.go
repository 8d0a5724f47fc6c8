package notifier

import (
	"fmt"
	"strings"

	"StockScout/internal/model"
)

// FormatRegime announces the market regime gating the run.
func FormatRegime(r model.Regime) string {
	return fmt.Sprintf("📊 Market Regime: <b>%s</b>", r)
}

// FormatBearishNotice is sent when a bearish regime short-circuits the run.
func FormatBearishNotice() string {
	return "🚫 Market is bearish. No trades today."
}

// FormatDecision renders one entry alert with its size and levels.
func FormatDecision(d *model.DecisionRecord) string {
	icon := "📥"
	if d.Signal == model.SignalBreakout {
		icon = "🚀"
	}
	return fmt.Sprintf("%s %s in <b>%s</b>: Buy %d @ ₹%.2f, SL ₹%.2f, Target ₹%.2f",
		icon, d.Signal, d.Symbol, d.Quantity, d.EntryPrice, d.StopPrice, d.TargetPrice)
}

// FormatRunSummary renders the end-of-run summary. The stage counts are the
// only place silently dropped symbols become visible.
func FormatRunSummary(r *model.RunReport) string {
	var b strings.Builder

	if len(r.Decisions) > 0 {
		symbols := make([]string, len(r.Decisions))
		for i, d := range r.Decisions {
			symbols[i] = d.Symbol
		}
		b.WriteString(fmt.Sprintf("✅ Stocks passing the screens: %s\n", strings.Join(symbols, ", ")))
	} else {
		b.WriteString("📭 No stocks passed the screens today.\n")
	}

	c := r.Counts
	b.WriteString("\n<b>Stage counts</b>\n")
	b.WriteString(fmt.Sprintf("Universe: %d | Sector excluded: %d | Data errors: %d\n",
		c.Universe, c.SectorExcluded, c.DataErrors))
	b.WriteString(fmt.Sprintf("Fundamentals: %d | Technicals: %d | Signals: %d",
		c.FundamentalPassed, c.TechnicalPassed, c.Signals))
	return b.String()
}

// FormatRunFailure reports a fatal acquisition error to the chat.
func FormatRunFailure(err error) string {
	return fmt.Sprintf("❌ Screening run failed: %v", err)
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"/run - trigger a screening run now\n" +
		"/status - last run summary\n" +
		"/help - this message"
}
