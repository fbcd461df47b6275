package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"SetupSentinel/internal/model"
)

var categoryHeadline = map[model.Category]string{
	model.CategoryStrongBuy: "🚀 <b>Strong Buy</b>",
	model.CategoryBuy:       "🔥 <b>Buy setup</b>",
	model.CategorySell:      "⚠️ <b>Sell setup</b>",
	model.CategoryNone:      "➖ <b>No signal</b>",
}

// FormatPrice renders a price in the conventions of its currency class.
func FormatPrice(price float64, currency model.CurrencyClass) string {
	switch currency {
	case model.KRW:
		return "₩" + humanize.FormatFloat("#,###.", price)
	case model.JPY:
		return "¥" + humanize.FormatFloat("#,###.", price)
	default:
		return "$" + humanize.FormatFloat("#,###.##", price)
	}
}

// FormatChange returns the signed percent change from prev to cur.
func FormatChange(cur, prev float64) string {
	if prev == 0 {
		return "n/a"
	}
	c := decimal.NewFromFloat(cur)
	p := decimal.NewFromFloat(prev)
	pct := c.Sub(p).Div(p).Mul(decimal.NewFromInt(100)).Round(2)
	sign := ""
	if pct.IsPositive() {
		sign = "+"
	}
	return sign + pct.StringFixed(2) + "%"
}

// FormatAlert formats an alert decision into a Telegram HTML message.
func FormatAlert(d *model.AlertDecision) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s | %s\n\n", categoryHeadline[d.Category], d.Date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("%s (%s)\n", html.EscapeString(d.Instrument.Name), html.EscapeString(d.Instrument.Symbol)))
	b.WriteString(fmt.Sprintf("Price: %s (%s)\n", FormatPrice(d.Price, d.Instrument.Currency), FormatChange(d.Price, d.PrevClose)))
	b.WriteString(fmt.Sprintf("Buy setup: %d | Sell setup: %d (threshold %d)\n",
		d.Setup.BuyCount, d.Setup.SellCount, d.ThresholdUsed))

	if d.Trend != nil {
		b.WriteString(fmt.Sprintf("Trend: %s vs %s | MACD: %s\n",
			strings.ToLower(string(d.Trend.Direction)), strings.ToUpper(string(d.Trend.Boundary)),
			strings.ToLower(string(d.Trend.MACDBias))))
	} else {
		b.WriteString("Trend: unavailable (insufficient history)\n")
	}

	switch d.Category {
	case model.CategoryStrongBuy:
		b.WriteString("\nBuy exhaustion inside an uptrend: rebound likely.")
	case model.CategoryBuy:
		b.WriteString("\nBuy exhaustion: rebound possible.")
	case model.CategorySell:
		b.WriteString("\nSell exhaustion: pullback possible.")
	}
	return b.String()
}

// FormatRunSummary formats a run summary for a command reply.
func FormatRunSummary(s *model.RunSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>Run summary</b> | %s\n\n", s.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Processed: %d\n", s.Processed))
	b.WriteString(fmt.Sprintf("Skipped: %d\n", s.Skipped))
	b.WriteString(fmt.Sprintf("Alerts: %d\n", s.Alerts))
	for _, f := range s.Failures {
		b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(f)))
	}
	b.WriteString(fmt.Sprintf("Duration: %s", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond)))
	return b.String()
}

// FormatInstruments lists the configured instruments.
func FormatInstruments(insts []model.Instrument) string {
	var b strings.Builder
	b.WriteString("📈 <b>Instruments</b>\n\n")
	for _, inst := range insts {
		b.WriteString(fmt.Sprintf("%s (%s) %s, threshold %d\n",
			html.EscapeString(inst.Name), html.EscapeString(inst.Symbol), inst.Currency, inst.Threshold))
	}
	return b.String()
}
