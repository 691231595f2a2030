package alerting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kalimati-price-tracker/internal/storage"
)

// Notification carries one alert: the fluctuated records of a single date
// addressed to a single recipient.
type Notification struct {
	Recipient string
	Date      time.Time
	Records   []storage.PriceRecord
}

// Notifier delivers alert notifications.
type Notifier interface {
	Notify(ctx context.Context, note Notification) error
}

func renderSubject(note Notification) string {
	return fmt.Sprintf("Kalimati Price Fluctuation Alert - %s", note.Date.Format(storage.DateFormat))
}

// renderLines produces one "commodity: Rs. avg (signed pct%)" line per record.
func renderLines(records []storage.PriceRecord) []string {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		sign := ""
		if rec.FluctuationPercentage.IsPositive() {
			sign = "+"
		}
		lines = append(lines, fmt.Sprintf("%s: Rs. %s (%s%s%%)",
			rec.Commodity,
			rec.Average.StringFixed(2),
			sign,
			rec.FluctuationPercentage.StringFixed(2),
		))
	}
	return lines
}

func renderText(note Notification) string {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("Significant price movement on %s:\n\n", note.Date.Format(storage.DateFormat)))
	for _, line := range renderLines(note.Records) {
		builder.WriteString("- ")
		builder.WriteString(line)
		builder.WriteString("\n")
	}
	return builder.String()
}

func renderHTML(note Notification) string {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("<h2>Your watched commodities had significant price fluctuation - %s</h2>\n<ul>\n", note.Date.Format(storage.DateFormat)))
	for _, rec := range note.Records {
		sign := ""
		if rec.FluctuationPercentage.IsPositive() {
			sign = "+"
		}
		builder.WriteString(fmt.Sprintf("<li><strong>%s</strong>: Rs. %s (%s%s%%)</li>\n",
			rec.Commodity,
			rec.Average.StringFixed(2),
			sign,
			rec.FluctuationPercentage.StringFixed(2),
		))
	}
	builder.WriteString("</ul>\n")
	return builder.String()
}
