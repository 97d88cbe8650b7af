// Package console provides the interactive surfaces of the game: a
// full-screen terminal UI and a line-oriented prompt.
package console

import (
	"fmt"
	"strings"

	"github.com/andreiashu/citydistance"
)

// Column widths of the history table.
const (
	colCity   = 40
	colActual = 20
	colGuess  = 20
	colDelta  = 15
	colPctKey = 9
	colPct    = 8
)

// historyHeader is the title row of the history table.
var historyHeader = padRight("City", colCity) +
	padRight("Actual", colActual) +
	padRight("Guess", colGuess) +
	padRight("Δ (km)", colDelta) +
	padRight("%diff", colPctKey+colPct) +
	"Avg"

// historyRule underlines historyHeader.
var historyRule = strings.Repeat("-", colCity+colActual+colGuess+colDelta+colPctKey+colPct+12)

// row is one history line split around the coloured percent cell.
type row struct {
	lead string
	pct  string
	tail string
	tone citydistance.Tone
}

func (r row) String() string { return r.lead + r.pct + r.tail }

func formatRow(rec citydistance.GuessRecord, mean float64) row {
	return row{
		lead: padRight(fmt.Sprintf("[%d] %s", rec.Turn, rec.CityLabel), colCity) +
			padRight(fmt.Sprintf("Actual: %d km", rec.ActualKm), colActual) +
			padRight(fmt.Sprintf("Guess: %d km", rec.GuessKm), colGuess) +
			padRight(fmt.Sprintf("Δ: %d km", rec.AbsErrorKm), colDelta) +
			padRight("%diff: ", colPctKey),
		pct:  padRight(citydistance.Round2(rec.PercentError)+"%", colPct),
		tail: "Avg: " + citydistance.Round2(mean) + "%",
		tone: citydistance.ToneFor(rec.PercentError),
	}
}

func averageLine(mean float64) string {
	return "Average % difference: " + citydistance.Round2(mean) + "%"
}

// summaryLines renders the end-of-session statistics.
func summaryLines(sum citydistance.Summary) []string {
	return []string{
		fmt.Sprintf("Average %% difference: %s%% over %d guesses.", citydistance.Round2(sum.MeanPercentError), sum.Guesses),
		fmt.Sprintf("Average absolute difference: %s km.", citydistance.Round2(sum.MeanAbsErrorKm)),
		fmt.Sprintf("Best guess: %d km off or %s%% (%s).", sum.Best.AbsErrorKm, citydistance.Round2(sum.Best.PercentError), sum.Best.CityLabel),
		fmt.Sprintf("Worst guess: %d km off or %s%% (%s).", sum.Worst.AbsErrorKm, citydistance.Round2(sum.Worst.PercentError), sum.Worst.CityLabel),
	}
}

// padRight pads s with spaces to width runes. Longer strings are returned
// unchanged.
func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
