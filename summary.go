package citydistance

import (
	"github.com/shopspring/decimal"
)

// Summary holds the end-of-session statistics.
type Summary struct {
	Guesses          int
	MeanAbsErrorKm   float64
	MeanPercentError float64
	Best             GuessRecord // smallest absolute error, first on ties
	Worst            GuessRecord // largest absolute error, first on ties
}

// Summarize computes the statistics of history. It returns ErrNoGuesses for
// an empty history.
func Summarize(history []GuessRecord) (Summary, error) {
	if len(history) == 0 {
		return Summary{}, ErrNoGuesses
	}
	sum := Summary{
		Guesses: len(history),
		Best:    history[0],
		Worst:   history[0],
	}
	var totalAbs float64
	for _, r := range history {
		totalAbs += float64(r.AbsErrorKm)
		if r.AbsErrorKm < sum.Best.AbsErrorKm {
			sum.Best = r
		}
		if r.AbsErrorKm > sum.Worst.AbsErrorKm {
			sum.Worst = r
		}
	}
	sum.MeanAbsErrorKm = totalAbs / float64(len(history))
	sum.MeanPercentError = meanPercent(history)
	return sum, nil
}

func meanPercent(history []GuessRecord) float64 {
	var total float64
	for _, r := range history {
		total += r.PercentError
	}
	return total / float64(len(history))
}

// Round2 formats f rounded half away from zero to two decimal places, for
// display. Stored values keep full precision.
func Round2(f float64) string {
	return decimal.NewFromFloat(f).Round(2).StringFixed(2)
}

// Tone classifies a percent error for presentation.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneGood         // below 5%
	ToneBad          // above 15%
)

// ToneFor returns the tone of a percent error: good below 5, bad above 15.
func ToneFor(percent float64) Tone {
	switch {
	case percent < 5:
		return ToneGood
	case percent > 15:
		return ToneBad
	}
	return ToneNeutral
}
