package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/andreiashu/citydistance"
)

// Line runs a session as a question-and-answer prompt on a text stream.
type Line struct {
	session *citydistance.Session
	in      *bufio.Scanner
	out     io.Writer
	pause   time.Duration
}

// NewLine returns a prompt reading guesses from in and writing to out. pause
// is a cosmetic delay between showing a city and prompting for it.
func NewLine(session *citydistance.Session, in io.Reader, out io.Writer, pause time.Duration) *Line {
	return &Line{
		session: session,
		in:      bufio.NewScanner(in),
		out:     out,
		pause:   pause,
	}
}

// Run plays until the keyword is entered, the input ends or ctx is done,
// then prints the summary.
func (l *Line) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		city, ok := l.session.Current()
		if !ok {
			if _, err := l.session.Advance(ctx); err != nil {
				fmt.Fprintf(l.out, "Could not find a usable city (%v).\n", err)
			}
			city, ok = l.session.Current()
		}
		if ok {
			fmt.Fprintf(l.out, "\nGuess the distance to: %s\n", city.Label)
			if err := sleep(ctx, l.pause); err != nil {
				break
			}
		}

		fmt.Fprintf(l.out, "Enter distance in km (or type '%s' to stop): ", l.session.Keyword())
		if !l.in.Scan() {
			fmt.Fprintln(l.out)
			break
		}

		res, err := l.session.Submit(ctx, l.in.Text())
		switch {
		case errors.Is(err, citydistance.ErrInvalidGuess):
			fmt.Fprintf(l.out, "Invalid input. Please enter a number or '%s'.\n", l.session.Keyword())
			continue
		case errors.Is(err, citydistance.ErrDistanceFailure):
			fmt.Fprintf(l.out, "Distance calculation failed: %v\n", err)
			continue
		case errors.Is(err, citydistance.ErrNoCurrentCity):
			continue
		case err != nil && !errors.Is(err, citydistance.ErrNoUsableCandidate):
			return err
		}
		if res.Ended {
			break
		}

		rec := res.Record
		fmt.Fprintf(l.out, "The correct distance is %d km.\n", rec.ActualKm)
		fmt.Fprintf(l.out, "Your guess was off by %d km or %s%%.\n", rec.AbsErrorKm, citydistance.Round2(rec.PercentError))
		fmt.Fprintf(l.out, "Your average percentage difference is %s%%.\n", citydistance.Round2(res.RunningMean))
		if err != nil {
			fmt.Fprintf(l.out, "Could not find a usable city (%v).\n", err)
		}
	}

	fmt.Fprintln(l.out, "Game over. Thanks for playing!")
	sum, err := l.session.End()
	if errors.Is(err, citydistance.ErrNoGuesses) {
		fmt.Fprintln(l.out, "No guesses were made.")
		return nil
	}
	if err != nil {
		return err
	}
	for _, s := range summaryLines(sum) {
		fmt.Fprintln(l.out, s)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
