package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/andreiashu/citydistance"
)

var (
	styleDefault = tcell.StyleDefault
	styleHeader  = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleBold    = styleDefault.Bold(true)
	styleGood    = styleDefault.Foreground(tcell.ColorGreen)
	styleBad     = styleDefault.Foreground(tcell.ColorRed)
	styleError   = styleDefault.Foreground(tcell.ColorYellow)
	styleHint    = styleDefault.Foreground(tcell.ColorGray)
	styleInput   = styleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleMap     = styleDefault.Foreground(tcell.ColorSilver)
	styleMarker  = styleDefault.Foreground(tcell.ColorLime).Bold(true)
)

// segment is a run of text drawn in one style.
type segment struct {
	text  string
	style tcell.Style
}

// logLine is one line of the history pane.
type logLine []segment

func (l logLine) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.text)
	}
	return b.String()
}

// UI runs a session on a tcell screen.
type UI struct {
	screen  tcell.Screen
	session *citydistance.Session

	input   []rune
	log     []logLine
	mapView *citydistance.MapArtifact
	summary []string
	ended   bool
	done    bool
}

// NewUI returns a UI drawing on screen, which must already be initialised.
func NewUI(screen tcell.Screen, session *citydistance.Session) *UI {
	return &UI{screen: screen, session: session}
}

// Run processes key events until the player leaves the summary screen or ctx
// is done.
func (u *UI) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		u.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	u.Render()
	for !u.done {
		ev := u.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ctx.Err() != nil {
			u.finish()
			return ctx.Err()
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventKey:
			u.HandleKey(ctx, ev)
		}
		u.Render()
	}
	return nil
}

// Done reports whether the player has left the summary screen.
func (u *UI) Done() bool { return u.done }

// HandleKey applies one key press.
func (u *UI) HandleKey(ctx context.Context, ev *tcell.EventKey) {
	switch {
	case u.ended:
		u.done = true
		return
	case u.mapView != nil:
		u.mapView = nil
		return
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		u.finish()
	case tcell.KeyEnter:
		text := strings.TrimSpace(string(u.input))
		u.input = u.input[:0]
		u.execute(ctx, text)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(u.input) > 0 {
			u.input = u.input[:len(u.input)-1]
		}
	case tcell.KeyRune:
		u.input = append(u.input, ev.Rune())
	}
}

// execute handles a submitted line: a map command or a guess.
func (u *UI) execute(ctx context.Context, text string) {
	if fields := strings.Fields(text); len(fields) > 0 && strings.EqualFold(fields[0], "map") {
		u.showMap(fields[1:])
		return
	}

	if _, ok := u.session.Current(); !ok && !strings.EqualFold(text, u.session.Keyword()) {
		if _, err := u.session.Advance(ctx); err != nil {
			u.errorLine(fmt.Sprintf("No usable city found: %v", err))
		}
		return
	}

	res, err := u.session.Submit(ctx, text)
	var advanceErr error
	switch {
	case errors.Is(err, citydistance.ErrInvalidGuess):
		u.errorLine("Invalid input. Please enter a number.")
		return
	case errors.Is(err, citydistance.ErrDistanceFailure):
		u.errorLine(fmt.Sprintf("Error computing distance: %v", err))
		return
	case errors.Is(err, citydistance.ErrNoUsableCandidate):
		advanceErr = err
	case err != nil:
		u.errorLine(err.Error())
		return
	}
	if res.Ended {
		u.finish()
		return
	}

	r := formatRow(res.Record, res.RunningMean)
	pctStyle := styleDefault
	switch r.tone {
	case citydistance.ToneGood:
		pctStyle = styleGood
	case citydistance.ToneBad:
		pctStyle = styleBad
	}
	u.log = append(u.log, logLine{
		{text: r.lead, style: styleBold},
		{text: r.pct, style: pctStyle},
		{text: r.tail, style: styleBold},
	})
	if advanceErr != nil {
		u.errorLine(fmt.Sprintf("No usable city found: %v", advanceErr))
	}
}

func (u *UI) showMap(args []string) {
	history := u.session.History()
	if len(history) == 0 {
		u.errorLine("No guesses to map yet.")
		return
	}
	turn := len(history)
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			u.errorLine(fmt.Sprintf("Usage: map [turn], turn between 1 and %d.", len(history)))
			return
		}
		turn = n
	}
	art, err := u.session.Map(turn)
	if err != nil {
		u.errorLine(err.Error())
		return
	}
	u.mapView = &art
}

// finish ends the session and prepares the summary screen.
func (u *UI) finish() {
	if u.ended {
		return
	}
	u.ended = true
	sum, err := u.session.End()
	if err != nil {
		u.summary = []string{"No guesses were made."}
		return
	}
	u.summary = summaryLines(sum)
}

func (u *UI) errorLine(msg string) {
	u.log = append(u.log, logLine{{text: msg, style: styleError}})
}

// Render draws the whole screen.
func (u *UI) Render() {
	s := u.screen
	s.Clear()
	_, h := s.Size()

	if u.ended {
		drawText(s, 1, 1, "Game Over", styleHeader)
		for i, line := range u.summary {
			drawText(s, 1, 3+i, line, styleDefault)
		}
		drawText(s, 1, 4+len(u.summary), "Press any key to exit.", styleHint)
		s.Show()
		return
	}

	city := "???"
	if c, ok := u.session.Current(); ok {
		city = c.Label
	}
	drawText(s, 1, 0, "City: "+city, styleHeader)
	drawText(s, 1, 1, averageLine(u.session.RunningMeanPercent()), styleDefault)
	drawText(s, 1, 2, "> "+string(u.input), styleInput)
	drawText(s, 1, 3, fmt.Sprintf("Enter: submit guess   Esc or '%s': quit   map [turn]: show map", u.session.Keyword()), styleHint)

	if u.mapView != nil {
		drawText(s, 1, 5, "Map: "+u.mapView.Label+"   (R reference, X city, any key closes)", styleHeader)
		for i, line := range u.mapView.Rows {
			y := 6 + i
			if y >= h {
				break
			}
			for x, r := range []rune(line) {
				st := styleMap
				if r == 'R' || r == 'X' {
					st = styleMarker
				}
				s.SetContent(1+x, y, r, nil, st)
			}
		}
		s.Show()
		return
	}

	drawText(s, 1, 5, "Guess History", styleHeader)
	drawText(s, 1, 6, historyHeader, styleBold)
	drawText(s, 1, 7, historyRule, styleBold)

	visible := max(h-8, 0)
	start := 0
	if visible < len(u.log) {
		start = len(u.log) - visible
	}
	for i, line := range u.log[start:] {
		x := 1
		for _, seg := range line {
			x = drawText(s, x, 8+i, seg.text, seg.style)
		}
	}
	s.Show()
}

// drawText writes text at (x, y) and returns the column after it.
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
