package main

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"nickandperla.net/pocketcalc/internal/keymap"
	"nickandperla.net/pocketcalc/pkg/calc"
)

// keypad mirrors a pocket calculator's button grid.
var keypad = [][]string{
	{"C", "⌫", "±", "/"},
	{"7", "8", "9", "*"},
	{"4", "5", "6", "-"},
	{"1", "2", "3", "+"},
	{"%", "0", ",", "^"},
	{"(", ")", "="},
}

// Keypad geometry in cells.
const (
	displayWidth = 4*buttonWidth - 1
	keypadTop    = 5
	buttonWidth  = 6
	buttonHeight = 2
)

var (
	styleDisplay = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen).Background(tcell.ColorBlack).Bold(true)
	styleButton  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Reverse(true)
	styleNotice  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHint    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// buttonAt returns the keypad label under screen cell (x, y).
func buttonAt(x, y int) (string, bool) {
	if x < 0 || y < keypadTop {
		return "", false
	}
	dy := y - keypadTop
	if dy%buttonHeight != 0 {
		return "", false
	}
	row, col := dy/buttonHeight, x/buttonWidth
	if x%buttonWidth == buttonWidth-1 || row >= len(keypad) || col >= len(keypad[row]) {
		return "", false
	}
	return keypad[row][col], true
}

// buttonKey maps a keypad label to the key it sends.
func buttonKey(label string) keymap.Key {
	switch label {
	case "C":
		return keymap.Key{Code: keymap.KeyDelete}
	case "⌫":
		return keymap.Key{Code: keymap.KeyBackspace}
	case "=":
		return keymap.Key{Code: keymap.KeyEnter}
	}
	return keymap.Rune([]rune(label)[0])
}

// keyFromEvent converts a tcell key event. quit is set for Ctrl+C/Ctrl+Q.
func keyFromEvent(ev *tcell.EventKey) (key keymap.Key, quit bool) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ, tcell.KeyCtrlD:
		return keymap.Key{}, true
	case tcell.KeyEnter:
		return keymap.Key{Code: keymap.KeyEnter}, false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return keymap.Key{Code: keymap.KeyBackspace}, false
	case tcell.KeyDelete:
		return keymap.Key{Code: keymap.KeyDelete}, false
	case tcell.KeyEscape:
		return keymap.Key{Code: keymap.KeyEscape}, false
	case tcell.KeyRune:
		return keymap.Rune(ev.Rune()), false
	}
	return keymap.Key{Code: keymap.Code(-1)}, false
}

// clickTracker reports primary-button presses. tcell keeps sending mouse
// events with Button1 set while it is held, so only the transition from
// released to pressed counts as a click.
type clickTracker struct {
	held bool
}

func (c *clickTracker) pressed(buttons tcell.ButtonMask) bool {
	down := buttons&tcell.Button1 != 0
	pressed := down && !c.held
	c.held = down
	return pressed
}

func runTUI(ctx context.Context, opts []calc.Option) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	var notice string
	session, err := calc.New(append(opts, calc.WithNotifier(calc.NotifierFunc(func(n calc.Notice) {
		notice = n.Title + ": " + n.Message
	})))...)
	if err != nil {
		return err
	}
	defer session.Close()

	var clicks clickTracker
	for {
		draw(screen, session.Display(), notice)

		var key keymap.Key
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
			continue
		case *tcell.EventKey:
			var quit bool
			key, quit = keyFromEvent(ev)
			if quit {
				return nil
			}
		case *tcell.EventMouse:
			if !clicks.pressed(ev.Buttons()) {
				continue
			}
			label, ok := buttonAt(ev.Position())
			if !ok {
				continue
			}
			key = buttonKey(label)
		default:
			continue
		}

		notice = ""
		if err := session.Press(ctx, key); err != nil && !calc.IsUserError(err) {
			return err
		}
	}
}

func draw(screen tcell.Screen, display, notice string) {
	screen.Clear()

	// Display box, right-aligned like a calculator
	for y := 0; y < 3; y++ {
		for x := 0; x < displayWidth; x++ {
			screen.SetContent(x, y, ' ', nil, styleDisplay)
		}
	}
	runes := []rune(display)
	if len(runes) > displayWidth-2 {
		runes = runes[len(runes)-(displayWidth-2):]
	}
	drawText(screen, displayWidth-1-len(runes), 1, string(runes), styleDisplay)

	drawText(screen, 0, 3, notice, styleNotice)

	for row, labels := range keypad {
		for col, label := range labels {
			x, y := col*buttonWidth, keypadTop+row*buttonHeight
			for dx := 0; dx < buttonWidth-1; dx++ {
				screen.SetContent(x+dx, y, ' ', nil, styleButton)
			}
			drawText(screen, x+(buttonWidth-1)/2, y, label, styleButton)
		}
	}

	drawText(screen, 0, keypadTop+len(keypad)*buttonHeight, "Ctrl+Q to quit", styleHint)
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
