package input

// Terminal mouse reporting: any-motion tracking with SGR extended coordinates.
const (
	MouseEnable  = "\x1b[?1003h\x1b[?1006h"
	MouseDisable = "\x1b[?1006l\x1b[?1003l"
)

// Cell is a zero-based terminal cell position.
type Cell struct {
	X, Y int
}

type mouseButton int

const (
	buttonLeft mouseButton = iota
	buttonMiddle
	buttonRight
	buttonNone
)

// mouseEvent is one decoded SGR report.
type mouseEvent struct {
	cell    Cell
	button  mouseButton
	motion  bool
	scroll  bool
	release bool
}

// parseSGRMouse decodes ESC [ < Btn ; X ; Y M/m at the start of data.
// It returns the bytes consumed, or 0 with incomplete set if data ends
// before the terminator. A malformed sequence returns 0 and false.
func parseSGRMouse(data []byte) (n int, ev mouseEvent, incomplete bool) {
	if len(data) < 3 || data[0] != '\x1b' || data[1] != '[' || data[2] != '<' {
		return 0, mouseEvent{}, false
	}

	end := 3
	for end < len(data) && end < 32 {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
		end++
	}
	if end >= len(data) {
		return 0, mouseEvent{}, end < 32
	}
	if data[end] != 'M' && data[end] != 'm' {
		return 0, mouseEvent{}, false
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return 0, mouseEvent{}, false
	}

	// Bits 0-1: button, bit 5: motion, bit 6: scroll
	ev = mouseEvent{
		cell:    Cell{X: x - 1, Y: y - 1},
		button:  mouseButton(btn & 0x03),
		motion:  btn&32 != 0,
		scroll:  btn&64 != 0,
		release: data[end] == 'm',
	}
	return end + 1, ev, false
}

// parseSGRParams extracts btn, x, y from "Btn;X;Y" format
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	state := 0 // 0=btn, 1=x, 2=y
	val := 0

	for _, b := range data {
		switch {
		case b == ';':
			switch state {
			case 0:
				btn = val
			case 1:
				x = val
			}
			state++
			val = 0
			if state > 2 {
				return 0, 0, 0, false
			}
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			if val > 9999 {
				return 0, 0, 0, false
			}
		default:
			return 0, 0, 0, false
		}
	}

	if state != 2 {
		return 0, 0, 0, false
	}
	return btn, x, val, true
}
