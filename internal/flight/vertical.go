package flight

import "fmt"

// VerticalCommand is the climb instruction derived from the altitude error.
type VerticalCommand int

const (
	Hover VerticalCommand = iota
	Climb
	Descend
)

// CommandFor maps a signum value onto a vertical command. Zero of either sign
// and NaN both mean hover.
func CommandFor(direction float64) VerticalCommand {
	switch {
	case direction > 0:
		return Climb
	case direction < 0:
		return Descend
	default:
		return Hover
	}
}

func (c VerticalCommand) String() string {
	switch c {
	case Climb:
		return "climb"
	case Descend:
		return "descend"
	default:
		return "hover"
	}
}

// ParseVerticalCommand is the inverse of String.
func ParseVerticalCommand(s string) (VerticalCommand, error) {
	switch s {
	case "climb":
		return Climb, nil
	case "descend":
		return Descend, nil
	case "hover":
		return Hover, nil
	}
	return Hover, fmt.Errorf("unknown vertical command '%s'", s)
}

func (c VerticalCommand) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *VerticalCommand) UnmarshalText(p []byte) error {
	v, err := ParseVerticalCommand(string(p))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
