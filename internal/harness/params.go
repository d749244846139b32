package harness

import "strconv"

// Params are the two knobs every suite accepts on its command line.
type Params struct {
	Iterations int
	Init       float64
}

// ParseArgs overlays the optional positional arguments onto defaults:
// args[0] is the iteration count and args[1] the fill value.
// Malformed or non-positive iteration counts keep the default.
func ParseArgs(args []string, defaults Params) Params {
	p := defaults
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			p.Iterations = n
		}
	}
	if len(args) > 1 {
		if v, err := strconv.ParseFloat(args[1], 64); err == nil {
			p.Init = v
		}
	}
	return p
}
