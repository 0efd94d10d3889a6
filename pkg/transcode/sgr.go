package transcode

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	sgrPattern = regexp.MustCompile(`^\x1b\[([0-9:;]*)m`)
	// strayPattern matches what is left of a non-SGR or truncated sequence.
	strayPattern = regexp.MustCompile(`^\x1b(?:\[[0-9:;<=>?]*[ -/]*[@-~]?)?`)
)

// sgrState is the graphic rendition in effect, reduced to the parameters the
// ansi parser understands.
type sgrState struct {
	fg, bg string
	attrs  [10]bool
}

func (st *sgrState) reset() { *st = sgrState{} }

// apply updates the state with the parameters of one SGR sequence. Unknown
// parameters are ignored.
func (st *sgrState) apply(params string) {
	if params == "" {
		st.reset()
		return
	}
	list := strings.Split(params, ";")
	for i := 0; i < len(list); i++ {
		p := list[i]
		if strings.Contains(p, ":") {
			st.applySub(strings.Split(p, ":"))
			continue
		}
		n := 0
		if p != "" {
			var err error
			if n, err = strconv.Atoi(p); err != nil {
				continue
			}
		}
		switch {
		case n == 0:
			st.reset()
		case n == 6:
			st.attrs[5] = true
		case n >= 1 && n <= 9:
			st.attrs[n] = true
		case n == 21:
			st.attrs[4] = true
		case n == 22:
			st.attrs[1], st.attrs[2] = false, false
		case n >= 23 && n <= 29 && n != 26:
			st.attrs[n-20] = false
		case n >= 30 && n <= 37, n >= 90 && n <= 97:
			st.fg = p
		case n >= 40 && n <= 47, n >= 100 && n <= 107:
			st.bg = p
		case n == 39:
			st.fg = ""
		case n == 49:
			st.bg = ""
		case n == 38 || n == 48 || n == 58:
			color, used := extendedColor(list[i+1:])
			i += used
			st.setExtended(n, color)
		}
	}
}

// applySub handles a colon separated parameter such as 4:3 or 38:2::r:g:b.
func (st *sgrState) applySub(parts []string) {
	switch parts[0] {
	case "4":
		st.attrs[4] = len(parts) < 2 || parts[1] != "0"
	case "38", "48", "58":
		sub := parts[1:]
		// 38:2:<colorspace>:r:g:b
		if len(sub) == 5 && sub[0] == "2" {
			sub = append([]string{"2"}, sub[2:]...)
		}
		color, _ := extendedColor(sub)
		n, _ := strconv.Atoi(parts[0])
		st.setExtended(n, color)
	}
}

func (st *sgrState) setExtended(code int, color string) {
	if color == "" {
		return
	}
	switch code {
	case 38:
		st.fg = "38;" + color
	case 48:
		st.bg = "48;" + color
	}
}

// extendedColor reads the arguments of an extended color (5;n or 2;r;g;b).
// It returns "" for a malformed color and the number of arguments consumed.
func extendedColor(args []string) (string, int) {
	if len(args) == 0 {
		return "", 0
	}
	switch args[0] {
	case "5":
		if len(args) < 2 {
			return "", len(args)
		}
		n, ok := byteValue(args[1])
		if !ok {
			return "", 2
		}
		return "5;" + strconv.Itoa(n), 2
	case "2":
		if len(args) < 4 {
			return "", len(args)
		}
		rgb := []string{"2"}
		for _, c := range args[1:4] {
			n, ok := byteValue(c)
			if !ok {
				return "", 4
			}
			rgb = append(rgb, strconv.Itoa(n))
		}
		return strings.Join(rgb, ";"), 4
	}
	return "", 1
}

func byteValue(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil && n >= 0 && n <= 255
}

// sequence renders the state as a single SGR sequence starting with a reset.
// Colors come before attributes so the parser never reads them as bold or
// faint variants.
func (st *sgrState) sequence() string {
	params := []string{"0"}
	if st.fg != "" {
		params = append(params, st.fg)
	}
	if st.bg != "" {
		params = append(params, st.bg)
	}
	for i, on := range st.attrs {
		if on {
			params = append(params, strconv.Itoa(i))
		}
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}

// normalizeSGR rewrites every SGR sequence of s into an equivalent one made of
// parameters the ansi parser accepts, and removes every other escape byte.
func normalizeSGR(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	var st sgrState
	for {
		i := strings.IndexByte(s, '\x1b')
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		s = s[i:]
		if m := sgrPattern.FindStringSubmatch(s); m != nil {
			st.apply(m[1])
			b.WriteString(st.sequence())
			s = s[len(m[0]):]
			continue
		}
		s = s[len(strayPattern.FindString(s)):]
	}
}
