package input

import (
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/consolehttp/pkg/output"
)

// Terminator ends option parsing; every later token is positional.
const Terminator = "--"

// Decoration flags understood by every session.
const (
	FlagANSI   = "--ansi"
	FlagNoANSI = "--no-ansi"
)

// Input is an immutable list of invocation tokens.
type Input struct {
	tokens []string
}

// New creates an Input from tokens, without the program name.
func New(tokens ...string) *Input {
	return &Input{tokens: slices.Clone(tokens)}
}

// Tokens returns a copy of the tokens in order.
func (in *Input) Tokens() []string {
	return slices.Clone(in.tokens)
}

// Args returns the positional tokens: those not starting with "-", plus every
// token after the terminator.
func (in *Input) Args() []string {
	var args []string
	for i, tok := range in.tokens {
		if tok == Terminator {
			return append(args, in.tokens[i+1:]...)
		}
		if !isOption(tok) {
			args = append(args, tok)
		}
	}
	return args
}

// Options returns the option tokens found before the terminator.
func (in *Input) Options() []string {
	var opts []string
	for _, tok := range in.params() {
		if isOption(tok) {
			opts = append(opts, tok)
		}
	}
	return opts
}

// HasParameterOption reports whether any of names is present as a token,
// either bare ("--ansi") or with a value ("--value=1"). With onlyParams set,
// tokens after the terminator are ignored.
func (in *Input) HasParameterOption(onlyParams bool, names ...string) bool {
	toks := in.tokens
	if onlyParams {
		toks = in.params()
	}
	for _, tok := range toks {
		for _, name := range names {
			if tok == name || strings.HasPrefix(tok, name+"=") {
				return true
			}
		}
	}
	return false
}

// ParameterOption returns the value of the first "name=value" token before the
// terminator. A bare "name" token yields "" and true.
func (in *Input) ParameterOption(name string) (string, bool) {
	for _, tok := range in.params() {
		if tok == name {
			return "", true
		}
		if v, ok := strings.CutPrefix(tok, name+"="); ok {
			return v, true
		}
	}
	return "", false
}

func (in *Input) String() string {
	return strings.Join(in.tokens, " ")
}

func (in *Input) params() []string {
	if i := slices.Index(in.tokens, Terminator); i >= 0 {
		return in.tokens[:i]
	}
	return in.tokens
}

func isOption(tok string) bool {
	return len(tok) > 1 && tok[0] == '-'
}

// ResolveDecoration decides whether a session renders styling. An explicit
// --ansi wins over --no-ansi; without either flag the sink capability decides.
func ResolveDecoration(in *Input, capable bool) bool {
	switch {
	case in.HasParameterOption(true, FlagANSI):
		return true
	case in.HasParameterOption(true, FlagNoANSI):
		return false
	}
	return capable
}

// ResolveVerbosity maps -q/--quiet and -v/-vv/-vvv/--verbose[=N] to a verbosity.
// Quiet wins over any verbose flag.
func ResolveVerbosity(in *Input) output.Verbosity {
	if in.HasParameterOption(true, "-q", "--quiet") {
		return output.VerbosityQuiet
	}
	switch {
	case in.HasParameterOption(true, "-vvv"):
		return output.VerbosityDebug
	case in.HasParameterOption(true, "-vv"):
		return output.VerbosityVeryVerbose
	case in.HasParameterOption(true, "-v"):
		return output.VerbosityVerbose
	}
	v, ok := in.ParameterOption("--verbose")
	if !ok {
		return output.VerbosityNormal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return output.VerbosityVerbose
	}
	return min(output.VerbosityNormal+output.Verbosity(n), output.VerbosityDebug)
}
