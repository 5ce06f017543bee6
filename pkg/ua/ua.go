package ua

import (
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"nickandperla.net/ua/internal/eval"
	"nickandperla.net/ua/internal/format"
	"nickandperla.net/ua/internal/store"
	"nickandperla.net/ua/internal/value"
)

// Value is a ua array value.
type Value = value.Value

// Mode selects which lines of a file execute.
type Mode = eval.Mode

const (
	ModeNormal = eval.ModeNormal
	ModeTest   = eval.ModeTest
	ModeAll    = eval.ModeAll
)

// ParseMode maps a mode name ("normal", "test", "all") to its Mode.
func ParseMode(s string) (Mode, error) { return eval.ParseMode(s) }

// Runtime is one ua interpreter session: a stack, bindings, an import
// cache, and optional history. Sessions are independent.
type Runtime struct {
	evaluator *eval.Evaluator
	history   store.Store
	fmtCfg    format.Config

	mode Mode
	dir  string
	out  io.Writer
	seed *int64
	log  commonlog.Logger
}

// New creates a ua runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		mode: ModeNormal,
		dir:  ".",
	}
	for _, opt := range opts {
		opt(r)
	}

	cfg, err := format.LoadConfig(r.dir)
	if err != nil {
		cfg = format.DefaultConfig()
	}
	r.fmtCfg = cfg

	evalOpts := []eval.Option{
		eval.WithMode(r.mode),
		eval.WithDir(r.dir),
	}
	if r.out != nil {
		evalOpts = append(evalOpts, eval.WithOutput(r.out))
	}
	if r.seed != nil {
		evalOpts = append(evalOpts, eval.WithRandSeed(*r.seed))
	}
	if r.log != nil {
		evalOpts = append(evalOpts, eval.WithLogger(r.log))
	}
	r.evaluator = eval.New(evalOpts...)
	return r
}

// Format canonicalizes source text. It is idempotent.
func (r *Runtime) Format(source string) (string, error) {
	return format.FormatWith(source, r.fmtCfg)
}

// Run formats and evaluates source against the session stack. The
// formatted source is recorded in history along with the values the
// run left on the stack.
func (r *Runtime) Run(source string) error {
	formatted, err := r.Format(source)
	if err != nil {
		return err
	}
	if err := r.evaluator.Run(formatted); err != nil {
		return err
	}
	if r.history != nil {
		r.history.Append(strings.TrimRight(formatted, "\n"), showAll(r.evaluator.Stack()))
	}
	return nil
}

// RunFile formats and evaluates the file at path.
func (r *Runtime) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.Run(string(src))
}

// FormatFile rewrites the file at path in place to canonical form.
func (r *Runtime) FormatFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	formatted, err := r.Format(string(src))
	if err != nil {
		return err
	}
	if formatted == string(src) {
		return nil
	}
	return os.WriteFile(path, []byte(formatted), 0o644)
}

// Import loads a file with once-only execution semantics and returns
// the values it pushed. Repeated imports of the same path replay the
// recorded values without re-running the file.
func (r *Runtime) Import(path string) ([]Value, error) {
	depth := len(r.evaluator.Stack())
	if err := r.evaluator.Run("import " + quote(path)); err != nil {
		return nil, err
	}
	stack := r.evaluator.Stack()
	if len(stack) < depth {
		depth = len(stack)
	}
	return stack[depth:], nil
}

// Stack returns a copy of the session stack, bottom first.
func (r *Runtime) Stack() []Value {
	return r.evaluator.Stack()
}

// TakeStack returns the session stack and empties it.
func (r *Runtime) TakeStack() []Value {
	return r.evaluator.TakeStack()
}

// History returns up to limit recorded lines, newest first, or nil if
// the session keeps no history.
func (r *Runtime) History(limit int) ([]store.Entry, error) {
	if r.history == nil {
		return nil, nil
	}
	return r.history.Recent(limit)
}

// Record appends a line and its result to history, if any.
func (r *Runtime) Record(source, result string) {
	if r.history != nil {
		r.history.Append(source, result)
	}
}

// Close releases the session's resources.
func (r *Runtime) Close() error {
	if r.history != nil {
		return r.history.Close()
	}
	return nil
}

func showAll(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.Show()
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range s {
		if c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}
	sb.WriteByte('"')
	return sb.String()
}
