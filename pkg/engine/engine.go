// Package engine provides the Lisp front-end for kerf.
// It wraps zygomys in a sandboxed environment and turns user source code
// into named parts built by a geometry kernel.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/brep"
	"github.com/chazu/kerf/pkg/logging"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Design is the output of an evaluation: the parts in definition order and
// the kernel that built them. Meshing and validating the parts has to go
// through the same kernel.
type Design struct {
	Kernel kernel.Kernel
	Parts  []kernel.Part
}

// Part returns the part with the given name.
func (d *Design) Part(name string) (kernel.Part, bool) {
	for _, p := range d.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return kernel.Part{}, false
}

// Options configures an Engine.
type Options struct {
	// NewKernel creates the kernel for one evaluation. Defaults to a B-rep
	// kernel with default options.
	NewKernel func() (kernel.Kernel, error)
	// Timeout is the hard limit for a single evaluation.
	Timeout time.Duration
	// Logger receives evaluation summaries.
	Logger *logging.Logger
}

// DefaultOptions returns the options NewEngine uses for zero fields.
func DefaultOptions() Options {
	return Options{
		NewKernel: func() (kernel.Kernel, error) {
			return brep.New(nil, brep.DefaultOptions())
		},
		Timeout: EvalTimeout,
		Logger:  logging.NoopLogger(),
	}
}

// Engine wraps the zygomys interpreter for kerf evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment and a fresh kernel for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	opts       Options
}

// NewEngine creates a new Engine instance.
func NewEngine(opts Options) *Engine {
	defaults := DefaultOptions()
	if opts.NewKernel == nil {
		opts.NewKernel = defaults.NewKernel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}
	return &Engine{opts: opts}
}

// Evaluate takes Lisp source code and builds the parts it defines.
//
// Return semantics:
//   - On success: returns design + nil errors + nil error
//   - On parse/eval failure: returns nil design + eval errors + nil error
//   - On fatal failure (timeout, panic, no kernel): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Design, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	start := time.Now()
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		d, evalErrs, err := e.evaluate(source)
		ch <- evalResult{design: d, errors: evalErrs, err: err}
	}()

	d, evalErrs, err := waitWithTimeout(ch, gen, &e.mu, &e.generation, e.opts.Timeout)
	parts := 0
	if d != nil {
		parts = len(d.Parts)
	}
	e.opts.Logger.WithOp("evaluate").LogEval(parts, len(evalErrs), time.Since(start), err)
	return d, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Design, []EvalError, error) {
	k, err := e.opts.NewKernel()
	if err != nil {
		return nil, nil, fmt.Errorf("engine: creating kernel: %w", err)
	}
	d := &Design{Kernel: k}

	// Empty source is a valid program that defines no parts.
	if strings.TrimSpace(source) == "" {
		return d, nil, nil
	}

	// Sandbox mode keeps user code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, d)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return d, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values, taking
// the line number from the message when there is one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
