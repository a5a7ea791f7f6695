// Package engine evaluates point scripts. A script is zygomys Lisp run in
// a fresh sandbox with builtins that append points to a cloud.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/octreeview/pkg/cloud"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("octreeview:engine")

// MaxPoints bounds the size of a cloud a single script may produce.
const MaxPoints = 1 << 20

// DefaultDomain is the region uniform generators sample when a script
// gives no explicit bounds.
var DefaultDomain = sdf.Box3{
	Min: v3.Vec{X: -1, Y: -1, Z: -1},
	Max: v3.Vec{X: 1, Y: 1, Z: 1},
}

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

// Engine evaluates point scripts. It is safe for concurrent use; each call
// to Evaluate runs in a fresh sandbox and only the newest call's result is
// delivered.
type Engine struct {
	// Domain is sampled by generators that are not given bounds.
	Domain sdf.Box3
	// Seed is the default seed for random generators.
	Seed int64
	// Timeout bounds a single evaluation.
	Timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewEngine returns an engine with the default domain, seed and timeout.
func NewEngine() *Engine {
	return &Engine{
		Domain:  DefaultDomain,
		Seed:    1,
		Timeout: EvalTimeout,
	}
}

// Evaluate runs source and returns the cloud it builds.
//
// Return semantics:
//   - On success: returns cloud + nil errors + nil error
//   - On parse/eval failure: returns nil cloud + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*cloud.Cloud, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: errors.Errorf("panic during evaluation: %v", r)}
			}
		}()

		c, evalErrs, err := e.evaluate(source)
		ch <- evalResult{cloud: c, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout())
}

func (e *Engine) timeout() time.Duration {
	if e.Timeout <= 0 {
		return EvalTimeout
	}
	return e.Timeout
}

// evaluate runs source in a fresh sandbox.
func (e *Engine) evaluate(source string) (*cloud.Cloud, []EvalError, error) {
	c := cloud.New(0)
	if strings.TrimSpace(source) == "" {
		return c, nil, nil
	}

	// Sandbox mode keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, &scriptState{
		cloud:  c,
		domain: e.Domain,
		seed:   e.Seed,
	})

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	log.Debugf("script produced %d points", c.Len())
	return c, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
