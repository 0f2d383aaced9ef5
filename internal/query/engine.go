// Package query implements the filter/sort collaborator of the list core.
//
// Filter expressions are CEL programs evaluated against two variables:
// `obj`, the candidate object as a map, and `args`, the positional bind
// arguments of the filter (e.g. `obj.age > args[0]`). Compiled programs are
// cached per expression since derived views re-evaluate on every read.
package query

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Engine compiles filter expressions into executable predicates.
type Engine struct {
	env      *cel.Env
	programs *lru.Cache[string, cel.Program]
}

// NewEngine creates an engine with a compiled-program cache of the given
// size (entries, not bytes).
func NewEngine(cacheSize int) (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("obj", decls.NewMapType(decls.String, decls.Dyn)),
			decls.NewVar("args", decls.NewListType(decls.Dyn)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expression environment: %w", err)
	}

	programs, err := lru.New[string, cel.Program](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create program cache: %w", err)
	}

	return &Engine{env: env, programs: programs}, nil
}

// Compile compiles a filter expression to a reusable predicate.
func (e *Engine) Compile(expression string) (*Predicate, error) {
	if prg, ok := e.programs.Get(expression); ok {
		return &Predicate{prg: prg}, nil
	}

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %s", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program construction error: %s", err)
	}

	e.programs.Add(expression, prg)
	return &Predicate{prg: prg}, nil
}

// Predicate is a compiled, immutable filter expression.
type Predicate struct {
	prg cel.Program
}

// Matches evaluates the predicate against one object with the given bind
// arguments.
func (p *Predicate) Matches(obj map[string]interface{}, args []interface{}) (bool, error) {
	if args == nil {
		args = []interface{}{}
	}

	out, _, err := p.prg.Eval(map[string]interface{}{
		"obj":  obj,
		"args": args,
	})
	if err != nil {
		return false, fmt.Errorf("eval error: %s", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter expression must return a boolean")
	}

	return result, nil
}
