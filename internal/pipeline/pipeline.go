// Package pipeline wires the reader, lexer, parser, and semantic
// analyzer into the single "compile and check one source file"
// operation the CLI and integration tests drive. Grounded on
// spec.md §9's note that the core threads one context record through
// every stage instead of relying on shared globals: Result is that
// record, built up stage by stage and handed back whole.
package pipeline

import (
	"github.com/ifj25lang/ifj25c/internal/ast"
	"github.com/ifj25lang/ifj25c/internal/builtins"
	"github.com/ifj25lang/ifj25c/internal/errors"
	"github.com/ifj25lang/ifj25c/internal/parser"
	"github.com/ifj25lang/ifj25c/internal/semantic"
	"github.com/ifj25lang/ifj25c/internal/symtable"
)

// Result is everything a caller might want out of a successful run:
// the finished AST and the populated global symbol table.
type Result struct {
	AST    *ast.Node
	Global *symtable.Table
}

// Option configures a Run.
type Option func(*options)

type options struct {
	tracing bool
}

// WithTracing enables the lexer's one-line stderr progress notes.
func WithTracing(enabled bool) Option {
	return func(o *options) { o.tracing = enabled }
}

// Run parses and semantically analyzes src, returning the finished
// Result or the first CompilerError encountered. It builds its own
// builtins.Registry per call: the registry is small, immutable once
// loaded, and Run is not expected to run in a hot loop, so there is no
// need to thread a shared instance in from the caller.
func Run(src string, opts ...Option) (*Result, *errors.CompilerError) {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := parser.New(src, parser.WithTracing(cfg.tracing))
	prog, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}

	reg := builtins.Load()
	analyzer := semantic.New(reg)
	if err := analyzer.Analyze(prog); err != nil {
		return nil, err
	}

	return &Result{AST: prog, Global: analyzer.Global()}, nil
}
