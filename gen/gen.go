// Package gen contains the plugin contract and utils for working with plugins.
package gen

//go:generate mockgen -write_package_comment=false -package=gen -destination=./mock.go github.com/qenerate/qenerate/gen Plugin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/qenerate/qenerate/introspection"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// DefaultPlugin is used when a query file does not select a plugin.
const DefaultPlugin = "pydantic_v1"

// Plugin provides a simple API for turning a GraphQL query into
// source code for any language desired.
//
type Plugin interface {
	// Generate converts the query, validated against the schema described by
	// raw, to source code. It must not perform any file I/O.
	Generate(ctx context.Context, query string, raw *introspection.Result) (string, error)
}

// PluginFunc adapts a function to the Plugin interface.
type PluginFunc func(ctx context.Context, query string, raw *introspection.Result) (string, error)

// Generate calls f.
func (f PluginFunc) Generate(ctx context.Context, query string, raw *introspection.Result) (string, error) {
	return f(ctx, query, raw)
}

type fileCtx string

var fileCtxKey = fileCtx("file")

// WithFile returns a prepared context.Context carrying the
// name of the query file being generated.
//
func WithFile(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, fileCtxKey, name)
}

// File returns the query file name carried by ctx, or "" if there is none.
func File(ctx context.Context) string {
	name, _ := ctx.Value(fileCtxKey).(string)
	return name
}

// Registry maps plugin names, as selected by feature flags, to plugins.
type Registry struct {
	mu       sync.RWMutex
	plugins  map[string]Plugin
	fallback func(name string) Plugin
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register registers p under name. Registering a name twice replaces the
// previous plugin.
func (r *Registry) Register(name string, p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[name] = p
}

// Fallback sets a constructor used by Lookup for names that were never registered.
func (r *Registry) Fallback(f func(name string) Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = f
}

// Lookup returns the plugin registered under name.
func (r *Registry) Lookup(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.plugins[name]; ok {
		return p, nil
	}
	if r.fallback != nil {
		return r.fallback(name), nil
	}
	return nil, &UnknownPluginError{Name: name, Known: r.names()}
}

// names returns the registered plugin names in lexical order.
func (r *Registry) names() []string {
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrAnonymousQuery is returned when the operation of a query has no name.
// The operation name becomes the root class name, so it is required.
var ErrAnonymousQuery = errors.New("all queries must be named")

// ErrUnresolvedType reports a selection without a schema type. It is
// an internal defect: validated documents always carry types.
var ErrUnresolvedType = errors.New("selection does not have a graphql type")

// InvalidQueryError is returned when a query fails schema validation.
type InvalidQueryError struct {
	Errors gqlerror.List
}

func (e *InvalidQueryError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// UnknownPluginError is returned by Registry.Lookup for unregistered names.
type UnknownPluginError struct {
	Name  string
	Known []string
}

func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("unknown plugin %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}

// GeneratorError represents an error from a plugin.
type GeneratorError struct {
	// File is the query file being worked on when error was encountered.
	File string

	// Plugin is the plugin name which encountered a problem.
	Plugin string

	// Msg is any message the plugin wants to provide back to the caller.
	Msg string

	// Err is the underlying error, if any.
	Err error
}

func (e GeneratorError) Error() string {
	return fmt.Sprintf("qenerate: plugin error occurred in %s:%s %s", e.Plugin, e.File, e.Msg)
}

func (e GeneratorError) Unwrap() error { return e.Err }
