// Package plugin runs external executables as plugins and helps writing them.
//
// An external plugin reads a single JSON encoded Request from stdin and
// writes a single JSON encoded Response to stdout.
//
package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/qenerate/qenerate/gen"
	"github.com/qenerate/qenerate/introspection"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
)

// DefaultPrefix is prepended to plugin names to form executable names.
const DefaultPrefix = "qenerate-plugin-"

// Request is sent to an external plugin.
type Request struct {
	// File is the query file being generated.
	File string `json:"file"`

	// Query is the query document.
	Query string `json:"query"`

	// Introspection is the data object of the introspection response.
	Introspection json.RawMessage `json:"introspection"`
}

// ErrorKind classifies a failed generation.
type ErrorKind string

// Error kinds which let the caller skip a query instead of failing.
const (
	// AnonymousQuery reports gen.ErrAnonymousQuery.
	AnonymousQuery ErrorKind = "anonymous"

	// InvalidQuery reports a *gen.InvalidQueryError.
	InvalidQuery ErrorKind = "invalid"
)

// Response is returned by an external plugin.
type Response struct {
	// Content is the generated source code.
	Content string `json:"content"`

	// Error is set when generation failed.
	Error string `json:"error,omitempty"`

	// Kind is set when Error is one of the known error kinds.
	Kind ErrorKind `json:"kind,omitempty"`

	// Errors holds the validation errors of an InvalidQuery.
	Errors gqlerror.List `json:"errors,omitempty"`
}

// err returns the error described by r, nil if there is none.
func (r Response) err() error {
	switch {
	case r.Kind == AnonymousQuery:
		return gen.ErrAnonymousQuery
	case r.Kind == InvalidQuery:
		return &gen.InvalidQueryError{Errors: r.Errors}
	case r.Error != "":
		return errors.New(r.Error)
	}
	return nil
}

// Plugin executes an external plugin as a gen.Plugin.
// The executable is given by the plugins Prefix and Name fields.
//
type Plugin struct {
	Name   string
	Prefix string

	// Command creates the command for a single generation.
	// (default: exec.CommandContext)
	Command func(ctx context.Context, path string) *exec.Cmd

	lookOnce    sync.Once
	path        string
	lookPathErr error
}

// New returns a Plugin running the executable prefix+name.
func New(prefix, name string) *Plugin {
	return &Plugin{Name: name, Prefix: prefix}
}

// Generate executes the plugin with the query and introspection result.
// The query file name is taken from ctx, see gen.WithFile.
//
func (p *Plugin) Generate(ctx context.Context, query string, raw *introspection.Result) (out string, err error) {
	file := gen.File(ctx)
	defer func() {
		if err != nil {
			err = gen.GeneratorError{
				File:   file,
				Plugin: p.Prefix + p.Name,
				Msg:    err.Error(),
				Err:    err,
			}
		}
	}()

	log := zap.L().Named(p.Name).With(zap.String("file", file))

	cmd, err := p.command(ctx)
	if err != nil {
		return
	}

	log.Debug("marshalling request")
	req := Request{File: file, Query: query}
	if raw != nil {
		req.Introspection = raw.Raw
	}
	b, err := json.Marshal(req)
	if err != nil {
		return
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(b)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("executing plugin", zap.String("path", cmd.Path))
	if err = cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return
	}

	log.Debug("unmarshalling response")
	var resp Response
	if err = json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return
	}
	if err = resp.err(); err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (p *Plugin) command(ctx context.Context) (*exec.Cmd, error) {
	if p.Command != nil {
		return p.Command(ctx, p.Prefix+p.Name), nil
	}

	// Lookup plugin only once
	p.lookOnce.Do(func() {
		p.path, p.lookPathErr = exec.LookPath(p.Prefix + p.Name)
	})
	if p.lookPathErr != nil {
		return nil, p.lookPathErr
	}
	return exec.CommandContext(ctx, p.path), nil
}

// Serve answers a single Request read from r with p, writing the
// Response to w. It is meant to be called from the main function of
// an external plugin:
//
//	func main() {
//		if err := plugin.Serve(context.Background(), os.Stdin, os.Stdout, myPlugin); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// Generation failures are reported in the Response; only I/O and
// decoding failures are returned. Anonymous and invalid queries are
// tagged with their Kind so Plugin.Generate returns the same errors.
//
func Serve(ctx context.Context, r io.Reader, w io.Writer, p gen.Plugin) error {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return fmt.Errorf("plugin: malformed request: %w", err)
	}

	var resp Response
	raw, err := introspection.Unmarshal(req.Introspection)
	if err == nil {
		resp.Content, err = p.Generate(gen.WithFile(ctx, req.File), req.Query, raw)
	}
	if err != nil {
		resp.Error = err.Error()

		var invalid *gen.InvalidQueryError
		switch {
		case errors.Is(err, gen.ErrAnonymousQuery):
			resp.Kind = AnonymousQuery
		case errors.As(err, &invalid):
			resp.Kind = InvalidQuery
			resp.Errors = invalid.Errors
		}
	}
	return json.NewEncoder(w).Encode(resp)
}
