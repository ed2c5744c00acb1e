package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/infrastructure/auth"
	"github.com/rentwise/backend/internal/interfaces/http/middleware"
)

// Caller identifies who invoked a method. Public methods run with a zero Caller.
type Caller struct {
	Actor     appshared.Actor
	Claims    *auth.Claims
	IP        string
	UserAgent string
}

// Authenticated reports whether the caller presented a valid access token
func (c Caller) Authenticated() bool {
	return c.Claims != nil
}

// HandlerFunc runs one remote method
type HandlerFunc func(ctx context.Context, caller Caller, params json.RawMessage) (any, error)

type entry struct {
	handler HandlerFunc
	public  bool
}

// Registry maps method names to handlers. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	methods map[Method]entry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{methods: make(map[Method]entry)}
}

// Register adds a method that requires an authenticated caller
func (r *Registry) Register(m Method, h HandlerFunc) {
	r.add(m, entry{handler: h})
}

// RegisterPublic adds a method callable without an access token
func (r *Registry) RegisterPublic(m Method, h HandlerFunc) {
	r.add(m, entry{handler: h, public: true})
}

func (r *Registry) add(m Method, e entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.methods[m]; dup {
		panic(fmt.Sprintf("rpc: method %q registered twice", m))
	}
	r.methods[m] = e
}

func (r *Registry) lookup(m Method) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.methods[m]
	return e, ok
}

// Methods returns the registered method names in sorted order
func (r *Registry) Methods() []Method {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]Method, 0, len(r.methods))
	for m := range r.methods {
		names = append(names, m)
	}
	slices.Sort(names)
	return names
}

// ParamsError reports params that could not be decoded or failed validation
type ParamsError struct {
	Err error
}

func (e *ParamsError) Error() string {
	return "invalid params: " + e.Err.Error()
}

func (e *ParamsError) Unwrap() error {
	return e.Err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(middleware.FieldName)
	return v
}

// Typed adapts fn to a HandlerFunc that decodes and validates P from the raw params.
// Missing or null params decode to the zero value of P.
func Typed[P any](fn func(ctx context.Context, caller Caller, params P) (any, error)) HandlerFunc {
	return func(ctx context.Context, caller Caller, raw json.RawMessage) (any, error) {
		var params P
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			if err := json.Unmarshal(trimmed, &params); err != nil {
				return nil, &ParamsError{Err: err}
			}
		}
		if err := validate.Struct(params); err != nil {
			return nil, &ParamsError{Err: err}
		}
		return fn(ctx, caller, params)
	}
}
