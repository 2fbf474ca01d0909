package classify

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/kbukum/retrykit/util"
)

// Registry is a thread-safe collection of Handlers. Registration should
// happen before concurrent use; reads are lock-free after initialization
// apart from the compiled-pattern cache.
type Registry struct {
	mu       sync.RWMutex
	handlers []Handler
	compiled map[string]*regexp.Regexp
}

// NewRegistry creates a Registry seeded with the built-in transient-error
// handler.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.handlers = append(r.handlers, DefaultHandler())
	return r
}

// NewEmptyRegistry creates a Registry with no handlers, disabling the
// built-in defaults.
func NewEmptyRegistry() *Registry {
	return &Registry{compiled: make(map[string]*regexp.Regexp)}
}

// Register appends h to the registry. Patterns are compiled eagerly so that
// invalid configuration fails fast.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return nil
	}
	for _, p := range h.Patterns() {
		if _, err := r.compile(p); err != nil {
			return fmt.Errorf("classify: invalid pattern %q: %w", p, err)
		}
	}

	r.mu.Lock()
	r.handlers = append(r.handlers, h)
	r.mu.Unlock()
	return nil
}

// AllPatterns returns the merged, deduplicated pattern list of all applicable
// handlers, preserving registration order. Calling it twice without new
// registrations yields identical results.
func (r *Registry) AllPatterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, h := range r.handlers {
		if !h.Applicable() {
			continue
		}
		for _, p := range h.Patterns() {
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return util.Unique(out)
}

// AllErrorTypes returns the merged, deduplicated (by name) error-type list of
// all applicable handlers.
func (r *Registry) AllErrorTypes() []ErrorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ErrorType
	seen := make(map[string]bool)
	for _, h := range r.handlers {
		if !h.Applicable() {
			continue
		}
		for _, t := range h.ErrorTypes() {
			if t.Matches == nil || seen[t.Name] {
				continue
			}
			seen[t.Name] = true
			out = append(out, t)
		}
	}
	return out
}

// Retryable walks err and its cause chain, reporting true as soon as any link
// matches an effective error type or an effective message pattern. Extra
// patterns and types supplied at call time extend the registered set.
func (r *Registry) Retryable(err error, extraPatterns []string, extraTypes []ErrorType) bool {
	if err == nil {
		return false
	}

	patterns := append(r.AllPatterns(), extraPatterns...)
	types := append(r.AllErrorTypes(), extraTypes...)

	for e := err; e != nil; e = errors.Unwrap(e) {
		for _, t := range types {
			if t.Matches != nil && t.Matches(e) {
				return true
			}
		}
		msg := e.Error()
		for _, p := range patterns {
			re, cerr := r.compile(p)
			if cerr != nil {
				continue
			}
			if re.MatchString(msg) {
				return true
			}
		}
	}
	return false
}

// compile returns the case-insensitive compiled form of p, cached.
func (r *Registry) compile(p string) (*regexp.Regexp, error) {
	r.mu.RLock()
	re, ok := r.compiled[p]
	r.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile("(?i)" + p)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.compiled[p] = re
	r.mu.Unlock()
	return re, nil
}
