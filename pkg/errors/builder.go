package errors

import (
	"fmt"
	"sync"
)

// Process exit statuses used by the CLI.
const (
	ExitFailure = 1
	ExitConfig  = 2
	ExitInput   = 3
	ExitIndex   = 4
)

// ============================================================================
// Service Registration
// ============================================================================

// serviceRegistry tracks registered service codes to prevent conflicts.
var (
	serviceRegistry = make(map[int]string) // service code -> service name
	serviceMu       sync.RWMutex
)

// RegisterService registers a service code with a name.
// Panics if the service code is already registered by another service.
//
// Example:
//
//	func init() {
//	    errors.RegisterService(25, "order-service")
//	}
func RegisterService(code int, name string) {
	serviceMu.Lock()
	defer serviceMu.Unlock()

	if existing, ok := serviceRegistry[code]; ok {
		if existing != name {
			panic(fmt.Sprintf("service code %d already registered by '%s', cannot register for '%s'", code, existing, name))
		}
		return
	}
	serviceRegistry[code] = name
}

// GetServiceName returns the registered name for a service code.
func GetServiceName(code int) (string, bool) {
	serviceMu.RLock()
	defer serviceMu.RUnlock()
	name, ok := serviceRegistry[code]
	return name, ok
}

// ============================================================================
// Error Builder
// ============================================================================

// ErrnoBuilder provides a fluent API for building error codes.
//
// Example:
//
//	var ErrTemplateMissing = errors.NewBuilder(errors.ServiceReport, errors.CategoryResource, 9).
//	    Exit(errors.ExitInput).
//	    Message("Template not found", "模板不存在").
//	    MustBuild()
type ErrnoBuilder struct {
	service   int
	category  int
	sequence  int
	exit      int
	messageEN string
	messageZH string
}

// NewBuilder creates a new ErrnoBuilder with the given service, category, and sequence.
func NewBuilder(service, category, sequence int) *ErrnoBuilder {
	return &ErrnoBuilder{
		service:  service,
		category: category,
		sequence: sequence,
		exit:     ExitFailure,
	}
}

// Exit sets the process exit status.
func (b *ErrnoBuilder) Exit(status int) *ErrnoBuilder {
	b.exit = status
	return b
}

// Message sets both English and Chinese messages.
func (b *ErrnoBuilder) Message(en, zh string) *ErrnoBuilder {
	b.messageEN = en
	b.messageZH = zh
	return b
}

// Build creates and registers the Errno.
// Returns an error if registration fails (e.g., duplicate code).
func (b *ErrnoBuilder) Build() (*Errno, error) {
	if b.messageEN == "" {
		return nil, fmt.Errorf("English message is required")
	}

	e := &Errno{
		Code:      MakeCode(b.service, b.category, b.sequence),
		Exit:      b.exit,
		MessageEN: b.messageEN,
		MessageZH: b.messageZH,
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if existing, ok := errnoRegistry[e.Code]; ok {
		return nil, fmt.Errorf("errno code %d already registered: %s", e.Code, existing.MessageEN)
	}
	errnoRegistry[e.Code] = e

	return e, nil
}

// MustBuild creates and registers the Errno.
// Panics if registration fails.
func (b *ErrnoBuilder) MustBuild() *Errno {
	e, err := b.Build()
	if err != nil {
		panic(err)
	}
	return e
}

// ============================================================================
// Preset Builders for Common Categories
// ============================================================================

// NewRequestError creates a builder for malformed input errors.
func NewRequestError(service, sequence int) *ErrnoBuilder {
	return NewBuilder(service, CategoryRequest, sequence).
		Exit(ExitInput)
}

// NewNotFoundError creates a builder for missing resource errors.
func NewNotFoundError(service, sequence int) *ErrnoBuilder {
	return NewBuilder(service, CategoryResource, sequence).
		Exit(ExitInput)
}

// NewInternalError creates a builder for internal errors.
func NewInternalError(service, sequence int) *ErrnoBuilder {
	return NewBuilder(service, CategoryInternal, sequence).
		Exit(ExitFailure)
}

// NewNetworkError creates a builder for remote call errors.
func NewNetworkError(service, sequence int) *ErrnoBuilder {
	return NewBuilder(service, CategoryNetwork, sequence).
		Exit(ExitFailure)
}

// NewConfigError creates a builder for configuration errors.
func NewConfigError(service, sequence int) *ErrnoBuilder {
	return NewBuilder(service, CategoryConfig, sequence).
		Exit(ExitConfig)
}
