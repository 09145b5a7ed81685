package encoding

import (
	"reflect"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	slog "github.com/sagikazarmark/slog-shim"

	"github.com/spf13/mapjson/internal/encoding/codec"
)

// resolution is a cached lookup result; conv is nil when no converter matched.
type resolution struct {
	conv codec.Converter
}

// ConverterRegistry selects the converter for a type. Registered converters
// are consulted in registration order before the built-in ones.
type ConverterRegistry struct {
	converters []codec.Converter
	names      map[string]struct{}
	mu         sync.RWMutex

	builtins []codec.Converter
	resolved *xsync.MapOf[reflect.Type, resolution]

	logger *slog.Logger
}

// NewConverterRegistry returns a registry falling back to builtins, in order.
func NewConverterRegistry(logger *slog.Logger, builtins ...codec.Converter) *ConverterRegistry {
	names := make(map[string]struct{}, len(builtins))
	for _, c := range builtins {
		names[c.Name()] = struct{}{}
	}

	return &ConverterRegistry{
		names:    names,
		builtins: builtins,
		resolved: xsync.NewMapOf[reflect.Type, resolution](),
		logger:   logger,
	}
}

// RegisterConverter registers a Converter ahead of the built-in ones.
// Registering a Converter under an already used name is not supported.
func (e *ConverterRegistry) RegisterConverter(c codec.Converter) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.names[c.Name()]; ok {
		return codec.ErrConverterAlreadyRegistered
	}

	e.names[c.Name()] = struct{}{}
	e.converters = append(e.converters, c)
	e.resolved.Clear()

	e.logger.Debug("registered converter", "converter", c.Name())

	return nil
}

// Lookup returns the converter governing t.
func (e *ConverterRegistry) Lookup(t reflect.Type) (codec.Converter, bool) {
	res, loaded := e.resolved.LoadOrCompute(t, func() resolution {
		return resolution{conv: e.resolve(t)}
	})

	if !loaded && res.conv != nil {
		e.logger.Debug("resolved converter", "type", t.String(), "converter", res.conv.Name())
	}

	return res.conv, res.conv != nil
}

func (e *ConverterRegistry) resolve(t reflect.Type) codec.Converter {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, c := range e.converters {
		if c.CanConvert(t) {
			return c
		}
	}
	for _, c := range e.builtins {
		if c.CanConvert(t) {
			return c
		}
	}
	return nil
}

// Names returns the names of all converters in lookup order.
func (e *ConverterRegistry) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.converters)+len(e.builtins))
	for _, c := range e.converters {
		names = append(names, c.Name())
	}
	for _, c := range e.builtins {
		names = append(names, c.Name())
	}
	return names
}
