package api

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// Deps exposes the container to the router for middleware wiring.
func (h *Handlers) Deps() *Dependencies {
	return h.deps
}
