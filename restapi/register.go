package restapi

import (
	"fmt"
	"sort"

	"github.com/gin-gonic/gin"
)

// HTTPVerb enumerates supported HTTP operations.
type HTTPVerb int

const (
	// Unknown represents an unspecified HTTP verb.
	Unknown HTTPVerb = iota
	// GET lists or retrieves resources.
	GET
	// GET_ONE retrieves a single resource.
	GET_ONE
	// DELETE removes resources.
	DELETE
	// POST creates resources.
	POST
	// PUT replaces resources.
	PUT
	// PATCH partially updates resources.
	PATCH
)

// RestMethod describes a REST route handler.
type RestMethod struct {
	Verb    HTTPVerb
	Path    string
	Handler func(c *gin.Context)
}

func (m RestMethod) key() string {
	return fmt.Sprintf("%d_%s", m.Verb, m.Path)
}

// Registry holds the REST methods a router serves.
type Registry struct {
	methods map[string]RestMethod
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]RestMethod)}
}

// RegisterMethod builds a RestMethod and registers it using Register.
func (r *Registry) RegisterMethod(verb HTTPVerb, path string, h func(c *gin.Context)) error {
	return r.Register(RestMethod{
		Verb:    verb,
		Path:    path,
		Handler: h,
	})
}

// Register inserts a RestMethod preventing duplicates.
func (r *Registry) Register(m RestMethod) error {
	if m.Verb == Unknown || m.Verb > PATCH {
		return fmt.Errorf("can't add %s, HTTP verb %d not supported", m.Path, m.Verb)
	}
	key := m.key()
	if _, exists := r.methods[key]; exists {
		return fmt.Errorf("can't add %s, an existing handler in REST method map exists", key)
	}
	r.methods[key] = m
	return nil
}

// RestMethods returns the registered methods ordered by path then verb.
func (r *Registry) RestMethods() []RestMethod {
	methods := make([]RestMethod, 0, len(r.methods))
	for _, m := range r.methods {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool {
		if methods[i].Path != methods[j].Path {
			return methods[i].Path < methods[j].Path
		}
		return methods[i].Verb < methods[j].Verb
	})
	return methods
}

// Mount adds every registered method to group, each wrapped by guard.
func (r *Registry) Mount(group *gin.RouterGroup, guard func(func(c *gin.Context)) func(c *gin.Context)) {
	for _, rm := range r.RestMethods() {
		h := guard(rm.Handler)
		switch rm.Verb {
		case GET, GET_ONE:
			group.GET(rm.Path, h)
		case DELETE:
			group.DELETE(rm.Path, h)
		case POST:
			group.POST(rm.Path, h)
		case PUT:
			group.PUT(rm.Path, h)
		case PATCH:
			group.PATCH(rm.Path, h)
		}
	}
}
