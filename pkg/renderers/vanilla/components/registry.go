package components

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-eventform/pkg/registration"
	rendertemplate "github.com/goliatone/go-eventform/pkg/render/template"
)

// Renderer writes the control markup for one bound field into buf.
type Renderer func(buf *bytes.Buffer, field registration.FieldView, data ComponentData) error

// ComponentData is what a Renderer gets besides the field itself.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	// ThemePartials maps partial keys ("forms.input") onto template names
	// supplied by the active theme.
	ThemePartials map[string]string
	// Live marks controls whose change should re-render the page through the
	// change endpoint.
	Live bool
}

// Script is a script tag a component needs on the page.
type Script struct {
	Src    string `json:"src"`
	Defer  bool   `json:"defer,omitempty"`
	Module bool   `json:"module,omitempty"`
}

// Descriptor pairs a control renderer with the assets it depends on.
type Descriptor struct {
	Name        string
	Renderer    Renderer
	Stylesheets []string
	Scripts     []Script
}

func (d Descriptor) clone() Descriptor {
	d.Stylesheets = slices.Clone(d.Stylesheets)
	d.Scripts = slices.Clone(d.Scripts)
	return d
}

// Registry maps control component names, case-insensitively, to descriptors.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Descriptor)}
}

// Register stores descriptor under name, replacing any previous entry.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}
	descriptor.Name = name

	r.mu.Lock()
	r.entries[name] = descriptor.clone()
	r.mu.Unlock()
	return nil
}

// MustRegister is Register for static setup; it panics on error.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor returns a copy of the named descriptor.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.entries[strings.ToLower(strings.TrimSpace(name))]
	return descriptor.clone(), ok
}

// Names lists the registered components in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.entries))
}

// Assets collects the stylesheets and scripts of the named components, each
// listed once in first-use order.
func (r *Registry) Assets(names []string) (stylesheets []string, scripts []Script) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, name := range names {
		descriptor, ok := r.entries[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		for _, href := range descriptor.Stylesheets {
			if href != "" && !seen["css:"+href] {
				seen["css:"+href] = true
				stylesheets = append(stylesheets, href)
			}
		}
		for _, script := range descriptor.Scripts {
			if script.Src != "" && !seen["js:"+script.Src] {
				seen["js:"+script.Src] = true
				scripts = append(scripts, script)
			}
		}
	}
	return stylesheets, scripts
}
