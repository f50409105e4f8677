// Package discovery builds the per-request view of the backend fleet:
// which configured backends answer a liveness probe, and what tools each
// live backend offers. Both structures are snapshots. They are built
// fresh for every orchestration run and never mutated afterwards, so a
// backend dying mid-run changes nothing until the next request.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bahakizil/slack-mcp/internal/config"
	"github.com/bahakizil/slack-mcp/internal/mcp"
)

// ErrNotFound is returned by Lookup when a backend name is not part of
// the registry snapshot.
var ErrNotFound = errors.New("backend not found")

// Backend is one live MCP server.
type Backend struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
}

// Prober reports whether a backend endpoint is reachable.
type Prober interface {
	Probe(ctx context.Context, endpoint string) error
}

// ToolLister fetches a backend's tool inventory.
type ToolLister interface {
	ListTools(ctx context.Context, endpoint string) ([]mcp.Tool, error)
}

// Registry is an immutable snapshot of the live backends, keyed by name.
// Order follows the configured candidate list so downstream rendering is
// deterministic.
type Registry struct {
	backends map[string]Backend
	order    []string
}

// BuildRegistry probes every configured candidate in parallel and keeps
// the ones that answer. Dead candidates are logged and dropped; they are
// never an error for the run as a whole.
func BuildRegistry(ctx context.Context, candidates []config.Backend, prober Prober, logger *slog.Logger) *Registry {
	live := make([]bool, len(candidates))

	var wg sync.WaitGroup
	for i, cand := range candidates {
		if cand.Name == "" || cand.URL == "" {
			continue
		}
		wg.Add(1)
		go func(i int, cand config.Backend) {
			defer wg.Done()
			if err := prober.Probe(ctx, cand.URL); err != nil {
				logger.Warn("backend excluded", "name", cand.Name, "endpoint", cand.URL, "error", err)
				return
			}
			live[i] = true
		}(i, cand)
	}
	wg.Wait()

	reg := &Registry{backends: make(map[string]Backend)}
	for i, cand := range candidates {
		if !live[i] {
			continue
		}
		reg.backends[cand.Name] = Backend{Name: cand.Name, Endpoint: cand.URL}
		reg.order = append(reg.order, cand.Name)
		logger.Info("backend live", "name", cand.Name, "endpoint", cand.URL)
	}
	return reg
}

// Lookup resolves a backend by name.
func (r *Registry) Lookup(name string) (Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return Backend{}, fmt.Errorf("backend %q: %w", name, ErrNotFound)
	}
	return b, nil
}

// Names returns the live backend names in configuration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns the live backends in configuration order.
func (r *Registry) All() []Backend {
	out := make([]Backend, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.backends[name])
	}
	return out
}

// Len reports how many backends survived probing.
func (r *Registry) Len() int {
	return len(r.order)
}

// Catalog maps live backend names to their tool inventories.
type Catalog struct {
	tools map[string][]mcp.Tool
	order []string
}

// BuildCatalog asks every registry backend for its tools in parallel.
// A backend whose tools/list fails is logged and left out; a partial
// catalog is the normal outcome when part of the fleet is flaky.
func BuildCatalog(ctx context.Context, reg *Registry, lister ToolLister, logger *slog.Logger) *Catalog {
	type inventory struct {
		tools []mcp.Tool
		ok    bool
	}

	backends := reg.All()
	results := make([]inventory, len(backends))

	var wg sync.WaitGroup
	for i, b := range backends {
		wg.Add(1)
		go func(i int, b Backend) {
			defer wg.Done()
			tools, err := lister.ListTools(ctx, b.Endpoint)
			if err != nil {
				logger.Warn("tool listing failed", "backend", b.Name, "error", err)
				return
			}
			results[i] = inventory{tools: tools, ok: true}
		}(i, b)
	}
	wg.Wait()

	cat := &Catalog{tools: make(map[string][]mcp.Tool)}
	for i, b := range backends {
		if !results[i].ok {
			continue
		}
		cat.tools[b.Name] = results[i].tools
		cat.order = append(cat.order, b.Name)
		logger.Info("catalog entry", "backend", b.Name, "tools", len(results[i].tools))
	}
	return cat
}

// Tools returns the inventory for one backend, nil when absent.
func (c *Catalog) Tools(name string) []mcp.Tool {
	return c.tools[name]
}

// Backends returns the cataloged backend names in registry order.
func (c *Catalog) Backends() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Empty reports whether no backend produced an inventory.
func (c *Catalog) Empty() bool {
	return len(c.order) == 0
}
