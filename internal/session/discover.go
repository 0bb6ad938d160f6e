package session

import (
	"context"

	"github.com/goliatone/go-cms-authoring/internal/components"
	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/goliatone/go-cms-authoring/internal/identity"
	"github.com/goliatone/go-cms-authoring/internal/layout"
)

// Placement is a rendering joined to its resolved component. Err is set when
// the component could not be resolved.
type Placement struct {
	Assignment layout.RenderingAssignment
	Component  domain.ComponentDescriptor
	Err        error
}

// Discovery is the outcome of reading a page layout.
type Discovery struct {
	Placements []Placement
	Failures   []components.Resolution
}

// Resolved returns the placements whose component resolved.
func (d *Discovery) Resolved() []Placement {
	var out []Placement
	for _, p := range d.Placements {
		if p.Err == nil {
			out = append(out, p)
		}
	}
	return out
}

// Discover parses layoutXML and resolves every distinct component. A failed
// component is reported on its placements and in Failures; it does not stop
// the others.
func (s *Session) Discover(ctx context.Context, layoutXML string) (*Discovery, error) {
	assignments, err := layout.Parse(layoutXML)
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		refs = append(refs, a.ComponentID)
	}
	resolutions := s.cache.ResolveAll(ctx, s.deps.Resolver, refs, s.settings.Concurrency)

	failed := map[string]error{}
	discovery := &Discovery{}
	for _, res := range resolutions {
		if res.Err != nil {
			failed[identity.HexKey(res.Ref)] = res.Err
			discovery.Failures = append(discovery.Failures, res)
			s.logger.Warn("session.component.unresolved", "component_id", res.Ref, "error", res.Err)
		}
	}

	s.mu.Lock()
	for _, a := range assignments {
		s.placements[identity.HexKey(a.InstanceID)] = a
	}
	s.mu.Unlock()

	for _, a := range assignments {
		placement := Placement{Assignment: a}
		if err, ok := failed[identity.HexKey(a.ComponentID)]; ok {
			placement.Err = err
		} else if d, ok := s.cache.Get(a.ComponentID); ok {
			placement.Component = d
		}
		discovery.Placements = append(discovery.Placements, placement)
	}

	s.logger.Info("session.discovered",
		"renderings", len(assignments),
		"components", len(resolutions),
		"failures", len(discovery.Failures),
	)
	return discovery, nil
}
