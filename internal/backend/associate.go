package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AdeptTravel/guacenv/internal/properties"
	"github.com/AdeptTravel/guacenv/internal/secret"
)

// Association is the outcome of a successful Associate call.
type Association struct {
	Kind     *Kind
	Endpoint Endpoint
	Values   map[string]string // required setting Var -> resolved value
	Links    []string
}

// Associator wires one backend into the generated home.
type Associator struct {
	Resolver *secret.Resolver
	Props    *properties.Writer
	Linker   *Linker
	Log      *zap.SugaredLogger
}

// Associate resolves the backend's endpoint and mandatory settings, writes
// them and any tunables that are set, then links the backend's archives.
//
// Endpoint problems are reported before missing credentials.  Both are
// returned as *ConfigError.
func (a *Associator) Associate(ctx context.Context, k *Kind) (*Association, error) {
	log := a.Log
	if log == nil {
		log = zap.S()
	}

	ep, err := ResolveEndpoint(a.Resolver.Env, k.Endpoint)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(k.Required))
	missing := false
	for _, s := range k.Required {
		v, ok, err := a.Resolver.Resolve(ctx, s.Var)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Debugw("required setting absent", "backend", k.Name, "var", s.Var)
			missing = true
			continue
		}
		values[s.Var] = v
	}
	if missing {
		return nil, &ConfigError{
			Kind:        MissingCredentials,
			Backend:     k.Name,
			Remediation: credentialsRemediation(k),
		}
	}

	if err := a.Props.Set(k.HostProperty, ep.Host); err != nil {
		return nil, err
	}
	if err := a.Props.SetOptional(k.PortProperty, ep.Port); err != nil {
		return nil, err
	}
	for _, s := range k.Required {
		if err := a.Props.Set(s.Property, values[s.Var]); err != nil {
			return nil, err
		}
	}
	for _, s := range k.Optional {
		v, _, err := a.Resolver.Resolve(ctx, s.Var)
		if err != nil {
			return nil, err
		}
		if err := a.Props.SetOptional(s.Property, v); err != nil {
			return nil, err
		}
	}

	var links []string
	for _, rule := range k.Links {
		l, err := a.Linker.Link(rule)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k.Name, err)
		}
		links = append(links, l...)
	}

	log.Infow("backend associated",
		"backend", k.Name,
		"host", ep.Host,
		"port", ep.Port,
		"links", len(links),
	)
	return &Association{Kind: k, Endpoint: ep, Values: values, Links: links}, nil
}
