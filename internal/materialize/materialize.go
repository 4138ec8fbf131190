// internal/materialize/materialize.go
//
// Top-level driver.
//
// Context
// -------
// Run turns the environment into a ready Guacamole home:
//
//  1. Rebuild the home, seeded from the GUACAMOLE_HOME template if it is a
//     directory.
//
//  2. Resolve guacd (always required) and write its location.
//
//  3. Associate every active backend (mysql, postgresql, ldap) in that order.
//
//  4. Fail with NoAuthenticationConfigured when nothing was installed and
//     no template was named.
//
//  5. Optionally ping each installed SQL backend once.
//
// Every failure is fatal and returned as soon as it happens; there is no
// partial-success mode.
package materialize

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/AdeptTravel/guacenv/internal/backend"
	"github.com/AdeptTravel/guacenv/internal/database"
	"github.com/AdeptTravel/guacenv/internal/metrics"
	"github.com/AdeptTravel/guacenv/internal/properties"
	"github.com/AdeptTravel/guacenv/internal/secret"
)

// TemplateVar names a directory holding a prepared configuration.  Its
// presence alone satisfies the "some authentication is configured" check.
const TemplateVar = "GUACAMOLE_HOME"

// ProbeFunc checks connectivity to one database.
type ProbeFunc func(ctx context.Context, t database.Target, timeout time.Duration) error

// Materializer holds everything one run needs.
type Materializer struct {
	Resolver *secret.Resolver
	Home     string // generated GUACAMOLE_HOME
	Source   string // archive tree, e.g. /opt/guacamole
	Log      *zap.SugaredLogger
	Now      func() time.Time

	VerifyDatabase bool
	VerifyTimeout  time.Duration
	Probe          ProbeFunc // nil means database.Probe
}

// Result summarizes a successful run.
type Result struct {
	Home              string
	PropertiesPath    string
	Installed         []string
	PropertiesWritten int
	Links             int
}

// Run materializes the home.  Fatal configuration problems come back as
// *backend.ConfigError.
func (m *Materializer) Run(ctx context.Context) (*Result, error) {
	res, err := m.run(ctx)
	var ce *backend.ConfigError
	if errors.As(err, &ce) {
		metrics.ConfigErrors.WithLabelValues(ce.Kind.String()).Inc()
	}
	if res != nil {
		metrics.PropertiesWritten.Add(float64(res.PropertiesWritten))
		metrics.ArchivesLinked.Add(float64(res.Links))
	}
	return res, err
}

func (m *Materializer) run(ctx context.Context) (*Result, error) {
	log := m.Log
	if log == nil {
		log = zap.S()
	}

	env := m.Resolver.Env
	template := env.Lookup(TemplateVar)
	if err := PrepareHome(m.Home, template); err != nil {
		return nil, err
	}
	log.Infow("home prepared", "home", m.Home, "template", template)

	props := properties.NewWriter(m.Home)
	props.Now = m.Now
	res := &Result{Home: m.Home, PropertiesPath: props.Path}
	defer func() { res.PropertiesWritten = props.Count() }()

	guacd, err := backend.ResolveEndpoint(env, backend.Guacd)
	if err != nil {
		return res, err
	}
	if err := props.Set("guacd-hostname", guacd.Host); err != nil {
		return res, err
	}
	if err := props.Set("guacd-port", guacd.Port); err != nil {
		return res, err
	}
	log.Infow("guacd located", "host", guacd.Host, "port", guacd.Port)

	a := &backend.Associator{
		Resolver: m.Resolver,
		Props:    props,
		Linker:   backend.NewLinker(m.Source, m.Home),
		Log:      log,
	}
	var installed []*backend.Association
	for _, k := range backend.Kinds {
		if !k.Active(m.Resolver) {
			continue
		}
		as, err := a.Associate(ctx, k)
		if err != nil {
			return res, err
		}
		installed = append(installed, as)
		res.Installed = append(res.Installed, k.Name)
		res.Links += len(as.Links)
		metrics.BackendsInstalled.WithLabelValues(k.Name).Inc()
	}

	if len(installed) == 0 && !env.Exists(TemplateVar) {
		return res, &backend.ConfigError{
			Kind:        backend.NoAuthenticationConfigured,
			Remediation: backend.NoAuthRemediation,
		}
	}

	if m.VerifyDatabase {
		if err := m.verify(ctx, installed, log); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (m *Materializer) verify(ctx context.Context, installed []*backend.Association, log *zap.SugaredLogger) error {
	probe := m.Probe
	if probe == nil {
		probe = database.Probe
	}
	for _, as := range installed {
		k := as.Kind
		if k.Driver == "" {
			continue
		}
		t := database.Target{
			Driver:   k.Driver,
			Host:     as.Endpoint.Host,
			Port:     as.Endpoint.Port,
			User:     as.Values[k.UserVar],
			Password: as.Values[k.PasswordVar],
			Database: as.Values[k.DatabaseVar],
		}
		if err := probe(ctx, t, m.VerifyTimeout); err != nil {
			return err
		}
		log.Infow("database reachable", "backend", k.Name, "host", t.Host)
	}
	return nil
}
