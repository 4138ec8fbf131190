package backend

import (
	"github.com/AdeptTravel/guacenv/internal/secret"
)

// Endpoint is a resolved network location.
type Endpoint struct {
	Host string
	Port string
}

// EndpointSpec names the variables that locate one service.
type EndpointSpec struct {
	Service     string // "guacd", "mysql", ... (used in messages)
	Title       string // "guacd", "MySQL", ...
	HostVar     string
	PortVar     string
	LinkAddrVar string // container-link address variable, "" if linking is unsupported
	LinkPortVar string
	DefaultPort string // "" leaves the port unset when not given
	Purpose     string // one sentence shown in the remediation block
}

// ResolveEndpoint prefers linked-container variables, then the explicit
// host.  The port falls back to DefaultPort when empty.
func ResolveEndpoint(env secret.Env, spec EndpointSpec) (Endpoint, error) {
	if spec.LinkAddrVar != "" {
		if addr := env.Lookup(spec.LinkAddrVar); addr != "" {
			port := env.Lookup(spec.LinkPortVar)
			if port == "" {
				port = spec.DefaultPort
			}
			return Endpoint{Host: addr, Port: port}, nil
		}
	}

	host := env.Lookup(spec.HostVar)
	if host == "" {
		return Endpoint{}, &ConfigError{
			Kind:        MissingConnectionInfo,
			Backend:     spec.Service,
			Remediation: endpointRemediation(spec),
		}
	}
	port := env.Lookup(spec.PortVar)
	if port == "" {
		port = spec.DefaultPort
	}
	return Endpoint{Host: host, Port: port}, nil
}

// Guacd locates the proxy daemon every deployment needs.
var Guacd = EndpointSpec{
	Service:     "guacd",
	Title:       "guacd",
	HostVar:     "GUACD_HOSTNAME",
	PortVar:     "GUACD_PORT",
	LinkAddrVar: "GUACD_PORT_4822_TCP_ADDR",
	LinkPortVar: "GUACD_PORT_4822_TCP_PORT",
	DefaultPort: "4822",
	Purpose: "Every Guacamole instance connects to remote desktops through the " +
		"guacd proxy daemon, so its location is always required.",
}
