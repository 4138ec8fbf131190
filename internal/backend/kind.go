// internal/backend/kind.go
//
// Backend descriptors.
//
// Context
// -------
// Each authentication backend is described by data rather than code: how it
// is activated, where its server lives, which settings are mandatory, which
// tunables are passed through, and which archives must be linked into the
// generated home.  Associator.Associate walks a descriptor; adding a backend
// means adding a Kind here.
package backend

import "github.com/AdeptTravel/guacenv/internal/secret"

// Setting maps one environment variable to one property.
type Setting struct {
	Var      string
	Property string
	Help     string // shown in remediation blocks for required settings
}

// Target selects the directory a linked archive lands in.
type Target int

const (
	LibDir Target = iota
	ExtensionDir
)

// LinkRule globs archives below the source directory.
type LinkRule struct {
	Pattern string // relative to the source directory
	Target  Target
}

// Kind describes one authentication backend.
type Kind struct {
	Name  string // mysql, postgresql, ldap
	Title string

	// ActivateVar turns the backend on when set (directly, or through
	// ActivateVar_FILE when ActivateByFile is true).
	ActivateVar    string
	ActivateByFile bool

	Endpoint     EndpointSpec
	HostProperty string
	PortProperty string
	Required     []Setting
	Optional     []Setting
	Links        []LinkRule

	// Driver is the database/sql driver used by the connectivity probe;
	// empty for non-SQL backends.  The *Var fields name the required
	// settings the probe connects with.
	Driver      string
	DatabaseVar string
	UserVar     string
	PasswordVar string
}

// Active reports whether the backend's activation variable is set.
func (k *Kind) Active(r *secret.Resolver) bool {
	if k.ActivateByFile {
		return r.Has(k.ActivateVar)
	}
	return r.Direct(k.ActivateVar) != ""
}

// Kinds lists the supported backends in the order they are evaluated.
var Kinds = []*Kind{&MySQL, &PostgreSQL, &LDAP}

// Lookup returns the Kind called name, or nil.
func Lookup(name string) *Kind {
	for _, k := range Kinds {
		if k.Name == name {
			return k
		}
	}
	return nil
}

func poolSettings(envPrefix, propPrefix string) []Setting {
	return []Setting{
		{Var: envPrefix + "_ABSOLUTE_MAX_CONNECTIONS", Property: propPrefix + "-absolute-max-connections"},
		{Var: envPrefix + "_DEFAULT_MAX_CONNECTIONS", Property: propPrefix + "-default-max-connections"},
		{Var: envPrefix + "_DEFAULT_MAX_GROUP_CONNECTIONS", Property: propPrefix + "-default-max-group-connections"},
		{Var: envPrefix + "_DEFAULT_MAX_CONNECTIONS_PER_USER", Property: propPrefix + "-default-max-connections-per-user"},
		{Var: envPrefix + "_DEFAULT_MAX_GROUP_CONNECTIONS_PER_USER", Property: propPrefix + "-default-max-group-connections-per-user"},
		{Var: envPrefix + "_USER_REQUIRED", Property: propPrefix + "-user-required"},
		{Var: envPrefix + "_AUTO_CREATE_ACCOUNTS", Property: propPrefix + "-auto-create-accounts"},
		{Var: envPrefix + "_SSL_MODE", Property: propPrefix + "-ssl-mode"},
	}
}

// MySQL installs the JDBC MySQL extension and connector when
// MYSQL_DATABASE or MYSQL_DATABASE_FILE is set.  Host defaults to port 3306.
var MySQL = Kind{
	Name:           "mysql",
	Title:          "MySQL",
	ActivateVar:    "MYSQL_DATABASE",
	ActivateByFile: true,
	Endpoint: EndpointSpec{
		Service:     "mysql",
		Title:       "MySQL",
		HostVar:     "MYSQL_HOSTNAME",
		PortVar:     "MYSQL_PORT",
		LinkAddrVar: "MYSQL_PORT_3306_TCP_ADDR",
		LinkPortVar: "MYSQL_PORT_3306_TCP_PORT",
		DefaultPort: "3306",
		Purpose:     "MySQL authentication was requested, but the MySQL server could not be located.",
	},
	HostProperty: "mysql-hostname",
	PortProperty: "mysql-port",
	Required: []Setting{
		{Var: "MYSQL_DATABASE", Property: "mysql-database",
			Help: "The name of the MySQL database to use for Guacamole authentication."},
		{Var: "MYSQL_USER", Property: "mysql-username",
			Help: "The user to authenticate as when connecting to MySQL."},
		{Var: "MYSQL_PASSWORD", Property: "mysql-password",
			Help: "The password to use when authenticating with MySQL as MYSQL_USER."},
	},
	Optional: poolSettings("MYSQL", "mysql"),
	Links: []LinkRule{
		{Pattern: "mysql/mysql-connector-*.jar", Target: LibDir},
		{Pattern: "mysql/guacamole-auth-*.jar", Target: ExtensionDir},
	},
	Driver:      "mysql",
	DatabaseVar: "MYSQL_DATABASE",
	UserVar:     "MYSQL_USER",
	PasswordVar: "MYSQL_PASSWORD",
}

// PostgreSQL installs the JDBC PostgreSQL extension and driver when
// POSTGRES_DATABASE or POSTGRES_DATABASE_FILE is set.  Host defaults to port
// 5432.
var PostgreSQL = Kind{
	Name:           "postgresql",
	Title:          "PostgreSQL",
	ActivateVar:    "POSTGRES_DATABASE",
	ActivateByFile: true,
	Endpoint: EndpointSpec{
		Service:     "postgres",
		Title:       "PostgreSQL",
		HostVar:     "POSTGRES_HOSTNAME",
		PortVar:     "POSTGRES_PORT",
		LinkAddrVar: "POSTGRES_PORT_5432_TCP_ADDR",
		LinkPortVar: "POSTGRES_PORT_5432_TCP_PORT",
		DefaultPort: "5432",
		Purpose:     "PostgreSQL authentication was requested, but the PostgreSQL server could not be located.",
	},
	HostProperty: "postgresql-hostname",
	PortProperty: "postgresql-port",
	Required: []Setting{
		{Var: "POSTGRES_DATABASE", Property: "postgresql-database",
			Help: "The name of the PostgreSQL database to use for Guacamole authentication."},
		{Var: "POSTGRES_USER", Property: "postgresql-username",
			Help: "The user to authenticate as when connecting to PostgreSQL."},
		{Var: "POSTGRES_PASSWORD", Property: "postgresql-password",
			Help: "The password to use when authenticating with PostgreSQL as POSTGRES_USER."},
	},
	Optional: append(poolSettings("POSTGRES", "postgresql"),
		Setting{Var: "POSTGRES_DEFAULT_STATEMENT_TIMEOUT", Property: "postgresql-default-statement-timeout"},
		Setting{Var: "POSTGRES_SOCKET_TIMEOUT", Property: "postgresql-socket-timeout"},
	),
	Links: []LinkRule{
		{Pattern: "postgresql/postgresql-*.jar", Target: LibDir},
		{Pattern: "postgresql/guacamole-auth-*.jar", Target: ExtensionDir},
	},
	Driver:      "pgx",
	DatabaseVar: "POSTGRES_DATABASE",
	UserVar:     "POSTGRES_USER",
	PasswordVar: "POSTGRES_PASSWORD",
}

// LDAP installs the LDAP extension when LDAP_HOSTNAME is set.  Only the
// user base DN is required; the port property is written only when given.
var LDAP = Kind{
	Name:        "ldap",
	Title:       "LDAP",
	ActivateVar: "LDAP_HOSTNAME",
	Endpoint: EndpointSpec{
		Service: "ldap",
		Title:   "the LDAP server",
		HostVar: "LDAP_HOSTNAME",
		PortVar: "LDAP_PORT",
		Purpose: "LDAP authentication was requested, but the LDAP server could not be located.",
	},
	HostProperty: "ldap-hostname",
	PortProperty: "ldap-port",
	Required: []Setting{
		{Var: "LDAP_USER_BASE_DN", Property: "ldap-user-base-dn",
			Help: "The base DN under which all Guacamole users will be located."},
	},
	Optional: []Setting{
		{Var: "LDAP_ENCRYPTION_METHOD", Property: "ldap-encryption-method"},
		{Var: "LDAP_USERNAME_ATTRIBUTE", Property: "ldap-username-attribute"},
		{Var: "LDAP_MEMBER_ATTRIBUTE", Property: "ldap-member-attribute"},
		{Var: "LDAP_GROUP_BASE_DN", Property: "ldap-group-base-dn"},
		{Var: "LDAP_CONFIG_BASE_DN", Property: "ldap-config-base-dn"},
		{Var: "LDAP_SEARCH_BIND_DN", Property: "ldap-search-bind-dn"},
		{Var: "LDAP_SEARCH_BIND_PASSWORD", Property: "ldap-search-bind-password"},
		{Var: "LDAP_USER_SEARCH_FILTER", Property: "ldap-user-search-filter"},
		{Var: "LDAP_GROUP_SEARCH_FILTER", Property: "ldap-group-search-filter"},
		{Var: "LDAP_FOLLOW_REFERRALS", Property: "ldap-follow-referrals"},
		{Var: "LDAP_MAX_REFERRAL_HOPS", Property: "ldap-max-referral-hops"},
		{Var: "LDAP_OPERATION_TIMEOUT", Property: "ldap-operation-timeout"},
		{Var: "LDAP_NETWORK_TIMEOUT", Property: "ldap-network-timeout"},
		{Var: "LDAP_MAX_SEARCH_RESULTS", Property: "ldap-max-search-results"},
		{Var: "LDAP_DEREFERENCE_ALIASES", Property: "ldap-dereference-aliases"},
	},
	Links: []LinkRule{
		{Pattern: "ldap/guacamole-auth-*.jar", Target: ExtensionDir},
	},
}
