package backend

import (
	"fmt"
	"strings"

	"github.com/AdeptTravel/guacenv/internal/secret"
)

const rule = "-------------------------------------------------------------------------------"

// NoAuthRemediation is shown when no backend was activated and no template
// home was supplied.
var NoAuthRemediation = strings.Join([]string{
	"FATAL: No authentication configured",
	rule,
	"The Guacamole image needs at least one authentication backend, or a",
	"prepared configuration directory named by GUACAMOLE_HOME.  Configure one",
	"of the following:",
	"",
	"    MySQL        set MYSQL_DATABASE (or MYSQL_DATABASE_FILE)",
	"    PostgreSQL   set POSTGRES_DATABASE (or POSTGRES_DATABASE_FILE)",
	"    LDAP         set LDAP_HOSTNAME",
	"",
	"or point GUACAMOLE_HOME at a directory holding your own",
	"guacamole.properties, extensions/, and lib/.",
	"",
}, "\n")

func endpointRemediation(spec EndpointSpec) string {
	var b strings.Builder
	if spec.LinkAddrVar != "" {
		fmt.Fprintf(&b, "FATAL: Missing %s or %q link.\n", spec.HostVar, spec.Service)
	} else {
		fmt.Fprintf(&b, "FATAL: Missing %s.\n", spec.HostVar)
	}
	b.WriteString(rule + "\n")
	b.WriteString(wrap(spec.Purpose) + "\n")
	b.WriteString("Provide its location with the following environment variables:\n\n")

	hostHelp := "Hostname or address of " + spec.Title + "."
	if spec.LinkAddrVar != "" {
		hostHelp += "  Not needed when the container is linked to one named \"" + spec.Service + "\"."
	}
	entry(&b, spec.HostVar, hostHelp)
	portHelp := "Port " + spec.Title + " listens on."
	if spec.DefaultPort != "" {
		portHelp += "  Defaults to " + spec.DefaultPort + "."
	}
	entry(&b, spec.PortVar, portHelp)
	return b.String()
}

func credentialsRemediation(k *Kind) string {
	var b strings.Builder
	b.WriteString("FATAL: Missing required environment variables\n")
	b.WriteString(rule + "\n")
	b.WriteString(wrap(fmt.Sprintf(
		"If using %s, you must provide each of the following environment "+
			"variables, or the path of a Docker secret holding its value in the "+
			"same name with %s appended:", k.Title, secret.FileSuffix)) + "\n\n")
	for _, s := range k.Required {
		entry(&b, s.Var+" / "+s.Var+secret.FileSuffix, s.Help)
	}
	return b.String()
}

// entry writes a two-column help entry, wrapping help under the name.
func entry(b *strings.Builder, name, help string) {
	const indent = "    "
	b.WriteString(indent + name + "\n")
	for _, line := range strings.Split(wrapAt(help, 60), "\n") {
		b.WriteString(indent + "    " + line + "\n")
	}
	b.WriteString("\n")
}

func wrap(s string) string { return wrapAt(s, 79) }

func wrapAt(s string, width int) string {
	var lines []string
	var cur string
	for _, w := range strings.Fields(s) {
		switch {
		case cur == "":
			cur = w
		case len(cur)+1+len(w) > width:
			lines = append(lines, cur)
			cur = w
		default:
			cur += " " + w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return strings.Join(lines, "\n")
}
