// Package cli implements the command-line interface for the portreport tool.
//
// # Overview
//
// portreport authenticates against a Portainer instance, collects the
// configuration and runtime state of every endpoint it manages, and writes
// the aggregated results to a multi-sheet workbook.
//
// # Commands
//
// report - Collect the fleet and write the export artifact:
//
//	portreport report --url portainer.example.com [--output FILE] [--format xlsx|json|yaml]
//
// # Required Configuration
//
// The Portainer address and credentials are required and read from flags or
// the environment:
//
//	PORTAINER_HOST      Portainer address (scheme optional, defaults to https)
//	PORTAINER_USER      Username
//	PORTAINER_PASSWORD  Password
//
// Missing configuration fails before any network activity.
//
// # Global Flags
//
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Output
//
// The default artifact is an XLSX workbook named portainer_data_<slug>.xlsx,
// where slug is the first DNS label of the Portainer host. Sheets: Services,
// Secrets, Nodes, Container Statistics, Request Errors, Endpoints. The json
// and yaml formats render the same data as one structured document.
//
// # Exit Codes
//
//	0  Success (including runs where some fetches failed; see the
//	   Request Errors sheet)
//	1  Configuration, authentication, or endpoint-listing failure
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/dvega/portreport/pkg/cli.version=1.0.0'"
package cli
