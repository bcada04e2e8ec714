package cli

import (
	"fmt"

	"github.com/dvega/portreport/pkg/reporter"
	"github.com/dvega/portreport/pkg/serializer"
)

// outputPath resolves the artifact destination. An explicit path wins; "-"
// selects stdout (text formats only); otherwise the name is derived from the
// Portainer host slug, e.g. portainer_data_prod.xlsx.
func outputPath(raw, baseURL string, format serializer.Format) string {
	switch raw {
	case "":
		return fmt.Sprintf("portainer_data_%s.%s", reporter.HostSlug(baseURL), format.Ext())
	case "-":
		return ""
	default:
		return raw
	}
}
