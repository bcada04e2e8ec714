package collector

import (
	"strings"

	"github.com/distribution/reference"

	"github.com/dvega/portreport/pkg/portainer"
	"github.com/dvega/portreport/pkg/report"
)

// unknownLabel is the fallback for containers without stack or service labels.
const unknownLabel = "Unknown"

// StripImageDigest removes the digest suffix from an image reference,
// keeping repository and tag: "repo/image:tag@sha256:abc" becomes
// "repo/image:tag". References without a digest pass through unchanged, which
// makes the function idempotent.
func StripImageDigest(image string) string {
	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		// Not a well-formed reference; fall back to a raw digest split.
		if i := strings.Index(image, "@"); i >= 0 {
			return image[:i]
		}
		return image
	}

	if _, ok := named.(reference.Canonical); !ok {
		return image
	}

	out := reference.FamiliarName(named)
	if tagged, ok := named.(reference.Tagged); ok {
		out += ":" + tagged.Tag()
	}
	return out
}

// EnvKeys extracts the variable names from KEY=value pairs, discarding the
// values. Entries without a separator are kept whole.
func EnvKeys(env []string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for _, entry := range env {
		key, _, _ := strings.Cut(entry, "=")
		keys = append(keys, key)
	}
	return keys
}

// flattenService denormalizes one swarm service into a report record.
func flattenService(ep portainer.Endpoint, groupName string, svc portainer.Service) report.ServiceRecord {
	spec := svc.Spec.TaskTemplate.ContainerSpec

	var stack *string
	if ns, ok := spec.Labels[portainer.LabelStackNamespace]; ok && ns != "" {
		stack = &ns
	}

	var configs []report.ConfigAttachment
	for _, cfg := range spec.Configs {
		configs = append(configs, report.ConfigAttachment{
			ConfigName: cfg.ConfigName,
			FilePath:   cfg.File.Name,
		})
	}

	var mounts []report.MountAttachment
	for _, m := range spec.Mounts {
		mounts = append(mounts, report.MountAttachment{
			Source: m.Source,
			Target: m.Target,
			Type:   m.Type,
		})
	}

	return report.ServiceRecord{
		EndpointID:           ep.ID,
		Endpoint:             ep.Name,
		Group:                groupName,
		Stack:                stack,
		Name:                 svc.Spec.Name,
		Replicas:             svc.Spec.Mode.Replicas(),
		Image:                StripImageDigest(spec.Image),
		EnvironmentVariables: EnvKeys(spec.Env),
		Configurations:       configs,
		Mounts:               mounts,
	}
}

// flattenNode denormalizes one swarm node into a report record attributed to
// the sighting endpoint.
func flattenNode(ep portainer.Endpoint, node portainer.Node) report.NodeRecord {
	return report.NodeRecord{
		Endpoint:     ep.Name,
		Hostname:     node.Description.Hostname,
		Role:         node.Spec.Role,
		Availability: node.Spec.Availability,
		NanoCPUs:     node.Description.Resources.NanoCPUs,
		MemoryBytes:  node.Description.Resources.MemoryBytes,
		State:        node.Status.State,
	}
}
