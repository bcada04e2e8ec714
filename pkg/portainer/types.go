package portainer

// Labels used by Docker Swarm to tie services and containers to stacks.
const (
	// LabelStackNamespace identifies the stack a service or container
	// belongs to.
	LabelStackNamespace = "com.docker.stack.namespace"

	// LabelServiceName identifies the swarm service a container runs for.
	LabelServiceName = "com.docker.swarm.service.name"
)

// Endpoint is a managed orchestration environment registered with Portainer.
type Endpoint struct {
	ID      int    `json:"Id"`
	Name    string `json:"Name"`
	GroupID int    `json:"GroupId"`
}

// EndpointGroup is a named collection of endpoints.
type EndpointGroup struct {
	ID   int    `json:"Id"`
	Name string `json:"Name"`
}

// Service is a swarm service as returned by the Docker API.
type Service struct {
	ID   string      `json:"ID"`
	Spec ServiceSpec `json:"Spec"`
}

// ServiceSpec holds the user-supplied service definition.
type ServiceSpec struct {
	Name         string       `json:"Name"`
	Mode         ServiceMode  `json:"Mode"`
	TaskTemplate TaskTemplate `json:"TaskTemplate"`
}

// ServiceMode is a variant over swarm scheduling modes. Exactly one of the
// fields is set; a service with neither is treated as an unknown mode.
type ServiceMode struct {
	Replicated *ReplicatedMode `json:"Replicated,omitempty"`
	Global     *GlobalMode     `json:"Global,omitempty"`
}

// ReplicatedMode carries the target replica count for replicated services.
type ReplicatedMode struct {
	Replicas uint64 `json:"Replicas"`
}

// GlobalMode marks a service scheduled once per node.
type GlobalMode struct{}

// Replicas returns the replica count for replicated services and 0 for every
// other mode.
func (m ServiceMode) Replicas() uint64 {
	if m.Replicated != nil {
		return m.Replicated.Replicas
	}
	return 0
}

// TaskTemplate describes how service tasks are run.
type TaskTemplate struct {
	ContainerSpec ContainerSpec `json:"ContainerSpec"`
}

// ContainerSpec is the container definition inside a service task template.
type ContainerSpec struct {
	Image   string            `json:"Image"`
	Env     []string          `json:"Env,omitempty"`
	Labels  map[string]string `json:"Labels,omitempty"`
	Configs []ConfigReference `json:"Configs,omitempty"`
	Mounts  []Mount           `json:"Mounts,omitempty"`
}

// ConfigReference attaches a swarm config to a service.
type ConfigReference struct {
	ConfigName string     `json:"ConfigName"`
	File       ConfigFile `json:"File"`
}

// ConfigFile describes where the config is mounted inside the container.
type ConfigFile struct {
	Name string `json:"Name"`
}

// Mount is a volume or bind mount attached to a service.
type Mount struct {
	Type   string `json:"Type"`
	Source string `json:"Source"`
	Target string `json:"Target"`
}

// Secret is a swarm secret. Only the name is exposed; Portainer never returns
// secret values.
type Secret struct {
	ID   string     `json:"ID"`
	Spec SecretSpec `json:"Spec"`
}

// SecretSpec holds secret metadata.
type SecretSpec struct {
	Name string `json:"Name"`
}

// Node is a swarm cluster member.
type Node struct {
	Description NodeDescription `json:"Description"`
	Spec        NodeSpec        `json:"Spec"`
	Status      NodeStatus      `json:"Status"`
}

// NodeDescription holds node identity and capacity.
type NodeDescription struct {
	Hostname  string        `json:"Hostname"`
	Resources NodeResources `json:"Resources"`
}

// NodeResources holds node capacity in Docker units.
type NodeResources struct {
	NanoCPUs    int64 `json:"NanoCPUs"`
	MemoryBytes int64 `json:"MemoryBytes"`
}

// NodeSpec holds the operator-controlled node settings.
type NodeSpec struct {
	Role         string `json:"Role"`
	Availability string `json:"Availability"`
}

// NodeStatus holds the observed node state.
type NodeStatus struct {
	State string `json:"State"`
}

// Container is a container summary from the Docker list API.
type Container struct {
	ID     string            `json:"Id"`
	Names  []string          `json:"Names"`
	Image  string            `json:"Image"`
	State  string            `json:"State"`
	Labels map[string]string `json:"Labels"`
}

// StackName returns the stack label value or fallback when the label is
// absent.
func (c Container) StackName(fallback string) string {
	if v, ok := c.Labels[LabelStackNamespace]; ok && v != "" {
		return v
	}
	return fallback
}

// ServiceName returns the service label value or fallback when the label is
// absent.
func (c Container) ServiceName(fallback string) string {
	if v, ok := c.Labels[LabelServiceName]; ok && v != "" {
		return v
	}
	return fallback
}

// Stats is an opaque container-statistics snapshot. The payload shape varies
// across Docker versions, so it is carried through to the export untyped.
type Stats map[string]any

// RequestError records one failed fetch. Failures never abort a run; they are
// accumulated and surfaced on the Request Errors sheet.
type RequestError struct {
	URL     string `json:"url" yaml:"url"`
	Message string `json:"error" yaml:"error"`
}
