package domain

// Capability names probed at startup. Keys of a CapabilityMap.
const (
	CapabilityFileOperations    = "file_operations"
	CapabilityNetworkOperations = "network_operations"
	CapabilityProcessManagement = "process_management"
	CapabilitySystemInfo        = "system_info"
	CapabilityPackageManagement = "package_management"
	CapabilityTextProcessing    = "text_processing"
	CapabilityAppControl        = "app_control"
	CapabilityWindowManagement  = "window_management"
	CapabilityNotification      = "notification"
)

// CapabilityMap records which automation primitives are available on the
// current host. Built once per process by the capability probe and read-only
// thereafter; the probe shares it by reference with the planner and adapter.
type CapabilityMap map[string]bool

// Has reports availability of a named capability; unknown names are false.
func (m CapabilityMap) Has(name string) bool {
	return m[name]
}

// Names returns the capability keys present in the map, unordered.
func (m CapabilityMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}
