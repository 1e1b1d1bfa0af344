package config

// Configuration key constants to prevent typos and enable autocomplete
const (
	// Swap configuration
	KeySwapFile    = "SWAP_FILE"     // Path of the swap file
	KeySwapSizeGiB = "SWAP_SIZE_GIB" // Target swap file size in GiB
	KeySwappiness  = "SWAPPINESS"    // vm.swappiness value to persist

	// Docker configuration
	KeyDockerUser     = "DOCKER_USER"     // User granted docker group membership
	KeyComposeVersion = "COMPOSE_VERSION" // Release tag for the standalone compose binary

	// System configuration
	KeyConfigVersion = "CONFIG_VERSION"
)

// Default values for configuration keys
var Defaults = map[string]string{
	KeySwapFile:       "/swapfile",
	KeySwapSizeGiB:    "2",
	KeySwappiness:     "10",
	KeyDockerUser:     "ubuntu",
	KeyComposeVersion: "v2.27.0",
	KeyConfigVersion:  "1",
}
