package steps

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlopez-dev/vps-setup/internal/config"
	"github.com/mlopez-dev/vps-setup/internal/system"
	"github.com/mlopez-dev/vps-setup/internal/ui"
)

const (
	dockerKeyringDir   = "/etc/apt/keyrings"
	dockerKeyringPath  = "/etc/apt/keyrings/docker.gpg"
	dockerRepoPath     = "/etc/apt/sources.list.d/docker.list"
	composeBinaryPath  = "/usr/local/bin/docker-compose"
	dockerGroup        = "docker"
	dockerService      = "docker"
	dockerDownloadBase = "https://download.docker.com/linux"
	composeReleaseBase = "https://github.com/docker/compose/releases/download"
)

var (
	dockerPrereqs = []string{
		"ca-certificates", "curl", "gnupg", "lsb-release", "apt-transport-https",
	}
	dockerPackages = []string{
		"docker-ce", "docker-ce-cli", "containerd.io",
		"docker-buildx-plugin", "docker-compose-plugin",
	}
	dockerCorePackages = []string{"docker-ce", "docker-ce-cli", "containerd.io"}
)

// ResolveDockerUser determines the user to grant docker access to: an
// explicit argument wins, then the invoking (pre-sudo) user, then a
// previously saved choice, then the default.
func ResolveDockerUser(arg string, cfg *config.Config) string {
	if arg != "" {
		return arg
	}
	if u := system.InvokingUser(); u != "" {
		return u
	}
	if u, err := cfg.Get(config.KeyDockerUser); err == nil && u != "" {
		return u
	}
	return config.Defaults[config.KeyDockerUser]
}

// DockerInstaller installs Docker Engine, CLI, and Compose from the vendor
// apt repository, starts the service, and grants a target user access.
type DockerInstaller struct {
	fs       system.FileSystemManager
	runner   system.CommandRunner
	apt      *system.AptManager
	services *system.ServiceManager
	users    *system.UserManager
	docker   *system.DockerManager
	release  *system.Release
	fetch    system.Fetcher
	cfg      *config.Config
	ui       *ui.UI

	Username       string
	ComposeVersion string
}

// NewDockerInstaller creates a new DockerInstaller for the given target user
func NewDockerInstaller(fs system.FileSystemManager, runner system.CommandRunner,
	fetch system.Fetcher, cfg *config.Config, u *ui.UI, username string) *DockerInstaller {

	return &DockerInstaller{
		fs:             fs,
		runner:         runner,
		apt:            system.NewAptManager(runner),
		services:       system.NewServiceManager(runner),
		users:          system.NewUserManager(runner),
		docker:         system.NewDockerManager(runner),
		release:        system.NewRelease(runner, fs),
		fetch:          fetch,
		cfg:            cfg,
		ui:             u,
		Username:       username,
		ComposeVersion: cfg.GetOrDefault(config.KeyComposeVersion, "v2.27.0"),
	}
}

// Run executes the installation procedure
func (d *DockerInstaller) Run() error {
	d.ui.Header("Docker Installation")
	if d.Username != "" {
		d.ui.Infof("Target user for docker access: %s", d.Username)
	}

	return runActions(d.ui, []Action{
		{Name: "Checking privileges", Run: requireRoot},
		{Name: "Checking package manager", Run: func() Result { return requireApt(d.apt) }},
		{Name: "Installing prerequisites", Run: d.installPrereqs},
		{Name: "Installing Docker signing key", Run: d.installKeyring},
		{Name: "Configuring Docker apt repository", Run: d.writeRepoFile},
		{Name: "Installing Docker Engine", Run: d.installEngine},
		{Name: "Starting Docker service", Run: d.startService},
		{Name: "Ensuring Docker Compose", Run: d.ensureCompose},
		{Name: "Granting user access", Run: d.addUserToGroup},
		{Name: "Summary", Run: d.summary},
	})
}

func (d *DockerInstaller) installPrereqs() Result {
	d.ui.Info("Refreshing package index...")
	if err := d.apt.Update(); err != nil {
		return fatal(err, "failed to refresh package index")
	}
	if err := d.apt.Install(dockerPrereqs...); err != nil {
		return fatal(err, "failed to install prerequisite packages")
	}
	return successf("installed %s", strings.Join(dockerPrereqs, ", "))
}

// installKeyring fetches the vendor signing key and converts it to the
// binary keyring format apt trusts. Re-running dearmors over the existing
// keyring, so a pre-existing file never fails the step.
func (d *DockerInstaller) installKeyring() Result {
	distro, err := d.release.DistroID()
	if err != nil {
		return fatal(err, "could not determine distribution")
	}

	keyURL := fmt.Sprintf("%s/%s/gpg", dockerDownloadBase, distro)
	d.ui.Infof("Fetching signing key from %s", keyURL)
	keyData, err := d.fetch.Fetch(keyURL)
	if err != nil {
		return fatal(err, "failed to fetch Docker signing key")
	}

	if err := d.fs.EnsureDirectory(dockerKeyringDir, 0755); err != nil {
		return fatal(err, "failed to create %s", dockerKeyringDir)
	}

	tmpKeyPath := filepath.Join(os.TempDir(), "vps-setup-docker-key.asc")
	if err := d.fs.WriteFile(tmpKeyPath, keyData, 0644); err != nil {
		return fatal(err, "failed to stage signing key")
	}

	output, err := d.runner.Run("gpg", "--dearmor", "--yes", "-o", dockerKeyringPath, tmpKeyPath)
	_ = d.fs.Remove(tmpKeyPath)
	if err != nil {
		return fatal(err, "failed to convert signing key to keyring format: %s", strings.TrimSpace(output))
	}

	return successf("installed Docker signing key at %s", dockerKeyringPath)
}

// writeRepoFile writes the repository definition for the host's codename and
// architecture, scoped to the fetched key. Skips the write when the file
// already holds exactly this content.
func (d *DockerInstaller) writeRepoFile() Result {
	distro, err := d.release.DistroID()
	if err != nil {
		return fatal(err, "could not determine distribution")
	}
	codename, err := d.release.Codename()
	if err != nil {
		return fatal(err, "could not determine release codename")
	}
	arch, err := d.release.Architecture()
	if err != nil {
		return fatal(err, "could not determine architecture")
	}

	line := fmt.Sprintf("deb [arch=%s signed-by=%s] %s/%s %s stable\n",
		arch, dockerKeyringPath, dockerDownloadBase, distro, codename)

	if existing, err := d.fs.ReadFile(dockerRepoPath); err == nil && string(existing) == line {
		return successf("Docker repository already configured in %s", dockerRepoPath)
	}

	if err := d.fs.WriteFile(dockerRepoPath, []byte(line), 0644); err != nil {
		return fatal(err, "failed to write %s", dockerRepoPath)
	}
	return successf("wrote %s (%s %s, %s)", dockerRepoPath, distro, codename, arch)
}

// installEngine installs the engine, CLI, and plugins; when the full set
// fails it retries with the core engine only, treating plugins as optional.
func (d *DockerInstaller) installEngine() Result {
	d.ui.Info("Refreshing package index with Docker repository...")
	if err := d.apt.Update(); err != nil {
		return fatal(err, "failed to refresh package index")
	}

	if err := d.apt.Install(dockerPackages...); err != nil {
		d.ui.Warningf("full Docker install failed: %v", err)
		d.ui.Info("Retrying with core engine packages only...")
		if err := d.apt.Install(dockerCorePackages...); err != nil {
			return fatal(err, "failed to install Docker Engine")
		}
		return warningf("installed core Docker packages; plugins unavailable (compose handled separately)")
	}
	return successf("installed %s", strings.Join(dockerPackages, ", "))
}

func (d *DockerInstaller) startService() Result {
	if err := d.services.EnableNow(dockerService); err != nil {
		return fatal(err, "failed to enable and start the docker service")
	}

	version, err := d.docker.CLIVersion()
	if err != nil {
		return fatal(err, "docker CLI is not responding after install")
	}
	return successf("docker service running (%s)", version)
}

// ensureCompose verifies the native compose plugin and walks the fallback
// chain: standalone binary download, then a package-manager install. The
// whole chain is best-effort.
func (d *DockerInstaller) ensureCompose() Result {
	if _, err := d.docker.ComposePluginVersion(); err == nil {
		return successf("docker compose plugin is working")
	}
	d.ui.Warning("docker compose plugin not working; falling back to standalone binary")

	kernel, kerr := d.release.KernelName()
	machine, merr := d.release.Machine()
	if kerr == nil && merr == nil {
		url := fmt.Sprintf("%s/%s/docker-compose-%s-%s",
			composeReleaseBase, d.ComposeVersion, strings.ToLower(kernel), machine)
		d.ui.Infof("Downloading %s", url)

		if data, err := d.fetch.Fetch(url); err != nil {
			d.ui.Warningf("download failed: %v", err)
		} else if err := d.fs.WriteFile(composeBinaryPath, data, 0755); err != nil {
			d.ui.Warningf("failed to install %s: %v", composeBinaryPath, err)
		} else {
			return successf("installed standalone docker-compose at %s", composeBinaryPath)
		}
	} else {
		d.ui.Warning("could not determine host OS/architecture for the compose download")
	}

	d.ui.Info("Attempting package-manager install of docker-compose...")
	if err := d.apt.Install("docker-compose"); err != nil {
		return warningf("compose unavailable: %v (install it manually later)", err)
	}
	return successf("installed docker-compose via apt")
}

// addUserToGroup grants the target user docker access. A missing user or a
// failed group add is a warning, not fatal.
func (d *DockerInstaller) addUserToGroup() Result {
	if d.Username == "" {
		return warningf("no target user configured; skipping docker group membership")
	}
	if !d.users.Exists(d.Username) {
		return warningf("user %s does not exist; skipping docker group membership", d.Username)
	}

	if in, err := d.users.IsInGroup(d.Username, dockerGroup); err == nil && in {
		return successf("user %s is already in the %s group", d.Username, dockerGroup)
	}

	if err := d.users.AddToGroup(d.Username, dockerGroup); err != nil {
		return warningf("failed to add %s to the %s group: %v", d.Username, dockerGroup, err)
	}

	if err := d.cfg.Set(config.KeyDockerUser, d.Username); err != nil {
		d.ui.Warningf("failed to save docker user to config: %v", err)
	}
	return successf("added %s to the %s group", d.Username, dockerGroup)
}

func (d *DockerInstaller) summary() Result {
	if version, err := d.docker.CLIVersion(); err == nil {
		d.ui.Infof("Engine: %s", version)
	}
	if composeCmd, err := d.docker.ComposeCommand(); err == nil {
		d.ui.Infof("Compose: use '%s'", composeCmd)
	} else {
		d.ui.Warningf("compose not detected: %v", err)
	}

	d.ui.Print("")
	d.ui.Info("Next steps:")
	if d.Username != "" {
		d.ui.Infof("  1. Log out and back in as %s for the group change to take effect", d.Username)
	}
	d.ui.Info("  2. Smoke test: docker run --rm hello-world")
	d.ui.Info("  3. Review your firewall/security-group rules (nothing was changed)")

	return successf("Docker installation complete")
}
