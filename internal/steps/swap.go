package steps

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mlopez-dev/vps-setup/internal/config"
	"github.com/mlopez-dev/vps-setup/internal/system"
	"github.com/mlopez-dev/vps-setup/internal/ui"
)

const (
	fstabPath        = "/etc/fstab"
	swappinessDropIn = "/etc/sysctl.d/99-swappiness.conf"
)

// SwapFstabLine returns the mount table entry registering a swap file for
// boot-time activation. The full line is the dedup key.
func SwapFstabLine(path string) string {
	return fmt.Sprintf("%s none swap sw 0 0", path)
}

// SwapProvisioner ensures a fixed-size swap file exists, is active, is
// registered in /etc/fstab, and that vm.swappiness is persisted.
type SwapProvisioner struct {
	fs     system.FileSystemManager
	swap   *system.SwapManager
	sysctl *system.SysctlManager
	cfg    *config.Config
	ui     *ui.UI

	SwapFile   string
	SizeBytes  int64
	Swappiness int
}

// NewSwapProvisioner creates a new SwapProvisioner with targets taken from
// the configuration (falling back to the defaults table).
func NewSwapProvisioner(fs system.FileSystemManager, swap *system.SwapManager,
	sysctl *system.SysctlManager, cfg *config.Config, u *ui.UI) *SwapProvisioner {

	sizeGiB, err := strconv.Atoi(cfg.GetOrDefault(config.KeySwapSizeGiB, "2"))
	if err != nil || sizeGiB < 1 {
		sizeGiB = 2
	}
	swappiness, err := strconv.Atoi(cfg.GetOrDefault(config.KeySwappiness, "10"))
	if err != nil || swappiness < 0 || swappiness > 100 {
		swappiness = 10
	}

	return &SwapProvisioner{
		fs:         fs,
		swap:       swap,
		sysctl:     sysctl,
		cfg:        cfg,
		ui:         u,
		SwapFile:   cfg.GetOrDefault(config.KeySwapFile, "/swapfile"),
		SizeBytes:  int64(sizeGiB) << 30,
		Swappiness: swappiness,
	}
}

// Run executes the swap provisioning procedure
func (s *SwapProvisioner) Run() error {
	s.ui.Header("Swap Provisioning")
	s.ui.Infof("Target: %s swap file at %s, vm.swappiness=%d",
		humanize.IBytes(uint64(s.SizeBytes)), s.SwapFile, s.Swappiness)

	return runActions(s.ui, []Action{
		{Name: "Checking privileges", Run: requireRoot},
		{Name: "Ensuring swap file", Run: s.ensureSwapFile},
		{Name: "Registering swap in /etc/fstab", Run: s.ensureFstabEntry},
		{Name: "Persisting swappiness", Run: s.applySwappiness},
		{Name: "Swap status", Run: s.report},
	})
}

// ensureSwapFile creates, formats, and activates the swap file. A
// pre-existing file whose size differs from the target is never touched.
func (s *SwapProvisioner) ensureSwapFile() Result {
	active, err := s.swap.IsActive(s.SwapFile)
	if err != nil {
		s.ui.Warningf("could not query active swap devices: %v", err)
	}
	if active {
		return successf("%s is already active as swap", s.SwapFile)
	}

	exists, err := s.fs.FileExists(s.SwapFile)
	if err != nil {
		return fatal(err, "failed to check %s", s.SwapFile)
	}

	if exists {
		return s.activateExistingFile()
	}
	return s.createSwapFile()
}

// activateExistingFile handles a file already present at the swap path
func (s *SwapProvisioner) activateExistingFile() Result {
	size, err := s.fs.FileSize(s.SwapFile)
	if err != nil {
		return fatal(err, "failed to stat %s", s.SwapFile)
	}

	if size != s.SizeBytes {
		// Whatever this file is, it is not ours to destroy
		s.ui.Warningf("%s exists with size %s (expected %s); refusing to overwrite",
			s.SwapFile, humanize.IBytes(uint64(size)), humanize.IBytes(uint64(s.SizeBytes)))

		if !s.swap.IsFormatted(s.SwapFile) {
			return warningf("%s is not formatted as swap; leaving it untouched", s.SwapFile)
		}
		if err := s.swap.Enable(s.SwapFile); err != nil {
			return warningf("could not activate existing swap file %s: %v", s.SwapFile, err)
		}
		return successf("activated existing swap file %s (size left unchanged)", s.SwapFile)
	}

	if err := s.fs.Chmod(s.SwapFile, 0600); err != nil {
		return fatal(err, "failed to restrict permissions on %s", s.SwapFile)
	}
	if !s.swap.IsFormatted(s.SwapFile) {
		if err := s.swap.Format(s.SwapFile); err != nil {
			return fatal(err, "failed to format %s as swap", s.SwapFile)
		}
	}
	if err := s.swap.Enable(s.SwapFile); err != nil {
		return fatal(err, "failed to activate %s", s.SwapFile)
	}
	return successf("activated swap file %s", s.SwapFile)
}

// createSwapFile allocates, formats, and activates a fresh swap file
func (s *SwapProvisioner) createSwapFile() Result {
	dir := filepath.Dir(s.SwapFile)
	free, err := s.fs.FreeSpace(dir)
	if err != nil {
		return fatal(err, "failed to check free space on %s", dir)
	}
	if free < uint64(s.SizeBytes) {
		return fatal(nil, "insufficient free space on %s: %s available, %s required",
			dir, humanize.IBytes(free), humanize.IBytes(uint64(s.SizeBytes)))
	}

	s.ui.Infof("Allocating %s at %s...", humanize.IBytes(uint64(s.SizeBytes)), s.SwapFile)
	if err := s.swap.Allocate(s.SwapFile, s.SizeBytes); err != nil {
		return fatal(err, "failed to allocate swap file %s", s.SwapFile)
	}
	if err := s.fs.Chmod(s.SwapFile, 0600); err != nil {
		return fatal(err, "failed to restrict permissions on %s", s.SwapFile)
	}
	if err := s.swap.Format(s.SwapFile); err != nil {
		return fatal(err, "failed to format %s as swap", s.SwapFile)
	}
	if err := s.swap.Enable(s.SwapFile); err != nil {
		return fatal(err, "failed to activate %s", s.SwapFile)
	}

	return successf("created and activated %s swap file at %s",
		humanize.IBytes(uint64(s.SizeBytes)), s.SwapFile)
}

// ensureFstabEntry appends the swap line to /etc/fstab unless an identical
// line is already present, backing up the table first (best effort).
func (s *SwapProvisioner) ensureFstabEntry() Result {
	entry := SwapFstabLine(s.SwapFile)

	data, err := s.fs.ReadFile(fstabPath)
	if err != nil {
		return fatal(err, "failed to read %s", fstabPath)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return successf("%s already contains the swap entry", fstabPath)
		}
	}

	if backupPath, err := s.fs.BackupFile(fstabPath); err != nil {
		s.ui.Warningf("could not back up %s: %v", fstabPath, err)
	} else if backupPath != "" {
		s.ui.Infof("Backed up %s to %s", fstabPath, backupPath)
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := s.fs.WriteFile(fstabPath, []byte(content), 0644); err != nil {
		return fatal(err, "failed to update %s", fstabPath)
	}
	return successf("added swap entry to %s", fstabPath)
}

// applySwappiness overwrites the sysctl drop-in and applies it, falling back
// to setting the runtime value directly on hosts whose sysctl lacks --system.
func (s *SwapProvisioner) applySwappiness() Result {
	if err := s.sysctl.PersistSwappiness(s.Swappiness, swappinessDropIn); err != nil {
		return fatal(err, "failed to write %s", swappinessDropIn)
	}
	s.ui.Infof("Wrote %s (vm.swappiness=%d)", swappinessDropIn, s.Swappiness)

	if err := s.sysctl.ApplySystem(); err != nil {
		s.ui.Warningf("sysctl --system failed: %v; setting runtime value directly", err)
		if err := s.sysctl.SetSwappiness(s.Swappiness); err != nil {
			return warningf("could not apply vm.swappiness at runtime: %v (persisted value takes effect after reboot)", err)
		}
	}
	return successf("vm.swappiness=%d applied and persisted", s.Swappiness)
}

// report prints the final swap and memory summary
func (s *SwapProvisioner) report() Result {
	if out, err := s.swap.ActiveSummary(); err == nil && strings.TrimSpace(out) != "" {
		s.ui.Print(strings.TrimRight(out, "\n"))
	}
	if out, err := s.swap.MemorySummary(); err == nil && strings.TrimSpace(out) != "" {
		s.ui.Print(strings.TrimRight(out, "\n"))
	}
	return successf("swap provisioning complete")
}
