package adapters

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"time"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/interfaces"
)

type packageCommands struct {
	list      []string
	install   []string
	uninstall []string
}

var packageCommandsByOS = map[interfaces.OSType]packageCommands{
	interfaces.OSTypeUbuntu: {
		list:      []string{"dpkg-query", "-W", "-f=${Package}\t${Version}\n"},
		install:   []string{"dpkg", "-i"},
		uninstall: []string{"dpkg", "-r"},
	},
	interfaces.OSTypeRHEL: {
		list:      []string{"rpm", "-qa", "--queryformat", "%{NAME}\t%{VERSION}-%{RELEASE}\n"},
		install:   []string{"rpm", "-U", "--replacepkgs"},
		uninstall: []string{"rpm", "-e"},
	},
}

// SystemPackageManager drives dpkg or rpm through the command executor
type SystemPackageManager struct {
	executor interfaces.CommandExecutor
	commands packageCommands
	timeout  time.Duration
}

// NewSystemPackageManager creates a package manager for the given OS family.
// Unknown families fall back to dpkg.
func NewSystemPackageManager(executor interfaces.CommandExecutor, osType interfaces.OSType, timeout time.Duration) *SystemPackageManager {
	commands, ok := packageCommandsByOS[osType]
	if !ok {
		commands = packageCommandsByOS[interfaces.OSTypeUbuntu]
	}
	return &SystemPackageManager{
		executor: executor,
		commands: commands,
		timeout:  timeout,
	}
}

// List returns the installed packages
func (p *SystemPackageManager) List(ctx context.Context) ([]entities.PackageInfo, error) {
	output, err := p.run(ctx, p.commands.list)
	if err != nil {
		return nil, err
	}

	var pkgs []entities.PackageInfo
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		name, version, found := strings.Cut(scanner.Text(), "\t")
		if !found || name == "" {
			continue
		}
		pkgs = append(pkgs, entities.PackageInfo{Name: name, Version: strings.TrimSpace(version)})
	}
	return pkgs, scanner.Err()
}

// Install installs the package file at path
func (p *SystemPackageManager) Install(ctx context.Context, path string) error {
	_, err := p.run(ctx, append(p.commands.install, path))
	return err
}

// Uninstall removes the named package
func (p *SystemPackageManager) Uninstall(ctx context.Context, name string) error {
	_, err := p.run(ctx, append(p.commands.uninstall, name))
	return err
}

func (p *SystemPackageManager) run(ctx context.Context, argv []string) ([]byte, error) {
	args := append([]string(nil), argv[1:]...)
	if p.timeout > 0 {
		return p.executor.ExecuteWithTimeout(ctx, p.timeout, argv[0], args...)
	}
	return p.executor.Execute(ctx, argv[0], args...)
}
