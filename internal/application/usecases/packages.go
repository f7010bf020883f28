package usecases

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// PackageUseCase manages the device's OS packages
type PackageUseCase struct {
	packages interfaces.PackageManager
	logger   *logrus.Logger
}

// NewPackageUseCase creates a PackageUseCase
func NewPackageUseCase(packages interfaces.PackageManager, logger *logrus.Logger) *PackageUseCase {
	return &PackageUseCase{
		packages: packages,
		logger:   logger,
	}
}

// List returns the installed packages sorted by name
func (uc *PackageUseCase) List(ctx context.Context) ([]entities.PackageInfo, error) {
	pkgs, err := uc.packages.List(ctx)
	if err != nil {
		return nil, errors.WrapCollaborator(err, "failed to list packages")
	}
	sort.Slice(pkgs, func(i, j int) bool {
		return pkgs[i].Name < pkgs[j].Name
	})
	return pkgs, nil
}

// Install installs the package file at path
func (uc *PackageUseCase) Install(ctx context.Context, path string) error {
	if !filepath.IsAbs(path) {
		return errors.NewValidationError(fmt.Sprintf("package path %q must be absolute", path), nil)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".deb", ".rpm":
	default:
		return errors.NewValidationError(fmt.Sprintf("package %q is not a .deb or .rpm file", path), nil)
	}

	if err := uc.packages.Install(ctx, path); err != nil {
		uc.logger.WithField("path", path).WithError(err).Error("Package install failed")
		return errors.WrapCollaborator(err, fmt.Sprintf("failed to install %s", filepath.Base(path)))
	}
	uc.logger.WithField("path", path).Info("Package installed")
	return nil
}

// Uninstall removes the named package
func (uc *PackageUseCase) Uninstall(ctx context.Context, name string) error {
	if name == "" || strings.ContainsAny(name, " /") || strings.HasPrefix(name, "-") {
		return errors.NewValidationError(fmt.Sprintf("invalid package name %q", name), nil)
	}

	if err := uc.packages.Uninstall(ctx, name); err != nil {
		uc.logger.WithField("package", name).WithError(err).Error("Package uninstall failed")
		return errors.WrapCollaborator(err, fmt.Sprintf("failed to uninstall %s", name))
	}
	uc.logger.WithField("package", name).Info("Package uninstalled")
	return nil
}
