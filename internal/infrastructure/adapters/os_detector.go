package adapters

import (
	"bufio"
	"fmt"
	"strings"

	"gateway-console/internal/domain/constants"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
)

// DefaultOSReleaseFile is read when no other path is configured
const DefaultOSReleaseFile = constants.OSReleaseFile

// RealOSDetector detects the host OS from an os-release file
type RealOSDetector struct {
	fileSystem  interfaces.FileSystem
	releaseFile string
}

// NewRealOSDetector creates a new RealOSDetector reading releaseFile
func NewRealOSDetector(fs interfaces.FileSystem, releaseFile string) interfaces.OSDetector {
	if releaseFile == "" {
		releaseFile = DefaultOSReleaseFile
	}
	return &RealOSDetector{
		fileSystem:  fs,
		releaseFile: releaseFile,
	}
}

// DetectOS returns the host OS family
func (d *RealOSDetector) DetectOS() (interfaces.OSType, error) {
	releaseInfo, err := d.parseOSRelease()
	if err != nil {
		return "", errors.NewSystemError(fmt.Sprintf("OS detection failed: cannot read %s", d.releaseFile), err)
	}

	id, ok := releaseInfo["ID"]
	if !ok {
		return "", errors.NewSystemError(fmt.Sprintf("OS detection failed: no ID field in %s", d.releaseFile), nil)
	}
	idLike := releaseInfo["ID_LIKE"]

	switch {
	case id == "ubuntu" || id == "debian" || strings.Contains(idLike, "ubuntu") || strings.Contains(idLike, "debian"):
		return interfaces.OSTypeUbuntu, nil
	case id == "rhel" || id == "centos" || id == "rocky" || id == "almalinux" || id == "oracle" ||
		strings.Contains(idLike, "rhel") || strings.Contains(idLike, "fedora"):
		return interfaces.OSTypeRHEL, nil
	}

	return "", errors.NewSystemError(fmt.Sprintf("unsupported OS type. ID: '%s', ID_LIKE: '%s'", id, idLike), nil)
}

// parseOSRelease parses KEY=value lines into a map
func (d *RealOSDetector) parseOSRelease() (map[string]string, error) {
	content, err := d.fileSystem.ReadFile(d.releaseFile)
	if err != nil {
		return nil, err
	}

	releaseInfo := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(string(content)))
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		releaseInfo[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), "\"")
	}

	return releaseInfo, nil
}
