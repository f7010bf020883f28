package usecases

import (
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gateway-console/internal/domain/constants"
	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const certificateExt = ".pem"

var certificateAliasPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// CertificateUseCase manages the PEM certificates trusted by the device.
// Each alias is stored as <alias>.pem in the certificate directory.
type CertificateUseCase struct {
	fileSystem interfaces.FileSystem
	certDir    string
	logger     *logrus.Logger
}

// NewCertificateUseCase creates a CertificateUseCase
func NewCertificateUseCase(fs interfaces.FileSystem, certDir string, logger *logrus.Logger) *CertificateUseCase {
	return &CertificateUseCase{
		fileSystem: fs,
		certDir:    certDir,
		logger:     logger,
	}
}

// List returns the installed certificates sorted by alias. Files that do not
// hold a parseable certificate are skipped.
func (uc *CertificateUseCase) List() ([]entities.CertificateInfo, error) {
	if !uc.fileSystem.Exists(uc.certDir) {
		return []entities.CertificateInfo{}, nil
	}

	files, err := uc.fileSystem.ListFiles(uc.certDir)
	if err != nil {
		return nil, errors.NewSystemError("failed to list certificates", err)
	}

	certs := make([]entities.CertificateInfo, 0, len(files))
	for _, file := range files {
		if !strings.HasSuffix(file, certificateExt) {
			continue
		}
		alias := strings.TrimSuffix(file, certificateExt)

		data, err := uc.fileSystem.ReadFile(filepath.Join(uc.certDir, file))
		if err != nil {
			uc.logger.WithField("alias", alias).WithError(err).Warn("Failed to read certificate")
			continue
		}
		info, err := parseCertificate(alias, data)
		if err != nil {
			uc.logger.WithField("alias", alias).WithError(err).Warn("Skipping invalid certificate")
			continue
		}
		certs = append(certs, *info)
	}

	sort.Slice(certs, func(i, j int) bool {
		return certs[i].Alias < certs[j].Alias
	})
	return certs, nil
}

// Install stores a PEM certificate under alias, replacing any existing one
func (uc *CertificateUseCase) Install(alias string, pemData []byte) (*entities.CertificateInfo, error) {
	if !certificateAliasPattern.MatchString(alias) {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid certificate alias %q", alias), nil)
	}

	info, err := parseCertificate(alias, pemData)
	if err != nil {
		return nil, errors.NewConfigurationError(fmt.Sprintf("certificate %s is not a valid PEM certificate", alias), err)
	}

	if err := uc.fileSystem.WriteFile(uc.path(alias), pemData, constants.ConfigFilePermission); err != nil {
		return nil, errors.NewSystemError(fmt.Sprintf("failed to store certificate %s", alias), err)
	}

	uc.logger.WithFields(logrus.Fields{
		"alias":     alias,
		"subject":   info.Subject,
		"not_after": info.NotAfter,
	}).Info("Certificate installed")
	return info, nil
}

// Remove deletes the certificate stored under alias
func (uc *CertificateUseCase) Remove(alias string) error {
	if !certificateAliasPattern.MatchString(alias) {
		return errors.NewValidationError(fmt.Sprintf("invalid certificate alias %q", alias), nil)
	}

	path := uc.path(alias)
	if !uc.fileSystem.Exists(path) {
		return errors.NewNotFoundError(fmt.Sprintf("certificate %s not found", alias))
	}
	if err := uc.fileSystem.Remove(path); err != nil {
		return errors.NewSystemError(fmt.Sprintf("failed to remove certificate %s", alias), err)
	}

	uc.logger.WithField("alias", alias).Info("Certificate removed")
	return nil
}

func (uc *CertificateUseCase) path(alias string) string {
	return filepath.Join(uc.certDir, alias+certificateExt)
}

// parseCertificate describes the first CERTIFICATE block of data
func parseCertificate(alias string, data []byte) (*entities.CertificateInfo, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, fmt.Errorf("no CERTIFICATE block found")
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		return &entities.CertificateInfo{
			Alias:        alias,
			Subject:      cert.Subject.String(),
			Issuer:       cert.Issuer.String(),
			SerialNumber: hex.EncodeToString(cert.SerialNumber.Bytes()),
			NotBefore:    cert.NotBefore,
			NotAfter:     cert.NotAfter,
			IsCA:         cert.IsCA,
		}, nil
	}
}
