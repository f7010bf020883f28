package usecases

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"testing"
	"time"

	domainErrors "gateway-console/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func selfSignedPEM(t *testing.T, commonName string, isCA bool) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(0x1f2e),
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		NotAfter:              time.Date(2034, 1, 1, 0, 0, 0, 0, time.UTC),
		IsCA:                  isCA,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func TestCertificateUseCase_Install(t *testing.T) {
	fs := new(MockFileSystem)
	uc := NewCertificateUseCase(fs, "/var/lib/gateway-console/certs", newTestLogger())

	data := selfSignedPEM(t, "broker.example.com", false)
	fs.On("WriteFile", "/var/lib/gateway-console/certs/broker.pem", data, os.FileMode(0644)).Return(nil)

	info, err := uc.Install("broker", data)
	require.NoError(t, err)
	assert.Equal(t, "broker", info.Alias)
	assert.Equal(t, "CN=broker.example.com", info.Subject)
	assert.Equal(t, "1f2e", info.SerialNumber)
	assert.False(t, info.IsCA)
	fs.AssertExpectations(t)
}

func TestCertificateUseCase_InstallRejects(t *testing.T) {
	fs := new(MockFileSystem)
	uc := NewCertificateUseCase(fs, "/certs", newTestLogger())

	_, err := uc.Install("../etc/passwd", selfSignedPEM(t, "x", false))
	assert.True(t, domainErrors.IsValidationError(err))

	keyOnly := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{1, 2, 3}})
	_, err = uc.Install("key", keyOnly)
	assert.True(t, domainErrors.IsConfigurationError(err))

	_, err = uc.Install("junk", []byte("not pem"))
	assert.True(t, domainErrors.IsConfigurationError(err))

	fs.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestCertificateUseCase_List(t *testing.T) {
	fs := new(MockFileSystem)
	uc := NewCertificateUseCase(fs, "/certs", newTestLogger())

	fs.On("Exists", "/certs").Return(true)
	fs.On("ListFiles", "/certs").Return([]string{"zeta.pem", "README", "root-ca.pem", "broken.pem"}, nil)
	fs.On("ReadFile", "/certs/zeta.pem").Return(selfSignedPEM(t, "zeta", false), nil)
	fs.On("ReadFile", "/certs/root-ca.pem").Return(selfSignedPEM(t, "Root CA", true), nil)
	fs.On("ReadFile", "/certs/broken.pem").Return([]byte("garbage"), nil)

	certs, err := uc.List()
	require.NoError(t, err)
	require.Len(t, certs, 2)
	assert.Equal(t, "root-ca", certs[0].Alias)
	assert.True(t, certs[0].IsCA)
	assert.Equal(t, "zeta", certs[1].Alias)
}

func TestCertificateUseCase_ListMissingDir(t *testing.T) {
	fs := new(MockFileSystem)
	uc := NewCertificateUseCase(fs, "/certs", newTestLogger())
	fs.On("Exists", "/certs").Return(false)

	certs, err := uc.List()
	require.NoError(t, err)
	assert.Empty(t, certs)
}

func TestCertificateUseCase_Remove(t *testing.T) {
	fs := new(MockFileSystem)
	uc := NewCertificateUseCase(fs, "/certs", newTestLogger())

	fs.On("Exists", "/certs/broker.pem").Return(true)
	fs.On("Remove", "/certs/broker.pem").Return(nil)
	fs.On("Exists", "/certs/ghost.pem").Return(false)

	require.NoError(t, uc.Remove("broker"))
	assert.True(t, domainErrors.IsNotFoundError(uc.Remove("ghost")))
}
