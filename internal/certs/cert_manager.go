// Package certs loads PEM certificates for TLS between the client and the API.
package certs

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrExpired       = errors.New("certificate expired")
	ErrNoCertificate = errors.New("no usable certificate")
)

// CertManager reads the certificates kept in one directory.
type CertManager struct {
	certDir string
	now     func() time.Time
}

func NewCertManager(certDir string) *CertManager {
	return &CertManager{certDir: certDir, now: time.Now}
}

// LoadCertificates returns every certificate in .crt and .pem files under the directory.
func (cm *CertManager) LoadCertificates() ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	err := filepath.WalkDir(cm.certDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, ".crt") && !strings.HasSuffix(name, ".pem") {
			return nil
		}
		found, err := loadCertificates(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		certs = append(certs, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return certs, nil
}

// loadCertificates parses every CERTIFICATE block in a PEM file. Other block
// types such as keys are skipped.
func loadCertificates(path string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var certs []*x509.Certificate
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	return certs, nil
}

func (cm *CertManager) IsExpired(cert *x509.Certificate) bool {
	return cert.NotAfter.Before(cm.now())
}

// Pool builds a root pool from the unexpired certificates in the directory.
func (cm *CertManager) Pool() (*x509.CertPool, error) {
	certs, err := cm.LoadCertificates()
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	n := 0
	for _, c := range certs {
		if cm.IsExpired(c) {
			continue
		}
		pool.AddCert(c)
		n++
	}
	if n == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoCertificate, cm.certDir)
	}
	return pool, nil
}

// LoadKeyPair loads a server certificate and refuses one whose leaf has expired.
func (cm *CertManager) LoadKeyPair(certFile, keyFile string) (tls.Certificate, error) {
	pair, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return tls.Certificate{}, err
	}
	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	if err != nil {
		return tls.Certificate{}, err
	}
	if cm.IsExpired(leaf) {
		return tls.Certificate{}, fmt.Errorf("%w: %s (not after %s)", ErrExpired, certFile, leaf.NotAfter.Format(time.RFC3339))
	}
	pair.Leaf = leaf
	return pair, nil
}

// ClientTLS returns a client config trusting the certificates in the directory.
func (cm *CertManager) ClientTLS() (*tls.Config, error) {
	pool, err := cm.Pool()
	if err != nil {
		return nil, err
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}
