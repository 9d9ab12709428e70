// Package server provides the network listeners the gRPC server is started on.
package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/cipherbank/internal/model"
)

// TLSListener represents a TLS-enabled network listener.
// It accepts TLS 1.3 connections using a certificate loaded from disk.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
}

// NewTLSListener creates a new TLSListener instance.
//
// Parameters:
//   - certFileName: Path to the PEM certificate file
//   - privateKeyFileName: Path to the PEM private key file
//
// The files are read when Listen is called, not here.
func NewTLSListener(certFileName, privateKeyFileName string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Listen loads the certificate and private key, then creates a TLS listener.
// Clients that cannot negotiate TLS 1.3 are rejected during the handshake.
//
// Parameters:
//   - protocol: The network protocol (typically "tcp")
//   - addr: The address to listen on
//
// Returns a TLS-enabled network listener or an error if the key pair cannot
// be loaded or the address cannot be bound.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	return tls.Listen(protocol, addr, l.config(cert))
}

func (l *TLSListener) config(cert tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS13,
	}
}

// PlainListener represents a plain (non-TLS) network listener.
// Use it only behind a TLS-terminating proxy or for local development.
type PlainListener struct{}

// NewPlainListener creates a new PlainListener instance.
func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

// Listen creates an unencrypted listener.
//
// Parameters:
//   - protocol: The network protocol (typically "tcp")
//   - addr: The address to listen on
//
// Returns a plain network listener or an error if the address cannot be bound.
func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	return net.Listen(protocol, addr)
}

// NewSecurityLayer selects the listener the server starts on.
//
// Parameters:
//   - enableTLS: GRPC_ENABLE_HTTPS; selects TLSListener when true
//   - certFileName: GRPC_CERT_FILE_NAME, used only with TLS
//   - privateKeyFileName: GRPC_PRIVATE_KEY_FILE_NAME, used only with TLS
//
// Returns a TLSListener or a PlainListener as a model.SecurityLayer.
func NewSecurityLayer(enableTLS bool, certFileName, privateKeyFileName string) model.SecurityLayer {
	if enableTLS {
		return NewTLSListener(certFileName, privateKeyFileName)
	}
	return NewPlainListener()
}
