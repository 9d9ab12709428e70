package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/cipherbank/internal/config"
)

// writeServerCertificate writes a self-signed certificate for 127.0.0.1 and
// returns a pool that trusts it.
func writeServerCertificate(t *testing.T, certFile, keyFile string) *x509.CertPool {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: "cipherbank test"},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1)},
		IsCA:                  true,
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}), 0o600))

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	pool := x509.NewCertPool()
	pool.AddCert(cert)
	return pool
}

// serveHandshakes completes the TLS handshake on every accepted connection.
func serveHandshakes(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go func() {
			defer conn.Close()
			if tlsConn, ok := conn.(*tls.Conn); ok {
				_ = tlsConn.Handshake()
			}
		}()
	}
}

// listenFromEnv builds the security layer the way the server does at
// startup: from GRPC_* environment variables.
func listenFromEnv(t *testing.T, enableTLS, certFile, keyFile string) net.Listener {
	t.Helper()

	t.Setenv("GRPC_ENABLE_HTTPS", enableTLS)
	t.Setenv("GRPC_CERT_FILE_NAME", certFile)
	t.Setenv("GRPC_PRIVATE_KEY_FILE_NAME", keyFile)

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	sl := NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	ln, err := sl.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	return ln
}

func TestSecurityLayer_HTTPSEnabled(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	roots := writeServerCertificate(t, certFile, keyFile)

	ln := listenFromEnv(t, "true", certFile, keyFile)
	go serveHandshakes(ln)

	t.Run("negotiates TLS 1.3", func(t *testing.T) {
		conn, err := tls.Dial("tcp", ln.Addr().String(), &tls.Config{RootCAs: roots, ServerName: "127.0.0.1"})
		require.NoError(t, err)
		defer conn.Close()

		assert.Equal(t, uint16(tls.VersionTLS13), conn.ConnectionState().Version)
	})

	t.Run("rejects TLS 1.2 clients", func(t *testing.T) {
		conn, err := tls.Dial("tcp", ln.Addr().String(), &tls.Config{
			RootCAs:    roots,
			ServerName: "127.0.0.1",
			MaxVersion: tls.VersionTLS12,
		})
		if conn != nil {
			_ = conn.Close()
		}
		assert.Error(t, err)
	})
}

func TestSecurityLayer_HTTPSDisabled(t *testing.T) {
	// Certificate paths are ignored without HTTPS.
	ln := listenFromEnv(t, "false", "missing.pem", "missing-key.pem")

	_, ok := ln.(*net.TCPListener)
	assert.True(t, ok, "expected a plain TCP listener, got %T", ln)
}

func TestNewSecurityLayer(t *testing.T) {
	layer := NewSecurityLayer(true, "cert.pem", "key.pem")
	require.IsType(t, &TLSListener{}, layer)
	assert.Equal(t, "cert.pem", layer.(*TLSListener).certFileName)
	assert.Equal(t, "key.pem", layer.(*TLSListener).privateKeyFileName)

	assert.IsType(t, &PlainListener{}, NewSecurityLayer(false, "cert.pem", "key.pem"))
}

func TestTLSListener_Config(t *testing.T) {
	cert := tls.Certificate{Certificate: [][]byte{{1}}}
	cfg := NewTLSListener("unused.crt", "unused.key").config(cert)

	assert.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)
	assert.Equal(t, []tls.Certificate{cert}, cfg.Certificates)
}

func TestTLSListener_Listen_Errors(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	writeServerCertificate(t, certFile, keyFile)

	tests := []struct {
		name     string
		listener *TLSListener
		addr     string
		wantErr  string
	}{
		{
			name:     "missing certificate",
			listener: NewTLSListener(filepath.Join(dir, "absent.pem"), keyFile),
			addr:     "127.0.0.1:0",
			wantErr:  "failed to load TLS certificate",
		},
		{
			name:     "key does not match",
			listener: NewTLSListener(certFile, certFile),
			addr:     "127.0.0.1:0",
			wantErr:  "failed to load TLS certificate",
		},
		{
			name:     "bad address",
			listener: NewTLSListener(certFile, keyFile),
			addr:     "invalid-address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ln, err := tt.listener.Listen("tcp", tt.addr)
			assert.Nil(t, ln)
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestPlainListener_Listen(t *testing.T) {
	ln, err := NewPlainListener().Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	assert.Equal(t, "tcp", ln.Addr().Network())

	_, err = NewPlainListener().Listen("tcp", "invalid-address")
	assert.Error(t, err)
}
