package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/dtroode/cipherbank/internal/mocks"
)

func TestGRPCServer_Address(t *testing.T) {
	s := NewGRPCServer(grpc.NewServer(), ":0")
	assert.Equal(t, ":0", s.Address())
}

func TestGRPCServer_Stop(t *testing.T) {
	s := NewGRPCServer(grpc.NewServer(), ":0")
	err := s.Stop(context.Background())
	assert.NoError(t, err)
}

func TestGRPCServer_Start_ListensAndServes(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer(grpc.NewServer(), ":0")
	sec := mocks.NewSecurityLayer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	listening := make(chan struct{})
	sec.On("Listen", "tcp", ":0").Return(ln, nil).Run(func(mock.Arguments) { close(listening) })

	served := make(chan error, 1)
	go func() { served <- srv.Start(sec) }()
	<-listening

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, <-served)
}

func TestGRPCServer_Start_ListenError(t *testing.T) {
	srv := NewGRPCServer(grpc.NewServer(), ":0")
	sec := mocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", ":0").Return(nil, errors.New("port taken"))

	err := srv.Start(sec)
	assert.ErrorContains(t, err, "failed to listen: port taken")
}
