package handler

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/cipherbank/internal/apierrors"
)

func handleError(err error) error {
	if apiErr, ok := apierrors.As(err); ok {
		return status.Error(apiErr.GRPCCode, apiErr.Message)
	}

	return status.Error(codes.Internal, "internal server error")
}
