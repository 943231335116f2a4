package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/and161185/dragon-arena/internal/errs"
)

// toStatus maps service errors to gRPC status codes. Unknown errors become Internal
// without leaking their text.
func toStatus(op string, err error) error {
	if err == nil {
		return nil
	}
	var code codes.Code
	switch {
	case errors.Is(err, errs.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, errs.ErrNotOwner),
		errors.Is(err, errs.ErrNotParticipant),
		errors.Is(err, errs.ErrUnauthorized):
		code = codes.PermissionDenied
	case errors.Is(err, errs.ErrRateLimited):
		code = codes.ResourceExhausted
	case errors.Is(err, errs.ErrInsufficientProgress),
		errors.Is(err, errs.ErrNoDragonSelected),
		errors.Is(err, errs.ErrLevelTooHigh):
		code = codes.FailedPrecondition
	case errors.Is(err, errs.ErrAlreadyExists):
		code = codes.AlreadyExists
	case errors.Is(err, errs.ErrInvalidArgument):
		code = codes.InvalidArgument
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		return status.Errorf(codes.Internal, "%s: internal error", op)
	}
	return status.Errorf(code, "%s: %v", op, err)
}
