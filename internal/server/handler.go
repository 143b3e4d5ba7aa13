package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"

	"github.com/okaytrev/softball-lineup/internal/api"
	"github.com/okaytrev/softball-lineup/internal/ledger"
	"github.com/okaytrev/softball-lineup/internal/metrics"
	"github.com/okaytrev/softball-lineup/internal/repository"
	"github.com/okaytrev/softball-lineup/internal/roster"
)

const SoftballTrackerPath = "/softball.v1.SoftballTracker/"

// NewSoftballTrackerHandler mounts every TrackerServer method under
// SoftballTrackerPath and returns the prefix with its handler.
func NewSoftballTrackerHandler(s *TrackerServer, rec *metrics.Recorder) (string, http.Handler) {
	mux := http.NewServeMux()
	opts := []connect.HandlerOption{
		connect.WithCodec(Codec{}),
		connect.WithInterceptors(observe(rec)),
	}

	unary(mux, "SelectBatter", s.SelectBatter, opts...)
	unary(mux, "SetAtBatNumber", s.SetAtBatNumber, opts...)
	unary(mux, "GetAtBatStatus", s.GetAtBatStatus, opts...)
	unary(mux, "HasRecord", s.HasRecord, opts...)
	unary(mux, "RecordAtBat", s.RecordAtBat, opts...)
	unary(mux, "GetGameStats", s.GetGameStats, opts...)
	unary(mux, "EndGame", s.EndGame, opts...)
	unary(mux, "ClearGame", s.ClearGame, opts...)

	unary(mux, "GetRoster", s.GetRoster, opts...)
	unary(mux, "AddPlayer", s.AddPlayer, opts...)
	unary(mux, "RemovePlayer", s.RemovePlayer, opts...)
	unary(mux, "AssignPosition", s.AssignPosition, opts...)
	unary(mux, "RemoveFromField", s.RemoveFromField, opts...)
	unary(mux, "MoveInLineup", s.MoveInLineup, opts...)
	unary(mux, "ResetRoster", s.ResetRoster, opts...)
	unary(mux, "ResetField", s.ResetField, opts...)
	unary(mux, "SaveLineup", s.SaveLineup, opts...)
	unary(mux, "LoadLineup", s.LoadLineup, opts...)

	unary(mux, "GetHistory", s.GetHistory, opts...)
	unary(mux, "ExportText", s.ExportText, opts...)

	return SoftballTrackerPath, mux
}

func unary[Req, Res any](mux *http.ServeMux, method string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts ...connect.HandlerOption) {
	procedure := SoftballTrackerPath + method
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// observe counts and times every call. The logger comes from the request
// context set up by the request id middleware.
func observe(rec *metrics.Recorder) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			method := strings.TrimPrefix(req.Spec().Procedure, SoftballTrackerPath)

			resp, err := next(ctx, req)

			status := "ok"
			if err != nil {
				status = connect.CodeOf(err).String()
			}
			rec.RPC(ctx, method, status)

			ev := zerolog.Ctx(ctx).Debug()
			if err != nil {
				ev = zerolog.Ctx(ctx).Warn().Err(err)
			}
			ev.Str("rpc", method).
				Str("status", status).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("rpc handled")
			return resp, err
		}
	}
}

func toConnectError(err error) error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, ledger.ErrInvalidInput), errors.Is(err, ledger.ErrNoRecord), errors.Is(err, roster.ErrInvalid):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, api.ErrNoData), errors.Is(err, repository.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, api.ErrPersistence):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
