package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"connectrpc.com/connect"

	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/export"
	"github.com/okaytrev/softball-lineup/internal/ledger"
	"github.com/okaytrev/softball-lineup/internal/roster"
	"github.com/okaytrev/softball-lineup/internal/service"
	"github.com/okaytrev/softball-lineup/internal/stats"
)

type TrackerServer struct {
	gameSvc    *service.GameService
	lineupSvc  *service.LineupService
	historySvc *service.HistoryService
	convention stats.Convention
	now        func() time.Time
}

func NewTrackerServer(gameSvc *service.GameService, lineupSvc *service.LineupService, historySvc *service.HistoryService, cfg *config.Config) *TrackerServer {
	return &TrackerServer{
		gameSvc:    gameSvc,
		lineupSvc:  lineupSvc,
		historySvc: historySvc,
		convention: cfg.Convention,
		now:        time.Now,
	}
}

func (s *TrackerServer) SelectBatter(ctx context.Context, req *connect.Request[SelectBatterRequest]) (*connect.Response[StatusResponse], error) {
	if _, err := s.gameSvc.SelectBatter(req.Msg.PlayerID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(s.status()), nil
}

func (s *TrackerServer) SetAtBatNumber(ctx context.Context, req *connect.Request[SetAtBatNumberRequest]) (*connect.Response[StatusResponse], error) {
	if _, err := s.gameSvc.SetAtBatNumber(req.Msg.Number); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(s.status()), nil
}

func (s *TrackerServer) GetAtBatStatus(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StatusResponse], error) {
	return connect.NewResponse(s.status()), nil
}

func (s *TrackerServer) status() *StatusResponse {
	return &StatusResponse{
		Status:       s.gameSvc.Status(),
		HighestAtBat: s.gameSvc.HighestAtBatNumber(),
	}
}

func (s *TrackerServer) HasRecord(ctx context.Context, req *connect.Request[HasRecordRequest]) (*connect.Response[HasRecordResponse], error) {
	rec, ok := s.gameSvc.HasRecord(req.Msg.PlayerID, req.Msg.Number)
	resp := &HasRecordResponse{Recorded: ok}
	if ok {
		resp.Existing = &rec
	}
	return connect.NewResponse(resp), nil
}

// RecordAtBat returns a conflict instead of an error when the at-bat already
// holds a result and Replace is not set.
func (s *TrackerServer) RecordAtBat(ctx context.Context, req *connect.Request[RecordAtBatRequest]) (*connect.Response[RecordAtBatResponse], error) {
	result, err := domain.ParseAtBatResult(req.Msg.Result)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	var outcome service.RecordOutcome
	if req.Msg.PlayerID != 0 {
		outcome, err = s.gameSvc.RecordAtBat(ctx, ledger.AtBat{
			PlayerID: req.Msg.PlayerID,
			Number:   req.Msg.Number,
			Result:   result,
			RBI:      req.Msg.RBI,
			Runs:     req.Msg.Runs,
		}, req.Msg.Replace)
	} else {
		outcome, err = s.gameSvc.RecordAtCursor(ctx, result, req.Msg.RBI, req.Msg.Runs, req.Msg.Replace)
	}

	var conflict *ledger.CorrectionConflictError
	if errors.As(err, &conflict) {
		return connect.NewResponse(&RecordAtBatResponse{Conflict: &Conflict{
			PlayerID:   conflict.PlayerID,
			PlayerName: conflict.PlayerName,
			Existing:   conflict.Existing,
			Message:    conflict.Error(),
		}}), nil
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RecordAtBatResponse{Outcome: &outcome}), nil
}

func (s *TrackerServer) GetGameStats(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[GameStatsResponse], error) {
	return connect.NewResponse(&GameStatsResponse{Game: s.gameSvc.Snapshot()}), nil
}

func (s *TrackerServer) EndGame(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[EndGameResponse], error) {
	report, err := s.gameSvc.EndGame(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&EndGameResponse{Report: report}), nil
}

func (s *TrackerServer) ClearGame(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[GameStatsResponse], error) {
	s.gameSvc.ClearGame()
	return connect.NewResponse(&GameStatsResponse{Game: s.gameSvc.Snapshot()}), nil
}

func (s *TrackerServer) GetRoster(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[RosterResponse], error) {
	return s.roster(nil)
}

func (s *TrackerServer) AddPlayer(ctx context.Context, req *connect.Request[AddPlayerRequest]) (*connect.Response[RosterResponse], error) {
	p, err := s.lineupSvc.AddPlayer(ctx, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	return s.roster(&p)
}

func (s *TrackerServer) RemovePlayer(ctx context.Context, req *connect.Request[PlayerIDRequest]) (*connect.Response[RosterResponse], error) {
	if err := s.lineupSvc.RemovePlayer(ctx, req.Msg.PlayerID); err != nil {
		return nil, toConnectError(err)
	}
	return s.roster(nil)
}

func (s *TrackerServer) AssignPosition(ctx context.Context, req *connect.Request[AssignPositionRequest]) (*connect.Response[RosterResponse], error) {
	if err := s.lineupSvc.AssignPosition(ctx, roster.Position(req.Msg.Position), req.Msg.PlayerID); err != nil {
		return nil, toConnectError(err)
	}
	return s.roster(nil)
}

func (s *TrackerServer) RemoveFromField(ctx context.Context, req *connect.Request[PlayerIDRequest]) (*connect.Response[RosterResponse], error) {
	if err := s.lineupSvc.RemoveFromField(ctx, req.Msg.PlayerID); err != nil {
		return nil, toConnectError(err)
	}
	return s.roster(nil)
}

func (s *TrackerServer) MoveInLineup(ctx context.Context, req *connect.Request[MoveInLineupRequest]) (*connect.Response[RosterResponse], error) {
	if err := s.lineupSvc.MoveInLineup(ctx, req.Msg.PlayerID, req.Msg.Index); err != nil {
		return nil, toConnectError(err)
	}
	return s.roster(nil)
}

func (s *TrackerServer) ResetRoster(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[RosterResponse], error) {
	s.lineupSvc.ResetRoster(ctx)
	return s.roster(nil)
}

func (s *TrackerServer) ResetField(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[RosterResponse], error) {
	s.lineupSvc.ResetField(ctx)
	return s.roster(nil)
}

func (s *TrackerServer) roster(added *domain.Player) (*connect.Response[RosterResponse], error) {
	return connect.NewResponse(&RosterResponse{Roster: s.lineupSvc.State(), Added: added}), nil
}

func (s *TrackerServer) SaveLineup(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[SaveLineupResponse], error) {
	lineup, err := s.lineupSvc.SaveToCloud(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SaveLineupResponse{Lineup: lineup}), nil
}

func (s *TrackerServer) LoadLineup(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[LoadLineupResponse], error) {
	rec, err := s.lineupSvc.LoadFromCloud(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&LoadLineupResponse{Record: rec, Roster: s.lineupSvc.State()}), nil
}

func (s *TrackerServer) GetHistory(ctx context.Context, req *connect.Request[HistoryRequest]) (*connect.Response[HistoryResponse], error) {
	f, err := req.Msg.filter()
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	report, err := s.historySvc.Report(ctx, f)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&HistoryResponse{Report: report}), nil
}

func (s *TrackerServer) ExportText(ctx context.Context, req *connect.Request[ExportRequest]) (*connect.Response[ExportResponse], error) {
	today := s.now()
	resp := &ExportResponse{}

	switch req.Msg.Kind {
	case ExportRoster:
		resp.Text = export.RosterText(s.lineupSvc.State().Teammates)
	case ExportLineup:
		resp.Text = export.LineupText(s.lineupSvc.State().BattingLineup)
	case ExportLineupCSV:
		var buf bytes.Buffer
		if err := export.LineupCSV(&buf, s.lineupSvc.State().BattingLineup); err != nil {
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		resp.Text = buf.String()
		resp.Filename = export.LineupFilename(today)
	case ExportBoxScore:
		resp.Text = export.BoxScoreText(s.gameSvc.Snapshot())
	case ExportStatsCSV:
		f, err := req.Msg.History.filter()
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		report, err := s.historySvc.Report(ctx, f)
		if err != nil {
			return nil, toConnectError(err)
		}
		var buf bytes.Buffer
		if err := export.StatsCSV(&buf, report.Rows, s.convention); err != nil {
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		resp.Text = buf.String()
		resp.Filename = export.StatsFilename(today)
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown export kind %q", req.Msg.Kind))
	}
	return connect.NewResponse(resp), nil
}
