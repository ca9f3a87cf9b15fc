// Command f1telemetryd is the telemetry companion daemon: it binds the
// inbound UDP (or replay TCP) telemetry source, decodes and applies
// packets to the race model, fans the result out to browser dashboards
// and HUD overlays, tees raw datagrams to optional forward endpoints and
// a packet-capture file, and persists a session archive on session end
// (SPEC_FULL.md §6-§7).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/psybedev/f1telemetry/advisor"
	"github.com/psybedev/f1telemetry/analytics"
	"github.com/psybedev/f1telemetry/archive"
	"github.com/psybedev/f1telemetry/config"
	"github.com/psybedev/f1telemetry/fanout"
	"github.com/psybedev/f1telemetry/forward"
	"github.com/psybedev/f1telemetry/ingress"
	"github.com/psybedev/f1telemetry/ipc"
	"github.com/psybedev/f1telemetry/racemodel"
)

// Exit codes per spec §6.
const (
	exitClean      = 0
	exitInternal   = 1
	exitConfig     = 2
	exitBindFailed = 3
)

// archiveDir and captureDir hold the session archive / raw-capture
// artifacts spec §7 describes by content, not by path; both are created
// relative to the working directory the daemon is started from.
const (
	archiveDir = "archive"
	captureDir = "captures"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run never calls os.Exit itself, so every deferred Close still fires on
// the way out (spec §7).
func run(args []string) int {
	cfg, err := config.ParseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "f1telemetryd:", err)
		return exitConfig
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model := racemodel.NewModel()
	records := analytics.NewRecordTracker()
	speedTraps := analytics.NewSpeedTrapTracker()

	var forwarder ingress.RawSink
	var fwd *forward.Fanout
	if len(cfg.ForwardEndpoints) > 0 {
		fwd = forward.New(logger.With().Str("component", "forward").Logger(), cfg.ForwardEndpoints)
		forwarder = fwd
		defer fwd.Close()
	}

	var capture *archive.CaptureWriter
	if cfg.PacketCaptureMode != config.CaptureDisabled {
		if err := os.MkdirAll(captureDir, 0o755); err != nil {
			logger.Error().Err(err).Msg("f1telemetryd: creating capture directory")
			return exitInternal
		}
		path := filepath.Join(captureDir, fmt.Sprintf("capture_%d.bin", time.Now().Unix()))
		capture, err = archive.NewCaptureWriter(path)
		if err != nil {
			logger.Error().Err(err).Msg("f1telemetryd: opening capture file")
			return exitInternal
		}
		defer capture.Close()
		logger.Info().Str("path", path).Msg("f1telemetryd: packet capture enabled")
	}

	listener := ingress.NewListener(logger.With().Str("component", "ingress").Logger(), cfg.IngressQueueSize, forwarder)
	defer listener.Close()

	if err := bindIngress(ctx, cfg, listener, logger); err != nil {
		logger.Error().Err(err).Msg("f1telemetryd: binding telemetry source")
		return exitBindFailed
	}

	hub := fanout.NewHub(
		logger.With().Str("component", "fanout").Logger(),
		cfg.RefreshInterval,
		cfg.MaxConsecutiveSlowWrites,
		raceTablePayload(model, cfg),
		requestHandler(model),
	)
	defer hub.Stop()
	hub.StartBroadcasters(fanout.RoleRaceTable, fanout.RolePlayerOverlay)

	bus := ipc.New(
		logger.With().Str("component", "ipc").Logger(),
		cfg.RefreshInterval,
		cfg.MaxConsecutiveSlowWrites,
		raceTablePayload(model, cfg),
		nil,
		ipcDispatcher(logger),
	)
	defer bus.Stop()
	bus.Start()

	adv, err := advisor.New(ctx, logger.With().Str("component", "advisor").Logger(), cfg.AdvisorAPIKey, cfg.AdvisorModel)
	if err != nil {
		logger.Warn().Err(err).Msg("f1telemetryd: advisor disabled, continuing without it")
		adv = &advisor.Advisor{}
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); applyLoop(ctx, listener, model, capture) }()
	go func() { defer wg.Done(); archiveLoop(ctx, cfg, model, records, speedTraps, logger) }()
	go func() { defer wg.Done(); recordsLoop(ctx, model, records, speedTraps) }()
	go func() { defer wg.Done(); advisorLoop(ctx, cfg, model, adv, hub, logger) }()

	mainEcho := echo.New()
	mainEcho.HideBanner = true
	mainEcho.GET("/ws", hub.Handler)
	mainSrv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.ServerPort), Handler: mainEcho}
	go serveHTTP(mainSrv, logger.With().Str("component", "http").Logger())
	defer shutdownHTTP(mainSrv, logger)

	ipcEcho := echo.New()
	ipcEcho.HideBanner = true
	ipcEcho.GET("/ws", bus.Hub.Handler)
	ipcSrv := &http.Server{Addr: fmt.Sprintf("127.0.0.1:%d", cfg.ServerPort+1), Handler: ipcEcho}
	go serveHTTP(ipcSrv, logger.With().Str("component", "ipc-http").Logger())
	defer shutdownHTTP(ipcSrv, logger)

	logger.Info().Int("telemetry_port", cfg.TelemetryPort).Int("server_port", cfg.ServerPort).Msg("f1telemetryd: running")

	<-ctx.Done()
	logger.Info().Msg("f1telemetryd: shutdown signal received, draining")

	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(cfg.ShutdownDrainTimeout):
		logger.Warn().Dur("timeout", cfg.ShutdownDrainTimeout).Msg("f1telemetryd: one or more tasks did not drain in time")
	}

	finalArchive(cfg, model, records, speedTraps, logger)

	logger.Info().Msg("f1telemetryd: clean shutdown")
	return exitClean
}

// newLogger builds the process logger per --log-file/--debug, grounded on
// the teacher pack's zerolog bootstrap idiom (RFC3339Nano timestamps, a
// severity field, level parsed from config). The returned closer flushes
// and closes the log file, if one was opened.
func newLogger(cfg *config.Config) (zerolog.Logger, func()) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out *os.File = os.Stderr
	closer := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			out = f
			closer = func() { f.Close() }
		}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	if cfg.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
	return logger, closer
}

// bindIngress binds UDP or, under --replay-server, listens for one TCP
// replay connection and feeds it through the same decode path.
func bindIngress(ctx context.Context, cfg *config.Config, listener *ingress.Listener, logger zerolog.Logger) error {
	if !cfg.ReplayServer {
		if err := listener.Bind(ctx, "", cfg.TelemetryPort); err != nil {
			return err
		}
		go func() {
			if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("ingress: receive loop exited")
			}
		}()
		return nil
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.TelemetryPort))
	if err != nil {
		return fmt.Errorf("ingress: replay listen: %w", err)
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("ingress: replay client connected")
		if err := listener.RunReplay(ctx, conn); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("ingress: replay stream ended")
		}
	}()
	return nil
}

// applyLoop is the decoder/apply task: it drains the ingress queue,
// captures raw bytes when enabled, and applies every successfully
// decoded packet to the model.
func applyLoop(ctx context.Context, listener *ingress.Listener, model *racemodel.Model, capture *archive.CaptureWriter) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-listener.Out():
			if !ok {
				return
			}
			if capture != nil {
				capture.Append(uint64(time.Now().UnixMicro()), env.Raw)
			}
			if env.Err != nil {
				continue
			}
			_ = model.Apply(env.Decoded)
		}
	}
}

// raceTablePayload builds the periodic broadcast payload: the full
// snapshot for race-table subscribers, a reduced ahead/behind comparison
// for player-stream-overlay subscribers, and the same full snapshot for
// hud-ipc (the overlay renders its own reduced view locally).
func raceTablePayload(model *racemodel.Model, cfg *config.Config) fanout.PayloadFunc {
	return func(role fanout.Role, seq uint64) (string, any, uint64) {
		snap := model.Snapshot()
		if role == fanout.RolePlayerOverlay {
			return "player-overlay-update", playerOverlayPayload(snap, cfg.NumAdjacentCars), snap.Session.UID
		}
		return "race-table-update", snap, snap.Session.UID
	}
}

func playerOverlayPayload(snap *racemodel.Snapshot, numAdjacent int) analytics.PaceComparison {
	var playerIdx uint8
	found := false
	byPosition := make([]analytics.DriverLapSectors, 0, snap.NumDrivers)
	for i := uint8(0); i < snap.NumDrivers; i++ {
		d := snap.Drivers[i]
		if d.Participant.IsPlayer {
			playerIdx = i
			found = true
		}
		byPosition = append(byPosition, analytics.DriverLapSectors{
			CarIndex:       i,
			Position:       d.Position,
			Sector1Ms:      d.CurrentLap.Sector1Ms,
			Sector2Ms:      d.CurrentLap.Sector2Ms,
			Sector3Ms:      d.CurrentLap.Sector3Ms,
			ERSStoreEnergy: d.Status.ERSStoreEnergy,
		})
	}
	if !found {
		return analytics.PaceComparison{}
	}
	sort.Slice(byPosition, func(i, j int) bool { return byPosition[i].Position < byPosition[j].Position })
	return analytics.ComparePace(byPosition, playerIdx, numAdjacent)
}

// driverInfoRequest is the decoded shape of a driver-info request
// payload. FuelMode mirrors the ?fuelMode=average|target query parameter
// spec §5.4 names; an empty value defaults to "average".
type driverInfoRequest struct {
	Index    uint8  `json:"index"`
	FuelMode string `json:"fuelMode"`
}

// requestHandler answers on-demand race-info/driver-info requests from
// the current snapshot.
func requestHandler(model *racemodel.Model) fanout.RequestHandler {
	return func(kind string, payload json.RawMessage) (any, error) {
		switch kind {
		case "race-info":
			return model.RaceStats(), nil
		case "driver-info":
			var req driverInfoRequest
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, fmt.Errorf("f1telemetryd: decode driver-info request: %w", err)
			}
			return model.DriverDetail(req.Index, req.FuelMode)
		default:
			return nil, fmt.Errorf("f1telemetryd: unknown request kind %q", kind)
		}
	}
}

// ipcDispatcher logs the control verb dispatched to overlays. The actual
// overlay process (the out-of-scope desktop window, spec §1) is expected
// to be the one observing these over its own hud-ipc subscription; this
// daemon's dispatcher exists only so switch-page/set-scale requests get a
// server-side acknowledgement and an audit trail.
func ipcDispatcher(logger zerolog.Logger) ipc.CommandDispatcher {
	return func(kind string, payload any) error {
		logger.Info().Str("kind", kind).Interface("payload", payload).Msg("ipc: command dispatched")
		return nil
	}
}

// serveHTTP and shutdownHTTP use the plain net/http server directly (an
// *echo.Echo satisfies http.Handler) rather than echo's own Start/Shutdown
// wrappers, matching the ListenAndServe pattern the rest of the pack uses
// for its HTTP entrypoints.
func serveHTTP(srv *http.Server, logger zerolog.Logger) {
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Str("addr", srv.Addr).Msg("http: server exited")
	}
}

func shutdownHTTP(srv *http.Server, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Str("addr", srv.Addr).Msg("http: graceful shutdown failed")
	}
}

// archiveLoop watches for a session swap (racemodel.Model.Archived
// returning a new snapshot) and, when autosave is configured, writes it
// out through archive.Writer.
func archiveLoop(ctx context.Context, cfg *config.Config, model *racemodel.Model, records *analytics.RecordTracker, speedTraps *analytics.SpeedTrapTracker, logger zerolog.Logger) {
	if !autosaveEnabled(cfg) {
		<-ctx.Done()
		return
	}

	writer, err := archive.NewWriter(archiveDir, cfg.ArchiveFormat)
	if err != nil {
		logger.Error().Err(err).Msg("archive: creating writer, autosave disabled")
		<-ctx.Done()
		return
	}

	var lastArchived *racemodel.Snapshot
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := model.Archived()
			if snap == nil || snap == lastArchived {
				continue
			}
			lastArchived = snap
			writeArchive(writer, snap, records, speedTraps, logger)
		}
	}
}

func autosaveEnabled(cfg *config.Config) bool {
	return cfg.PostRaceDataAutosave || cfg.PacketCaptureMode == config.CaptureEnabledAutosave
}

func writeArchive(writer *archive.Writer, snap *racemodel.Snapshot, records *analytics.RecordTracker, speedTraps *analytics.SpeedTrapTracker, logger zerolog.Logger) {
	doc := archive.NewDocument(snap, records, speedTraps)
	path, err := writer.Write(doc)
	if err != nil {
		logger.Error().Err(err).Msg("archive: writing session document")
		return
	}
	logger.Info().Str("path", path).Msg("archive: session document written")
}

// finalArchive writes the live (possibly still in-progress) session on
// shutdown, when autosave is configured — the operator stopping the
// daemon is itself a session-end signal the model has no other way to
// observe.
func finalArchive(cfg *config.Config, model *racemodel.Model, records *analytics.RecordTracker, speedTraps *analytics.SpeedTrapTracker, logger zerolog.Logger) {
	if !autosaveEnabled(cfg) {
		return
	}
	snap := model.Snapshot()
	if snap.Session.UID == 0 {
		return
	}
	writer, err := archive.NewWriter(archiveDir, cfg.ArchiveFormat)
	if err != nil {
		logger.Error().Err(err).Msg("archive: creating writer for final save")
		return
	}
	writeArchive(writer, snap, records, speedTraps, logger)
}

// recordsLoop scans every driver's stint history once a second and folds
// newly-closed stints into the compound/speed-trap aggregates the model
// itself does not retain (spec §4.4's per-compound/per-driver records).
func recordsLoop(ctx context.Context, model *racemodel.Model, records *analytics.RecordTracker, speedTraps *analytics.SpeedTrapTracker) {
	seenStints := make(map[uint8]int)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := model.Snapshot()
			for i := uint8(0); i < snap.NumDrivers; i++ {
				d := snap.Drivers[i]
				speedTraps.Record(i, d.SpeedTrapKph)

				closed := 0
				for _, st := range d.Stints {
					if st.Open {
						continue
					}
					closed++
				}
				if closed <= seenStints[i] {
					continue
				}
				newlyClosed := d.Stints[seenStints[i]:]
				for _, st := range newlyClosed {
					if st.Open {
						continue
					}
					records.RecordStintClose(st.Compound.Name, i, int(st.EndLap-st.StartLap)+1, worstStintWear(st))
				}
				seenStints[i] = closed
			}
		}
	}
}

func worstStintWear(st racemodel.Stint) float64 {
	var worst float32
	for _, s := range st.WearSamples {
		for _, w := range []float32{s.FL, s.FR, s.RL, s.RR} {
			if w > worst {
				worst = w
			}
		}
	}
	return float64(worst)
}

// advisorLoop periodically narrates the player's pit window, if the
// advisor is enabled, and pushes the result as a best-effort
// frontend-update (spec §5.8).
func advisorLoop(ctx context.Context, cfg *config.Config, model *racemodel.Model, adv *advisor.Advisor, hub *fanout.Hub, logger zerolog.Logger) {
	if !adv.Enabled() {
		<-ctx.Done()
		return
	}

	estimator := analytics.NewPitWindowEstimator()
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			advise(ctx, model, adv, estimator, hub, logger)
		}
	}
}

func advise(ctx context.Context, model *racemodel.Model, adv *advisor.Advisor, estimator *analytics.PitWindowEstimator, hub *fanout.Hub, logger zerolog.Logger) {
	snap := model.Snapshot()
	for i := uint8(0); i < snap.NumDrivers; i++ {
		d := snap.Drivers[i]
		if !d.Participant.IsPlayer || len(d.Stints) == 0 {
			continue
		}
		open := d.Stints[len(d.Stints)-1]
		if !open.Open {
			continue
		}

		predictor := analytics.NewTyreWearPredictor()
		for _, s := range open.WearSamples {
			predictor.AddSample(analytics.CornerFL, float64(s.LapInStint), float64(s.FL))
			predictor.AddSample(analytics.CornerFR, float64(s.LapInStint), float64(s.FR))
			predictor.AddSample(analytics.CornerRL, float64(s.LapInStint), float64(s.RL))
			predictor.AddSample(analytics.CornerRR, float64(s.LapInStint), float64(s.RR))
		}
		currentLapInStint := int(d.CurrentLap.LapNumber) - int(open.StartLap)
		estimate := estimator.Estimate(predictor, currentLapInStint)

		trend := advisor.LapTrend{
			DriverIndex:     i,
			CurrentCompound: open.Compound.Name,
			LapsCompleted:   len(d.History),
		}
		if n := len(d.History); n > 1 {
			trend.LastLapDeltaMs = int32(d.History[n-1].LapTimeMs) - int32(d.History[n-2].LapTimeMs)
		}

		advisory, ok := adv.Advise(ctx, trend, estimate)
		if !ok {
			continue
		}
		logger.Debug().Uint8("driver_index", i).Str("sentence", advisory.Sentence).Msg("advisor: narrated pit window")
		hub.Notify(fanout.RoleRaceTable, "pit-advisory", advisory.Sentence)
	}
}
