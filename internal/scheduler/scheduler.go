package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"SetupSentinel/internal/collector"
	"SetupSentinel/internal/metrics"
	"SetupSentinel/internal/model"
	"SetupSentinel/internal/notifier"
	"SetupSentinel/internal/recorder"
	"SetupSentinel/internal/strategy"
)

// ErrRunInProgress is returned when a run is requested while another is active.
var ErrRunInProgress = errors.New("run already in progress")

// Source yields the indicator snapshot of one instrument.
type Source interface {
	Collect(ctx context.Context, inst model.Instrument) (*collector.Snapshot, error)
}

// Notifier delivers formatted alerts.
type Notifier interface {
	SendText(ctx context.Context, text string) error
	SendImage(ctx context.Context, caption string, img []byte) error
}

// Renderer draws the chart attached to an alert.
type Renderer interface {
	Render(series model.PriceSeries, frames []model.IndicatorFrame) ([]byte, error)
}

// Options configures a Scheduler. Renderer may be nil to disable charts.
type Options struct {
	Source        Source
	Notifier      Notifier
	Renderer      Renderer
	Recorder      recorder.Recorder
	Metrics       *metrics.Metrics
	Instruments   []model.Instrument
	SetupWindow   int
	TrendBoundary model.TrendBoundary
	SendTimeout   time.Duration
}

// Scheduler runs the signal pass on a cron schedule or on demand.
type Scheduler struct {
	Cron *cron.Cron
	Ctx  context.Context
	opts Options
	mu   sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, opts Options) *Scheduler {
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 30 * time.Second
	}
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		Ctx:  ctx,
		opts: opts,
	}
}

// Register adds the daily run under the given cron spec (seconds field first,
// optional CRON_TZ= prefix).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("register daily run: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	zap.L().Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	zap.L().Info("scheduler stopped")
}

func (s *Scheduler) tick() {
	if _, err := s.RunOnce(s.Ctx); err != nil {
		zap.L().Warn("scheduled run skipped", zap.Error(err))
	}
}

// RunOnce evaluates every instrument once. Per-instrument failures are logged
// and counted; they never abort the run.
func (s *Scheduler) RunOnce(ctx context.Context) (*model.RunSummary, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	sum := &model.RunSummary{RunID: uuid.NewString(), StartedAt: time.Now()}
	log := zap.L().With(zap.String("run_id", sum.RunID))
	log.Info("run started", zap.Int("instruments", len(s.opts.Instruments)))

	for _, inst := range s.opts.Instruments {
		if ctx.Err() != nil {
			log.Warn("run cancelled", zap.Error(ctx.Err()))
			break
		}
		alerted, err := s.processInstrument(ctx, log, sum.RunID, inst)
		if err != nil {
			sum.Skipped++
			sum.Failures = append(sum.Failures, fmt.Sprintf("%s: %v", inst.Symbol, err))
			s.countInstrument("skipped")
			if errors.Is(err, collector.ErrDataUnavailable) {
				log.Warn("instrument skipped", zap.String("symbol", inst.Symbol), zap.Error(err))
			} else {
				log.Error("instrument failed", zap.String("symbol", inst.Symbol), zap.Error(err))
			}
			continue
		}
		sum.Processed++
		s.countInstrument("evaluated")
		if alerted {
			sum.Alerts++
		}
	}

	sum.FinishedAt = time.Now()
	log.Info("run finished",
		zap.Int("processed", sum.Processed),
		zap.Int("skipped", sum.Skipped),
		zap.Int("alerts", sum.Alerts),
		zap.Duration("took", sum.FinishedAt.Sub(sum.StartedAt)))

	if m := s.opts.Metrics; m != nil {
		m.RunsTotal.Inc()
		m.RunDuration.Observe(sum.FinishedAt.Sub(sum.StartedAt).Seconds())
		m.LastRunTimestamp.Set(float64(sum.FinishedAt.Unix()))
	}
	if err := s.opts.Recorder.RecordRun(sum); err != nil {
		log.Error("record run", zap.Error(err))
	}
	return sum, nil
}

// processInstrument returns whether a non-None decision was produced.
func (s *Scheduler) processInstrument(ctx context.Context, log *zap.Logger, runID string, inst model.Instrument) (bool, error) {
	snap, err := s.opts.Source.Collect(ctx, inst)
	if err != nil {
		return false, err
	}

	decision, err := strategy.Evaluate(inst, snap.Frames, strategy.Params{
		SetupWindow:   s.opts.SetupWindow,
		Threshold:     inst.Threshold,
		TrendBoundary: s.opts.TrendBoundary,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate: %w", err)
	}

	fields := []zap.Field{
		zap.String("date", decision.Date.Format("2006-01-02")),
		zap.String("name", inst.Name),
		zap.String("symbol", inst.Symbol),
		zap.Int("buy_setup", decision.Setup.BuyCount),
		zap.Int("sell_setup", decision.Setup.SellCount),
		zap.Int("threshold", decision.ThresholdUsed),
		zap.String("category", string(decision.Category)),
	}
	if decision.Trend != nil {
		fields = append(fields,
			zap.String("direction", string(decision.Trend.Direction)),
			zap.String("macd_bias", string(decision.Trend.MACDBias)))
	} else {
		fields = append(fields, zap.Bool("trend_available", false))
	}
	log.Info("setup evaluated", fields...)

	if m := s.opts.Metrics; m != nil {
		m.AlertsTotal.WithLabelValues(string(decision.Category)).Inc()
	}

	notified := false
	if decision.Notify() {
		notified = s.deliver(ctx, log, snap, decision)
	}
	if err := s.opts.Recorder.RecordDecision(&recorder.DecisionRecord{
		RunID: runID, Decision: decision, Notified: notified,
	}); err != nil {
		log.Error("record decision", zap.String("symbol", inst.Symbol), zap.Error(err))
	}
	return decision.Notify(), nil
}

// deliver sends the alert, attaching a chart when requested. Failures are
// logged and reported as false.
func (s *Scheduler) deliver(ctx context.Context, log *zap.Logger, snap *collector.Snapshot, d *model.AlertDecision) bool {
	text := notifier.FormatAlert(d)
	symbol := zap.String("symbol", d.Instrument.Symbol)

	var img []byte
	if d.ChartRequested && s.opts.Renderer != nil {
		var err error
		img, err = s.opts.Renderer.Render(snap.Series, snap.Frames)
		if err != nil {
			log.Warn("chart render failed, sending text only", symbol, zap.Error(err))
			s.countFailure("chart")
			img = nil
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
	defer cancel()

	kind := "text"
	var err error
	if img != nil {
		kind = "image"
		err = s.opts.Notifier.SendImage(sendCtx, text, img)
	} else {
		err = s.opts.Notifier.SendText(sendCtx, text)
	}
	switch {
	case errors.Is(err, notifier.ErrNotConfigured):
		log.Warn("notifier not configured, alert not sent", symbol, zap.String("category", string(d.Category)))
		return false
	case err != nil:
		log.Error("send notification", symbol, zap.String("kind", kind), zap.Error(err))
		s.countFailure(kind)
		return false
	}
	return true
}

func (s *Scheduler) countInstrument(outcome string) {
	if m := s.opts.Metrics; m != nil {
		m.InstrumentsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Scheduler) countFailure(kind string) {
	if m := s.opts.Metrics; m != nil {
		m.NotificationFailures.WithLabelValues(kind).Inc()
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/run":
		sum, err := s.RunOnce(ctx)
		if err != nil {
			return "⏳ " + err.Error()
		}
		return notifier.FormatRunSummary(sum)
	case "/list":
		return notifier.FormatInstruments(s.opts.Instruments)
	default:
		return "Commands:\n• /run  evaluate all instruments now\n• /list  show configured instruments"
	}
}
