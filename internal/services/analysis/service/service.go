// Package service runs detection and summary for one trace at a time and
// hands the result to storage and diagnosis
package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"chromalyzer/internal/adapters/tracesource"
	"chromalyzer/internal/core/peaks"
	"chromalyzer/internal/core/summary"
	"chromalyzer/internal/core/trace"
	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/platform/logger"
	"chromalyzer/internal/services/analysis/domain"
	"chromalyzer/internal/services/analysis/repo"
)

// Service defines the analysis contract
type Service interface{ domain.ServicePort }

// Config for the analysis service
type Config struct {
	Detector peaks.Options
	// SaveRetries bounds retries of a retryable store failure
	SaveRetries int
	SaveBackoff time.Duration
}

// Svc implements Service
type Svc struct {
	Store  repo.Store
	Ledger repo.Ledger
	Diag   domain.Diagnoser
	Cfg    Config

	now   func() time.Time
	newID func() string
}

// New constructs the service. A nil store or ledger discards writes and a nil
// diagnoser leaves diagnosis unavailable
func New(store repo.Store, ledger repo.Ledger, diag domain.Diagnoser, cfg Config) (*Svc, error) {
	if err := cfg.Detector.Validate(); err != nil {
		return nil, invalid(err)
	}
	if store == nil {
		store = repo.Nop{}
	}
	if ledger == nil {
		ledger = repo.Nop{}
	}
	if cfg.SaveRetries < 0 {
		cfg.SaveRetries = 0
	}
	if cfg.SaveBackoff <= 0 {
		cfg.SaveBackoff = 100 * time.Millisecond
	}
	return &Svc{
		Store:  store,
		Ledger: ledger,
		Diag:   diag,
		Cfg:    cfg,
		now:    time.Now,
		newID:  uuid.NewString,
	}, nil
}

// Options returns the base detector settings requests override
func (s *Svc) Options() peaks.Options { return s.Cfg.Detector }

// Analyze detects peaks, summarizes them and optionally persists and diagnoses the result.
// A trace without peaks short-circuits with the NoPeaks report and skips both
func (s *Svc) Analyze(ctx context.Context, req domain.Request) (domain.Result, error) {
	id := s.newID()
	ctx = logger.WithAnalysis(ctx, id, req.Label)
	log := logger.C(ctx)

	det, err := s.detect(req)
	if err != nil {
		return domain.Result{}, err
	}
	res := domain.Result{
		ID:       id,
		FileName: req.Label,
		Detection: domain.Diagnostics{
			Candidates:          det.Candidates,
			Selected:            det.Selected,
			Dropped:             det.Dropped,
			HeightThreshold:     det.HeightThreshold,
			ProminenceThreshold: det.ProminenceThreshold,
			Options:             det.Options,
		},
	}
	if det.Dropped > 0 {
		log.Debug().Int("dropped", det.Dropped).Int("selected", det.Selected).Msg("peaks dropped at trace boundary")
	}

	if len(det.Peaks) == 0 {
		log.Info().Int("samples", len(req.Intensity)).Msg("no peaks found")
		res.NoPeaks = true
		res.Report = summary.NoPeaks
		return res, nil
	}

	sum, report, err := summary.Summarize(req.Time, req.Intensity, det.Peaks, req.Label)
	if err != nil {
		return domain.Result{}, invalid(err)
	}
	stats, _ := summary.StatsOf(det.Peaks)
	res.Summary, res.Stats, res.Report = &sum, &stats, report

	log.Info().
		Int("peaks", sum.TotalPeaks).
		Float64("max_intensity", sum.MaxIntensity).
		Float64("baseline", sum.BaselineIntensity).
		Msg("trace analyzed")

	if req.Persist {
		rec := domain.Record{
			FileName:  req.Label,
			Summary:   sum,
			TraceData: trace.Trace{Time: req.Time, Intensity: req.Intensity}.Pairs(),
		}
		key, err := s.save(ctx, id, rec)
		if err != nil {
			return domain.Result{}, err
		}
		res.Key, res.Stored = key, true

		// the ledger is for trending only; a failed append never fails the analysis
		if err := s.Ledger.Append(ctx, id, key, det.Peaks, s.now()); err != nil {
			log.Warn().Err(err).Msg("peak ledger append failed")
		}
	}

	if req.Diagnose {
		if s.Diag == nil {
			res.AdviceError = "diagnosis is not configured"
		} else if adv, err := s.Diag.Advise(ctx, report, req.Metadata); err != nil {
			if ctx.Err() != nil {
				return domain.Result{}, ctx.Err()
			}
			log.Warn().Err(err).Msg("diagnosis failed")
			res.AdviceError = perr.WireFrom(err).Message
		} else {
			res.Advice = &adv
		}
	}
	return res, nil
}

// AnalyzeFile decodes data by the extension of name and analyzes it under that label
func (s *Svc) AnalyzeFile(ctx context.Context, name string, data []byte, req domain.Request) (domain.Result, error) {
	f, err := tracesource.FormatOf(name)
	if err != nil {
		return domain.Result{}, err
	}
	tr, err := tracesource.DecodeBytes(f, data)
	if err != nil {
		return domain.Result{}, err
	}
	if req.Label == "" {
		req.Label = name
	}
	req.Time, req.Intensity = tr.Time, tr.Intensity
	return s.Analyze(ctx, req)
}

// Get returns the stored record for key
func (s *Svc) Get(ctx context.Context, key string) (domain.Record, error) {
	return s.Store.Get(ctx, key)
}

// List returns stored analyses, newest first
func (s *Svc) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.Store.List(ctx, limit)
}

func (s *Svc) detect(req domain.Request) (peaks.Detection, error) {
	d, err := peaks.NewWithOptions(s.Cfg.Detector.With(req.Overrides))
	if err != nil {
		return peaks.Detection{}, invalid(err)
	}
	det, err := d.Run(req.Time, req.Intensity)
	if err != nil {
		return peaks.Detection{}, invalid(err)
	}
	return det, nil
}

// save retries store failures perr reports as retryable
func (s *Svc) save(ctx context.Context, id string, rec domain.Record) (string, error) {
	var key string
	op := func() error {
		k, err := s.Store.Save(ctx, id, rec)
		if err != nil {
			if !perr.Retryable(err) {
				return backoff.Permanent(err)
			}
			logger.C(ctx).Debug().Err(err).Msg("retrying store save")
			return err
		}
		key = k
		return nil
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.Cfg.SaveBackoff
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.Cfg.SaveRetries)), ctx))
	if err != nil {
		return "", err
	}
	return key, nil
}

// invalid maps a core input error onto the transport error model
func invalid(err error) error {
	var ie *trace.InvalidInputError
	if !errors.As(err, &ie) {
		return err
	}
	msg := ie.Reason
	if ie.Field != "" {
		msg = ie.Field + ": " + msg
	}
	return perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, msg), ie.Field)
}
