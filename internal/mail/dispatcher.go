package mail

import (
	"context"
	"time"

	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
	"github.com/scraperite/storefront-backend/pkg/logger"
	"github.com/scraperite/storefront-backend/pkg/metrics"
)

const methodAllFailed = "all_failed"

// Dispatcher walks the configured transport chain in priority order and stops
// at the first successful delivery. Total failure is a structured result, not
// an error; callers decide whether that is fatal.
type Dispatcher struct {
	transports []Transport
	logg       *logger.Logger
	metrics    *metrics.MailMetrics
}

type DispatcherParams struct {
	Transports []Transport
	Logger     *logger.Logger
	Metrics    *metrics.MailMetrics
}

func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if len(params.Transports) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "at least one mail transport required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Dispatcher{
		transports: params.Transports,
		logg:       params.Logger,
		metrics:    params.Metrics,
	}, nil
}

// Send attempts delivery through each configured transport until one succeeds.
func (d *Dispatcher) Send(ctx context.Context, msg Message) Result {
	var lastErr error

	for _, transport := range d.transports {
		if !transport.Configured() {
			continue
		}

		attemptCtx := d.logg.WithTransport(ctx, transport.Name())
		d.logg.Info(attemptCtx, "attempting mail delivery")

		start := time.Now()
		method, err := transport.Send(ctx, msg)
		d.metrics.ObserveDuration(transport.Name(), time.Since(start))

		if err != nil {
			lastErr = err
			d.metrics.IncFailure(transport.Name())
			d.logg.Warn(d.logg.WithField(attemptCtx, "error", err.Error()), "mail delivery failed, trying next transport")
			continue
		}

		d.metrics.IncSuccess(transport.Name())
		d.logg.Info(d.logg.WithTransport(ctx, method), "mail delivered")
		return Result{Success: true, Method: method}
	}

	result := Result{Success: false, Method: methodAllFailed}
	if lastErr != nil {
		result.Error = lastErr.Error()
	} else {
		result.Error = "no mail transports configured"
	}
	d.logg.Error(ctx, "all mail transports failed", lastErr)
	return result
}
