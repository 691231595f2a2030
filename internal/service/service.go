package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"kalimati-price-tracker/internal/alerting"
	"kalimati-price-tracker/internal/config"
	"kalimati-price-tracker/internal/fetcher"
	"kalimati-price-tracker/internal/storage"
	"kalimati-price-tracker/internal/tracker"
)

// errDaySkipped marks a date with no usable data: no document is written and
// the last-known state is left untouched.
var errDaySkipped = errors.New("service: day skipped")

// Service drives the incremental tracking run: plan the outstanding dates,
// harvest and normalize each day, compute fluctuations against the carried
// last-known prices, persist, and alert matching subscribers.
type Service struct {
	fetcher   fetcher.PriceTableFetcher
	store     storage.DailyPriceStore
	subs      storage.SubscriberStore
	notifier  alerting.Notifier
	broadcast alerting.Notifier
	logger    zerolog.Logger

	anchor    time.Time
	threshold decimal.Decimal
	dayDelay  time.Duration
	now       func() time.Time
}

// New constructs the tracking service. notifier delivers per-subscriber
// alerts; broadcast (optional) receives every significant record regardless
// of watch-lists.
func New(cfg *config.Config, f fetcher.PriceTableFetcher, store storage.DailyPriceStore, subs storage.SubscriberStore, notifier, broadcast alerting.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		fetcher:   f,
		store:     store,
		subs:      subs,
		notifier:  notifier,
		broadcast: broadcast,
		logger:    logger.With().Str("component", "service").Logger(),
		anchor:    tracker.Day(cfg.AnchorTime()),
		threshold: decimal.NewFromFloat(cfg.Tracker.ThresholdPct),
		dayDelay:  cfg.Tracker.DayDelay,
		now:       time.Now,
	}
}

// Run executes one incremental tracking run: every calendar date after the
// latest persisted snapshot, through today inclusive. Per-day failures are
// logged and do not abort the run; inability to reach the store at startup
// does.
func (s *Service) Run(ctx context.Context) error {
	logger := s.logger.With().Str("run_id", uuid.NewString()).Logger()

	if s.store == nil {
		return errors.New("storage not configured")
	}

	latest, err := s.store.FindLatestDailyPrice(ctx)
	if err != nil {
		return fmt.Errorf("load latest snapshot: %w", err)
	}

	var subscribers []storage.Subscriber
	if s.subs != nil {
		subscribers, err = s.subs.ListSubscribers(ctx)
		if err != nil {
			return fmt.Errorf("load subscribers: %w", err)
		}
	}

	state := tracker.NewLastKnown()
	state.Seed(latest)

	var latestDate *time.Time
	if latest != nil {
		latestDate = &latest.Date
	}
	planner := tracker.NewPlanner(latestDate, s.anchor, s.now())

	logger.Info().
		Int("dates", planner.Remaining()).
		Int("subscribers", len(subscribers)).
		Int("known_commodities", state.Len()).
		Msg("starting tracking run")

	var processed, skipped, failed int
	first := true
	for {
		date, ok := planner.Next()
		if !ok {
			break
		}

		if !first {
			if err := s.pace(ctx); err != nil {
				return err
			}
		}
		first = false

		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.ProcessDay(ctx, logger, date, state, subscribers)
		switch {
		case err == nil:
			processed++
		case errors.Is(err, errDaySkipped):
			skipped++
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			failed++
			logger.Error().Err(err).Str("date", date.Format(storage.DateFormat)).Msg("day failed")
		}
	}

	logger.Info().
		Int("processed", processed).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("tracking run finished")
	return nil
}

// ProcessDay harvests and persists one calendar date. Fluctuations for every
// record of the day are computed against the state as it stood before the
// day; the state is only advanced after a successful upsert.
func (s *Service) ProcessDay(ctx context.Context, logger zerolog.Logger, date time.Time, state *tracker.LastKnown, subscribers []storage.Subscriber) error {
	dateStr := date.Format(storage.DateFormat)

	rows, err := s.fetcher.FetchRows(ctx, date)
	if err != nil {
		if errors.Is(err, fetcher.ErrTableUnavailable) {
			logger.Warn().Str("date", dateStr).Msg("no data table for date, skipping")
			return errDaySkipped
		}
		return fmt.Errorf("fetch rows: %w", err)
	}

	// The site renders a single placeholder row when a date has no data.
	if len(rows) <= 1 {
		logger.Warn().Str("date", dateStr).Msg("table has no data, skipping")
		return errDaySkipped
	}

	anchorDay := date.Equal(s.anchor)
	records := make([]storage.PriceRecord, 0, len(rows))
	for _, cells := range rows {
		rec, parseErr := tracker.ParseRow(cells)
		if parseErr != nil {
			logger.Warn().Err(parseErr).Str("date", dateStr).Msg("dropping invalid row")
			continue
		}

		var prior *storage.PriceRecord
		if !anchorDay {
			if known, ok := state.Lookup(rec.Commodity); ok {
				prior = &known
			}
		}

		rec, zeroBase := tracker.Fluctuation(rec, prior, s.threshold)
		if zeroBase {
			logger.Warn().Str("date", dateStr).Str("commodity", rec.Commodity).Msg("prior average is zero, fluctuation percentage undefined")
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		logger.Warn().Str("date", dateStr).Msg("no valid rows for date, skipping")
		return errDaySkipped
	}

	day := storage.DailyPrice{Date: date, Records: records}

	if s.store != nil {
		if err := s.store.UpsertDailyPrice(ctx, day); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}
	}

	significant := make([]storage.PriceRecord, 0)
	for _, rec := range records {
		if rec.Significant {
			significant = append(significant, rec)
		}
	}

	logger.Info().
		Str("date", dateStr).
		Int("records", len(records)).
		Int("significant", len(significant)).
		Msg("snapshot recorded")

	s.dispatchAlerts(ctx, logger, date, significant, subscribers)

	state.Advance(day)
	return nil
}

func (s *Service) dispatchAlerts(ctx context.Context, logger zerolog.Logger, date time.Time, significant []storage.PriceRecord, subscribers []storage.Subscriber) {
	if len(significant) == 0 {
		return
	}
	dateStr := date.Format(storage.DateFormat)

	if s.notifier != nil {
		for _, delivery := range tracker.Match(significant, subscribers) {
			note := alerting.Notification{
				Recipient: delivery.Subscriber.Email,
				Date:      date,
				Records:   delivery.Records,
			}
			if err := s.notifier.Notify(ctx, note); err != nil {
				logger.Error().Err(err).
					Str("date", dateStr).
					Str("recipient", delivery.Subscriber.Email).
					Msg("failed to notify subscriber")
			}
		}
	}

	if s.broadcast != nil {
		note := alerting.Notification{Date: date, Records: significant}
		if err := s.broadcast.Notify(ctx, note); err != nil {
			logger.Error().Err(err).Str("date", dateStr).Msg("failed to broadcast alert")
		}
	}
}

// pace sleeps the configured politeness delay between dates, honouring
// cancellation.
func (s *Service) pace(ctx context.Context) error {
	if s.dayDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.dayDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
