package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const pollinationScanTimeout = 5 * time.Minute

// StartPollinationScanWorker scans the pollination channel on the configured
// cron schedule. Returns a cleanup function that waits for a running scan.
func (b *Bot) StartPollinationScanWorker(ctx context.Context) (func(), error) {
	if b.config.PollinationChannelID == "" || b.services.Pollinations == nil {
		log.Info("Pollination scan worker disabled, no channel configured")
		return func() {}, nil
	}

	runner := cron.New()
	channelID := b.config.PollinationChannelID

	_, err := runner.AddFunc(b.config.PollinationScanSchedule, func() {
		scanCtx, cancel := context.WithTimeout(ctx, pollinationScanTimeout)
		defer cancel()

		report, err := b.services.Pollinations.Scan(scanCtx, channelID)
		if err != nil {
			log.WithError(err).WithField("channel_id", channelID).Error("Scheduled pollination scan failed")
		}
		if report != nil {
			log.WithFields(log.Fields{
				"channel_id": channelID,
				"scanned":    report.MessagesScanned,
				"added":      report.PollinationsAdded,
			}).Info("Scheduled pollination scan finished")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid pollination scan schedule %q: %w", b.config.PollinationScanSchedule, err)
	}

	runner.Start()
	log.WithField("schedule", b.config.PollinationScanSchedule).Info("Pollination scan worker started")

	return func() {
		<-runner.Stop().Done()
		log.Info("Pollination scan worker stopped")
	}, nil
}
