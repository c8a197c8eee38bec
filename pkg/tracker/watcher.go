package tracker

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"symbiosis-swap/pkg/api"
)

const (
	DefaultCheckInterval = 30 * time.Second
	MinCheckInterval     = 5 * time.Second // Minimum interval to avoid rate limiting
)

// StatusClient fetches the status of several transactions at once.
// client.Symbiosis implements it.
type StatusClient interface {
	BatchTxStatus(ctx context.Context, txs []api.TxHashWithChainID) ([]api.TxResponse, error)
}

// Watcher periodically refreshes the status of pending entries
type Watcher struct {
	manager  *Manager
	client   StatusClient
	interval time.Duration
	log      logrus.FieldLogger

	// OnUpdate, if set, is called for every entry after each check.
	OnUpdate func(Entry)
}

// NewWatcher creates a new watcher
func NewWatcher(manager *Manager, client StatusClient, log logrus.FieldLogger) *Watcher {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Watcher{
		manager:  manager,
		client:   client,
		interval: DefaultCheckInterval,
		log:      log.WithField("component", "tracker"),
	}
}

// SetInterval sets the time between checks
func (w *Watcher) SetInterval(interval time.Duration) {
	if interval < MinCheckInterval {
		interval = MinCheckInterval
	}
	w.interval = interval
}

// Interval returns the time between checks
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// CheckOnce refreshes every pending entry with a single batch request.
func (w *Watcher) CheckOnce(ctx context.Context) ([]Entry, error) {
	pending := w.manager.Pending()
	if len(pending) == 0 {
		return nil, nil
	}

	txs := make([]api.TxHashWithChainID, len(pending))
	for i, e := range pending {
		txs[i] = api.TxHashWithChainID{TransactionHash: e.Hash, ChainID: e.ChainID}
	}

	responses, err := w.client.BatchTxStatus(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction statuses: %w", err)
	}

	updated, err := w.manager.ApplyStatuses(pending, responses)
	if err != nil {
		return nil, err
	}

	for _, e := range updated {
		w.log.WithFields(logrus.Fields{
			"id":     e.ShortID(),
			"tx":     e.Ref(),
			"status": e.StatusText(),
		}).Info("status checked")
		if w.OnUpdate != nil {
			w.OnUpdate(e)
		}
	}
	return updated, nil
}

// Run checks pending entries every interval until each is final or stuck, or ctx
// is done. A failed check is logged and retried on the next tick.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.CheckOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.WithError(err).Warn("status check failed")
		}

		if len(w.manager.Waiting()) == 0 {
			for _, e := range w.manager.Stuck() {
				w.log.WithField("tx", e.Ref()).Warn("transaction is stuck and needs a revert")
			}
			w.log.Info("no pending transactions left")
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
