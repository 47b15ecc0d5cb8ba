package analytics

import (
	"context"
	"log/slog"

	"github.com/arjun-iyer/corpusengine/pkg/kafka"
)

// PublishFunc publishes a single analytics event. It is typically
// producer.Publish wrapped in a circuit breaker, since a stalled Kafka
// broker must never block the search/index request that generated the
// event.
type PublishFunc func(ctx context.Context, event kafka.Event) error

type Collector struct {
	publish PublishFunc
	eventCh chan interface{}
	logger  *slog.Logger
	done    chan struct{}
}

// NewCollector creates a Collector that publishes via publish.
func NewCollector(publish PublishFunc, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	c := &Collector{
		publish: publish,
		eventCh: make(chan interface{}, bufferSize),
		logger:  slog.Default().With("component", "analytics-collector"),
		done:    make(chan struct{}),
	}

	return c
}

func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				if err := c.publish(ctx, kafka.Event{
					Key:   "analytics",
					Value: event,
				}); err != nil {
					c.logger.Error("failed to publish analytics event", "error", err)
				}
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

func (c *Collector) Track(event interface{}) {
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

func (c *Collector) Close() {
	close(c.eventCh)
	<-c.done
}

func (c *Collector) drainRemaining() {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			ctx := context.Background()
			if err := c.publish(ctx, kafka.Event{
				Key:   "analytics",
				Value: event,
			}); err != nil {
				c.logger.Error("failed to publish remaining event", "error", err)
			}
		default:
			return
		}
	}
}
