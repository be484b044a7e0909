package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/pictures-london/internal/logger"
)

// DefaultLogPath is where the consumer appends run summaries.
var DefaultLogPath = filepath.Join("logs", "import.log")

// StartImportConsumer connects to the broker at url, declares the durable
// import.completed queue and appends one line per message to logPath. It
// reconnects with exponential backoff and returns only when ctx is done.
func StartImportConsumer(ctx context.Context, url, logPath string, log *slog.Logger) error {
	log = logger.OrDefault(log).With("component", "import-consumer")
	if logPath == "" {
		logPath = DefaultLogPath
	}

	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("dial broker failed", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, logPath, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logPath string, log *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Warn("set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(ImportCompletedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(ImportCompletedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := appendEvent(logPath, d.Body); err != nil {
				log.Error("handle message failed", "error", err)
				_ = d.Nack(false, false) // poison messages are dropped, not requeued
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// appendEvent decodes body and appends its summary line to logPath.
func appendEvent(logPath string, body []byte) error {
	var ev ImportCompletedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	return writeLine(f, ev)
}

func writeLine(w io.Writer, ev ImportCompletedEvent) error {
	codes := "[]"
	if len(ev.ErrorCodes) > 0 {
		codes = "[" + strings.Join(ev.ErrorCodes, ",") + "]"
	}
	_, err := fmt.Fprintf(w, "[%s] Import %s | run_id=%s | type=%s | pdf=%s | changes=%s | merged=%d | added=%d | updated=%d | failed=%d | errors=%s | by=%q | took=%dms\n",
		ev.FinishedAt, ev.Status, ev.RunID, ev.RunType, ev.PDFStatus, ev.ChangesStatus,
		ev.Merged, ev.Added, ev.Updated, ev.Failed, codes, ev.TriggeredBy, ev.DurationMS)
	if err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
