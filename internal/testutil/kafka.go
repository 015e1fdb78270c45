//go:build integration

package testutil

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

var unsafeTopicChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Topic — новый топик с уникальным именем и consumer group для него.
// Топик создан и уже виден в метаданных брокера.
func (e *KafkaEnv) Topic(ctx context.Context, name string) (topic, group string, err error) {
	base := e.prefix + "-" + unsafeTopicChars.ReplaceAllString(name, "-")
	topic = base + "-" + UniqSuffix()
	if err := createTopic(ctx, e.Brokers[0], topic); err != nil {
		return "", "", err
	}
	return topic, topic + "-group", nil
}

// createTopic — через контроллер кластера; «уже существует» не ошибка.
func createTopic(ctx context.Context, broker, topic string) error {
	addr := hostPort(broker)

	conn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	ctrl, err := conn.Controller()
	_ = conn.Close()
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}

	admin, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer admin.Close()

	err = admin.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return fmt.Errorf("create topic %q: %w", topic, err)
	}
	return waitTopic(ctx, addr, topic)
}

// hostPort — "PLAINTEXT://host:port" или "h1:p1,h2:p2" → первый host:port.
func hostPort(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if u, err := url.Parse(first); err == nil && u.Host != "" {
		return u.Host
	}
	return first
}

func waitTopic(ctx context.Context, broker, topic string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for {
		c, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			parts, perr := c.ReadPartitions(topic)
			_ = c.Close()
			if perr == nil && len(parts) > 0 {
				return nil
			}
			err = perr
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("topic %q not ready: %w", topic, lastErr)
		case <-ticker.C:
		}
	}
}
