package config

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLokiLogger_BuildEntry(t *testing.T) {
	RegisterTestingT(t)

	logger := newLokiLogger(zap.NewNop(), "auth", "http://loki:3100")
	Expect(logger.lokiURL).To(Equal("http://loki:3100/loki/api/v1/push"))

	entry, err := logger.buildEntry(context.Background(), zapcore.WarnLevel, "login failed", []zap.Field{
		zap.String("email", "jane@example.com"),
		zap.Int("attempt", 3),
		zap.Duration("latency", 2*time.Second),
		zap.Error(errors.New("boom")),
	})
	Expect(err).ToNot(HaveOccurred())
	Expect(entry.Streams).To(HaveLen(1))
	Expect(entry.Streams[0].Stream).To(HaveKeyWithValue("service", "auth"))
	Expect(entry.Streams[0].Stream).To(HaveKeyWithValue("level", "warn"))

	var line map[string]any
	Expect(json.Unmarshal([]byte(entry.Streams[0].Values[0][1]), &line)).To(Succeed())
	Expect(line).To(HaveKeyWithValue("message", "login failed"))
	Expect(line).To(HaveKeyWithValue("email", "jane@example.com"))
	Expect(line).To(HaveKeyWithValue("attempt", BeNumerically("==", 3)))
	Expect(line).To(HaveKeyWithValue("latency", "2s"))
	Expect(line).To(HaveKeyWithValue("error", "boom"))
	Expect(line).ToNot(HaveKey("trace_id"))
}

func TestNopLogger_DoesNotPush(t *testing.T) {
	RegisterTestingT(t)

	logger := NewNopLogger()
	Expect(logger.lokiURL).To(BeEmpty())

	logger.InfoWithTrace(context.Background(), "hello")
	logger.ErrorWithTrace(context.Background(), "bye", zap.Error(errors.New("x")))
	Expect(logger.Sync()).To(Succeed())
}
