package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/pkg/metrics"
)

const (
	// StreamName is the name of the transcripts stream.
	StreamName = "YUNO_TRANSCRIPTS"

	// SubjectPrefix is the prefix for all transcript subjects.
	SubjectPrefix = "yuno"
)

// subjectToken replaces characters NATS treats specially in a subject.
var subjectToken = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_", "\t", "_")

// Recorder publishes chat turns to JetStream and reads them back.
type Recorder struct {
	client *Client
}

// NewRecorder creates a transcript recorder.
func NewRecorder(client *Client) *Recorder {
	return &Recorder{client: client}
}

// EnsureStream creates the transcripts stream when it does not exist.
func (r *Recorder) EnsureStream(ctx context.Context) error {
	js := r.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		MaxBytes:    10 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Yuno widget chat transcripts",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// MessageSubject returns the subject a transcript message is published on.
func MessageSubject(siteID, sessionID string, role model.Role) string {
	return fmt.Sprintf("%s.%s.%s.msg.%s", SubjectPrefix, token(siteID), token(sessionID), role)
}

// SessionFilter returns the filter subject for every message of a session.
func SessionFilter(siteID, sessionID string) string {
	return fmt.Sprintf("%s.%s.%s.msg.>", SubjectPrefix, token(siteID), token(sessionID))
}

func token(s string) string {
	if s == "" {
		return "_"
	}
	return subjectToken.Replace(s)
}

// Record publishes one transcript message and stores its stream sequence.
func (r *Recorder) Record(ctx context.Context, msg *model.TranscriptMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript message: %w", err)
	}

	ack, err := r.client.JetStream().Publish(ctx, MessageSubject(msg.SiteID, msg.SessionID, msg.Role), data)
	if err != nil {
		metrics.TranscriptPublishTotal.WithLabelValues(string(msg.Role), "error").Inc()
		return fmt.Errorf("failed to publish transcript message: %w", err)
	}

	metrics.TranscriptPublishTotal.WithLabelValues(string(msg.Role), "ok").Inc()
	msg.Sequence = ack.Sequence
	return nil
}

// Transcript reads the messages of one session published after
// afterSequence. hasMore reports whether the page was full.
func (r *Recorder) Transcript(ctx context.Context, siteID, sessionID string, afterSequence uint64, limit int) ([]model.TranscriptMessage, uint64, bool, error) {
	cfg := jetstream.ConsumerConfig{
		FilterSubject: SessionFilter(siteID, sessionID),
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	}
	if afterSequence > 0 {
		cfg.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		cfg.OptStartSeq = afterSequence + 1
	}

	consumer, err := r.client.JetStream().CreateConsumer(ctx, StreamName, cfg)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to create consumer: %w", err)
	}

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to fetch transcript: %w", err)
	}

	messages := make([]model.TranscriptMessage, 0, limit)
	var last uint64
	for m := range batch.Messages() {
		var msg model.TranscriptMessage
		if err := json.Unmarshal(m.Data(), &msg); err != nil {
			continue
		}
		if meta, err := m.Metadata(); err == nil {
			msg.Sequence = meta.Sequence.Stream
			last = meta.Sequence.Stream
		}
		messages = append(messages, msg)
	}

	if err := batch.Error(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, 0, false, fmt.Errorf("batch error: %w", err)
	}

	return messages, last, len(messages) == limit, nil
}
