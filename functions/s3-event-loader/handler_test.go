package main

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/ellery44/event-loader/internal/eventloader"
	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLoader struct {
	failOn string
	keys   []string
}

func (m *mockLoader) LoadEventFile(ctx context.Context, key string) (*eventloader.LoadStats, error) {
	m.keys = append(m.keys, key)
	if key == m.failOn {
		return &eventloader.LoadStats{}, errors.New("insert into em_blue_sent_event: boom")
	}
	return &eventloader.LoadStats{}, nil
}

func s3Event(keys ...string) events.S3Event {
	var ev events.S3Event
	for _, k := range keys {
		ev.Records = append(ev.Records, events.S3EventRecord{
			S3: events.S3Entity{Object: events.S3Object{Key: k}},
		})
	}
	return ev
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		event    events.S3Event
		failOn   string
		want     int
		wantMsg  string
		wantKeys []string
	}{
		{
			name:     "happy-path",
			event:    s3Event("acme_2024_export.csv"),
			want:     http.StatusOK,
			wantKeys: []string{"acme_2024_export.csv"},
		},
		{
			name:     "url-encoded-key",
			event:    s3Event("exports/acme_march+2024%281%29.csv"),
			want:     http.StatusOK,
			wantKeys: []string{"exports/acme_march 2024(1).csv"},
		},
		{
			name:     "stops-at-first-failure",
			event:    s3Event("acme_1.csv", "acme_2.csv", "acme_3.csv"),
			failOn:   "acme_2.csv",
			want:     http.StatusBadRequest,
			wantMsg:  "insert into em_blue_sent_event: boom",
			wantKeys: []string{"acme_1.csv", "acme_2.csv"},
		},
		{
			name:    "bad-key-encoding",
			event:   s3Event("acme_%zz.csv"),
			want:    http.StatusBadRequest,
			wantMsg: "decode object key",
		},
		{
			name: "no-records",
			want: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockLoader{failOn: tt.failOn}
			h := handler{el: m, logger: log.NewNopLogger()}

			rsp, err := h.handle(context.Background(), tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rsp.StatusCode)
			assert.Contains(t, rsp.Message, tt.wantMsg)
			assert.Equal(t, tt.wantKeys, m.keys)
		})
	}
}
