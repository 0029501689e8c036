package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/ellery44/event-loader/internal/eventloader"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	_ "github.com/lib/pq"
)

// Response is returned to the invoker once every record has been handled.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
}

type fileLoader interface {
	LoadEventFile(ctx context.Context, key string) (*eventloader.LoadStats, error)
}

type handler struct {
	el     fileLoader
	logger log.Logger
}

// handle loads every object named in the event, stopping at the first failure.
func (h *handler) handle(ctx context.Context, s3Event events.S3Event) (*Response, error) {
	for _, record := range s3Event.Records {
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return h.fail(record.S3.Object.Key, fmt.Errorf("decode object key: %w", err)), nil
		}
		if _, err := h.el.LoadEventFile(ctx, key); err != nil {
			return h.fail(key, err), nil
		}
	}
	return &Response{StatusCode: http.StatusOK}, nil
}

func (h *handler) fail(key string, err error) *Response {
	level.Error(h.logger).Log("msg", "failed to load source file", "source_key", key, "err", err)
	return &Response{StatusCode: http.StatusBadRequest, Message: err.Error()}
}
