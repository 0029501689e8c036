//go:build !test
// +build !test

package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/ellery44/event-loader/internal/config"
	"github.com/ellery44/event-loader/internal/eventloader"
	"github.com/go-kit/kit/log"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var (
		sess   = session.Must(session.NewSession())
		ssmSvc = ssm.New(sess)
		s3Svc  = s3.New(sess)
		logger = eventloader.NewLogger(os.Stdout, cfg.DebugLogging())
	)

	enc, err := eventloader.SourceEncoding(cfg.SourceEncoding)
	if err != nil {
		panic(err)
	}

	// Fetch DB password
	passwordRsp, err := ssmSvc.GetParameter(&ssm.GetParameterInput{
		Name:           aws.String(cfg.PasswordParameter()),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		panic(err)
	}
	// Fetch cluster endpoint
	endpointRsp, err := ssmSvc.GetParameter(&ssm.GetParameterInput{
		Name:           aws.String(cfg.EndpointParameter()),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		panic(err)
	}

	// Establish DB connection
	db, err := sql.Open("postgres", cfg.DSN(*endpointRsp.Parameter.Value, *passwordRsp.Parameter.Value))
	if err != nil {
		panic(err)
	}

	clock := clockwork.NewRealClock()

	// Start up lambda handler
	lambda.Start(func(ctx context.Context, event events.S3Event) (*Response, error) {
		lc, _ := lambdacontext.FromContext(ctx)
		var requestID string
		if lc != nil {
			requestID = lc.AwsRequestID
		}
		reqLogger := log.With(logger, "request_id", requestID)
		h := handler{
			el: &eventloader.EventLoader{
				DB:         db,
				Logger:     reqLogger,
				Bucket:     cfg.Bucket,
				S3Svc:      s3Svc,
				Encoding:   enc,
				SkipHeader: cfg.SkipHeader,
				Clock:      clock,
			},
			logger: reqLogger,
		}
		return h.handle(ctx, event)
	})
}
