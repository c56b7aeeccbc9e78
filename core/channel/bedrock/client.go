package bedrock

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultRegion  = "us-east-1"
	DefaultModelID = "amazon.nova-sonic-v1:0"
)

// Client opens bidirectional model streams on Amazon Bedrock.
type Client struct {
	runtime *bedrockruntime.Client
	modelID string
	region  string
}

type ClientOption func(*clientOptions)

type clientOptions struct {
	region     string
	modelID    string
	httpClient aws.HTTPClient

	accessKeyID     string
	secretAccessKey string
	sessionToken    string
}

func WithRegion(region string) ClientOption {
	return func(o *clientOptions) {
		if region != "" {
			o.region = region
		}
	}
}

func WithModelID(modelID string) ClientOption {
	return func(o *clientOptions) {
		if modelID != "" {
			o.modelID = modelID
		}
	}
}

// WithStaticCredentials bypasses the default credential chain.
func WithStaticCredentials(accessKeyID, secretAccessKey, sessionToken string) ClientOption {
	return func(o *clientOptions) {
		o.accessKeyID = accessKeyID
		o.secretAccessKey = secretAccessKey
		o.sessionToken = sessionToken
	}
}

// WithHTTPClient replaces the traced HTTP client used by default.
func WithHTTPClient(client aws.HTTPClient) ClientOption {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// NewClient loads the AWS configuration, with credentials resolved through
// the SDK default chain unless static ones are given.
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	options := clientOptions{
		region:  DefaultRegion,
		modelID: DefaultModelID,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(awshttp.NewBuildableClient().GetTransport()),
		},
	}
	for _, opt := range opts {
		opt(&options)
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(options.region),
		awsconfig.WithHTTPClient(options.httpClient),
	}
	if options.accessKeyID != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.accessKeyID, options.secretAccessKey, options.sessionToken),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		runtime: bedrockruntime.NewFromConfig(cfg),
		modelID: options.modelID,
		region:  options.region,
	}, nil
}

// Open starts a bidirectional stream with the configured model. The stream
// lives until it is closed or ctx is done.
func (c *Client) Open(ctx context.Context) (*Stream, error) {
	ctx, span := tracer.Start(ctx, "open bidirectional stream", trace.WithAttributes(
		attribute.String("aws.region", c.region),
		attribute.String("bedrock.model_id", c.modelID),
	))
	defer span.End()

	out, err := c.runtime.InvokeModelWithBidirectionalStream(ctx, &bedrockruntime.InvokeModelWithBidirectionalStreamInput{
		ModelId: aws.String(c.modelID),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open stream")
		return nil, fmt.Errorf("failed to invoke model %s: %w", c.modelID, err)
	}

	logger.Info("Opened bidirectional stream", "model_id", c.modelID, "region", c.region)
	return newStream(out.GetStream()), nil
}
