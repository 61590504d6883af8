package generator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/samber/lo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"imagegen/internal/config"
	"imagegen/internal/log"
)

// InvokeModelAPI is the subset of the Bedrock runtime client used here.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// ClientFactory builds a Bedrock client for a single call.
type ClientFactory func(ctx context.Context) (InvokeModelAPI, error)

type textPrompt struct {
	Text string `json:"text"`
}

type stabilityRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CfgScale    int          `json:"cfg_scale"`
	Steps       int          `json:"steps"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
}

type artifact struct {
	Base64       string `json:"base64"`
	Seed         int64  `json:"seed"`
	FinishReason string `json:"finishReason"`
}

type stabilityResponse struct {
	Result    string     `json:"result"`
	Artifacts []artifact `json:"artifacts"`
}

// Bedrock generates images with a Stability model hosted on Amazon Bedrock.
type Bedrock struct {
	ModelID   string
	NewClient ClientFactory
}

// NewBedrock returns a generator whose AWS client is resolved on every call:
// credentials come from the SDK's default chain at call time and are never
// cached between requests.
func NewBedrock(cfg config.BedrockConfig) *Bedrock {
	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	return &Bedrock{
		ModelID: cfg.ModelID,
		NewClient: func(ctx context.Context) (InvokeModelAPI, error) {
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
				awsconfig.WithRegion(cfg.Region),
				awsconfig.WithHTTPClient(httpClient),
			)
			if err != nil {
				return nil, err
			}
			return bedrockruntime.NewFromConfig(awsCfg), nil
		},
	}
}

// Generate invokes the model once. Errors from the SDK are returned as-is.
func (g *Bedrock) Generate(ctx context.Context, prompt string) ([]byte, error) {
	ctx, span := otel.Tracer("imagegen/generator").Start(ctx, "bedrock.InvokeModel")
	defer span.End()
	span.SetAttributes(attribute.String("bedrock.model_id", g.ModelID))

	log := log.FromContextOrDiscard(ctx).WithGroup("bedrock").With("model", g.ModelID)
	log.Info("generating image")

	data, err := g.generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	log.Info("received image", "bytes", len(data))
	return data, nil
}

func (g *Bedrock) generate(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(stabilityRequest{
		TextPrompts: []textPrompt{{Text: prompt}},
		CfgScale:    CfgScale,
		Steps:       Steps,
		Width:       Width,
		Height:      Height,
	})
	if err != nil {
		return nil, err
	}

	client, err := g.NewClient(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.ModelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, err
	}

	var res stabilityResponse
	if err := json.Unmarshal(out.Body, &res); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	art, ok := lo.Find(res.Artifacts, func(a artifact) bool {
		return a.Base64 != ""
	})
	if !ok {
		return nil, ErrNoArtifacts
	}

	data, err := base64.StdEncoding.DecodeString(art.Base64)
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	return data, nil
}
