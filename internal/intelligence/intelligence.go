// Package intelligence wraps the managed AWS language and vision services
// (Comprehend, Translate, Polly, Rekognition) behind one facade. Every
// operation is a single synchronous call with no retry and no caching.
package intelligence

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/translate"
)

// ComprehendAPI is the subset of the Comprehend client the facade uses.
type ComprehendAPI interface {
	DetectDominantLanguage(ctx context.Context, params *comprehend.DetectDominantLanguageInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectDominantLanguageOutput, error)
	DetectSentiment(ctx context.Context, params *comprehend.DetectSentimentInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSentimentOutput, error)
	DetectPiiEntities(ctx context.Context, params *comprehend.DetectPiiEntitiesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectPiiEntitiesOutput, error)
}

// TranslateAPI is the subset of the Translate client the facade uses.
type TranslateAPI interface {
	TranslateText(ctx context.Context, params *translate.TranslateTextInput, optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error)
}

// PollyAPI is the subset of the Polly client the facade uses.
type PollyAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// RekognitionAPI is the subset of the Rekognition client the facade uses.
type RekognitionAPI interface {
	SearchFacesByImage(ctx context.Context, params *rekognition.SearchFacesByImageInput, optFns ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error)
}

// Language is the dominant language detected for a text.
type Language struct {
	Code       string  `json:"languageCode"`
	Confidence float64 `json:"confidence"`
}

// SentimentScores holds the per-label confidence scores.
type SentimentScores struct {
	Positive float64 `json:"Positive"`
	Negative float64 `json:"Negative"`
	Neutral  float64 `json:"Neutral"`
	Mixed    float64 `json:"Mixed"`
}

// Dominant returns the label with the highest score and that score. Ties
// keep the first label in Positive, Negative, Neutral, Mixed order.
func (s SentimentScores) Dominant() (string, float64) {
	label, score := "Positive", s.Positive
	for _, candidate := range []struct {
		label string
		score float64
	}{
		{"Negative", s.Negative},
		{"Neutral", s.Neutral},
		{"Mixed", s.Mixed},
	} {
		if candidate.score > score {
			label, score = candidate.label, candidate.score
		}
	}
	return label, score
}

// Sentiment is the overall sentiment of a text.
type Sentiment struct {
	Label  string          `json:"sentiment"`
	Scores SentimentScores `json:"sentimentScore"`
}

// Span is a half-open [Begin, End) byte range inside the analyzed text.
type Span struct {
	Begin int
	End   int
}

// Service is the content-intelligence facade.
type Service struct {
	comprehend   ComprehendAPI
	translate    TranslateAPI
	polly        PollyAPI
	rekognition  RekognitionAPI
	collectionID string
}

// New constructs the facade with clients built from the shared AWS config.
// collectionID names the Rekognition face collection used for matching.
func New(cfg aws.Config, collectionID string) *Service {
	return &Service{
		comprehend:   comprehend.NewFromConfig(cfg),
		translate:    translate.NewFromConfig(cfg),
		polly:        polly.NewFromConfig(cfg),
		rekognition:  rekognition.NewFromConfig(cfg),
		collectionID: collectionID,
	}
}

// SpeechStream is the synthesized audio returned to the caller. The caller
// owns the stream and must close it.
type SpeechStream struct {
	Audio       io.ReadCloser
	ContentType string
}
