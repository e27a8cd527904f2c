package intelligence

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	comprehendtypes "github.com/aws/aws-sdk-go-v2/service/comprehend/types"
)

// piiDetectionLanguage is the language Comprehend analyzes for PII. The
// detection API requires a language up front, before the post's own
// language is known.
const piiDetectionLanguage = comprehendtypes.LanguageCodeEn

// DetectDominantLanguage returns the highest-scoring language candidate.
// Ties keep the candidate Comprehend returned first.
func (s *Service) DetectDominantLanguage(ctx context.Context, text string) (Language, error) {
	out, err := s.comprehend.DetectDominantLanguage(ctx, &comprehend.DetectDominantLanguageInput{
		Text: aws.String(text),
	})
	if err != nil {
		return Language{}, fmt.Errorf("detect dominant language: %w", err)
	}
	return pickDominantLanguage(out.Languages)
}

func pickDominantLanguage(candidates []comprehendtypes.DominantLanguage) (Language, error) {
	if len(candidates) == 0 {
		return Language{}, errors.New("detect dominant language: no candidates returned")
	}

	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if aws.ToFloat32(candidate.Score) > aws.ToFloat32(best.Score) {
			best = candidate
		}
	}
	return Language{
		Code:       aws.ToString(best.LanguageCode),
		Confidence: float64(aws.ToFloat32(best.Score)),
	}, nil
}

// AnalyzeSentiment returns the sentiment label and per-label scores for
// text written in the given language.
func (s *Service) AnalyzeSentiment(ctx context.Context, text, languageCode string) (Sentiment, error) {
	out, err := s.comprehend.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         aws.String(text),
		LanguageCode: comprehendtypes.LanguageCode(languageCode),
	})
	if err != nil {
		return Sentiment{}, fmt.Errorf("analyze sentiment: %w", err)
	}

	sentiment := Sentiment{Label: string(out.Sentiment)}
	if score := out.SentimentScore; score != nil {
		sentiment.Scores = SentimentScores{
			Positive: float64(aws.ToFloat32(score.Positive)),
			Negative: float64(aws.ToFloat32(score.Negative)),
			Neutral:  float64(aws.ToFloat32(score.Neutral)),
			Mixed:    float64(aws.ToFloat32(score.Mixed)),
		}
	}
	return sentiment, nil
}

// DetectPiiEntities returns the spans of personally identifiable
// information found in text.
func (s *Service) DetectPiiEntities(ctx context.Context, text string) ([]Span, error) {
	out, err := s.comprehend.DetectPiiEntities(ctx, &comprehend.DetectPiiEntitiesInput{
		Text:         aws.String(text),
		LanguageCode: piiDetectionLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("detect pii entities: %w", err)
	}

	spans := make([]Span, 0, len(out.Entities))
	for _, entity := range out.Entities {
		spans = append(spans, Span{
			Begin: int(aws.ToInt32(entity.BeginOffset)),
			End:   int(aws.ToInt32(entity.EndOffset)),
		})
	}
	return spans, nil
}
