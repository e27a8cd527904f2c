package intelligence

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/translate"
)

// Translate converts text into the target language. The source language
// is auto-detected by the remote service.
func (s *Service) Translate(ctx context.Context, text, targetLanguageCode string) (string, error) {
	out, err := s.translate.TranslateText(ctx, &translate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String("auto"),
		TargetLanguageCode: aws.String(targetLanguageCode),
	})
	if err != nil {
		return "", fmt.Errorf("translate text: %w", err)
	}
	return aws.ToString(out.TranslatedText), nil
}
