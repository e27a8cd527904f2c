package intelligence

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"
)

const defaultSpeechContentType = "audio/mpeg"

// SynthesizeSpeech renders text as mp3 audio with the given voice. The
// returned stream must be closed by the caller.
func (s *Service) SynthesizeSpeech(ctx context.Context, text, voiceID string) (SpeechStream, error) {
	out, err := s.polly.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		OutputFormat: pollytypes.OutputFormatMp3,
		Text:         aws.String(text),
		VoiceId:      pollytypes.VoiceId(voiceID),
	})
	if err != nil {
		return SpeechStream{}, fmt.Errorf("synthesize speech: %w", err)
	}

	contentType := aws.ToString(out.ContentType)
	if contentType == "" {
		contentType = defaultSpeechContentType
	}
	return SpeechStream{Audio: out.AudioStream, ContentType: contentType}, nil
}
