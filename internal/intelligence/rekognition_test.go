package intelligence

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	rekognitiontypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
)

func TestAnyMatchThresholdIsInclusive(t *testing.T) {
	tests := []struct {
		name       string
		similarity float32
		want       bool
	}{
		{"well above", 99.5, true},
		{"exactly at threshold", 90, true},
		{"just below", 89.999, false},
		{"far below", 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := []rekognitiontypes.FaceMatch{
				{Similarity: aws.Float32(tt.similarity)},
			}
			assert.Equal(t, tt.want, anyMatch(matches))
		})
	}
}

func TestAnyMatchNoCandidates(t *testing.T) {
	assert.False(t, anyMatch(nil))
}

func TestAnyMatchOneOfMany(t *testing.T) {
	matches := []rekognitiontypes.FaceMatch{
		{Similarity: aws.Float32(12)},
		{Similarity: aws.Float32(91.2)},
		{Similarity: aws.Float32(45)},
	}
	assert.True(t, anyMatch(matches))
}
