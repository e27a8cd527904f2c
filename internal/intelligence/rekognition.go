package intelligence

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rekognitiontypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// faceMatchThreshold is the minimum similarity, inclusive, for a face
// search candidate to count as a match.
const faceMatchThreshold = 90

// MatchFace searches the configured face collection for the supplied
// image and reports whether any candidate reaches the match threshold.
func (s *Service) MatchFace(ctx context.Context, imageBytes []byte) (bool, error) {
	out, err := s.rekognition.SearchFacesByImage(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId: aws.String(s.collectionID),
		Image:        &rekognitiontypes.Image{Bytes: imageBytes},
	})
	if err != nil {
		return false, fmt.Errorf("search faces: %w", err)
	}
	return anyMatch(out.FaceMatches), nil
}

func anyMatch(matches []rekognitiontypes.FaceMatch) bool {
	for _, match := range matches {
		if aws.ToFloat32(match.Similarity) >= faceMatchThreshold {
			return true
		}
	}
	return false
}
