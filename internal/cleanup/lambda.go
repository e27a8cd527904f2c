// Package cleanup invokes the serverless function that removes a post's
// cover object from storage when the post is deleted. The function is the
// single authoritative delete path for cover assets; it is treated as
// idempotent, so a report that the object is already gone counts as
// success.
package cleanup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// LambdaAPI is the subset of the Lambda client the invoker uses.
type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Invoker calls the cleanup function synchronously.
type Invoker struct {
	client       LambdaAPI
	functionName string
}

// NewInvoker constructs an Invoker from the shared AWS config.
func NewInvoker(cfg aws.Config, functionName string) (*Invoker, error) {
	if strings.TrimSpace(functionName) == "" {
		return nil, errors.New("cleanup function name is required")
	}
	return &Invoker{
		client:       lambda.NewFromConfig(cfg),
		functionName: functionName,
	}, nil
}

type cleanupRequest struct {
	Body cleanupBody `json:"body"`
}

type cleanupBody struct {
	BucketName string `json:"bucketName"`
	ObjectKey  string `json:"objectKey"`
}

type cleanupResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// RemoveObject asks the cleanup function to delete bucket/key and returns
// an error unless the function reports success (or that the object no
// longer exists).
func (i *Invoker) RemoveObject(ctx context.Context, bucket, key string) error {
	payload, err := json.Marshal(cleanupRequest{
		Body: cleanupBody{BucketName: bucket, ObjectKey: key},
	})
	if err != nil {
		return fmt.Errorf("marshal cleanup payload: %w", err)
	}

	out, err := i.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(i.functionName),
		InvocationType: lambdatypes.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("invoke cleanup function: %w", err)
	}
	if fnErr := aws.ToString(out.FunctionError); fnErr != "" {
		return fmt.Errorf("cleanup function failed: %s", fnErr)
	}

	var resp cleanupResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return fmt.Errorf("decode cleanup response: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("cleanup function returned %d: %s", resp.StatusCode, resp.Message)
	}
}
