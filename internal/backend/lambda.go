package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// lambdaInvoker is the subset of the Lambda API the client uses.
// *lambda.Client implements it.
type lambdaInvoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

var _ lambdaInvoker = (*lambda.Client)(nil)

// LambdaClient translates by synchronously invoking a translator Lambda function.
type LambdaClient struct {
	invoker  lambdaInvoker
	function string
}

// NewLambdaClient creates a client for the named function.
func NewLambdaClient(invoker lambdaInvoker, function string) *LambdaClient {
	return &LambdaClient{invoker: invoker, function: function}
}

// TranslateOne invokes the function with {text, source, target}.
// A function error is reported as a BackendError carrying the invocation
// status and the error payload.
func (c *LambdaClient) TranslateOne(ctx context.Context, text, source, target string) (string, error) {
	payload, err := json.Marshal(translateRequest{Text: text, Source: source, Target: target})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := c.invoker.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(c.function),
		Payload:      payload,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("failed to invoke %s: %v: %w", c.function, err, ErrBackend)
	}

	status := int(result.StatusCode)
	if status == 0 {
		status = http.StatusOK
	}
	if result.FunctionError != nil {
		return "", newBackendError(status, result.Payload)
	}
	if status < 200 || status > 299 {
		return "", newBackendError(status, result.Payload)
	}

	// The translator reports handled failures in the body.
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(result.Payload, &resp); err == nil && resp.Error != "" {
		return "", newBackendError(http.StatusBadGateway, []byte(resp.Error))
	}

	return ExtractTranslation(result.Payload)
}
