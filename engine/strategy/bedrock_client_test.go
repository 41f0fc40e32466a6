// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// fakeInvoker scripts InvokeModel without AWS credentials.
type fakeInvoker struct {
	output *bedrockruntime.InvokeModelOutput
	err    error
	input  *bedrockruntime.InvokeModelInput
}

func (f *fakeInvoker) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	return f.output, f.err
}

func TestBedrockClientComplete(t *testing.T) {
	respBody, _ := json.Marshal(map[string]interface{}{
		"content":     []map[string]string{{"type": "text", "text": "A quiet turning approaches."}},
		"stop_reason": "end_turn",
	})
	invoker := &fakeInvoker{output: &bedrockruntime.InvokeModelOutput{Body: respBody}}
	c := &BedrockClient{client: invoker, region: DefaultBedrockRegion, model: DefaultBedrockModel}

	text, err := c.Complete(context.Background(), "write something brief", 200)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "A quiet turning approaches." {
		t.Errorf("text = %q", text)
	}

	if invoker.input == nil || *invoker.input.ModelId != DefaultBedrockModel {
		t.Fatalf("model id not passed through: %+v", invoker.input)
	}

	var req bedrockRequest
	if err := json.Unmarshal(invoker.input.Body, &req); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if req.AnthropicVersion != "bedrock-2023-05-31" {
		t.Errorf("anthropic version = %q", req.AnthropicVersion)
	}
	if req.MaxTokens != 200 || len(req.Messages) != 1 {
		t.Errorf("request = %+v", req)
	}
}

func TestBedrockClientErrors(t *testing.T) {
	c := &BedrockClient{client: &fakeInvoker{err: errors.New("throttled")}}
	if _, err := c.Complete(context.Background(), "p", 50); err == nil {
		t.Error("expected error from failing invoke")
	}

	empty, _ := json.Marshal(map[string]interface{}{"content": []interface{}{}})
	c = &BedrockClient{client: &fakeInvoker{output: &bedrockruntime.InvokeModelOutput{Body: empty}}}
	if _, err := c.Complete(context.Background(), "p", 50); err == nil {
		t.Error("expected error for empty content")
	}
}
