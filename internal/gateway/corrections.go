// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/kblissett/language-tutor/internal/model"
)

// =============================================================================
// STRUCTURED OUTPUT SCHEMA
// =============================================================================

// responseFormat is the structured-output constraint sent with the
// corrections request.
type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

// correctionSchema constrains the provider's output to the CorrectionResult
// shape: all fields required, no additional properties.
const correctionSchema = `{
	"type": "object",
	"properties": {
		"hasIssues": {"type": "boolean"},
		"items": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"type": {"type": "string", "enum": ["error", "style"]},
					"original": {"type": "string"},
					"suggestion": {"type": "string"},
					"explanation": {"type": "string"}
				},
				"required": ["type", "original", "suggestion", "explanation"],
				"additionalProperties": false
			}
		}
	},
	"required": ["hasIssues", "items"],
	"additionalProperties": false
}`

// correctionPrompt is the system instruction for the corrections request.
// The conversational persona is deliberately absent: this request analyzes
// a single user turn in isolation.
const correctionPrompt = "You are a %s teacher reviewing a single message " +
	"written by a student. List every grammatical error and any notable " +
	"style improvement. Use kind \"error\" for grammar mistakes and " +
	"\"style\" for phrasing that is correct but unnatural. If the message " +
	"is fine, return hasIssues false with an empty list. Write " +
	"explanations in English."

// =============================================================================
// CORRECTIONS REQUEST
// =============================================================================

// RequestCorrections analyzes one user turn for grammar and style issues.
// It is a single non-streaming call constrained to the correction schema.
//
// Absence of corrections is a normal, silent outcome: when the provider
// returns no content, or the payload fails strict decoding or validation,
// the result is (nil, nil) and the cause is only logged. Transport and auth
// failures are returned as errors; the caller treats those as best-effort
// too, but can distinguish them.
//
// Calling without a credential fails synchronously with ErrNotConfigured.
func (c *Client) RequestCorrections(ctx context.Context, userText string) (*model.CorrectionResult, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.CorrectionTimeout)
	defer cancel()

	reqBody := chatRequest{
		Model: c.cfg.CorrectionModel,
		Messages: []model.Message{
			model.NewSystemMessage(fmt.Sprintf(correctionPrompt, c.cfg.Language)),
			model.NewUserMessage(userText),
		},
		Stream: false,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   "corrections",
				Strict: true,
				Schema: json.RawMessage(correctionSchema),
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	c.logRequest(req)
	start := time.Now()
	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	content := chatResp.content()
	if strings.TrimSpace(content) == "" {
		log.Printf("corrections: provider returned no content")
		return nil, nil
	}

	result, err := decodeCorrections(content)
	if err != nil {
		log.Printf("corrections: discarding invalid payload: %v", err)
		return nil, nil
	}
	return result, nil
}

// decodeCorrections strictly decodes a correction payload. Unknown fields,
// trailing data, and out-of-enum kinds are all rejected.
func decodeCorrections(content string) (*model.CorrectionResult, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()

	var result model.CorrectionResult
	if err := dec.Decode(&result); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after correction payload")
	}

	for i, item := range result.Items {
		if item.Kind != model.CorrectionError && item.Kind != model.CorrectionStyle {
			return nil, fmt.Errorf("item %d: unknown correction kind %q", i, item.Kind)
		}
	}
	return &result, nil
}
