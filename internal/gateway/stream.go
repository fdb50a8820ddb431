// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kblissett/language-tutor/internal/model"
)

// =============================================================================
// STREAMING TYPES
// =============================================================================

// Delta is one increment of a streamed reply. A Delta with a non-nil Err
// terminates the sequence; deltas already delivered remain valid when a
// later one fails.
type Delta struct {
	Content string
	Err     error
}

// streamChunk is one decoded SSE payload from the provider.
type streamChunk struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
			Role    string `json:"role,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// content returns the delta content of the first choice.
func (c *streamChunk) content() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].Delta.Content
	}
	return ""
}

// done reports whether the provider marked the stream finished.
func (c *streamChunk) done() bool {
	return len(c.Choices) > 0 && c.Choices[0].FinishReason != ""
}

// =============================================================================
// STREAMING REPLY
// =============================================================================

// StreamReply performs a streaming chat completion over the given history
// and returns a channel of deltas. The sequence is lazy, finite and
// non-restartable: the channel is closed when the provider signals
// completion ([DONE] or a finish reason), the stream fails, or ctx is
// cancelled. Failures after the request is issued arrive in-band as a final
// Delta with Err set.
//
// Calling without a credential fails synchronously with ErrNotConfigured
// and performs no network activity.
func (c *Client) StreamReply(ctx context.Context, history []model.Message) (<-chan Delta, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	reqBody := chatRequest{
		Model:    c.cfg.ChatModel,
		Messages: history,
		Stream:   true,
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
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	deltas := make(chan Delta, 64)

	go func() {
		defer close(deltas)

		c.logRequest(req)
		start := time.Now()
		resp, err := sharedStreamingClient.Do(req)
		if err != nil {
			deltas <- Delta{Err: fmt.Errorf("request failed: %w", err)}
			return
		}
		defer resp.Body.Close()
		c.logResponse(resp, time.Since(start))

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
			deltas <- Delta{Err: c.handleErrorResponse(resp.StatusCode, body)}
			return
		}

		if err := c.processStream(ctx, resp.Body, deltas); err != nil {
			deltas <- Delta{Err: err}
		}
	}()

	return deltas, nil
}

// processStream reads the SSE stream and forwards content deltas in arrival
// order. Returns nil on normal termination.
func (c *Client) processStream(ctx context.Context, body io.Reader, deltas chan<- Delta) error {
	reader := bufio.NewReader(body)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}

		if !strings.HasPrefix(line, "data:") {
			// Ignore other SSE fields (event:, id:, retry:, comments).
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			return nil
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Skip malformed chunks rather than aborting the stream.
			continue
		}

		if content := chunk.content(); content != "" {
			select {
			case deltas <- Delta{Content: content}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if chunk.done() {
			return nil
		}
	}
}
