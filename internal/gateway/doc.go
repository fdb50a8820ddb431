// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway implements the client for an OpenAI-compatible
// chat-completions endpoint. It wraps the two request shapes the tutor
// needs: a streaming free-text reply (SSE, decoded into a channel of
// deltas) and a non-streaming structured-output request that returns
// grammar corrections constrained by a fixed JSON schema.
//
// The client is pure request/response: it holds no conversation state and
// is rebuilt whenever the credential changes.
package gateway
