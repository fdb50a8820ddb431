// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the tutoring
// conversation: chat messages, the append-only conversation log that forms
// the prompt context, grammar correction results, and the opaque handles
// that tie corrections back to rendered user turns.
package model
