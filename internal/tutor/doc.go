// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor contains the turn orchestrator: the component that takes
// one user input, fires the streaming reply request and the corrections
// request concurrently, folds the streamed reply into the transcript as it
// arrives, and reconciles the correction result onto the already-rendered
// user turn whenever it resolves.
//
// The orchestrator is display-agnostic. It drives the transcript through
// the Renderer interface and can be exercised in tests with a fake
// renderer and gateway.
package tutor
