// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the tutoring transcript view for the TUI.
//
// The package owns the Bubble Tea model for the main screen: the scrolling
// transcript, the input line, the credential settings overlay, and the
// status bar. Turn execution lives in the tutor package; chat receives its
// output through Bubble Tea messages posted by the Bridge, which implements
// tutor.Renderer on top of a running program.
package chat
