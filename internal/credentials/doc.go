// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credentials stores the single opaque API credential used by the
// model gateway. The credential lives in a file under the app config
// directory with restricted permissions (0600 file, 0700 directory).
// An absent credential is a first-class state, not an error: it triggers
// the configuration-prompt flow in the UI.
package credentials
