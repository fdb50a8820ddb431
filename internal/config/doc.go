// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the tutor.
//
// Configuration is read from ~/.tutor/config.toml with sensible defaults
// and environment variable overrides. The API credential itself is not part
// of the config file; it lives in the credential store.
package config
