// language-tutor - A terminal chat tutor for language practice.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kblissett/language-tutor/internal/config"
	"github.com/kblissett/language-tutor/internal/credentials"
	"github.com/kblissett/language-tutor/internal/gateway"
	"github.com/kblissett/language-tutor/internal/model"
	"github.com/kblissett/language-tutor/internal/tutor"
	"github.com/kblissett/language-tutor/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for messages posted from worker goroutines.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

// sendToProgram posts a message into the running program. Messages posted
// before the program starts are dropped; nothing submits turns that early.
func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("language-tutor %s (%s, built %s)\n", Version, GitCommit, BuildDate)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	setupLogging()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	creds, err := credentials.NewStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	apiKey, hasKey := creds.Get()

	newGateway := func(key string) *gateway.Client {
		return gateway.NewClient(gateway.Config{
			APIKey:            key,
			BaseURL:           cfg.API.BaseURL,
			ChatModel:         cfg.API.ChatModel,
			CorrectionModel:   cfg.API.CorrectionModel,
			CorrectionTimeout: time.Duration(cfg.API.CorrectionTimeoutSecs) * time.Second,
			Language:          cfg.Tutor.Language,
		})
	}

	conv := model.NewConversation(cfg.Persona())
	bridge := chat.NewBridge(sendToProgram)
	orch := tutor.New(conv, newGateway(apiKey), bridge)

	// Saving a key in the settings overlay persists it and swaps in a
	// reconfigured gateway. The turn in flight, if any, keeps its client.
	onCredential := func(key string) error {
		if err := creds.Set(key); err != nil {
			return err
		}
		orch.SetGateway(newGateway(key))
		return nil
	}

	ui := chat.New(cfg, orch, onCredential)
	if !hasKey {
		ui.PromptCredentialOnStart()
	}

	p := tea.NewProgram(ui, tea.WithAltScreen())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running language-tutor: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes the standard logger to a file when TUTOR_DEBUG is
// set, and discards it otherwise. Logging to stderr would corrupt the
// alternate screen.
func setupLogging() {
	if os.Getenv("TUTOR_DEBUG") == "" {
		log.SetOutput(io.Discard)
		return
	}
	if _, err := tea.LogToFile("tutor-debug.log", "tutor"); err != nil {
		log.SetOutput(io.Discard)
	}
}

func printUsage() {
	fmt.Print(`language-tutor - practice a language with an AI tutor

Usage:
  tutor              Start the tutoring session
  tutor --version    Print version information
  tutor --help       Show this help

Configuration lives in ~/.tutor/config.toml; the API key is stored
separately in ~/.tutor/credential. Set TUTOR_DEBUG=1 to write a debug log
to tutor-debug.log in the working directory.
`)
}
