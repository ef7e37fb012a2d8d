// chartwright TUI - a terminal client for the Chartwright chat service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/clintechso/chartwright-tui/internal/api"
	"github.com/clintechso/chartwright-tui/internal/config"
	"github.com/clintechso/chartwright-tui/internal/conversation"
	"github.com/clintechso/chartwright-tui/internal/model"
	"github.com/clintechso/chartwright-tui/internal/session"
	"github.com/clintechso/chartwright-tui/internal/storage"
	"github.com/clintechso/chartwright-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		baseURL     = flag.String("base-url", "", "API origin (overrides config)")
		modelName   = flag.String("model", "", "model name for new messages (overrides config)")
		setName     = flag.String("set-name", "", "update the profile display name and exit")
		logout      = flag.Bool("logout", false, "clear the stored session and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("chartwright %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg := config.Global()
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *modelName != "" {
		cfg.DefaultModel = *modelName
	}

	// The TUI owns stdout, so diagnostics go to a file.
	if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
		log.SetOutput(f)
		defer f.Close()
	} else {
		log.SetOutput(os.Stderr)
	}
	log.Printf("chartwright %s starting", Version)

	creds, err := storage.NewCredentialStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open credential store: %v\n", err)
		os.Exit(1)
	}
	sess := session.NewStore(creds)
	client := api.NewClient(cfg.BaseURL).WithTimeout(time.Duration(cfg.TimeoutSecs) * time.Second)

	if *logout {
		sess.Logout()
		fmt.Println("Signed out.")
		return
	}

	if *setName != "" {
		runSetName(client, sess, *setName)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: chartwright requires an interactive terminal")
		os.Exit(1)
	}

	store := conversation.NewStore(sess, client, cfg.DefaultModel)

	// Reload config edits while the client runs.
	if watcher, err := config.NewWatcher(func(fresh *config.Config) {
		store.SetModelName(fresh.DefaultModel)
	}); err == nil {
		if err := watcher.Watch(); err != nil {
			log.Printf("config: watch unavailable: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	p := tea.NewProgram(
		ui.New(client, sess, store),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running chartwright: %v\n", err)
		os.Exit(1)
	}
}

// runSetName updates the profile display name over the API. Last write
// wins; the server returns the stored profile.
func runSetName(client *api.Client, sess *session.Store, name string) {
	if !sess.HasToken() {
		fmt.Fprintln(os.Stderr, "Error: not signed in; run chartwright and sign in first")
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := client.UpdateProfile(ctx, sess.Token(), model.UpdateProfileRequest{Name: name})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", api.UserMessage(err))
		os.Exit(1)
	}
	sess.SetUser(user)
	fmt.Printf("Profile name set to %q.\n", user.Name)
}
