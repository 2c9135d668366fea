// Command chattester drives one persona conversation from the terminal
// against the configured Ark model, printing extracted fields after each turn.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/eureka/backend/internal/config"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
	"github.com/zhouzirui/eureka/backend/internal/service/ai"
	"github.com/zhouzirui/eureka/backend/internal/service/chat"
	"github.com/zhouzirui/eureka/backend/internal/service/extraction"
	"github.com/zhouzirui/eureka/backend/internal/service/handoff"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env loaded, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if !cfg.AI.Enabled() {
		log.Fatal("Ark credentials are not configured: set ARK_API_KEY and ARK_MODEL")
	}

	personaID := flag.String("persona", persona.DefaultID, "persona id to talk to")
	list := flag.Bool("list", false, "list persona ids and exit")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall session timeout")
	verbose := flag.Bool("v", false, "log engine internals")
	flag.Parse()

	personas := persona.NewDefaultStore()
	if *list {
		for _, p := range personas.List() {
			fmt.Printf("%-28s %s\n", p.ID, p.Name)
		}
		return
	}

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	aiSvc, err := ai.NewService(ctx, cfg.AI, ai.WithLogger(logger))
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}
	extractor, err := extraction.NewService(ctx, aiSvc.ChatModel(), extraction.Config{
		Enabled: cfg.AI.ExtractionEnabled,
		Timeout: cfg.AI.Timeout,
	}, logger, nil)
	if err != nil {
		log.Fatalf("failed to initialize extraction: %v", err)
	}

	engine := chat.NewService(personas,
		chat.WithCompleter(aiSvc),
		chat.WithExtractor(extractor),
		chat.WithLogger(logger),
		chat.WithWindow(cfg.AI.ExtractionWindow),
		chat.WithTemperature(cfg.AI.ChatTemperature))

	created, err := engine.CreateSession(ctx, *personaID)
	if err != nil {
		log.Fatalf("failed to create session: %v", err)
	}
	fmt.Printf("session %s (%s)\n\n%s\n\n", created.SessionID, created.Persona, created.Greeting)
	fmt.Println("commands: /fields, /handoff <route>, /quit")

	sessionID := created.SessionID
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			return
		case line == "/fields":
			snap, err := engine.Snapshot(ctx, sessionID)
			if err != nil {
				log.Printf("[ERROR] snapshot: %v", err)
				continue
			}
			fmt.Println(snap.Fields.Indent())
			continue
		case strings.HasPrefix(line, "/handoff"):
			route := strings.TrimSpace(strings.TrimPrefix(line, "/handoff"))
			if route == "" {
				route = handoff.OfferToAvatar
			}
			result, err := engine.Handoff(ctx, route, sessionID)
			if err != nil {
				log.Printf("[ERROR] handoff: %v", err)
				continue
			}
			if result.Error != "" {
				fmt.Printf("handoff rejected: %s\n", result.Error)
				continue
			}
			sessionID = result.SessionID
			fmt.Printf("\nswitched to session %s (%s)\n\n%s\n\nprefilled:\n%s\n\n", sessionID, result.Persona, result.Greeting, result.Prefilled.Indent())
			continue
		}

		start := time.Now()
		turn, err := engine.Advance(ctx, chat.Request{SessionID: sessionID, Message: line})
		if err != nil {
			log.Printf("[ERROR] advance: %v", err)
			continue
		}
		fmt.Printf("\n%s\n\n", turn.Reply)
		fmt.Printf("[%s] filled %d/%d complete=%v\n", time.Since(start).Round(time.Millisecond),
			len(turn.Fields.Filled()), turn.Fields.Len(), turn.Complete)
	}
}
