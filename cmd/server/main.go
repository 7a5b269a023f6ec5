package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/Dhruv54/P2P-Chess-Game/internal/game"
	"github.com/Dhruv54/P2P-Chess-Game/internal/httpx"
	"github.com/Dhruv54/P2P-Chess-Game/internal/shared"
)

func main() {
	// Flags with env fallbacks. A hosting peer defaults to white; a dialing
	// peer defaults to black so two default invocations pair up correctly.
	addr := flag.String("addr", getenv("P2PCHESS_ADDR", ":8080"), "listen address")
	peerURL := flag.String("peer", getenv("P2PCHESS_PEER", ""), "remote peer websocket URL (e.g. ws://host:8080/ws)")
	colorFlag := flag.String("color", getenv("P2PCHESS_COLOR", ""), "side driven by this peer (white|black)")
	flag.Parse()

	localColor := shared.White
	if *peerURL != "" {
		localColor = shared.Black
	}
	if *colorFlag != "" {
		c, ok := shared.ParseColor(*colorFlag)
		if !ok {
			log.Fatalf("invalid color %q; valid: white, black", *colorFlag)
		}
		localColor = c
	}

	eng := game.NewEngine()
	srv := httpx.NewServer(eng, localColor)

	if *peerURL != "" {
		if err := srv.DialPeer(*peerURL); err != nil {
			log.Fatalf("peer: %v", err)
		}
	} else {
		log.Printf("no peer configured; waiting for a peer on /ws")
	}

	if err := srv.Listen(*addr); err != nil {
		log.Fatal(err)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return def
}
