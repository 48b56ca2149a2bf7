package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/bodul/wordgrid/internal/puzzle"
	"github.com/bodul/wordgrid/internal/server"
	"github.com/bodul/wordgrid/internal/suggest"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx := context.Background()

	projectID := os.Getenv("GCP_PROJECT_ID")

	var suggester server.Suggester
	if projectID != "" {
		client, err := suggest.NewClient(ctx, projectID, os.Getenv("GCP_REGION"))
		if err != nil {
			log.Fatalf("failed to initialize Gemini: %v", err)
		}
		defer client.Close()
		suggester = client
		log.Printf("Gemini client initialized (project: %s)", projectID)
	} else {
		log.Println("GCP_PROJECT_ID not set — phrase suggestions disabled")
	}

	srv := server.NewServer(puzzle.NewStore(), suggester)

	log.Printf("server listening on http://localhost:%s", port)
	if err := http.ListenAndServe(":"+port, srv); err != nil {
		log.Fatal(err)
	}
}
