package main

import (
	"context"
	"log"
	"os"

	"github.com/aussiebroadwan/clientdesk/internal/clients/app"
)

func main() {
	if err := app.Run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("clientdesk: %v", err)
	}
}
