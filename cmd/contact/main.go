package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"backend/internal/handlers"
)

func main() {
	deps, err := handlers.New(context.Background())
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	lambda.Start(deps.Contact)
}
