package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"

	"backend/internal/etl"
	"backend/internal/sheets"
	"backend/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	sc, err := sheets.New(ctx)
	if err != nil {
		log.Fatalf("init sheets: %v", err)
	}

	h := etl.NewDailyOrdersETL(cfg, store.New(sc), athena.NewFromConfig(cfg))
	lambda.Start(h.Handle)
}
