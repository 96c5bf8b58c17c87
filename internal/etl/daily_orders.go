// Package etl exports order rows from the spreadsheet into the analytics
// lake on a schedule.
package etl

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"

	"backend/internal/analytics"
	"backend/internal/config"
	"backend/internal/store"
)

// DailyOrderRow matches the Glue table columns. One row per
// (date, product, language) with order count and gross revenue.
type DailyOrderRow struct {
	OrderDate  string  `parquet:"name=order_date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"` // YYYY-MM-DD
	Product    string  `parquet:"name=product, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Language   string  `parquet:"name=language, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	OrderCount int64   `parquet:"name=order_count, type=INT64"`
	GrossEUR   float64 `parquet:"name=gross_eur, type=DOUBLE"`
	GiftCount  int64   `parquet:"name=gift_count, type=INT64"`
}

type DailyOrdersETL struct {
	store  *store.Store
	s3     *s3.Client
	glue   *glue.Client
	athena analytics.AthenaClient
}

func NewDailyOrdersETL(cfg aws.Config, st *store.Store, ath analytics.AthenaClient) *DailyOrdersETL {
	return &DailyOrdersETL{
		store:  st,
		s3:     s3.NewFromConfig(cfg),
		glue:   glue.NewFromConfig(cfg),
		athena: ath,
	}
}

// Handle is triggered by EventBridge schedule.
//
// Env:
// - ANALYTICS_BUCKET (required)
// - DAILY_ORDERS_PREFIX (default "daily_orders/")
// - ETL_TIMEZONE (default "Europe/Rome")
// - ETL_DAYS_BACK (default "1")
// - ATHENA_DATABASE / ATHENA_TABLE / ATHENA_OUTPUT / ATHENA_WORKGROUP for
//   the partition repair step
func (h *DailyOrdersETL) Handle(ctx context.Context, _ events.CloudWatchEvent) (map[string]any, error) {
	bucket := config.AnalyticsBucket()
	if bucket == "" {
		return nil, fmt.Errorf("missing env ANALYTICS_BUCKET")
	}
	prefix := strings.TrimSpace(os.Getenv("DAILY_ORDERS_PREFIX"))
	if prefix == "" {
		prefix = "daily_orders/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	tzName := strings.TrimSpace(os.Getenv("ETL_TIMEZONE"))
	if tzName == "" {
		tzName = "Europe/Rome"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", tzName, err)
	}

	daysBack := 1
	if v := strings.TrimSpace(os.Getenv("ETL_DAYS_BACK")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 90 {
			daysBack = n
		}
	}

	orders, err := h.store.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	now := time.Now().In(loc)
	written := 0
	for i := 0; i < daysBack; i++ {
		dt := now.AddDate(0, 0, -i).Format("2006-01-02")

		rows := AggregateOrders(orders, dt)
		if len(rows) == 0 {
			continue
		}

		key := fmt.Sprintf("%sdt=%s/part-%s.parquet", prefix, dt, randHex(8))
		if err := h.writeParquetToS3(ctx, bucket, key, rows); err != nil {
			return nil, fmt.Errorf("write parquet dt=%s: %w", dt, err)
		}
		written += len(rows)
	}

	h.checkGlueTable(ctx)

	if err := h.repairPartitions(ctx); err != nil {
		fmt.Printf("etl: partition repair failed: %v\n", err)
	}

	return map[string]any{
		"ok":        true,
		"orders":    len(orders),
		"days_back": daysBack,
		"written":   written,
		"bucket":    bucket,
		"prefix":    prefix,
	}, nil
}

// AggregateOrders rolls the day's orders up per (product, language).
// Deterministic output order keeps parquet files diffable across reruns.
func AggregateOrders(orders []store.Order, dayYYYYMMDD string) []DailyOrderRow {
	type key struct{ product, lang string }
	agg := map[key]*DailyOrderRow{}

	for _, o := range orders {
		if !strings.HasPrefix(o.Date, dayYYYYMMDD) {
			continue
		}
		k := key{o.Product, config.NormalizeLang(o.Language)}
		row, ok := agg[k]
		if !ok {
			row = &DailyOrderRow{OrderDate: dayYYYYMMDD, Product: k.product, Language: k.lang}
			agg[k] = row
		}
		row.OrderCount++
		if amt, err := strconv.ParseFloat(strings.TrimSpace(o.AmountPaid), 64); err == nil {
			row.GrossEUR += amt
		}
		if o.Gift {
			row.GiftCount++
		}
	}

	out := make([]DailyOrderRow, 0, len(agg))
	for _, r := range agg {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		return out[i].Language < out[j].Language
	})
	return out
}

func (h *DailyOrdersETL) writeParquetToS3(ctx context.Context, bucket, key string, rows []DailyOrderRow) error {
	localPath := filepath.Join(os.TempDir(), "daily_orders_"+randHex(8)+".parquet")

	fw, err := local.NewLocalFileWriter(localPath)
	if err != nil {
		return fmt.Errorf("parquet file writer: %w", err)
	}

	pw, err := writer.NewParquetWriter(fw, new(DailyOrderRow), 1)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer: %w", err)
	}
	pw.RowGroupSize = 128 * 1024 * 1024
	pw.PageSize = 8 * 1024
	pw.CompressionType = 0

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return fmt.Errorf("parquet write row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet write stop: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("parquet close: %w", err)
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("read parquet tmp: %w", err)
	}
	defer func() { _ = os.Remove(localPath) }()

	_, err = h.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
		ACL:         s3types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return fmt.Errorf("s3 putobject: %w", err)
	}
	return nil
}

// checkGlueTable warns when the catalog table is missing; the export still
// lands in S3 either way.
func (h *DailyOrdersETL) checkGlueTable(ctx context.Context) {
	dbName := strings.TrimSpace(os.Getenv("ATHENA_DATABASE"))
	table := strings.TrimSpace(os.Getenv("ATHENA_TABLE"))
	if dbName == "" || table == "" {
		return
	}
	_, err := h.glue.GetTable(ctx, &glue.GetTableInput{
		DatabaseName: aws.String(dbName),
		Name:         aws.String(table),
	})
	if err != nil {
		fmt.Printf("etl: glue table %s.%s not found: %v\n", dbName, table, err)
	}
}

func (h *DailyOrdersETL) repairPartitions(ctx context.Context) error {
	table := strings.TrimSpace(os.Getenv("ATHENA_TABLE"))
	if table == "" || h.athena == nil {
		return nil
	}
	opt := analytics.OptionsFromEnv()
	opt.MaxWait = 60 * time.Second
	opt.PollInterval = 2 * time.Second

	res, err := analytics.RunQuery(ctx, h.athena, fmt.Sprintf("MSCK REPAIR TABLE %s;", table), opt)
	if err != nil {
		return err
	}
	fmt.Printf("etl: partitions repaired, qid=%s\n", res.QueryExecutionID)
	return nil
}

func randHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
