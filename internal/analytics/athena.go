// Package analytics runs queries against the order lake (parquet on S3,
// catalogued in Glue, queried through Athena).
package analytics

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
)

// AthenaClient is the slice of the Athena API the runner uses; tests can
// fake it.
type AthenaClient interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

type RunOptions struct {
	Database       string
	Workgroup      string
	OutputLocation string // s3://bucket/athena-results/
	MaxWait        time.Duration
	PollInterval   time.Duration
}

// OptionsFromEnv reads ATHENA_DATABASE / ATHENA_WORKGROUP / ATHENA_OUTPUT.
func OptionsFromEnv() RunOptions {
	wg := strings.TrimSpace(os.Getenv("ATHENA_WORKGROUP"))
	if wg == "" {
		wg = "primary"
	}
	return RunOptions{
		Database:       strings.TrimSpace(os.Getenv("ATHENA_DATABASE")),
		Workgroup:      wg,
		OutputLocation: strings.TrimSpace(os.Getenv("ATHENA_OUTPUT")),
	}
}

type Result struct {
	QueryExecutionID string
	Columns          []string
	Rows             [][]string
}

// RunQuery starts a query, polls to completion, and returns the result rows
// with the Athena header row stripped.
func RunQuery(ctx context.Context, c AthenaClient, sql string, opt RunOptions) (*Result, error) {
	if opt.Database == "" || opt.OutputLocation == "" {
		return nil, fmt.Errorf("athena database and output location are required")
	}
	if opt.MaxWait == 0 {
		opt.MaxWait = 25 * time.Second
	}
	if opt.PollInterval == 0 {
		opt.PollInterval = 700 * time.Millisecond
	}

	startOut, err := c.StartQueryExecution(ctx, &athena.StartQueryExecutionInput{
		QueryString: aws.String(sql),
		QueryExecutionContext: &athenatypes.QueryExecutionContext{
			Database: aws.String(opt.Database),
		},
		ResultConfiguration: &athenatypes.ResultConfiguration{
			OutputLocation: aws.String(opt.OutputLocation),
		},
		WorkGroup: aws.String(opt.Workgroup),
	})
	if err != nil {
		return nil, fmt.Errorf("athena StartQueryExecution: %w", err)
	}
	qid := aws.ToString(startOut.QueryExecutionId)

	deadline := time.Now().Add(opt.MaxWait)
	for {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("athena query timed out (qid=%s)", qid)
		}
		getOut, err := c.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
			QueryExecutionId: aws.String(qid),
		})
		if err != nil {
			return nil, fmt.Errorf("athena GetQueryExecution: %w", err)
		}
		state := getOut.QueryExecution.Status.State
		if state == athenatypes.QueryExecutionStateSucceeded {
			break
		}
		if state == athenatypes.QueryExecutionStateFailed || state == athenatypes.QueryExecutionStateCancelled {
			reason := aws.ToString(getOut.QueryExecution.Status.StateChangeReason)
			return nil, fmt.Errorf("athena %s: %s (qid=%s)", state, reason, qid)
		}
		time.Sleep(opt.PollInterval)
	}

	res := &Result{QueryExecutionID: qid}
	var nextToken *string
	first := true
	for {
		out, err := c.GetQueryResults(ctx, &athena.GetQueryResultsInput{
			QueryExecutionId: aws.String(qid),
			NextToken:        nextToken,
			MaxResults:       aws.Int32(1000),
		})
		if err != nil {
			return nil, fmt.Errorf("athena GetQueryResults: %w", err)
		}
		if first && out.ResultSet != nil && out.ResultSet.ResultSetMetadata != nil {
			for _, ci := range out.ResultSet.ResultSetMetadata.ColumnInfo {
				res.Columns = append(res.Columns, aws.ToString(ci.Name))
			}
		}
		for i, r := range out.ResultSet.Rows {
			if first && i == 0 {
				continue // header row
			}
			row := make([]string, 0, len(r.Data))
			for _, d := range r.Data {
				row = append(row, aws.ToString(d.VarCharValue))
			}
			res.Rows = append(res.Rows, row)
		}
		first = false
		if out.NextToken == nil || aws.ToString(out.NextToken) == "" {
			break
		}
		nextToken = out.NextToken
	}
	return res, nil
}
