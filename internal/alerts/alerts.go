// Package alerts publishes operational notifications to a single SNS topic
// monitored by the team. Every publish is best-effort: an order must never
// fail because the alert pipeline is down.
package alerts

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"backend/internal/config"
)

type Notifier struct {
	client   *sns.Client
	topicArn string
}

// New returns a Notifier, or nil when OPS_ALERTS_TOPIC_ARN is unset. A nil
// Notifier is safe to call.
func New(ctx context.Context) *Notifier {
	arn := config.OpsAlertsTopicArn()
	if arn == "" {
		return nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		fmt.Printf("alerts: aws config: %v\n", err)
		return nil
	}
	return &Notifier{client: sns.NewFromConfig(cfg), topicArn: arn}
}

func (n *Notifier) Publish(ctx context.Context, subject, message string) {
	if n == nil {
		return
	}
	// SNS caps subjects at 100 chars
	if len(subject) > 100 {
		subject = subject[:100]
	}
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		fmt.Printf("alerts: publish failed: %v\n", err)
	}
}

// OrderRecordFailure flags the one failure mode that needs a human right
// away: Stripe charged the customer but the order row never landed.
func (n *Notifier) OrderRecordFailure(ctx context.Context, sessionID string, cause error) {
	n.Publish(ctx, "AYO ALERT: order not recorded",
		fmt.Sprintf("Stripe session %s completed but the order could not be written.\nCause: %v\nThe event was returned 500 so Stripe will retry.", sessionID, cause))
}
