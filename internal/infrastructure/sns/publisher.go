package sns

import (
	"context"
	"encoding/json"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/contacts-api/internal/config"
)

// EventPublisher emits account lifecycle events (registered, verified) to an
// SNS topic. Publishing is best-effort: callers log failures and move on.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, accountID string) error
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

func NewPublisher(cfg *config.Config) (EventPublisher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &publisher{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSTopicARN}, nil
}

func (p *publisher) Publish(ctx context.Context, eventType, accountID string) error {
	payload, err := json.Marshal(map[string]string{
		"event":      eventType,
		"account_id": accountID,
		"at":         time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	msg := string(payload)
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &p.topicARN,
		Message:  &msg,
	})
	return err
}
