package notify

import (
	"context"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestHandleEventRejectsMalformedEnvelope(t *testing.T) {
	svc := &Service{ServiceName: "test-notifier"}
	err := svc.HandleEvent(context.Background(), kafkago.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}
