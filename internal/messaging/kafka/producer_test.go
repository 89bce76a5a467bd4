package kafka

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromClient(mockProducer, log.WithField("component", "kafka-producer-test"))

	event := CustomerNotification{
		EventID:    "evt-1",
		EventType:  EventTypeOrderShipped,
		OrderID:    7,
		CustomerID: 3,
		Email:      "ipetrov@example.com",
		Message:    "hello",
	}

	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		require.Equal(t, TopicOrderEvents, msg.Topic)

		key, err := msg.Key.Encode()
		require.NoError(t, err)
		require.Equal(t, "7", string(key))

		require.Len(t, msg.Headers, 1)
		require.Equal(t, HeaderEventID, string(msg.Headers[0].Key))
		require.Equal(t, "evt-1", string(msg.Headers[0].Value))

		value, err := msg.Value.Encode()
		require.NoError(t, err)
		var decoded CustomerNotification
		require.NoError(t, json.Unmarshal(value, &decoded))
		require.Equal(t, event.OrderID, decoded.OrderID)
		require.Equal(t, EventTypeOrderShipped, decoded.EventType)
		return nil
	})

	err := producer.PublishEvent(TopicOrderEvents, "7", event, map[string]string{HeaderEventID: "evt-1"})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromClient(mockProducer, nil)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := producer.PublishEvent(TopicOrderEvents, "1", CustomerNotification{OrderID: 1}, nil)
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, producer.Close())
}

func TestProducer_PublishEvent_MarshalError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromClient(mockProducer, nil)

	err := producer.PublishEvent(TopicOrderEvents, "1", make(chan int), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "marshal")
	require.NoError(t, producer.Close())
}
