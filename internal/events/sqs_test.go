package events

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sqs.SendMessageOutput{}, f.err
}

func TestSQSPublishStandardQueue(t *testing.T) {
	fake := &fakeSQS{}
	pub := newSQSPublisher(fake, "https://sqs.eu-west-1.amazonaws.com/1/analyses")
	evt := New(TypeAnalysisCompleted, "user-1", "a-1", map[string]any{"score": 70.0})

	require.NoError(t, pub.Publish(context.Background(), evt))
	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]

	got, err := Decode([]byte(aws.ToString(in.MessageBody)))
	require.NoError(t, err)
	assert.Equal(t, evt.ID, got.ID)
	assert.Equal(t, TypeAnalysisCompleted, aws.ToString(in.MessageAttributes["type"].StringValue))
	assert.Nil(t, in.MessageGroupId)
	assert.Nil(t, in.MessageDeduplicationId)
}

func TestSQSPublishFIFOGroupsByUser(t *testing.T) {
	fake := &fakeSQS{}
	pub := newSQSPublisher(fake, "https://sqs.eu-west-1.amazonaws.com/1/privacy.fifo")
	evt := New(TypeDataDeleted, "user-9", "", nil)

	require.NoError(t, pub.Publish(context.Background(), evt))
	in := fake.inputs[0]
	assert.Equal(t, "user-9", aws.ToString(in.MessageGroupId))
	assert.Equal(t, evt.ID, aws.ToString(in.MessageDeduplicationId))
}

func TestSQSPublishWrapsError(t *testing.T) {
	boom := errors.New("throttled")
	pub := newSQSPublisher(&fakeSQS{err: boom}, "https://sqs/q")
	err := pub.Publish(context.Background(), New(TypeDataExported, "u", "e", nil))
	assert.ErrorIs(t, err, boom)
}
