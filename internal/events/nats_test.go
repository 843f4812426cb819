package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

func runServer(t *testing.T) *server.Server {
	t.Helper()
	opts := natsserver.DefaultTestOptions
	opts.Port = -1
	return natsserver.RunServer(&opts)
}

func TestNATSPublisherPublishesOnTypedSubject(t *testing.T) {
	s := runServer(t)
	defer s.Shutdown()

	sub, err := nats.Connect(s.ClientURL())
	require.NoError(t, err)
	defer sub.Close()
	msgs, err := sub.SubscribeSync("dao.proposal.voted")
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	p, err := NewNATSPublisher(s.ClientURL(), "")
	require.NoError(t, err)

	yes := true
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeProposalVoted, Subject: "p1", Actor: "alice", Vote: &yes}))
	require.NoError(t, p.Close())

	msg, err := msgs.NextMsg(2 * time.Second)
	require.NoError(t, err)
	var got Event
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	require.Equal(t, TypeProposalVoted, got.Type)
	require.Equal(t, "p1", got.Subject)
	require.Equal(t, "alice", got.Actor)
	require.NotNil(t, got.Vote)
	require.True(t, *got.Vote)

	// only the voted subject was subscribed
	_, err = msgs.NextMsg(50 * time.Millisecond)
	require.ErrorIs(t, err, nats.ErrTimeout)
}

func TestNATSPublisherConnectFailure(t *testing.T) {
	s := runServer(t)
	url := s.ClientURL()
	s.Shutdown()

	_, err := NewNATSPublisher(url, "dao")
	require.Error(t, err)
}

func TestKafkaWriterFlushesQuickly(t *testing.T) {
	p, err := NewKafkaPublisher([]string{"127.0.0.1:1"}, "")
	require.NoError(t, err)
	defer p.Close()

	require.Equal(t, "dao.events", p.writer.Topic)
	require.LessOrEqual(t, p.writer.BatchTimeout, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	require.Error(t, p.Publish(ctx, Event{Type: TypeOrderCreated, Subject: "o1"}))
}
