package activity

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestPubSubPublisherPublishes(t *testing.T) {
	ctx := context.Background()
	srv := pstest.NewServer()
	defer srv.Close()

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("grpc.NewClient: %v", err)
	}
	defer conn.Close()

	client, err := pubsub.NewClient(ctx, "ecotrack-test", option.WithGRPCConn(conn))
	if err != nil {
		t.Fatalf("pubsub.NewClient: %v", err)
	}
	if _, err := client.CreateTopic(ctx, "activity"); err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}

	p := NewPubSubPublisher(client, "activity", zap.NewNop())
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p.Publish(ctx, Event{Type: ChallengeJoined, Actor: "a@example.com", ResourceID: "c1", At: at})
	// Stop flushes the batch.
	p.topic.Stop()

	msgs := srv.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	var got Event
	if err := json.Unmarshal(msgs[0].Data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != ChallengeJoined || got.Actor != "a@example.com" || got.ResourceID != "c1" || !got.At.Equal(at) {
		t.Fatalf("unexpected event %+v", got)
	}
	if msgs[0].Attributes["type"] != ChallengeJoined {
		t.Fatalf("missing type attribute: %v", msgs[0].Attributes)
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	p.Publish(context.Background(), Event{Type: TipLiked})
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
