package redis

import (
	"context"
	"net"
	"testing"
	"time"

	"brain-battle/internal/app"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	store := NewSessionStore(client, time.Minute)

	store.Put(context.Background(), app.NewSession("s-1", "alice", app.NewGameWithQuestions("alice", nil)))
	if !mr.Exists("battle:session:s-1") {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get("battle:session:s-1"); got != "alice" {
		t.Fatalf("expected marker to hold username, got %q", got)
	}

	live, err := store.Live(context.Background(), "s-1")
	if err != nil || !live {
		t.Fatalf("expected session live, got live=%v err=%v", live, err)
	}

	store.Delete(context.Background(), "s-1")
	if mr.Exists("battle:session:s-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get(context.Background(), "s-1"); ok {
		t.Fatalf("expected local session removed")
	}
}

func TestSessionStoreGetRefreshesTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	store.Put(context.Background(), app.NewSession("s-1", "alice", app.NewGameWithQuestions("alice", nil)))

	mr.FastForward(45 * time.Second)
	if _, ok := store.Get(context.Background(), "s-1"); !ok {
		t.Fatalf("expected session present")
	}
	mr.FastForward(45 * time.Second)
	if !mr.Exists("battle:session:s-1") {
		t.Fatalf("expected lookup to extend liveness marker")
	}

	mr.FastForward(2 * time.Minute)
	live, err := store.Live(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("live: %v", err)
	}
	if live {
		t.Fatalf("expected marker to expire without lookups")
	}
}

func TestSessionStoreBoundsUnresponsiveRedis(t *testing.T) {
	// Accepts connections and never answers.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	client := redis.NewClient(&redis.Options{Addr: ln.Addr().String()})
	defer client.Close()
	store := NewSessionStore(client, time.Minute)

	start := time.Now()
	store.Put(context.Background(), app.NewSession("s-1", "alice", app.NewGameWithQuestions("alice", nil)))
	session, ok := store.Get(context.Background(), "s-1")
	store.Delete(context.Background(), "s-1")
	elapsed := time.Since(start)

	if !ok || session.Username() != "alice" {
		t.Fatalf("expected local session despite redis stalling")
	}
	if elapsed > 2*time.Second {
		t.Fatalf("expected marker calls to give up quickly, took %s", elapsed)
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
