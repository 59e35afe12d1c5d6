package main

import (
	"context"
	"testing"
	"time"
)

type fakeRetentionStore struct {
	calls chan int
}

func (f *fakeRetentionStore) DeleteOlderThan(_ context.Context, days int) (int64, error) {
	f.calls <- days
	return 0, nil
}

func TestPruneOldMessagesSweepsImmediately(t *testing.T) {
	store := &fakeRetentionStore{calls: make(chan int, 1)}

	go pruneOldMessages(store, 30)

	select {
	case days := <-store.calls:
		if days != 30 {
			t.Errorf("swept with %d days, want 30", days)
		}
	case <-time.After(time.Second):
		t.Fatal("first retention sweep should run at boot, not a day later")
	}
}
