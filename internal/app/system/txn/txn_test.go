package txn

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/reliefhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("connection reset"), false},
		{errors.New("transaction failed"), false},
		{mongo.CommandError{Code: 11000, Message: "duplicate key"}, false},

		{mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}, true},
		{mongo.CommandError{Code: 51}, true},
		{mongo.CommandError{Code: 263}, true},
		{errors.New("TRANSACTION FAILED: not a Replica Set"), true},
		{errors.New("cannot start transaction in current session state"), true},
		{errors.New("sessions are not supported by this deployment"), true},
		{errors.New("Illegal Operation"), true},
	}
	for _, tt := range tests {
		if got := IsNotSupported(tt.err); got != tt.want {
			t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRunner_CommitsAndPropagatesErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := Runner{DB: db, Log: zap.NewNop()}
	c := db.Collection("txn_probe")

	err := r.Run(ctx, func(ctx context.Context) error {
		_, err := c.InsertOne(ctx, bson.M{"step": 1})
		return err
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n, _ := c.CountDocuments(ctx, bson.M{}); n != 1 {
		t.Errorf("documents: got %d, want 1", n)
	}

	boom := errors.New("boom")
	calls := 0
	err = r.Run(ctx, func(ctx context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want boom", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}
