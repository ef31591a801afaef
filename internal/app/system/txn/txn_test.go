package txn

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported_Nil(t *testing.T) {
	if IsNotSupported(nil) {
		t.Error("nil error must not be treated as unsupported")
	}
}

func TestIsNotSupported_CommandCodes(t *testing.T) {
	unsupported := []int32{20, 51, 263}
	for _, code := range unsupported {
		err := mongo.CommandError{Code: code, Message: "x"}
		if !IsNotSupported(err) {
			t.Errorf("command error code %d should be unsupported", code)
		}
	}

	// An arbitrary server error is a real failure, not a capability gap.
	if IsNotSupported(mongo.CommandError{Code: 11000, Message: "duplicate key"}) {
		t.Error("duplicate key must not be treated as unsupported")
	}
}

func TestIsNotSupported_MessageSniffing(t *testing.T) {
	cases := []struct {
		name string
		msg  string
		want bool
	}{
		{"standalone txn", "Transaction numbers are only allowed on a replica set member", true},
		{"session unsupported", "session operations are not supported on this server", true},
		{"txn session", "cannot start transaction in current session state", true},
		{"illegal op", "illegal operation during transaction", true},
		{"mixed case", "TRANSACTION failed on REPLICA SET", true},
		{"single keyword", "transaction aborted", false},
		{"unrelated", "connection reset by peer", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNotSupported(errors.New(tc.msg)); got != tc.want {
				t.Errorf("IsNotSupported(%q) = %v, want %v", tc.msg, got, tc.want)
			}
		})
	}
}
