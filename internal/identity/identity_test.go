package identity

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSessionSignInOut(t *testing.T) {
	s := NewSession()

	if _, ok := s.Current(); ok {
		t.Fatal("new session should have no user")
	}

	var got []string
	unsubscribe := s.Subscribe(func(userID string) { got = append(got, userID) })

	s.SignIn("alice")
	s.SignIn("alice")
	s.SignIn("bob")
	s.SignOut()

	want := []string{"alice", "bob", ""}
	if len(got) != len(want) {
		t.Fatalf("notifications = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %q, want %q", i, got[i], want[i])
		}
	}

	unsubscribe()
	unsubscribe()
	s.SignIn("carol")
	if len(got) != len(want) {
		t.Errorf("unsubscribed listener was notified: %q", got)
	}
	if id, ok := s.Current(); !ok || id != "carol" {
		t.Errorf("Current() = %q, %v, want carol, true", id, ok)
	}
}

func TestSessionSubscriberMaySignOut(t *testing.T) {
	s := NewSession()
	calls := 0
	s.Subscribe(func(userID string) {
		calls++
		if userID == "intruder" {
			s.SignOut()
		}
	})

	s.SignIn("intruder")
	if _, ok := s.Current(); ok {
		t.Error("expected nested sign-out to take effect")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestKeyringProvider(t *testing.T) {
	gokeyring.MockInit()

	k := NewKeyring()
	if _, ok := k.Current(); ok {
		t.Fatal("expected nobody signed in")
	}

	var last *string
	k.Subscribe(func(userID string) { last = &userID })

	if err := k.SignIn("user-7"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if last == nil || *last != "user-7" {
		t.Fatalf("subscriber saw %v, want user-7", last)
	}

	// A second provider sees the same keyring entry
	if id, ok := NewKeyring().Current(); !ok || id != "user-7" {
		t.Errorf("Current() = %q, %v, want user-7, true", id, ok)
	}

	if err := k.SignOut(); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if *last != "" {
		t.Errorf("subscriber saw %q after sign-out, want empty", *last)
	}
	if err := k.SignOut(); err != nil {
		t.Errorf("SignOut() with nobody signed in error = %v", err)
	}
}
