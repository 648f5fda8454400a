package energy

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/focusflow/internal/cli/clitest"
	apperrors "github.com/julianstephens/focusflow/internal/errors"
)

func TestAddCmd(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr error
	}{
		{"lower bound", 0, nil},
		{"upper bound", 100, nil},
		{"typical", 64, nil},
		{"negative", -1, apperrors.ErrOutOfRange},
		{"too high", 150, apperrors.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := clitest.NewContext(t, "alice")
			err := (&AddCmd{Value: tt.value, Notes: "test"}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddCmd.Run() error = %v, want %v", err, tt.wantErr)
			}

			samples, err := ctx.Store.ListEnergySamples(context.Background(), "alice", 10)
			if err != nil {
				t.Fatalf("ListEnergySamples() error = %v", err)
			}
			if tt.wantErr != nil {
				if len(samples) != 0 {
					t.Errorf("stored %d samples after invalid input", len(samples))
				}
				return
			}
			if len(samples) != 1 || samples[0].Value != tt.value || samples[0].Notes != "test" {
				t.Errorf("stored samples = %+v", samples)
			}
		})
	}
}

func TestShowCmd(t *testing.T) {
	ctx := clitest.NewContext(t, "alice")
	if err := (&ShowCmd{}).Run(ctx); err != nil {
		t.Errorf("ShowCmd.Run() with no readings error = %v", err)
	}

	for _, v := range []int{40, 80} {
		if err := (&AddCmd{Value: v}).Run(clitest.Fresh(ctx)); err != nil {
			t.Fatalf("AddCmd.Run(%d) error = %v", v, err)
		}
	}

	fresh := clitest.Fresh(ctx)
	if err := (&ShowCmd{Limit: 1}).Run(fresh); err != nil {
		t.Errorf("ShowCmd.Run() error = %v", err)
	}
	s, err := fresh.Syncer()
	if err != nil {
		t.Fatal(err)
	}
	if snap := s.Snapshot(); snap.Energy.Value != 80 || snap.Energy.Pending {
		t.Errorf("current energy = %+v, want confirmed 80", snap.Energy)
	}
}

func TestRequiresIdentity(t *testing.T) {
	ctx := clitest.NewContext(t, "")
	if err := (&AddCmd{Value: 50}).Run(ctx); !errors.Is(err, apperrors.ErrNoIdentity) {
		t.Errorf("AddCmd.Run() error = %v, want ErrNoIdentity", err)
	}
}
