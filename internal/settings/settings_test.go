package settings

import (
	"context"
	"errors"
	"testing"

	"noskip/internal/core"
)

type failingStore struct{}

func (failingStore) GetPreference(context.Context, string, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingStore) PutPreference(context.Context, string, string, []byte) error {
	return errors.New("disk on fire")
}

func TestLoadCycleDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)

	cases := []struct {
		name string
		blob []byte
	}{
		{"missing", nil},
		{"corrupt json", []byte(`{"type":`)},
		{"unknown type", []byte(`{"type":"weekly","payday":1}`)},
		{"payday out of range", []byte(`{"type":"payday","payday":31}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := "user-" + tc.name
			if tc.blob != nil {
				if err := store.PutPreference(ctx, user, CycleKey, tc.blob); err != nil {
					t.Fatalf("seed: %v", err)
				}
			}
			if got := svc.LoadCycle(ctx, user); got != core.DefaultCycleConfig() {
				t.Fatalf("got %+v, want default", got)
			}
		})
	}

	if got := NewService(failingStore{}).LoadCycle(ctx, "u1"); got != core.DefaultCycleConfig() {
		t.Fatalf("store failure: got %+v, want default", got)
	}
}

func TestSaveAndLoadCycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	want := core.CycleConfig{Type: core.CyclePayday, Payday: 25}
	if err := svc.SaveCycle(ctx, "u1", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := svc.LoadCycle(ctx, "u1"); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got := svc.LoadCycle(ctx, "u2"); got != core.DefaultCycleConfig() {
		t.Fatalf("other user got %+v", got)
	}

	// Last write wins.
	next := core.CycleConfig{Type: core.CycleCalendar, Payday: 1}
	if err := svc.SaveCycle(ctx, "u1", next); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := svc.LoadCycle(ctx, "u1"); got != next {
		t.Fatalf("got %+v, want %+v", got, next)
	}
}

func TestSaveCycleRejectsInvalid(t *testing.T) {
	svc := NewService(NewMemoryStore())
	err := svc.SaveCycle(context.Background(), "u1", core.CycleConfig{Type: core.CyclePayday, Payday: 0})
	if !errors.Is(err, core.ErrInvalidPayday) {
		t.Fatalf("got %v, want ErrInvalidPayday", err)
	}
	if err := NewService(failingStore{}).SaveCycle(context.Background(), "u1", core.DefaultCycleConfig()); err == nil {
		t.Fatal("expected store error to surface")
	}
}
