package conversation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_LockSerializesOneUser(t *testing.T) {
	store := NewStore()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := store.Lock(1)
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, store.lockCount())
}

func TestStore_UnlockIsIdempotent(t *testing.T) {
	store := NewStore()

	unlock := store.Lock(1)
	unlock()
	unlock()

	assert.Equal(t, 0, store.lockCount())
	done := store.Lock(1)
	done()
}

func TestMachine_ConcurrentInputForOneUserNeverLosesSteps(t *testing.T) {
	store := NewStore()
	m := NewMachine(store)
	ctx := context.Background()

	steps := make([]Step, 20)
	for i := range steps {
		steps[i] = Step{Name: "s", Prompt: fixed("next"), Accept: func(in Input, f Fields) error {
			f["n"] = f.Int("n") + 1
			return nil
		}}
	}
	var got int
	form := &Form{
		Kind:    "counter",
		Steps:   steps,
		Confirm: fixed("confirm"),
		Commit: func(ctx context.Context, s *Session) (Reply, error) {
			got = s.Fields.Int("n")
			return text("done"), nil
		},
		Cancelled: text("cancelled"),
	}
	m.Begin(ctx, form, Identity{UserID: 9}, nil)

	var wg sync.WaitGroup
	for i := 0; i < len(steps); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Handle(ctx, 9, Input{Text: "x"})
		}()
	}
	wg.Wait()

	m.Handle(ctx, 9, Input{Text: "да"})
	assert.Equal(t, len(steps), got)
}
