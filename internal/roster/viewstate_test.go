package roster

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/spec-kit/roster-service/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestViewState_InitialSnapshot(t *testing.T) {
	v := NewViewState()
	snap := v.Snapshot()

	assert.Zero(t, snap.Version)
	assert.True(t, snap.Filter.IsIdentity())
	assert.Empty(t, snap.View)
	assert.Zero(t, snap.Statistics.Total)
	assert.Equal(t, []string{AllUnits}, snap.Units)
}

func TestViewState_ReplaceAndFilter(t *testing.T) {
	v := NewViewState()

	snap := v.Replace(sampleRoster())
	assert.Equal(t, uint64(1), snap.Version)
	assert.Len(t, snap.View, 6)
	assert.Equal(t, 6, snap.Statistics.Total)

	snap = v.SetCategory(domain.CategoryActive)
	assert.Equal(t, []string{"1", "6"}, ids(snap.View))
	assert.Equal(t, 6, snap.Statistics.Total, "statistics ignore the selection")

	snap = v.SetUnit("Unidade A")
	assert.Equal(t, []string{"1"}, ids(snap.View))

	snap = v.SetQuery("zzz")
	assert.Empty(t, snap.View)

	snap = v.SetFilter(Filter{})
	assert.Len(t, snap.View, 6)
	assert.Equal(t, uint64(5), snap.Version)
}

func TestViewState_ReplaceCopiesInput(t *testing.T) {
	v := NewViewState()
	records := sampleRoster()
	v.Replace(records)

	records[0].Name = "mutated"
	assert.Equal(t, "Ana Silva", v.Snapshot().Records[0].Name)
}

func TestViewState_SubscribeAndUnsubscribe(t *testing.T) {
	v := NewViewState()

	var got []uint64
	unsubscribe := v.Subscribe(func(s Snapshot) { got = append(got, s.Version) })

	v.Replace(sampleRoster())
	v.SetQuery("ana")
	unsubscribe()
	unsubscribe()
	v.SetQuery("")

	assert.Equal(t, []uint64{1, 2}, got)
}

func TestViewState_ListenerMayReadState(t *testing.T) {
	v := NewViewState()
	var seen Snapshot
	v.Subscribe(func(Snapshot) { seen = v.Snapshot() })

	v.Replace(sampleRoster())
	assert.Equal(t, uint64(1), seen.Version)
}

func TestViewState_ConcurrentReloadsAndReads(t *testing.T) {
	v := NewViewState()
	records := sampleRoster()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			v.Replace(records)
		}()
		go func() {
			defer wg.Done()
			snap := v.Snapshot()
			assert.Equal(t, len(snap.Records), snap.Statistics.Total)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(8), v.Version())
}
