package tracker_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hwerle/tagtrack/internal/device"
	"github.com/hwerle/tagtrack/internal/tracker"
)

var adminTag = mustTag("74:8a:71:16")

func mustTag(s string) device.TagID {
	id, err := device.ParseTagID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func TestRegistryAddAndFind(t *testing.T) {
	reg := tracker.NewRegistry(adminTag, 10)

	i, err := reg.Add(mustTag("aa:bb"), "Demo")
	require.NoError(t, err)
	require.Equal(t, 0, i)
	require.Equal(t, 1, reg.Len())

	p := reg.At(i)
	require.Equal(t, "Demo", p.Name)
	require.False(t, p.Active)
	require.Zero(t, p.AccumulatedMS)
	require.NotEmpty(t, p.ID)

	found, ok := reg.Find(mustTag("aa:bb"))
	require.True(t, ok)
	require.Equal(t, i, found)

	_, ok = reg.Find(mustTag("11:11"))
	require.False(t, ok)
}

func TestRegistryRejectsDuplicateTag(t *testing.T) {
	reg := tracker.NewRegistry(adminTag, 10)

	_, err := reg.Add(mustTag("aa:bb"), "Demo")
	require.NoError(t, err)

	_, err = reg.Add(mustTag("aa:bb"), "Other")
	require.ErrorIs(t, err, tracker.ErrDuplicateTag)
	require.Equal(t, 1, reg.Len())
}

func TestRegistryRejectsAdminTag(t *testing.T) {
	reg := tracker.NewRegistry(adminTag, 10)

	_, err := reg.Add(adminTag, "Sneaky")
	require.ErrorIs(t, err, tracker.ErrAdminTagReserved)
	require.Zero(t, reg.Len())
}

func TestRegistryCapacity(t *testing.T) {
	reg := tracker.NewRegistry(adminTag, 3)

	for i := 0; i < 3; i++ {
		_, err := reg.Add(device.TagID([]byte{byte(i + 1)}), fmt.Sprintf("P%d", i))
		require.NoError(t, err)
	}
	require.True(t, reg.Full())

	_, err := reg.Add(mustTag("ff"), "Overflow")
	require.ErrorIs(t, err, tracker.ErrCapacityExceeded)
	require.Equal(t, 3, reg.Len())
}

func TestRegistryRemoveCompacts(t *testing.T) {
	reg := tracker.NewRegistry(adminTag, 10)
	tags := []device.TagID{mustTag("11:11"), mustTag("22:22"), mustTag("33:33"), mustTag("44:44")}
	for i, tag := range tags {
		_, err := reg.Add(tag, fmt.Sprintf("P%d", i))
		require.NoError(t, err)
	}

	removed := reg.Remove(1)
	require.Equal(t, "P1", removed.Name)
	require.Equal(t, 3, reg.Len())

	// Relative order of the survivors is preserved, tags untouched.
	want := []device.TagID{tags[0], tags[2], tags[3]}
	for i, tag := range want {
		require.Equal(t, tag, reg.At(i).Tag)
	}
}

func TestRegistryRemoveByTag(t *testing.T) {
	reg := tracker.NewRegistry(adminTag, 10)
	tag := mustTag("11:11")
	i, err := reg.Add(tag, "A")
	require.NoError(t, err)
	reg.At(i).Start(1000)

	removed, err := reg.RemoveByTag(tag, 4000)
	require.NoError(t, err)
	require.Equal(t, "A", removed.Name)
	require.False(t, removed.Active)
	require.Equal(t, uint64(3000), removed.AccumulatedMS)
	require.Zero(t, reg.Len())

	_, err = reg.RemoveByTag(tag, 5000)
	require.ErrorIs(t, err, tracker.ErrTagNotFound)
}

func TestRegistryDeactivateAll(t *testing.T) {
	reg := tracker.NewRegistry(adminTag, 10)
	i, err := reg.Add(mustTag("11:11"), "A")
	require.NoError(t, err)
	j, err := reg.Add(mustTag("22:22"), "B")
	require.NoError(t, err)

	reg.At(i).Start(0)
	reg.DeactivateAll(2000)
	reg.At(j).Start(2000)

	require.Equal(t, uint64(2000), reg.At(i).AccumulatedMS)
	require.False(t, reg.At(i).Active)
	require.True(t, reg.At(j).Active)

	active, ok := reg.ActiveIndex()
	require.True(t, ok)
	require.Equal(t, j, active)
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	reg := tracker.NewRegistry(adminTag, 10)
	_, err := reg.Add(mustTag("11:11"), "A")
	require.NoError(t, err)

	snap := reg.Snapshot()
	snap[0].Name = "mutated"
	require.Equal(t, "A", reg.At(0).Name)
}
