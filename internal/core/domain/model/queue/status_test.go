package queue_test

import (
	"testing"

	"dispatch/internal/core/domain/model/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("should accept all defined statuses", func(t *testing.T) {
		statuses := []queue.Status{
			queue.StatusQueued,
			queue.StatusOffered,
			queue.StatusAssigned,
			queue.StatusCancelled,
			queue.StatusExhausted,
			queue.StatusCompleted,
		}

		for _, s := range statuses {
			assert.NoError(t, s.Validate(), "status %s should be valid", s)
		}
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		err := queue.StatusUnknown.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, queue.ErrInvalidQueueTransition)
	})

	t.Run("should reject out of range status", func(t *testing.T) {
		err := queue.Status(99).Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "99 is not a valid queue status")
	})
}

func TestStatus_String(t *testing.T) {
	testCases := []struct {
		status   queue.Status
		expected string
	}{
		{queue.StatusUnknown, "Unknown"},
		{queue.StatusQueued, "Queued"},
		{queue.StatusOffered, "Offered"},
		{queue.StatusAssigned, "Assigned"},
		{queue.StatusCancelled, "Cancelled"},
		{queue.StatusExhausted, "Exhausted"},
		{queue.StatusCompleted, "Completed"},
		{queue.Status(42), "Unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.String())
		})
	}
}

func TestStatus_Classification(t *testing.T) {
	t.Run("live statuses", func(t *testing.T) {
		assert.True(t, queue.StatusQueued.IsLive())
		assert.True(t, queue.StatusOffered.IsLive())
		assert.False(t, queue.StatusAssigned.IsLive())
		assert.False(t, queue.StatusCompleted.IsLive())
	})

	t.Run("engaged statuses", func(t *testing.T) {
		assert.True(t, queue.StatusOffered.IsEngaged())
		assert.True(t, queue.StatusAssigned.IsEngaged())
		assert.False(t, queue.StatusQueued.IsEngaged())
		assert.False(t, queue.StatusCompleted.IsEngaged())
	})

	t.Run("terminal statuses", func(t *testing.T) {
		assert.True(t, queue.StatusCancelled.IsTerminal())
		assert.True(t, queue.StatusExhausted.IsTerminal())
		assert.True(t, queue.StatusCompleted.IsTerminal())
		assert.False(t, queue.StatusQueued.IsTerminal())
		assert.False(t, queue.StatusOffered.IsTerminal())
		assert.False(t, queue.StatusAssigned.IsTerminal())
	})
}

func TestStatus_Transitions(t *testing.T) {
	t.Run("offer moves Queued to Offered", func(t *testing.T) {
		newStatus, err := queue.StatusQueued.Offer()

		require.NoError(t, err)
		assert.Equal(t, queue.StatusOffered, newStatus)
	})

	t.Run("offer fails from Offered", func(t *testing.T) {
		_, err := queue.StatusOffered.Offer()

		require.Error(t, err)
		assert.ErrorIs(t, err, queue.ErrInvalidQueueTransition)
		assert.Contains(t, err.Error(), "cannot offer from Offered")
	})

	t.Run("accept moves Offered to Assigned", func(t *testing.T) {
		newStatus, err := queue.StatusOffered.Accept()

		require.NoError(t, err)
		assert.Equal(t, queue.StatusAssigned, newStatus)
	})

	t.Run("accept fails from Queued", func(t *testing.T) {
		_, err := queue.StatusQueued.Accept()

		require.Error(t, err)
		assert.ErrorIs(t, err, queue.ErrInvalidQueueTransition)
	})

	t.Run("requeue moves Offered back to Queued", func(t *testing.T) {
		newStatus, err := queue.StatusOffered.Requeue()

		require.NoError(t, err)
		assert.Equal(t, queue.StatusQueued, newStatus)
	})

	t.Run("requeue fails from Assigned", func(t *testing.T) {
		_, err := queue.StatusAssigned.Requeue()

		require.Error(t, err)
	})

	t.Run("reset works from Offered and Assigned", func(t *testing.T) {
		newStatus, err := queue.StatusOffered.Reset()
		require.NoError(t, err)
		assert.Equal(t, queue.StatusQueued, newStatus)

		newStatus, err = queue.StatusAssigned.Reset()
		require.NoError(t, err)
		assert.Equal(t, queue.StatusQueued, newStatus)
	})

	t.Run("reset fails from Queued", func(t *testing.T) {
		_, err := queue.StatusQueued.Reset()

		require.Error(t, err)
	})

	t.Run("cancel works from any non-terminal status", func(t *testing.T) {
		for _, s := range []queue.Status{queue.StatusQueued, queue.StatusOffered, queue.StatusAssigned} {
			newStatus, err := s.Cancel()

			require.NoError(t, err, "cancel from %s should succeed", s)
			assert.Equal(t, queue.StatusCancelled, newStatus)
		}
	})

	t.Run("cancel fails from terminal statuses", func(t *testing.T) {
		for _, s := range []queue.Status{queue.StatusCancelled, queue.StatusExhausted, queue.StatusCompleted} {
			_, err := s.Cancel()

			require.Error(t, err, "cancel from %s should fail", s)
		}
	})

	t.Run("exhaust moves Offered to Exhausted", func(t *testing.T) {
		newStatus, err := queue.StatusOffered.Exhaust()

		require.NoError(t, err)
		assert.Equal(t, queue.StatusExhausted, newStatus)
	})

	t.Run("complete moves Assigned to Completed", func(t *testing.T) {
		newStatus, err := queue.StatusAssigned.Complete()

		require.NoError(t, err)
		assert.Equal(t, queue.StatusCompleted, newStatus)
	})

	t.Run("complete fails from Offered", func(t *testing.T) {
		_, err := queue.StatusOffered.Complete()

		require.Error(t, err)
	})
}
