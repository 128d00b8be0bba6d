package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	run := createTestRun(t, s, "run-1")

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, got.Status)
	assert.Equal(t, run.ScriptHash, got.ScriptHash)
	assert.Equal(t, uint64(7), got.RandomSeed)

	require.NoError(t, s.RecordEvent(ctx, Event{RunID: "run-1", Seq: 1, Stream: StreamPrompt, BoxID: 3, Text: "name? "}))
	require.NoError(t, s.RecordEvent(ctx, Event{RunID: "run-1", Seq: 2, Stream: StreamIn, BoxID: 3, Text: "Ada"}))
	require.NoError(t, s.RecordEvent(ctx, Event{RunID: "run-1", Seq: 3, Stream: StreamOut, BoxID: 4, Text: "hi Ada\n"}))

	require.NoError(t, s.FinishRun(ctx, "run-1", StatusSucceeded, "", ""))

	got, err = s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, got.Status)
	assert.Equal(t, int64(3), got.Events)
}

func TestFinishRunRecordsError(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	createTestRun(t, s, "run-1")

	require.NoError(t, s.FinishRun(ctx, "run-1", StatusFailed, "CAST_ERROR", "cannot use String as Integer"))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "CAST_ERROR", got.ErrorCode)
	assert.Equal(t, "cannot use String as Integer", got.ErrorMessage)
}

func TestFinishRunRejectsRunningAndUnknown(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	createTestRun(t, s, "run-1")

	assert.Error(t, s.FinishRun(ctx, "run-1", StatusRunning, "", ""))

	err := s.FinishRun(ctx, "missing", StatusSucceeded, "", "")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestBeginRunRejectsDuplicateID(t *testing.T) {
	s := createTestStore(t)
	run := createTestRun(t, s, "run-1")
	assert.Error(t, s.BeginRun(context.Background(), run))
}

func TestReadRunNotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadRun(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestTranscriptOrderedBySeq(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	createTestRun(t, s, "run-1")

	for _, seq := range []int64{3, 1, 2} {
		require.NoError(t, s.RecordEvent(ctx, Event{RunID: "run-1", Seq: seq, Stream: StreamOut, Text: "x"}))
	}
	// Re-recording a seq is a no-op.
	require.NoError(t, s.RecordEvent(ctx, Event{RunID: "run-1", Seq: 2, Stream: StreamOut, Text: "dup"}))

	events, err := s.ReadTranscript(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i, ev := range events {
		assert.Equal(t, int64(i+1), ev.Seq)
		assert.Equal(t, "x", ev.Text)
	}
}

func TestReadTranscriptEmpty(t *testing.T) {
	s := createTestStore(t)
	events, err := s.ReadTranscript(context.Background(), "none")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestListRunsOrderedByID(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)

	createTestRun(t, s, "0192-b")
	createTestRun(t, s, "0192-a")

	runs, err = s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "0192-a", runs[0].ID)
	assert.Equal(t, "0192-b", runs[1].ID)
}
