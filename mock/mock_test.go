package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStore_SaveRecord(t *testing.T) {
	t.Parallel()

	t.Run("delegates to SaveRecordFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *credex.Record
		s := &mock.RecordStore{
			SaveRecordFn: func(_ context.Context, r *credex.Record) error {
				calledWith = r
				return nil
			},
		}

		r := &credex.Record{URL: "https://example.com/work/1", Title: "Spot"}
		err := s.SaveRecord(context.Background(), r)

		require.NoError(t, err)
		assert.Equal(t, r, calledWith)
	})

	t.Run("returns error from SaveRecordFn", func(t *testing.T) {
		t.Parallel()

		s := &mock.RecordStore{
			SaveRecordFn: func(_ context.Context, _ *credex.Record) error {
				return credex.Errorf(credex.EINTERNAL, "disk full")
			},
		}

		err := s.SaveRecord(context.Background(), &credex.Record{})

		assert.Equal(t, credex.EINTERNAL, credex.ErrorCode(err))
	})
}
