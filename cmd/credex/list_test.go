package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/credex"
	main "github.com/fwojciec/credex/cmd/credex"
	"github.com/fwojciec/credex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists records with title, counts, and URL", func(t *testing.T) {
		t.Parallel()

		records := &mock.RecordStore{
			ListRecordsFn: func(context.Context) ([]*credex.RecordSummary, error) {
				return []*credex.RecordSummary{
					{
						URL:       "https://lbbonline.com/work/1",
						Title:     "Just Run",
						Companies: 2,
						Credits:   7,
						UpdatedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
					},
					{
						URL:       "https://acme.studio/project/two",
						Companies: 1,
						Credits:   3,
						UpdatedAt: time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Records: records,
		}

		err := (&main.ListCmd{}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "2025-01-15  Just Run  2 companies  7 credits  https://lbbonline.com/work/1")
		assert.Contains(t, output, "(untitled)")
		assert.Contains(t, output, "https://acme.studio/project/two")
	})

	t.Run("shows helpful message when no records exist", func(t *testing.T) {
		t.Parallel()

		records := &mock.RecordStore{
			ListRecordsFn: func(context.Context) ([]*credex.RecordSummary, error) {
				return []*credex.RecordSummary{}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Records: records,
		}

		err := (&main.ListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No records found")
	})

	t.Run("returns error when listing fails", func(t *testing.T) {
		t.Parallel()

		records := &mock.RecordStore{
			ListRecordsFn: func(context.Context) ([]*credex.RecordSummary, error) {
				return nil, errors.New("database error")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  stderr,
			Records: records,
		}

		err := (&main.ListCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, stdout.String())
	})
}
