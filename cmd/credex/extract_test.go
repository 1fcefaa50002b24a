package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/cascade"
	main "github.com/fwojciec/credex/cmd/credex"
	"github.com/fwojciec/credex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the record as JSON", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Pipeline: extractorFunc(func(_ context.Context, url string, _ credex.Hints) *cascade.Result {
				return &cascade.Result{Record: testRecord(url)}
			}),
		}

		err := (&main.ExtractCmd{URL: "https://lbbonline.com/work/1"}).Run(deps)

		require.NoError(t, err)
		var got credex.Record
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, "Just Run", got.Title)
		assert.Equal(t, "oracle+dom-selectors", got.Meta.ExtractionMethod)
	})

	t.Run("passes learned hints to the pipeline", func(t *testing.T) {
		t.Parallel()

		var received credex.Hints
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Knowledge: &mock.KnowledgeBase{
				PreferredMethodsFn: func(_ context.Context, domain string) ([]credex.StrategyID, error) {
					assert.Equal(t, "lbbonline.com", domain)
					return []credex.StrategyID{credex.StrategyEmbeddedJSON}, nil
				},
				SelectorsFn: func(context.Context, string) (credex.LearnedSelectors, error) {
					return credex.LearnedSelectors{credex.StrategyDOMv1: {"title": "h1"}}, nil
				},
			},
			Pipeline: extractorFunc(func(_ context.Context, url string, hints credex.Hints) *cascade.Result {
				received = hints
				return &cascade.Result{Record: testRecord(url)}
			}),
		}

		err := (&main.ExtractCmd{URL: "https://www.lbbonline.com/work/1"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []credex.StrategyID{credex.StrategyEmbeddedJSON}, received.Preferred)
		assert.Equal(t, "h1", received.Selectors.For(credex.StrategyDOMv1)["title"])
	})

	t.Run("saves the record and learns when asked", func(t *testing.T) {
		t.Parallel()

		var saved *credex.Record
		var method credex.StrategyID
		var selectors map[string]string
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Records: &mock.RecordStore{
				SaveRecordFn: func(_ context.Context, r *credex.Record) error {
					saved = r
					return nil
				},
			},
			Knowledge: &mock.KnowledgeBase{
				PreferredMethodsFn: func(context.Context, string) ([]credex.StrategyID, error) { return nil, nil },
				SelectorsFn:        func(context.Context, string) (credex.LearnedSelectors, error) { return nil, nil },
				RecordSuccessFn: func(_ context.Context, _ string, m credex.StrategyID) error {
					method = m
					return nil
				},
				SaveSelectorsFn: func(_ context.Context, _ string, _ credex.StrategyID, s map[string]string) error {
					selectors = s
					return nil
				},
			},
			Pipeline: extractorFunc(func(_ context.Context, url string, _ credex.Hints) *cascade.Result {
				return &cascade.Result{Record: testRecord(url), Selectors: credex.LearnedSelectors{
					credex.StrategyDOMSelectors: {"companies": ".credits"},
				}}
			}),
		}

		err := (&main.ExtractCmd{URL: "https://lbbonline.com/work/1", Save: true}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "https://lbbonline.com/work/1", saved.URL)
		assert.Equal(t, credex.StrategyDOMSelectors, method)
		assert.Equal(t, ".credits", selectors["companies"])
	})

	t.Run("does not save records without companies", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Records: &mock.RecordStore{
				SaveRecordFn: func(context.Context, *credex.Record) error {
					t.Fatal("empty records should not be saved")
					return nil
				},
			},
			Pipeline: extractorFunc(func(_ context.Context, url string, _ credex.Hints) *cascade.Result {
				return &cascade.Result{Record: &credex.Record{URL: url}}
			}),
		}

		err := (&main.ExtractCmd{URL: "https://acme.studio/project/x", Save: true}).Run(deps)

		require.NoError(t, err)
	})

	t.Run("returns fetch failures", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Pipeline: extractorFunc(func(_ context.Context, url string, _ credex.Hints) *cascade.Result {
				return &cascade.Result{
					Record: &credex.Record{URL: url},
					Err:    credex.Errorf(credex.EFETCH, "HTTP 404 for %s", url),
				}
			}),
		}

		err := (&main.ExtractCmd{URL: "https://acme.studio/missing"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, credex.EFETCH, credex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "HTTP 404")
		assert.Empty(t, stdout.String())
	})
}
