package classify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"mergerscan/internal/dispatch"
	"mergerscan/internal/model"
	"mergerscan/pkg/llm"

	"github.com/go-playground/assert/v2"
)

// fakeLLM answers from a table keyed on a substring of the wrapped item text.
type fakeLLM struct {
	mu      sync.Mutex
	replies map[string]string
	fail    map[string]bool
	calls   int
}

func (f *fakeLLM) Complete(ctx context.Context, prompt llm.Prompt) (*llm.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	text := prompt.Messages[0].Content
	for key := range f.fail {
		if strings.Contains(text, key) {
			return nil, errors.New("provider down")
		}
	}
	for key, reply := range f.replies {
		if strings.Contains(text, key) {
			return &llm.Completion{Content: reply, ModelUsed: "fake-model"}, nil
		}
	}
	return &llm.Completion{Content: `{"Reasons":"n/a","Merger_Related":"false","Merger_Entities":[]}`, ModelUsed: "fake-model"}, nil
}

func noSleep(pauses *[]time.Duration) dispatch.Option {
	var mu sync.Mutex
	return dispatch.WithSleep(func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		defer mu.Unlock()
		*pauses = append(*pauses, d)
		return nil
	})
}

func items(texts ...string) []model.NewsItem {
	out := make([]model.NewsItem, len(texts))
	for i, text := range texts {
		out[i] = model.NewsItem{ID: int64(i + 1), Text: text}
	}
	return out
}

func TestClassify_DecodesAndNormalises(t *testing.T) {
	fake := &fakeLLM{replies: map[string]string{
		"Activision": "```json\n{\"Reasons\":\" acquisition \",\"Merger_Related\":\"True\",\"Merger_Entities\":[\"Microsoft\",\" Activision Blizzard \",\"Microsoft\"]}\n```",
		"Tesla":      `{"Reasons":"product launch","Merger_Related":"false","Merger_Entities":[]}`,
		"Rumour":     `{"Reasons":"unclear","Merger_Related":"Unable to tell","Merger_Entities":["X"]}`,
	}}

	var pauses []time.Duration
	c := New(fake, dispatch.Config{ChunkSize: 2, Pause: time.Second}, WithDispatchOptions(noSleep(&pauses)))

	got, err := c.Classify(context.Background(), items("Microsoft to acquire Activision", "Tesla launches EV", "Rumour of a deal"))

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(got))
	assert.Equal(t, []time.Duration{time.Second}, pauses)

	assert.Equal(t, int64(1), got[0].NewsItemID)
	assert.Equal(t, model.MergerRelatedTrue, got[0].MergerRelated)
	assert.Equal(t, "acquisition", got[0].Reasons)
	assert.Equal(t, []string{"Microsoft", "Activision Blizzard"}, got[0].Entities)
	assert.Equal(t, "fake-model", got[0].ModelUsed)
	assert.Equal(t, true, got[0].Researchable())

	assert.Equal(t, model.MergerRelatedFalse, got[1].MergerRelated)
	assert.Equal(t, false, got[1].Researchable())

	assert.Equal(t, model.MergerRelatedUnknown, got[2].MergerRelated)
	assert.Equal(t, false, got[2].Researchable())
}

func TestClassify_FailFast(t *testing.T) {
	fake := &fakeLLM{fail: map[string]bool{"second": true}}

	var pauses []time.Duration
	c := New(fake, dispatch.Config{ChunkSize: 1, Pause: time.Second}, WithDispatchOptions(noSleep(&pauses)))

	got, err := c.Classify(context.Background(), items("first", "second", "third"))

	assert.Equal(t, true, got == nil)
	var batchErr *dispatch.BatchError
	assert.Equal(t, true, errors.As(err, &batchErr))
	idx, ok := dispatch.FailedIndex(err)
	assert.Equal(t, true, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, fake.calls)
}

func TestClassify_PartialResults(t *testing.T) {
	fake := &fakeLLM{
		replies: map[string]string{"first": `{"Reasons":"r","Merger_Related":"true","Merger_Entities":["A","B"]}`},
		fail:    map[string]bool{"second": true},
	}

	var pauses []time.Duration
	c := New(fake, dispatch.Config{ChunkSize: 2, ContinueOnError: true}, WithDispatchOptions(noSleep(&pauses)))

	got, err := c.Classify(context.Background(), items("first", "second", "third"))

	var partial *dispatch.PartialError
	assert.Equal(t, true, errors.As(err, &partial))
	assert.Equal(t, 1, len(partial.Failures))
	assert.Equal(t, 1, partial.Failures[0].Index)
	assert.Equal(t, 3, len(got))
	assert.Equal(t, model.MergerRelatedTrue, got[0].MergerRelated)
	assert.Equal(t, int64(0), got[1].NewsItemID)
	assert.Equal(t, model.MergerRelatedFalse, got[2].MergerRelated)
	assert.Equal(t, 0, len(pauses))
}

func TestClassify_RejectsUnknownLabel(t *testing.T) {
	fake := &fakeLLM{replies: map[string]string{"odd": `{"Reasons":"r","Merger_Related":"maybe","Merger_Entities":[]}`}}
	c := New(fake, dispatch.Config{ChunkSize: 1})

	_, err := c.Classify(context.Background(), items("odd"))

	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, dispatch.IsTaskError(err))
}

func TestClassify_SmallBatchUsesPacedProvider(t *testing.T) {
	large := &fakeLLM{}
	small := &fakeLLM{}

	var pauses []time.Duration
	c := New(large, dispatch.Config{ChunkSize: 10, Pause: time.Second},
		WithSmallBatch(small, 2, 30),
		WithDispatchOptions(noSleep(&pauses)),
	)

	_, err := c.Classify(context.Background(), items("a", "b"))
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, small.calls)
	assert.Equal(t, 0, large.calls)
	assert.Equal(t, []time.Duration{1600 * time.Millisecond}, pauses)

	_, err = c.Classify(context.Background(), items("a", "b", "c"))
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, large.calls)
}

func TestClassify_InvalidSchedule(t *testing.T) {
	c := New(&fakeLLM{}, dispatch.Config{ChunkSize: 0})

	_, err := c.Classify(context.Background(), items("a"))

	var cfgErr *dispatch.ConfigError
	assert.Equal(t, true, errors.As(err, &cfgErr))
}
