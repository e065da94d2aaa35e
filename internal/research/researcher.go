// Package research looks up, for each merger case, what the parties sell in
// Singapore. A web search runs per case, then a second model turns the answer
// into per-party findings.
package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"mergerscan/internal/dispatch"
	"mergerscan/internal/model"
	"mergerscan/pkg/llm"
	"mergerscan/pkg/search"
)

type Case struct {
	NewsItemID int64
	Source     string
	Entities   []string
}

// BuildQuery phrases a research question about the parties of one case.
func BuildQuery(source string, entities []string, question string) string {
	return fmt.Sprintf("The following parties (%s) are involved in the same merger case handled by %s. %s",
		strings.Join(entities, model.EntitySeparator), source, question)
}

type Researcher struct {
	searcher  search.Searcher
	llm       llm.Completer
	searchCfg dispatch.Config
	parseCfg  dispatch.Config
	question  string
	opts      []dispatch.Option
}

type Option func(*Researcher)

// WithQuestion replaces the default goods and services question.
func WithQuestion(question string) Option {
	return func(r *Researcher) {
		r.question = question
	}
}

func WithDispatchOptions(opts ...dispatch.Option) Option {
	return func(r *Researcher) {
		r.opts = append(r.opts, opts...)
	}
}

func New(searcher search.Searcher, completer llm.Completer, searchCfg, parseCfg dispatch.Config, opts ...Option) *Researcher {
	r := &Researcher{
		searcher:  searcher,
		llm:       completer,
		searchCfg: searchCfg,
		parseCfg:  parseCfg,
		question:  llm.QueryGoodsServices,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type parseInput struct {
	index int
	text  string
}

// Research returns one result per case in input order. In fail-fast mode any
// failure aborts with a *dispatch.BatchError indexed by case. With
// ContinueOnError, failed cases are left zero and listed in a
// *dispatch.PartialError.
func (r *Researcher) Research(ctx context.Context, cases []Case) ([]model.Research, error) {
	searchDispatcher, err := dispatch.New(r.searchCfg, r.opts...)
	if err != nil {
		return nil, err
	}
	parseDispatcher, err := dispatch.New(r.parseCfg, r.opts...)
	if err != nil {
		return nil, err
	}

	slog.Info("searching merger cases", "count", len(cases), "chunk_size", r.searchCfg.ChunkSize)

	results, err := dispatch.Run(ctx, searchDispatcher, cases, func(ctx context.Context, c Case) (*search.Result, error) {
		return r.searcher.Search(ctx, r.query(c))
	})
	failures, err := partialFailures(err)
	if err != nil {
		return nil, err
	}

	failed := make(map[int]bool, len(failures))
	for _, f := range failures {
		failed[f.Index] = true
	}

	var inputs []parseInput
	for i := range cases {
		if !failed[i] {
			inputs = append(inputs, parseInput{index: i, text: search.StripMarkdown(results[i].Content)})
		}
	}

	slog.Info("structuring search results", "count", len(inputs), "chunk_size", r.parseCfg.ChunkSize)

	parsed, err := dispatch.Run(ctx, parseDispatcher, inputs, r.parse)
	parseFailures, err := partialFailures(err)
	if err != nil {
		var batchErr *dispatch.BatchError
		if errors.As(err, &batchErr) {
			return nil, &dispatch.BatchError{Chunk: batchErr.Chunk, Task: remap(batchErr.Task, inputs, cases)}
		}
		return nil, err
	}

	parseFailed := make(map[int]bool, len(parseFailures))
	for _, f := range parseFailures {
		parseFailed[f.Index] = true
		failures = append(failures, remap(f, inputs, cases))
	}

	out := make([]model.Research, len(cases))
	for j, in := range inputs {
		if parseFailed[j] {
			continue
		}
		res := results[in.index]
		out[in.index] = model.Research{
			NewsItemID:  cases[in.index].NewsItemID,
			Query:       r.query(cases[in.index]),
			RawResponse: res.Content,
			Citations:   res.Citations,
			Parties:     parsed[j].parties,
			ModelUsed:   parsed[j].model,
			SearchModel: res.Model,
		}
	}

	if len(failures) > 0 {
		sort.Slice(failures, func(a, b int) bool { return failures[a].Index < failures[b].Index })
		return out, &dispatch.PartialError{Failures: failures}
	}
	return out, nil
}

func (r *Researcher) query(c Case) string {
	return BuildQuery(c.Source, c.Entities, r.question)
}

type parsedFindings struct {
	parties []model.PartyFinding
	model   string
}

func (r *Researcher) parse(ctx context.Context, in parseInput) (parsedFindings, error) {
	prompt := llm.NewPrompt(llm.StructurePrompt, in.text)
	prompt.Schema = llm.PartyFindingsSchema

	resp, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		return parsedFindings{}, err
	}

	var body struct {
		Response []model.PartyFinding `json:"response"`
	}
	if err := llm.DecodeJSON(resp.Content, &body); err != nil {
		return parsedFindings{}, err
	}

	return parsedFindings{parties: body.Response, model: resp.ModelUsed}, nil
}

// partialFailures splits a dispatcher error into the failures of a partial run
// and any error that ends the batch.
func partialFailures(err error) ([]*dispatch.TaskError, error) {
	if err == nil {
		return nil, nil
	}
	var partial *dispatch.PartialError
	if errors.As(err, &partial) {
		return partial.Failures, nil
	}
	return nil, err
}

func remap(f *dispatch.TaskError, inputs []parseInput, cases []Case) *dispatch.TaskError {
	i := inputs[f.Index].index
	return &dispatch.TaskError{Index: i, Item: cases[i], Err: f.Err}
}
