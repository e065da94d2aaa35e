package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"mergerscan/db"
	"mergerscan/internal/model"
	"mergerscan/internal/research"
)

type Researcher interface {
	Research(ctx context.Context, cases []research.Case) ([]model.Research, error)
}

type ResearchStore interface {
	SaveResearch(res *model.Research) error
}

type ResearchJob struct {
	stage
	researcher Researcher
	results    ResearchStore
}

func NewResearchJob(researcher Researcher, store NewsStore, results ResearchStore, queue Queue, batchSize int) *ResearchJob {
	return &ResearchJob{
		stage: stage{
			name:      model.StageResearch,
			queueKey:  db.ResearchQueueKey,
			store:     store,
			queue:     queue,
			batchSize: batchSize,
		},
		researcher: researcher,
		results:    results,
	}
}

// Run researches one batch of merger cases from the queue. It returns the
// number of cases stored.
func (j *ResearchJob) Run(ctx context.Context) (int, error) {
	ids, err := j.next(ctx)
	if err != nil || len(ids) == 0 {
		return 0, err
	}

	loaded, err := j.store.GetCasesByIDs(ids)
	if err != nil {
		j.requeue(ctx, ids...)
		return 0, err
	}

	var cases []research.Case
	var caseIDs []int64
	for _, m := range loaded {
		if m.MergerRelated != model.MergerRelatedTrue || len(m.Entities) < 2 {
			slog.Warn("queued news item is not a researchable merger case", "news_item_id", m.ID)
			continue
		}
		cases = append(cases, research.Case{NewsItemID: m.ID, Source: m.Source, Entities: m.Entities})
		caseIDs = append(caseIDs, m.ID)
	}
	if len(cases) == 0 {
		return 0, nil
	}

	results, err := j.researcher.Research(ctx, cases)
	failed, err := j.settle(ctx, caseIDs, err)
	if err != nil {
		return 0, err
	}

	saved := 0
	for i := range results {
		if failed[i] {
			continue
		}
		if err := j.results.SaveResearch(&results[i]); err != nil {
			j.recordError(caseIDs[i], fmt.Errorf("save research: %w", err))
			j.requeue(ctx, caseIDs[i])
			continue
		}
		saved++
	}

	slog.Info("research batch finished", "researched", saved, "failed", len(failed))
	return saved, nil
}
