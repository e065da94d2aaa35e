package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"mergerscan/db"
	"mergerscan/internal/classify"
	"mergerscan/internal/model"
)

type Classifier interface {
	Classify(ctx context.Context, items []model.NewsItem) ([]classify.Outcome, error)
}

type ClassifyJob struct {
	stage
	classifier Classifier
}

func NewClassifyJob(classifier Classifier, store NewsStore, queue Queue, batchSize int) *ClassifyJob {
	return &ClassifyJob{
		stage: stage{
			name:      model.StageClassify,
			queueKey:  db.ClassifyQueueKey,
			store:     store,
			queue:     queue,
			batchSize: batchSize,
		},
		classifier: classifier,
	}
}

// Run classifies one batch from the queue and forwards merger cases with
// named parties to research. It returns the number of items classified.
func (j *ClassifyJob) Run(ctx context.Context) (int, error) {
	ids, err := j.next(ctx)
	if err != nil || len(ids) == 0 {
		return 0, err
	}

	items, err := j.store.GetByIDs(ids)
	if err != nil {
		j.requeue(ctx, ids...)
		return 0, err
	}
	if len(items) < len(ids) {
		slog.Warn("some queued news items not found in DB", "queued", len(ids), "found", len(items))
	}

	itemIDs := make([]int64, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	outcomes, err := j.classifier.Classify(ctx, items)
	failed, err := j.settle(ctx, itemIDs, err)
	if err != nil {
		return 0, err
	}

	saved := 0
	var research []string
	for i, o := range outcomes {
		if failed[i] {
			continue
		}

		c := model.Classification{
			NewsItemID:    itemIDs[i],
			MergerRelated: o.MergerRelated,
			Reasons:       o.Reasons,
			Entities:      o.Entities,
			ModelUsed:     o.ModelUsed,
		}
		if err := j.store.SaveClassification(&c); err != nil {
			j.recordError(itemIDs[i], fmt.Errorf("save classification: %w", err))
			j.requeue(ctx, itemIDs[i])
			continue
		}
		saved++

		if o.Researchable() {
			research = append(research, strconv.FormatInt(itemIDs[i], 10))
		}
	}

	if err := j.queue.Push(ctx, db.ResearchQueueKey, research...); err != nil {
		slog.Error("error queueing merger cases for research", "error", err, "count", len(research))
	}

	slog.Info("classification batch finished", "classified", saved, "merger_cases", len(research), "failed", len(failed))
	return saved, nil
}
