package training

import (
	"context"

	"github.com/kbukum/datakit/dataset"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/reader"
	"github.com/kbukum/datakit/record"
)

// LabelFunc rewrites the label half of a training pair, e.g. to one-hot
// encode class indices.
type LabelFunc func(ctx context.Context, label record.Record) (record.Record, error)

// Stream assembles the endless training stream: every configured dataset
// is read lazily, projected onto (feature, label) pairs, repeated
// forever, and the datasets are mixed round-robin so each batch draws
// from all of them. Batches are stacked to BatchSize.
//
// labelFn, when non-nil, runs on each pair's label before batching.
func Stream(cfg *Config, labelFn LabelFunc) (*dataset.Dataset, error) {
	if len(cfg.Datasets) == 0 {
		return nil, errors.Configuration("training stream requires at least one dataset name")
	}

	parts := make([]*dataset.Dataset, 0, len(cfg.Datasets))
	for _, name := range cfg.Datasets {
		d, err := source(cfg, name)
		if err != nil {
			return nil, err
		}
		parts = append(parts, d.Repeat(-1))
	}

	mixed := dataset.RoundRobin(parts...)
	if cfg.ShuffleBuffer > 0 {
		mixed = mixed.Shuffle(shuffleOptions(cfg)...)
	}
	if labelFn != nil {
		mixed = mixed.Map(applyLabel(labelFn))
	}

	logger.WithComponent("training").Info("training stream assembled", logger.Fields(
		"datasets", len(cfg.Datasets),
		"batch_size", cfg.BatchSize,
		"shuffle_buffer", cfg.ShuffleBuffer,
	))
	return mixed.Batch(cfg.BatchSize), nil
}

// HeldOut loads one named dataset eagerly for evaluation and returns the
// stacked feature and label tensors. ShuffleBuffer and EvalTake apply,
// so a bounded, reproducible evaluation subset is one config away.
func HeldOut(ctx context.Context, cfg *Config, name string) (features, labels record.Record, err error) {
	d, err := source(cfg, name)
	if err != nil {
		return nil, nil, err
	}
	if cfg.ShuffleBuffer > 0 {
		d = d.Shuffle(shuffleOptions(cfg)...)
	}
	if cfg.EvalTake > 0 {
		d = d.Take(cfg.EvalTake)
	}

	pairs, err := d.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(pairs) == 0 {
		return nil, nil, errors.EmptyDataset("held-out evaluation").WithDetail(logger.FieldDataset, name)
	}

	featureRecs := make([]record.Record, len(pairs))
	labelRecs := make([]record.Record, len(pairs))
	for i, rec := range pairs {
		seq, ok := rec.(record.Sequence)
		if !ok || len(seq) != 2 {
			return nil, nil, errors.ShapeMismatch("held-out record %d is not a (feature, label) pair", i)
		}
		featureRecs[i], labelRecs[i] = seq[0], seq[1]
	}
	features, err = record.Stack(featureRecs, record.DTypeUnknown)
	if err != nil {
		return nil, nil, err
	}
	labels, err = record.Stack(labelRecs, record.DTypeUnknown)
	if err != nil {
		return nil, nil, err
	}

	logger.WithComponent("training").Info("held-out set loaded", logger.Fields(
		logger.FieldDataset, name,
		logger.FieldRecords, len(pairs),
	))
	return features, labels, nil
}

// source opens one named dataset as lazy (feature, label) pairs.
func source(cfg *Config, name string) (*dataset.Dataset, error) {
	d, err := reader.Open(reader.Options{
		Keys:       []string{cfg.FeatureKey, cfg.LabelKey},
		Background: true,
	}, cfg.datasetPath(name))
	if err != nil {
		return nil, err
	}
	return d.SelectTuple(cfg.FeatureKey, cfg.LabelKey), nil
}

func shuffleOptions(cfg *Config) []dataset.ShuffleOption {
	opts := []dataset.ShuffleOption{dataset.WithBuffer(cfg.ShuffleBuffer)}
	if cfg.Seed != 0 {
		opts = append(opts, dataset.WithSeed(cfg.Seed))
	}
	return opts
}

// applyLabel lifts a LabelFunc over (feature, label) pairs.
func applyLabel(fn LabelFunc) dataset.MapFunc {
	return func(ctx context.Context, rec record.Record) (record.Record, error) {
		seq, ok := rec.(record.Sequence)
		if !ok || len(seq) != 2 {
			return nil, errors.ShapeMismatch("training record is not a (feature, label) pair")
		}
		label, err := fn(ctx, seq[1])
		if err != nil {
			return nil, err
		}
		return record.Seq(seq[0], label), nil
	}
}
