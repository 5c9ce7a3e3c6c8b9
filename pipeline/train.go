package pipeline

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/caseflow/escalate/balance"
	"github.com/caseflow/escalate/config"
	"github.com/caseflow/escalate/embedding"
	"github.com/caseflow/escalate/ensemble"
	"github.com/caseflow/escalate/errors"
	"github.com/caseflow/escalate/features"
	"github.com/caseflow/escalate/metrics"
	"github.com/caseflow/escalate/model"
	"github.com/caseflow/escalate/text"
	"github.com/caseflow/escalate/tfidf"
	"github.com/caseflow/escalate/tune"
	"github.com/caseflow/escalate/workerpool"
)

// Prediction is one scored training row, reported for auditing.
type Prediction struct {
	ID        string `csv:"id" json:"id"`
	Predicted int    `csv:"predicted_label" json:"predicted_label"`
}

// WritePredictionsCSV exports the audited predictions as a CSV table.
func WritePredictionsCSV(path string, preds []Prediction) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating predictions file %s", path)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&preds, f); err != nil {
		return errors.Wrapf(err, "writing predictions to %s", path)
	}
	return nil
}

// TrainResult is everything one training run produces: the artifact bundle,
// per-row predictions over the (unbalanced) input table, summary metrics,
// and the tuned base-learner configuration.
type TrainResult struct {
	Bundle      *model.Bundle
	Predictions []Prediction
	Confusion   metrics.Confusion
	F1          float64
	AUC         float64
	Tuning      tune.Result
	Elapsed     time.Duration
}

// LoadRecords reads the training table from a CSV file.
func LoadRecords(path string) ([]ComplaintRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening training table %s", path)
	}
	defer f.Close()

	var records []ComplaintRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, errors.Wrapf(err, "parsing training table %s", path)
	}
	return records, nil
}

// Train runs the full offline pipeline over the records: tokenize and score
// text, fit the embedding table and lexical vocabulary, encode categoricals,
// assemble the feature matrix, oversample the minority class, fit the
// scaler, tune and fit the stacked ensemble, and score the original rows.
// All fit-once artifacts land in the returned bundle; synthetic rows from
// balancing never do.
func Train(cfg config.TrainingConfig, records []ComplaintRecord, logger *zap.SugaredLogger) (*TrainResult, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	start := time.Now()

	if len(records) == 0 {
		return nil, errors.Preconditionf("train", "empty training table")
	}
	for i, rec := range records {
		if err := rec.validate(); err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
	}
	y, err := labelVector(records)
	if err != nil {
		return nil, err
	}
	logger.Infow("training started", "rows", len(records))

	// tokenization is per-row independent, so it fans out over the pool;
	// each job writes only its own slot
	docs := make([]text.Tokens, len(records))
	pool := workerpool.New(runtime.NumCPU())
	var jobs []workerpool.Job
	for i := range records {
		i := i
		jobs = append(jobs, func() error {
			docs[i] = text.NormalizeTokens(records[i].Description)
			return nil
		})
	}
	pool.Add(jobs)
	pool.Wait()

	table, err := embedding.Train(docs, embedding.Config{
		Dim:      cfg.EmbeddingDim,
		Window:   cfg.EmbeddingWindow,
		MinCount: cfg.EmbeddingMinCount,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fitting embeddings")
	}
	vocab := tfidf.Fit(docs, cfg.VocabularySize)
	logger.Infow("text artifacts fit",
		"embeddingDim", table.Dim, "vocabularySize", vocab.Width())

	types := make([]string, len(records))
	freqs := make([]string, len(records))
	for i, rec := range records {
		types[i] = rec.ComplaintType
		freqs[i] = rec.TransactionFrequency
	}

	bundle := &model.Bundle{
		Version:           model.Version,
		Layout:            features.NewLayout(table.Dim, vocab.Width()),
		TypeEncoding:      features.FitLabels(types),
		FrequencyEncoding: features.FitLabels(freqs),
		Embeddings:        table,
		Vocabulary:        vocab,
	}

	X, err := assembleMatrix(bundle, records)
	if err != nil {
		return nil, err
	}

	balancedX, balancedY, err := balance.Oversample(X, y, cfg.BalanceRatio, cfg.Seed)
	if err != nil {
		return nil, errors.Wrapf(err, "balancing classes")
	}
	logger.Infow("classes balanced",
		"before", len(X), "after", len(balancedX), "ratio", cfg.BalanceRatio)

	scaler, err := features.FitScaler(balancedX)
	if err != nil {
		return nil, errors.Wrapf(err, "fitting scaler")
	}
	bundle.Scaler = scaler

	scaledX, err := scaler.ApplyMatrix(balancedX)
	if err != nil {
		return nil, err
	}

	tuning, err := tune.Search(scaledX, balancedY, tune.DefaultSpace(), cfg.TunerBudget, cfg.Seed)
	if err != nil {
		return nil, errors.Wrapf(err, "tuning")
	}
	logger.Infow("tuning finished",
		"trials", len(tuning.Trials), "bestF1", tuning.BestF1,
		"trees", tuning.Best.Trees, "maxDepth", tuning.Best.MaxDepth)

	stack, err := ensemble.New(ensemble.DefaultLearners(tuning.Best))
	if err != nil {
		return nil, err
	}
	if err := stack.Fit(scaledX, balancedY, cfg.Folds, cfg.Seed); err != nil {
		return nil, errors.Wrapf(err, "fitting ensemble")
	}
	bundle.Ensemble = stack

	if err := bundle.Validate(); err != nil {
		return nil, err
	}

	// audit predictions over the original rows only, through the same
	// scale-then-predict path serving uses
	predictions := make([]Prediction, len(records))
	predicted := make([]int, len(records))
	scores := make([]float64, len(records))
	for i, row := range X {
		scaled, err := scaler.Apply(row)
		if err != nil {
			return nil, err
		}
		prob, err := stack.PredictProba(scaled)
		if err != nil {
			return nil, errors.Wrapf(err, "scoring row %d", i)
		}
		scores[i] = prob
		if prob >= 0.5 {
			predicted[i] = 1
		}
		predictions[i] = Prediction{ID: records[i].ID, Predicted: predicted[i]}
	}

	confusion := metrics.ConfusionMatrix(y, predicted)
	result := &TrainResult{
		Bundle:      bundle,
		Predictions: predictions,
		Confusion:   confusion,
		F1:          confusion.F1(),
		AUC:         metrics.AUC(y, scores),
		Tuning:      tuning,
		Elapsed:     time.Since(start),
	}
	logger.Infow("training finished",
		"f1", result.F1, "auc", result.AUC,
		"tp", confusion.TP, "fp", confusion.FP, "tn", confusion.TN, "fn", confusion.FN,
		"elapsed", result.Elapsed)
	return result, nil
}

// assembleMatrix featurizes every record against the bundle's fit-once
// artifacts, in parallel. Row order is preserved.
func assembleMatrix(b *model.Bundle, records []ComplaintRecord) ([][]float64, error) {
	X := make([][]float64, len(records))

	pool := workerpool.New(runtime.NumCPU())
	var jobErr error
	var once sync.Once

	var jobs []workerpool.Job
	for i := range records {
		i := i
		jobs = append(jobs, func() error {
			row, err := vector(b, records[i])
			if err != nil {
				once.Do(func() { jobErr = errors.Wrapf(err, "assembling row %d", i) })
				return err
			}
			X[i] = row
			return nil
		})
	}
	pool.Add(jobs)
	pool.Wait()
	if jobErr != nil {
		return nil, jobErr
	}
	return X, nil
}
