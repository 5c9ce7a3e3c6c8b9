package main

import (
	"log"
	"time"

	arg "github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/caseflow/escalate/config"
	"github.com/caseflow/escalate/pipeline"
	"github.com/caseflow/escalate/runstore"
)

func main() {
	args := struct {
		Data   string `arg:"positional,required" help:"training table CSV"`
		Config string `arg:"-c" help:"YAML config path"`
		Bundle      string `arg:"-o" help:"bundle output path (overrides config)"`
		RunDB       string `help:"sqlite run-history path, empty to skip"`
		Predictions string `help:"predictions CSV output path, empty to skip"`
	}{
		RunDB: "escalate-runs.db",
	}
	arg.MustParse(&args)

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	cfg, err := config.Load(args.Config)
	if err != nil {
		logger.Fatal(err)
	}
	bundlePath := cfg.Serving.BundlePath
	if args.Bundle != "" {
		bundlePath = args.Bundle
	}

	records, err := pipeline.LoadRecords(args.Data)
	if err != nil {
		logger.Fatal(err)
	}

	result, err := pipeline.Train(cfg.Training, records, logger)
	if err != nil {
		logger.Fatal(err)
	}

	if err := result.Bundle.Save(bundlePath); err != nil {
		logger.Fatal(err)
	}
	logger.Infow("bundle saved", "path", bundlePath)

	if args.RunDB != "" {
		if err := recordRun(args.RunDB, result); err != nil {
			logger.Fatal(err)
		}
		logger.Infow("run recorded", "path", args.RunDB)
	}

	if args.Predictions != "" {
		if err := pipeline.WritePredictionsCSV(args.Predictions, result.Predictions); err != nil {
			logger.Fatal(err)
		}
		logger.Infow("predictions written", "path", args.Predictions)
	}
}

func recordRun(path string, result *pipeline.TrainResult) error {
	store, err := runstore.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	preds := make([]runstore.Prediction, len(result.Predictions))
	for i, p := range result.Predictions {
		preds[i] = runstore.Prediction{RowID: p.ID, Predicted: p.Predicted}
	}
	_, err = store.SaveRun(runstore.Run{
		StartedAt: time.Now().Add(-result.Elapsed),
		F1:        result.F1,
		AUC:       result.AUC,
		TP:        result.Confusion.TP,
		FP:        result.Confusion.FP,
		TN:        result.Confusion.TN,
		FN:        result.Confusion.FN,
	}, preds)
	return err
}
