package main

import (
	"log"

	arg "github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/caseflow/escalate/config"
	"github.com/caseflow/escalate/envutil"
	"github.com/caseflow/escalate/pipeline"
	"github.com/caseflow/escalate/service"
)

func main() {
	args := struct {
		Config string `arg:"-c" help:"YAML config path"`
		Addr   string `help:"listen address (overrides config)"`
		Bundle string `arg:"-b" help:"bundle path (overrides config)"`
	}{}
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

	addr := envutil.GetenvDefault("ESCALATE_ADDR", cfg.Serving.Addr)
	if args.Addr != "" {
		addr = args.Addr
	}
	bundlePath := envutil.GetenvDefault("ESCALATE_BUNDLE", cfg.Serving.BundlePath)
	if args.Bundle != "" {
		bundlePath = args.Bundle
	}

	scorer, err := pipeline.LoadScorer(bundlePath)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Infow("bundle loaded",
		"path", bundlePath,
		"featureWidth", scorer.Bundle().Layout.Width(),
		"learners", scorer.Bundle().Ensemble.Names())

	srv := service.New(scorer, logger)
	logger.Fatal(srv.ListenAndServe(addr))
}
