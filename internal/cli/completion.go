package cli

import (
	"github.com/posener/complete"
	"github.com/semmy-space/credstore/internal/config"
	"github.com/willabides/kongplete"
)

// CompletionOptions returns the predictors referenced by predictor tags
func CompletionOptions() []kongplete.Option {
	return []kongplete.Option{
		kongplete.WithPredictor("file", complete.PredictFiles("*")),
		kongplete.WithPredictor("config_key", complete.PredictSet(config.Keys()...)),
	}
}
