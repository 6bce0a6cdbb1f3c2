package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/coinlab/pkg/marketdata/provider Provider
//go:generate mockgen -destination=./mock_evaluator.go -package=mocks github.com/rxtech-lab/coinlab/internal/strategy Evaluator
//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/rxtech-lab/coinlab/internal/indicator Indicator
