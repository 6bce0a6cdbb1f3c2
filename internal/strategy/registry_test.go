package strategy

import (
	"testing"

	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewDefaultRegistry()
}

func (suite *RegistryTestSuite) TestDefaultRegistryHoldsBuiltins() {
	suite.Equal([]types.StrategyType{types.StrategyBuyHold, types.StrategyRSIThreshold, types.StrategySMACrossover}, suite.registry.List())
}

func (suite *RegistryTestSuite) TestResolveKnownStrategy() {
	for _, id := range types.AllStrategyTypes() {
		evaluator, ok := suite.registry.Resolve(string(id))
		suite.True(ok)
		suite.Equal(id, evaluator.Name())
	}
}

func (suite *RegistryTestSuite) TestResolveUnknownFallsBackToBuyHold() {
	for _, id := range []string{"", "macd", "SMA"} {
		evaluator, ok := suite.registry.Resolve(id)
		suite.False(ok, id)
		suite.Equal(types.StrategyBuyHold, evaluator.Name())
	}
}

func (suite *RegistryTestSuite) TestResolveOnEmptyRegistry() {
	evaluator, ok := NewRegistry().Resolve("sma")
	suite.False(ok)
	suite.Equal(types.StrategyBuyHold, evaluator.Name())
}

func (suite *RegistryTestSuite) TestRegisterDuplicate() {
	err := suite.registry.Register(NewBuyHold())
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeStrategyAlreadyExists, errors.GetCode(err))
}

func (suite *RegistryTestSuite) TestGetUnknown() {
	_, err := suite.registry.Get("unknown")
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeStrategyNotFound, errors.GetCode(err))
}

func (suite *RegistryTestSuite) TestDescribe() {
	infos, err := suite.registry.Describe()
	suite.Require().NoError(err)
	suite.Require().Len(infos, 3)

	suite.Equal(types.StrategyBuyHold, infos[0].ID)
	suite.Equal("Buy & Hold", infos[0].Name)
	suite.Equal(types.StrategySMACrossover, infos[2].ID)
	suite.Equal("SMA Crossover", infos[2].Name)
	suite.Contains(infos[2].Schema, "short")
	suite.Contains(infos[1].Schema, "oversold")

	for _, info := range infos {
		suite.NotEmpty(info.Description)
		suite.Contains(info.Schema, "$schema")
	}
}
