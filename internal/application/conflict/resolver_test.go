package conflict

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/smartmeal/core/pkg/errors"
	"github.com/smartmeal/core/pkg/logger"
	"github.com/smartmeal/core/test/testutils"
)

// ResolverTestSuite covers allergen conflict resolution
type ResolverTestSuite struct {
	suite.Suite
	graph    *testutils.MockIngredientGraph
	resolver *Resolver
	userID   uuid.UUID
	ctx      context.Context
}

func (suite *ResolverTestSuite) SetupTest() {
	suite.graph = &testutils.MockIngredientGraph{}
	suite.resolver = NewResolver(suite.graph, logger.NewNop())
	suite.userID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *ResolverTestSuite) TestResolve() {
	suite.Run("EmptyList_ShouldPassUnchanged", func() {
		suite.SetupTest()

		ok, effective, err := suite.resolver.Resolve(suite.ctx, nil, suite.userID, nil, true, 3)

		require.NoError(suite.T(), err)
		assert.True(suite.T(), ok)
		assert.Empty(suite.T(), effective)
		suite.graph.AssertNotCalled(suite.T(), "CheckConflicts")
	})

	suite.Run("NoConflicts_ShouldPassUnchanged", func() {
		suite.SetupTest()
		ids := []string{"ing-a", "ing-b"}
		suite.graph.On("CheckConflicts", suite.ctx, ids, suite.userID).Return([]string{}, nil)

		ok, effective, err := suite.resolver.Resolve(suite.ctx, ids, suite.userID, nil, true, 3)

		require.NoError(suite.T(), err)
		assert.True(suite.T(), ok)
		assert.Equal(suite.T(), ids, effective)
	})

	suite.Run("ConflictsWithSubstitutionDisabled_ShouldReject", func() {
		suite.SetupTest()
		ids := []string{"ing-a", "ing-peanut", "ing-b"}
		suite.graph.On("CheckConflicts", suite.ctx, ids, suite.userID).Return([]string{"ing-peanut"}, nil)

		ok, effective, err := suite.resolver.Resolve(suite.ctx, ids, suite.userID, nil, false, 3)

		require.NoError(suite.T(), err)
		assert.False(suite.T(), ok)
		assert.Equal(suite.T(), ids, effective)
		suite.graph.AssertNotCalled(suite.T(), "FindSubstitutes")
	})

	suite.Run("SubstituteFound_ShouldReplaceFirstOccurrence", func() {
		suite.SetupTest()
		ids := []string{"ing-a", "ing-peanut", "ing-b"}
		suite.graph.On("CheckConflicts", suite.ctx, ids, suite.userID).Return([]string{"ing-peanut"}, nil)
		suite.graph.On("FindSubstitutes", suite.ctx, "ing-peanut", mock.Anything, substituteSearchLimit).
			Return([]string{"ing-sunflower"}, nil)

		ok, effective, err := suite.resolver.Resolve(suite.ctx, ids, suite.userID, nil, true, 3)

		require.NoError(suite.T(), err)
		assert.True(suite.T(), ok)
		assert.Equal(suite.T(), []string{"ing-a", "ing-sunflower", "ing-b"}, effective)
		assert.NotContains(suite.T(), effective, "ing-peanut")
	})

	suite.Run("SubstituteMatchingAnotherAllergen_IsSkipped", func() {
		suite.SetupTest()
		allergens := []string{"ing-peanut", "ing-cashew"}
		ids := []string{"ing-peanut", "ing-rice"}
		suite.graph.On("CheckConflicts", suite.ctx, ids, suite.userID).Return([]string{"ing-peanut"}, nil)
		// The graph is asked to exclude the full allergen set, not just
		// the conflict found in this recipe
		suite.graph.On("FindSubstitutes", suite.ctx, "ing-peanut", mock.MatchedBy(func(exclude []string) bool {
			return contains(exclude, "ing-peanut") && contains(exclude, "ing-cashew")
		}), substituteSearchLimit).
			Return([]string{"ing-cashew", "ing-sunflower"}, nil)

		ok, effective, err := suite.resolver.Resolve(suite.ctx, ids, suite.userID, allergens, true, 3)

		require.NoError(suite.T(), err)
		assert.True(suite.T(), ok)
		assert.Equal(suite.T(), []string{"ing-sunflower", "ing-rice"}, effective)
		assert.NotContains(suite.T(), effective, "ing-cashew")
	})

	suite.Run("NoSubstituteAvailable_ShouldRejectWholeRecipe", func() {
		suite.SetupTest()
		ids := []string{"ing-peanut", "ing-shrimp"}
		suite.graph.On("CheckConflicts", suite.ctx, ids, suite.userID).
			Return([]string{"ing-peanut", "ing-shrimp"}, nil)
		suite.graph.On("FindSubstitutes", suite.ctx, "ing-peanut", mock.Anything, substituteSearchLimit).
			Return([]string{"ing-sunflower"}, nil)
		suite.graph.On("FindSubstitutes", suite.ctx, "ing-shrimp", mock.Anything, substituteSearchLimit).
			Return([]string{}, nil)

		ok, effective, err := suite.resolver.Resolve(suite.ctx, ids, suite.userID, nil, true, 3)

		require.NoError(suite.T(), err)
		assert.False(suite.T(), ok)
		assert.Equal(suite.T(), ids, effective)
	})

	suite.Run("SubstituteCandidatesAllDisallowed_ShouldReject", func() {
		suite.SetupTest()
		ids := []string{"ing-peanut"}
		suite.graph.On("CheckConflicts", suite.ctx, ids, suite.userID).Return([]string{"ing-peanut"}, nil)
		suite.graph.On("FindSubstitutes", suite.ctx, "ing-peanut", mock.Anything, substituteSearchLimit).
			Return([]string{"ing-peanut"}, nil)

		ok, _, err := suite.resolver.Resolve(suite.ctx, ids, suite.userID, nil, true, 3)

		require.NoError(suite.T(), err)
		assert.False(suite.T(), ok)
	})

	suite.Run("MoreConflictsThanCap_ShouldRejectWithOriginalList", func() {
		suite.SetupTest()
		ids := []string{"ing-a", "ing-b", "ing-c"}
		suite.graph.On("CheckConflicts", suite.ctx, ids, suite.userID).
			Return([]string{"ing-a", "ing-b", "ing-c"}, nil)

		ok, effective, err := suite.resolver.Resolve(suite.ctx, ids, suite.userID, nil, true, 2)

		require.NoError(suite.T(), err)
		assert.False(suite.T(), ok)
		assert.Equal(suite.T(), ids, effective)
		suite.graph.AssertNotCalled(suite.T(), "FindSubstitutes")
	})

	suite.Run("GraphUnavailable_ShouldPropagateError", func() {
		suite.SetupTest()
		ids := []string{"ing-a"}
		depErr := errors.NewDependencyUnavailableError("ingredient graph", nil)
		suite.graph.On("CheckConflicts", suite.ctx, ids, suite.userID).Return(nil, depErr)

		ok, _, err := suite.resolver.Resolve(suite.ctx, ids, suite.userID, nil, true, 3)

		assert.False(suite.T(), ok)
		assert.True(suite.T(), errors.Is(err, errors.CodeDependencyUnavailable))
	})
}

func (suite *ResolverTestSuite) TestChooseSubstitute() {
	suite.Run("SkipsDisallowedCandidates", func() {
		suite.SetupTest()
		suite.graph.On("FindSubstitutes", suite.ctx, "ing-peanut", []string{"ing-almond"}, 5).
			Return([]string{"ing-almond", "ing-sunflower"}, nil)

		sub, ok, err := suite.resolver.ChooseSubstitute(suite.ctx, "ing-peanut", []string{"ing-almond"}, 5)

		require.NoError(suite.T(), err)
		assert.True(suite.T(), ok)
		assert.Equal(suite.T(), "ing-sunflower", sub)
	})

	suite.Run("NoCandidates_ReturnsNotFound", func() {
		suite.SetupTest()
		suite.graph.On("FindSubstitutes", suite.ctx, "ing-peanut", mock.Anything, 5).
			Return([]string{}, nil)

		_, ok, err := suite.resolver.ChooseSubstitute(suite.ctx, "ing-peanut", nil, 5)

		require.NoError(suite.T(), err)
		assert.False(suite.T(), ok)
	})
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}
