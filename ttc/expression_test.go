package ttc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_MeanTtc(t *testing.T) {
	n := NewNumber(3.5)
	assert.Equal(t, 3.5, n.MeanTtc())
	_, ok := n.MeanProbability()
	assert.False(t, ok)
}

func TestEmpty_MeanTtcIsZero(t *testing.T) {
	e := EmptyExpression()
	assert.Equal(t, 0.0, e.MeanTtc())
	assert.Nil(t, e.ToJSON())
}

func TestBernoulli_MeanTtcBoundary(t *testing.T) {
	dist, err := Lookup("Bernoulli")
	require.NoError(t, err)

	below, err := NewFunction(dist, []float64{0.4})
	require.NoError(t, err)
	assert.Equal(t, 0.0, below.MeanTtc())

	above, err := NewFunction(dist, []float64{0.6})
	require.NoError(t, err)
	assert.Equal(t, Max, above.MeanTtc())

	p, ok := above.MeanProbability()
	require.True(t, ok)
	assert.Equal(t, 0.6, p)
}

func TestExponential_Mean(t *testing.T) {
	dist, err := Lookup("Exponential")
	require.NoError(t, err)
	f, err := NewFunction(dist, []float64{1.0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.MeanTtc())
}

func TestAddition_SumsChildren(t *testing.T) {
	sum, err := NewBinary(Addition, NewNumber(2), NewNumber(3))
	require.NoError(t, err)
	assert.Equal(t, 5.0, sum.MeanTtc())
}

func TestFromJSON_RoundTrips(t *testing.T) {
	dist, err := Lookup("Exponential")
	require.NoError(t, err)
	fn, err := NewFunction(dist, []float64{0.5})
	require.NoError(t, err)

	decoded, err := FromJSON(fn.ToJSON())
	require.NoError(t, err)
	assert.Equal(t, fn.MeanTtc(), decoded.MeanTtc())
}

func TestFromJSON_NullIsEmpty(t *testing.T) {
	e, err := FromJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, Empty, e.Kind)
}

func TestInvalidDistributionArguments(t *testing.T) {
	dist, err := Lookup("Bernoulli")
	require.NoError(t, err)
	_, err = NewFunction(dist, []float64{1.5})
	require.Error(t, err)
}

func TestUniform_RejectsDescendingBounds(t *testing.T) {
	dist, err := Lookup("Uniform")
	require.NoError(t, err)
	_, err = NewFunction(dist, []float64{5, 1})
	assert.Error(t, err)
}

func TestEasyAndUncertain_MatchesComposedExpression(t *testing.T) {
	dist, err := Lookup("EasyAndUncertain")
	require.NoError(t, err)
	composed, err := NewFunction(dist, nil)
	require.NoError(t, err)

	bernoulli, _ := Lookup("Bernoulli")
	exponential, _ := Lookup("Exponential")
	lhs, _ := NewFunction(bernoulli, []float64{0.5})
	rhs, _ := NewFunction(exponential, []float64{1.0})
	sum, _ := NewBinary(Addition, lhs, rhs)

	assert.Equal(t, sum.MeanTtc(), composed.MeanTtc())
}
