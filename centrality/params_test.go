package centrality_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/meshlytics/centrality"
	"github.com/stretchr/testify/require"
)

func TestDepthDefault(t *testing.T) {
	var p centrality.Parameters
	d, err := p.Depth()
	require.NoError(t, err)
	require.Equal(t, centrality.DefaultDepth, d)

	d, err = centrality.Parameters{"other": 1}.Depth()
	require.NoError(t, err)
	require.Equal(t, 5, d)
}

func TestDepthValid(t *testing.T) {
	d, err := centrality.Parameters{"T": 3}.Depth()
	require.NoError(t, err)
	require.Equal(t, 3, d)
}

func TestDepthRejects(t *testing.T) {
	for _, v := range []float64{0, -1, 2.5, math.NaN(), math.Inf(1), centrality.MaxDepth + 1} {
		_, err := centrality.Parameters{"T": v}.Depth()
		require.ErrorIs(t, err, centrality.ErrConfiguration, "T=%v", v)
	}
}

func TestParseParameter(t *testing.T) {
	name, v, err := centrality.ParseParameter(" T = 3 ")
	require.NoError(t, err)
	require.Equal(t, "T", name)
	require.Equal(t, 3.0, v)

	for _, s := range []string{"T", "=3", "T=abc", "alpha=NaN", "x=Inf", "x=-inf"} {
		_, _, err = centrality.ParseParameter(s)
		require.ErrorIs(t, err, centrality.ErrConfiguration, s)
	}
}

func TestParametersValidate(t *testing.T) {
	require.NoError(t, centrality.Parameters(nil).Validate())
	require.NoError(t, centrality.Parameters{"T": 3, "alpha": -0.5}.Validate())

	for _, p := range []centrality.Parameters{
		{"alpha": math.NaN()},
		{"T": 2, "x": math.Inf(1)},
		{"x": math.Inf(-1)},
		{"T": 0},
		{"T": math.NaN()},
	} {
		require.ErrorIs(t, p.Validate(), centrality.ErrConfiguration, "%v", p)
	}
}

func TestParametersCloneAndString(t *testing.T) {
	p := centrality.Parameters{"T": 3, "alpha": 0.5}
	c := p.Clone()
	c["T"] = 9
	require.Equal(t, 3.0, p["T"])
	require.Equal(t, "T=3,alpha=0.5", p.String())
	require.Nil(t, centrality.Parameters(nil).Clone())
}
