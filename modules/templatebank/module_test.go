package templatebank

import (
	"testing"

	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/nodeid"
	"github.com/specialistvlad/tilegrid/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestOutputs_WritePSD(t *testing.T) {
	n := &node.JobNode{ID: nodeid.New("tmpltbank", "H1").Indexed("job", 0), Instrument: "H1"}

	out, err := Outputs(n, profile.NewOptions("tmpltbank", nil))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.False(t, out[0].HasTag(PSDTag))

	out, err = Outputs(n, profile.NewOptions("tmpltbank", map[string]cty.Value{"write_psd": cty.True}))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[1].HasTag(PSDTag))
	assert.NotEqual(t, out[0].ID, out[1].ID)
}
