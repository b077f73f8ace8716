package workflow

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/tilegrid/internal/catalog"
	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/nodeid"
	"github.com/specialistvlad/tilegrid/internal/tiler"
)

// split plans one node per parent artifact, covering exactly the parent's
// interval. Parents carrying an excluded tag are skipped.
func (p *Planner) split(ctx context.Context, env *stageEnv) ([]*node.JobNode, error) {
	lister, ok := env.parents.(catalog.Lister)
	if !ok {
		return nil, fmt.Errorf("parents %q cannot be enumerated for splitting", env.stage.Parents)
	}
	opts := env.job.ProfileOptions()
	all := catalog.WithoutTags(lister.All(), env.job.ExcludeTags)

	var nodes []*node.JobNode
	for _, ifo := range instruments(env.stage) {
		base := nodeid.New(env.stage.Name)
		if ifo != "" {
			base = base.Child(ifo)
		}
		k := 0
		for _, parent := range all {
			if ifo != "" && parent.Owner != ifo {
				continue
			}
			n := &node.JobNode{
				ID:         base.Indexed("parent", k),
				Kind:       env.job.Name,
				Instrument: ifo,
				Plan:       tiler.JobPlan{Index: k, Data: parent.Interval, Valid: parent.Interval},
				Parents:    []catalog.Artifact{parent},
				Tags:       slices.Clone(env.job.Tags),
			}
			if err := emit(ctx, n, env.kind.Builder, opts, p.Sink); err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
			k++
		}
	}
	return nodes, nil
}
