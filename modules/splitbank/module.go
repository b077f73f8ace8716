// Package splitbank provides the "split_bank" job kind, which divides each
// parent bank into num_banks parts. The parts share the parent's interval
// and are told apart by a zero-padded bank tag.
package splitbank

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/tilegrid/internal/catalog"
	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/profile"
	"github.com/specialistvlad/tilegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// BankTag returns the tag of part i out of n: "bank" followed by i padded
// to ceil(log10(n)) digits.
func BankTag(i, n int64) string {
	digits := 0
	for p := int64(1); p < n; p *= 10 {
		digits++
	}
	return fmt.Sprintf("bank%0*d", digits, i)
}

// Outputs is the builder for split bank nodes. Each part carries the
// parent bank's tags followed by its own bank tag and the job tags.
func Outputs(n *node.JobNode, opts profile.Options) ([]catalog.Artifact, error) {
	numBanks, err := opts.Int("num_banks")
	if err != nil {
		return nil, err
	}
	if numBanks < 1 {
		return nil, &profile.InvalidOptionError{Kind: opts.Kind(), Option: "num_banks", Err: fmt.Errorf("%d is not positive", numBanks)}
	}
	var parentTags []string
	if len(n.Parents) > 0 {
		parentTags = n.Parents[0].Tags
	}
	out := make([]catalog.Artifact, 0, numBanks)
	for i := int64(0); i < numBanks; i++ {
		tag := BankTag(i, numBanks)
		a := n.Output("." + tag)
		// Parent tags first, then the part's own tag, then the job's.
		a.Tags = slices.Concat(parentTags, []string{tag}, n.Tags)
		out = append(out, a)
	}
	return out, nil
}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("split_bank", &registry.Kind{
		Builder: registry.BuilderFunc(Outputs),
	})
}
