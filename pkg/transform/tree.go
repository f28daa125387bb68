package transform

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Edge is a single stored transform: the pose of Child expressed in Parent.
type Edge struct {
	Parent  string    `json:"parent"`
	Child   string    `json:"child"`
	Pose    Pose      `json:"pose"`
	Updated time.Time `json:"updated"`
}

// Tree is an in-process transform store. Every frame has at most one parent;
// setting a transform for a child replaces its previous parent.
type Tree struct {
	mu    sync.RWMutex
	edges map[string]Edge // keyed by child
}

var _ Client = (*Tree)(nil)

// NewTree creates an empty transform tree.
func NewTree() *Tree {
	return &Tree{edges: make(map[string]Edge)}
}

// Set stores the pose of child expressed in parent.
func (t *Tree) Set(child, parent string, pose Pose) error {
	if child == "" || parent == "" {
		return fmt.Errorf("frame ids must not be empty")
	}
	if child == parent {
		return fmt.Errorf("frame %q cannot be its own parent", child)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	// Refuse cycles: parent must not descend from child.
	for f := parent; ; {
		e, ok := t.edges[f]
		if !ok {
			break
		}
		if e.Parent == child {
			return fmt.Errorf("setting %s -> %s would create a cycle", parent, child)
		}
		f = e.Parent
	}

	t.edges[child] = Edge{Parent: parent, Child: child, Pose: pose, Updated: time.Now()}
	return nil
}

// Lookup resolves the pose of child expressed in root, walking through a
// common ancestor when the two are not directly connected.
func (t *Tree) Lookup(child, root string) (Pose, error) {
	if child == root {
		return Identity(), nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	childChain := t.chain(child)
	rootChain := t.chain(root)

	// Find the first ancestor of child that is also an ancestor of root.
	for _, a := range childChain {
		for _, b := range rootChain {
			if a.frame == b.frame {
				return b.pose.Inverse().Compose(a.pose), nil
			}
		}
	}
	return Pose{}, fmt.Errorf("%s in %s: %w", child, root, ErrNotFound)
}

type ancestor struct {
	frame string
	pose  Pose // pose of the chain's origin frame expressed in frame
}

// chain lists frame and all of its ancestors, each with the accumulated pose of
// frame in that ancestor.
func (t *Tree) chain(frame string) []ancestor {
	out := []ancestor{{frame: frame, pose: Identity()}}
	acc := Identity()
	for f := frame; ; {
		e, ok := t.edges[f]
		if !ok {
			return out
		}
		acc = e.Pose.Compose(acc)
		out = append(out, ancestor{frame: e.Parent, pose: acc})
		f = e.Parent
	}
}

// Edges returns a snapshot of all stored transforms ordered by child id.
func (t *Tree) Edges() []Edge {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Edge, 0, len(t.edges))
	for _, e := range t.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Child < out[j].Child })
	return out
}

// WaitForTransform implements Client.
func (t *Tree) WaitForTransform(ctx context.Context, child, root string, timeout time.Duration) error {
	return waitFor(ctx, timeout, func() error {
		_, err := t.Lookup(child, root)
		return err
	})
}

// Transform implements Client.
func (t *Tree) Transform(_ context.Context, child, root string) (Pose, error) {
	return t.Lookup(child, root)
}

// SetTransform implements Client.
func (t *Tree) SetTransform(_ context.Context, target, root string, pose Pose) error {
	return t.Set(target, root, pose)
}

// Close implements Client. A tree holds no resources.
func (t *Tree) Close() error { return nil }
