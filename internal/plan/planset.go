package plan

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pdu-generator/internal/common"
	"pdu-generator/internal/diagnostic"
	"pdu-generator/internal/schema"
)

// SetOptions controls DeriveAll.
type SetOptions struct {
	Options
	// Workers bounds concurrent derivations; 0 means no limit.
	Workers int
	Logger  zerolog.Logger
}

// PlanSet is the aggregated result of deriving every class of a model.
type PlanSet struct {
	// Plans holds accepted plans, parents first, otherwise in declaration
	// order.
	Plans []*MarshalPlan
	// Rejected lists rejected type names in declaration order.
	Rejected    []string
	Diagnostics diagnostic.Diagnostics

	byName map[string]*MarshalPlan
}

// Plan returns the accepted plan called name.
func (s *PlanSet) Plan(name string) *MarshalPlan {
	return s.byName[name]
}

// IsRejected reports whether the type called name was rejected.
func (s *PlanSet) IsRejected(name string) bool {
	return slices.Contains(s.Rejected, name)
}

type derived struct {
	plan  *MarshalPlan
	diags diagnostic.Diagnostics
}

// DeriveAll validates and derives every class of a resolved model. Classes
// are independent, so they are processed concurrently; only the aggregation
// that follows is serial. A rejected class never stops the others.
func DeriveAll(ctx context.Context, m *schema.Model, opts SetOptions) (*PlanSet, error) {
	results := make([]derived, len(m.Classes))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}

	for i, c := range m.Classes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			diags := ValidateClass(c, opts.Options)
			if diags.HasErrors() {
				results[i] = derived{diags: diags}
				return nil
			}

			p, err := Derive(c, opts.Options)
			if err != nil {
				return fmt.Errorf("derive %s: %w", c.Name, err)
			}

			results[i] = derived{plan: p, diags: diags}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := aggregate(m, results)

	log := opts.Logger
	log.Info().
		Int("types", len(m.Classes)).
		Int("accepted", len(set.Plans)).
		Int("rejected", len(set.Rejected)).
		Msg("plans derived")

	for _, name := range set.Rejected {
		log.Debug().Str("type", name).Msg("type rejected")
	}

	return set, nil
}

// aggregate is the serial step: propagate rejection to dependents, link
// parents and order the accepted plans.
func aggregate(m *schema.Model, results []derived) *PlanSet {
	set := &PlanSet{byName: make(map[string]*MarshalPlan)}

	rejected := map[string]bool{}

	for i, r := range results {
		set.Diagnostics.Merge(r.diags)

		if r.plan == nil {
			rejected[m.Classes[i].Name] = true
		}
	}

	// a type whose parent or members have no generated code cannot have
	// any either; repeat until nothing new is rejected
	for changed := true; changed; {
		changed = false

		for i, r := range results {
			c := m.Classes[i]
			if r.plan == nil || rejected[c.Name] {
				continue
			}

			for _, dep := range dependencies(c) {
				if rejected[dep] {
					field := ""
					if dep != c.Parent {
						field = firstUse(c, dep)
					}

					set.Diagnostics.AddError(diagnostic.CodeUnsupportedShape,
						fmt.Sprintf("depends on rejected type %s", dep), c.Name, field)

					rejected[c.Name] = true
					changed = true

					break
				}
			}
		}
	}

	var accepted []*MarshalPlan

	for i, r := range results {
		name := m.Classes[i].Name
		if rejected[name] {
			set.Rejected = common.AppendUnique(set.Rejected, name)
			continue
		}

		accepted = append(accepted, r.plan)
		set.byName[name] = r.plan
	}

	for _, p := range accepted {
		if p.HasParent() {
			p.Parent = set.byName[p.ParentName]
		}
	}

	index := make(map[*MarshalPlan]int, len(accepted))
	for i, p := range accepted {
		index[p] = i
	}

	order, err := common.TopoSort(len(accepted), func(i int) []int {
		if parent, ok := index[accepted[i].Parent]; ok {
			return []int{parent}
		}

		return nil
	})
	if err != nil {
		// inheritance cycles are rejected by the resolver
		order = make([]int, len(accepted))
		for i := range order {
			order[i] = i
		}
	}

	for _, i := range order {
		set.Plans = append(set.Plans, accepted[i])
	}

	set.Diagnostics.Sort()

	return set
}

func firstUse(c *schema.GeneratedClass, dep string) string {
	for _, a := range c.Attributes {
		if a.Class != nil && a.Class.Name == dep {
			return a.Name
		}
	}

	return ""
}
