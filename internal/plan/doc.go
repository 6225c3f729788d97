// Package plan derives one immutable MarshalPlan per resolved message type.
//
// A plan is everything a backend needs to render a type: ordered encode and
// decode steps, a size expression, an equality plan, a construct plan and
// auxiliary text accessors. Backends never look at ordering, sizes or count
// bindings themselves.
//
// Pipeline:
//  1. Every class is validated on its own (ValidateClass).
//  2. Accepted classes are derived in parallel (Derive).
//  3. A serial aggregation step rejects classes whose parent or members were
//     rejected, links parent plans and orders parents first (DeriveAll).
package plan
