/*
   Copyright 2021 Joseph Cumines

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package strips

import (
	"fmt"

	"go.uber.org/zap"
)

// defaultMaxSearchDepth mirrors the original source's MAX_SEARCH_DEPTH.
const defaultMaxSearchDepth = 3

type (
	config struct {
		maxDepth int
		logger   Logger
	}

	// Option configures a planning run. See WithMaxDepth, WithLogger.
	Option func(c *config) error
)

func newConfig(opts ...Option) (config, error) {
	c := config{
		maxDepth: defaultMaxSearchDepth,
		logger:   newNopLogger(),
	}
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return config{}, err
		}
	}
	return c, nil
}

// WithMaxDepth overrides the default breadth-first search depth bound
// (MAX_SEARCH_DEPTH in spec §4.4).
func WithMaxDepth(depth int) Option {
	return func(c *config) error {
		if depth < 0 {
			return fmt.Errorf(`strips: max depth must be >= 0: %w`, ErrInvalidArgument)
		}
		c.maxDepth = depth
		return nil
	}
}

// WithLogger attaches a structured logger that traces candidate expansion,
// matches, and termination during Select.
func WithLogger(l Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// Select performs breadth-first backward regression from goal to the live
// world state, returning the ordered ground action sequence that achieves
// it. It returns ErrPlanningDepthExceeded if no plan is found within the
// configured depth bound. If the goal already holds, it returns an empty,
// non-nil slice. See spec §4.4.
func Select(actor Entity, goal Goal, availableActions []*ActionSpec, objects []Entity, opts ...Option) ([]GroundAction, error) {
	if actor == nil {
		return nil, fmt.Errorf(`strips: select: nil actor: %w`, ErrInvalidArgument)
	}
	if goal.Condition.spec == nil {
		return nil, fmt.Errorf(`strips: select: zero-value goal condition: %w`, ErrInvalidArgument)
	}
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	frontier := []*CandidatePlan{newCandidatePlan(goal.Condition, goal.Value)}

	for depth := 0; ; depth++ {
		cfg.logger.debug(`planner: checking frontier`,
			zap.Int(`depth`, depth), zap.Int(`frontier_size`, len(frontier)))

		for _, candidate := range frontier {
			if candidate.MatchesInitialState() {
				cfg.logger.debug(`planner: plan found`,
					zap.Int(`depth`, depth), zap.Int(`actions`, len(candidate.actions)))
				return candidate.Actions(), nil
			}
		}

		if depth >= cfg.maxDepth {
			cfg.logger.debug(`planner: depth exceeded`, zap.Int(`depth`, depth))
			return nil, fmt.Errorf(`strips: select: depth %d: %w`, depth, ErrPlanningDepthExceeded)
		}

		var next []*CandidatePlan
		for _, candidate := range frontier {
			predecessors, err := relevantPredecessorActions(cfg.logger, candidate, actor, availableActions, objects)
			if err != nil {
				return nil, err
			}
			for _, ga := range predecessors {
				child := candidate.Copy()
				if err := child.PrependAction(ga); err != nil {
					return nil, err
				}
				next = append(next, child)
			}
		}
		frontier = next
	}
}

// relevantPredecessorActions enumerates, for each available action, every
// ordered permutation without repetition of its object roles drawn from
// objects, and keeps those whose calculated effects match the candidate's
// required conditions. Enumeration follows the input objects order so
// output is deterministic given deterministic input, per spec §4.4.
func relevantPredecessorActions(logger Logger, candidate *CandidatePlan, actor Entity, availableActions []*ActionSpec, objects []Entity) ([]GroundAction, error) {
	var matches []GroundAction
	for _, action := range availableActions {
		keys := action.ObjectKeys()
		for _, perm := range permutations(objects, len(keys)) {
			bindings := make(Binding, len(keys))
			for i, key := range keys {
				bindings[key] = perm[i]
			}
			impossibleClause, impossible, err := hasImpossiblePrecondition(action, actor, bindings)
			if err != nil {
				return nil, err
			}
			if impossible {
				logger.debug(`planner: pruned impossible binding`,
					zap.String(`action`, action.Name()),
					zap.String(`condition`, impossibleClause.Condition.Name()),
					zap.Strings(`object_names`, impossibleClause.ObjectNames()))
				continue
			}
			effects, err := action.CalculateEffects(actor, bindings)
			if err != nil {
				return nil, err
			}
			if actionEffectsMatchCandidate(effects, candidate) {
				matches = append(matches, GroundAction{Actor: actor, Action: action, Binding: bindings})
			}
		}
	}
	return matches, nil
}

// hasImpossiblePrecondition reports whether action, bound against actor and
// bindings, has a precondition that is structurally impossible to satisfy
// (evaluates to ErrImpossible) — e.g. Is(x,y) with x != y, or IsNot(x,x).
// Such bindings are never enqueued, per spec §8's impossibility-pruning
// invariant, regardless of which other effects they might otherwise
// contribute. When it reports true, it also returns the offending
// precondition clause, so the caller can trace which roles made the
// binding impossible.
func hasImpossiblePrecondition(action *ActionSpec, actor Entity, bindings Binding) (Clause, bool, error) {
	for _, clause := range action.preconditions {
		tuple := bindTuple(actor, bindings, clause.Roles)
		cond, err := clause.Condition.Bind(tuple...)
		if err != nil {
			return Clause{}, false, err
		}
		if _, err := cond.Evaluate(); err != nil {
			if isImpossible(err) {
				return clause, true, nil
			}
			return Clause{}, false, err
		}
	}
	return Clause{}, false, nil
}

// actionEffectsMatchCandidate implements spec §4.4's match predicate: at
// least one effect key must be required by the candidate (some overlap),
// and no effect may contradict a required value (no overlap may
// disagree). Effects outside the candidate's required conditions are
// ignored, per the documented STRIPS simplification in spec §9.
func actionEffectsMatchCandidate(effects map[Key]bool, candidate *CandidatePlan) bool {
	someMatch := false
	for key, value := range effects {
		if want, ok := candidate.conditions[key]; ok {
			if want != value {
				return false
			}
			someMatch = true
		}
	}
	return someMatch
}

// permutations yields every ordered selection without repetition of n
// items from pool, in pool order, matching Python's
// itertools.permutations(pool, n) used by the original source.
func permutations(pool []Entity, n int) [][]Entity {
	if n == 0 {
		return [][]Entity{{}}
	}
	if n > len(pool) {
		return nil
	}
	var out [][]Entity
	used := make([]bool, len(pool))
	current := make([]Entity, n)
	var recurse func(depth int)
	recurse = func(depth int) {
		if depth == n {
			perm := make([]Entity, n)
			copy(perm, current)
			out = append(out, perm)
			return
		}
		for i := range pool {
			if used[i] {
				continue
			}
			used[i] = true
			current[depth] = pool[i]
			recurse(depth + 1)
			used[i] = false
		}
	}
	recurse(0)
	return out
}
