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

	"github.com/google/cel-go/cel"
)

// AttributeSnapshot returns a snapshot of an entity's boolean attributes,
// keyed by attribute name. It backs DefineCELCondition's CEL activation:
// each role name is bound to the snapshot of its entity, so expressions
// read e.g. `actor["has_sword"]` or `actor.has_sword`.
type AttributeSnapshot func(entity Entity) map[string]bool

// DefineCELCondition declares a condition class whose evaluator is a
// compiled CEL boolean expression instead of a Go closure, per spec §6's
// "user-supplied evaluate bodies" extension point. roleNames names each
// positional tuple slot (length == arity, in tuple order); within expr
// each role name is available as a CEL map of attribute name to bool,
// e.g. `actor.has_sword && victim.alive`.
//
// The expression is compiled once at definition time; per-binding
// evaluation only snapshots attributes and runs the program, so this is
// cheap to call from inside the planner's permutation search.
func DefineCELCondition(name string, roleNames []string, expr string, snapshot AttributeSnapshot) (*ConditionSpec, error) {
	if len(roleNames) == 0 {
		return nil, fmt.Errorf(`strips: cel condition %q: no role names: %w`, name, ErrInvalidArgument)
	}
	if snapshot == nil {
		return nil, fmt.Errorf(`strips: cel condition %q: nil attribute snapshot: %w`, name, ErrInvalidArgument)
	}

	opts := make([]cel.EnvOption, 0, len(roleNames))
	for _, role := range roleNames {
		opts = append(opts, cel.Variable(role, cel.MapType(cel.StringType, cel.BoolType)))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf(`strips: cel condition %q: env: %w`, name, err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf(`strips: cel condition %q: compile %q: %w`, name, expr, issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf(`strips: cel condition %q: check %q: %w`, name, expr, issues.Err())
	}
	if checked.OutputType() != cel.BoolType {
		return nil, fmt.Errorf(`strips: cel condition %q: expression %q is not boolean: %w`, name, expr, ErrInvalidArgument)
	}
	program, err := env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf(`strips: cel condition %q: program: %w`, name, err)
	}

	evaluate := func(tuple []Entity) (bool, error) {
		activation := make(map[string]any, len(roleNames))
		for i, role := range roleNames {
			activation[role] = snapshot(tuple[i])
		}
		out, _, err := program.Eval(activation)
		if err != nil {
			return false, fmt.Errorf(`strips: cel condition %q: eval: %w`, name, err)
		}
		b, ok := out.Value().(bool)
		if !ok {
			return false, fmt.Errorf(`strips: cel condition %q: non-bool result %v: %w`, name, out.Value(), ErrInvalidArgument)
		}
		return b, nil
	}

	return DefineCondition(name, len(roleNames), evaluate)
}
