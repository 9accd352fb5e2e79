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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCandidatePlan_MatchesInitialState(t *testing.T) {
	fixture := newKillFixture(t)
	victim := &knight{alive: false}

	isAliveVictim, err := fixture.isAlive.Bind(victim)
	if err != nil {
		t.Fatal(err)
	}

	candidate := newCandidatePlan(isAliveVictim, false)
	if !candidate.MatchesInitialState() {
		t.Errorf(`expected match`)
	}

	victim.alive = true
	if candidate.MatchesInitialState() {
		t.Errorf(`expected no match after victim revived`)
	}
}

func TestCandidatePlan_Copy_independence(t *testing.T) {
	fixture := newKillFixture(t)
	victim := &knight{alive: true}
	isAliveVictim, err := fixture.isAlive.Bind(victim)
	if err != nil {
		t.Fatal(err)
	}

	original := newCandidatePlan(isAliveVictim, false)
	clone := original.Copy()

	ga := GroundAction{Actor: &knight{hasSword: true}, Action: fixture.kill, Binding: Binding{`victim`: victim}}
	if err := clone.PrependAction(ga); err != nil {
		t.Fatal(err)
	}

	if len(original.actions) != 0 {
		t.Errorf(`expected original candidate's actions to be untouched, got %v`, original.actions)
	}
	if len(clone.actions) != 1 {
		t.Errorf(`expected clone to have 1 action, got %d`, len(clone.actions))
	}
}

// TestCandidatePlan_PrependAction_regression covers spec §8's regression
// correctness invariant: after PrependAction(t), conditions are exactly
// (old_conditions minus matching effects) union preconditions(t).
func TestCandidatePlan_PrependAction_regression(t *testing.T) {
	fixture := newKillFixture(t)
	actor := &knight{}
	victim := &knight{}

	isAliveVictim, err := fixture.isAlive.Bind(victim)
	if err != nil {
		t.Fatal(err)
	}
	hasSwordActor, err := fixture.hasSword.Bind(actor)
	if err != nil {
		t.Fatal(err)
	}

	candidate := newCandidatePlan(isAliveVictim, false)
	ga := GroundAction{Actor: actor, Action: fixture.kill, Binding: Binding{`victim`: victim}}
	if err := candidate.PrependAction(ga); err != nil {
		t.Fatal(err)
	}

	want := map[Key]bool{
		isAliveVictim.PlanningKey(): true,
		hasSwordActor.PlanningKey(): true,
	}
	got := candidate.Conditions()
	if diff := cmp.Diff(want, got); diff != `` {
		t.Errorf(`Conditions() mismatch (-want +got):\n%s`, diff)
	}

	if len(candidate.actions) != 1 || candidate.actions[0].Action != fixture.kill {
		t.Errorf(`expected actions == [kill], got %v`, candidate.actions)
	}
}

func TestCandidatePlan_PrependAction_prepends(t *testing.T) {
	fixture := newKillFixture(t)
	actor := &knight{}
	victim := &knight{}
	isAliveVictim, err := fixture.isAlive.Bind(victim)
	if err != nil {
		t.Fatal(err)
	}

	candidate := newCandidatePlan(isAliveVictim, false)
	first := GroundAction{Actor: actor, Action: fixture.kill, Binding: Binding{`victim`: victim}}
	if err := candidate.PrependAction(first); err != nil {
		t.Fatal(err)
	}
	second := GroundAction{Actor: &knight{}, Action: fixture.kill, Binding: Binding{`victim`: victim}}
	if err := candidate.PrependAction(second); err != nil {
		t.Fatal(err)
	}

	actions := candidate.Actions()
	if len(actions) != 2 {
		t.Fatalf(`expected 2 actions, got %d`, len(actions))
	}
	if actions[0].Action != fixture.kill || actions[1].Action != fixture.kill {
		t.Errorf(`expected both actions to be kill`)
	}
	if actions[0].Actor != second.Actor || actions[1].Actor != first.Actor {
		t.Errorf(`expected the later-prepended action first`)
	}
}
