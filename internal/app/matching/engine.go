// internal/app/matching/engine.go
package matching

import (
	"bytes"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RankFallback marks a placement granted by the fallback phase rather
// than by a declared preference.
const RankFallback = 0

// Placement is where one student ends up: a project and the preference
// rank that was satisfied (1..MaxRank, or RankFallback).
type Placement struct {
	ProjectID primitive.ObjectID
	Rank      int
}

// Result is the transient output of one matching run. It is not
// persisted until a committer writes it as groups.
type Result struct {
	Placements map[primitive.ObjectID]Placement
	Unassigned []primitive.ObjectID // sorted ascending
}

// bid is one student's claim on a seat at a project, carrying
// everything the project-side ordering needs.
type bid struct {
	student   primitive.ObjectID
	choiceIdx int // index into the student's choice list
	rank      int
	submitted primitive.DateTime
}

// roundState is the immutable per-round state of the deferred
// acceptance loop. Each round derives a fresh state from the previous
// one instead of mutating shared structures, which keeps individual
// rounds trivially inspectable in tests.
type roundState struct {
	held   map[primitive.ObjectID][]bid // project -> provisionally held bids
	cursor map[primitive.ObjectID]int   // student -> next choice index to propose
}

// Match computes a student-optimal stable assignment for the snapshot
// using capacity-constrained deferred acceptance, then a deterministic
// fallback pass for students no declared preference could place.
//
// It is a pure function: identical snapshots always yield identical
// results. With no open projects it returns an all-unassigned result.
func Match(snap Snapshot) Result {
	capacity := make(map[primitive.ObjectID]int, len(snap.Projects))
	for _, p := range snap.Projects {
		capacity[p.ID] = p.Capacity
	}

	students := make(map[primitive.ObjectID]Student, len(snap.Students))
	for _, st := range snap.Students {
		students[st.ID] = st
	}

	state := roundState{
		held:   map[primitive.ObjectID][]bid{},
		cursor: make(map[primitive.ObjectID]int, len(snap.Students)),
	}

	// Propose/hold/reject rounds. A student's cursor only ever moves
	// forward, and it moves on every rejection, so the loop reaches a
	// fixed point after at most MaxRank+1 rounds.
	for {
		next, proposed := advance(state, students, capacity)
		state = next
		if !proposed {
			break
		}
	}

	res := Result{Placements: make(map[primitive.ObjectID]Placement, len(snap.Students))}
	for projectID, bids := range state.held {
		for _, b := range bids {
			res.Placements[b.student] = Placement{ProjectID: projectID, Rank: b.rank}
		}
	}

	fallback(snap, capacity, &res)

	sort.Slice(res.Unassigned, func(i, j int) bool {
		return lessID(res.Unassigned[i], res.Unassigned[j])
	})
	return res
}

// advance computes one round: every unheld student with choices left
// proposes at their cursor, every project re-ranks held plus new bids
// and keeps its best within capacity. It returns the next state and
// whether any proposal was made this round.
func advance(state roundState, students map[primitive.ObjectID]Student, capacity map[primitive.ObjectID]int) (roundState, bool) {
	heldBy := make(map[primitive.ObjectID]bool)
	for _, bids := range state.held {
		for _, b := range bids {
			heldBy[b.student] = true
		}
	}

	next := roundState{
		held:   make(map[primitive.ObjectID][]bid, len(state.held)),
		cursor: make(map[primitive.ObjectID]int, len(state.cursor)),
	}
	for id, c := range state.cursor {
		next.cursor[id] = c
	}

	candidates := make(map[primitive.ObjectID][]bid)
	for projectID, bids := range state.held {
		candidates[projectID] = append(candidates[projectID], bids...)
	}

	proposed := false
	for id, st := range students {
		if heldBy[id] {
			continue
		}
		// Skip choices pointing at projects with no open seats in this
		// snapshot (already full in a partial run, or unapproved data
		// upstream should have rejected).
		cur := next.cursor[id]
		for cur < len(st.Choices) {
			c := st.Choices[cur]
			if _, open := capacity[c.ProjectID]; open {
				break
			}
			cur++
		}
		next.cursor[id] = cur
		if cur >= len(st.Choices) {
			continue
		}
		c := st.Choices[cur]
		candidates[c.ProjectID] = append(candidates[c.ProjectID], bid{
			student:   id,
			choiceIdx: cur,
			rank:      c.Rank,
			submitted: primitive.NewDateTimeFromTime(c.SubmittedAt),
		})
		proposed = true
	}

	if !proposed {
		next.held = state.held
		return next, false
	}

	for projectID, bids := range candidates {
		sort.Slice(bids, func(i, j int) bool {
			if bids[i].rank != bids[j].rank {
				return bids[i].rank < bids[j].rank
			}
			if bids[i].submitted != bids[j].submitted {
				return bids[i].submitted < bids[j].submitted
			}
			return lessID(bids[i].student, bids[j].student)
		})
		keep := capacity[projectID]
		if keep > len(bids) {
			keep = len(bids)
		}
		next.held[projectID] = bids[:keep:keep]
		for _, rejected := range bids[keep:] {
			// Rejected bids re-propose one choice further next round.
			if next.cursor[rejected.student] <= rejected.choiceIdx {
				next.cursor[rejected.student] = rejected.choiceIdx + 1
			}
		}
	}
	return next, true
}

// fallback assigns students no declared preference could place. They
// are taken in ascending student ID and routed to the open project with
// the lowest current occupancy (ties broken by ascending project ID) to
// balance team sizes. Students left over when every seat is taken are
// reported as unassigned.
func fallback(snap Snapshot, capacity map[primitive.ObjectID]int, res *Result) {
	var leftover []primitive.ObjectID
	for _, st := range snap.Students {
		if _, placed := res.Placements[st.ID]; !placed {
			leftover = append(leftover, st.ID)
		}
	}
	sort.Slice(leftover, func(i, j int) bool { return lessID(leftover[i], leftover[j]) })

	occupancy := make(map[primitive.ObjectID]int, len(capacity))
	for _, pl := range res.Placements {
		occupancy[pl.ProjectID]++
	}

	for _, studentID := range leftover {
		target := primitive.NilObjectID
		found := false
		for _, p := range snap.Projects {
			if occupancy[p.ID] >= capacity[p.ID] {
				continue
			}
			if !found ||
				occupancy[p.ID] < occupancy[target] ||
				(occupancy[p.ID] == occupancy[target] && lessID(p.ID, target)) {
				target = p.ID
				found = true
			}
		}
		if !found {
			res.Unassigned = append(res.Unassigned, studentID)
			continue
		}
		occupancy[target]++
		res.Placements[studentID] = Placement{ProjectID: target, Rank: RankFallback}
	}
}

func lessID(a, b primitive.ObjectID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
