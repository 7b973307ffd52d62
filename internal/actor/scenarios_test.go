// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/hearthsim/hearth/internal/action"
	"github.com/hearthsim/hearth/internal/actor"
	"github.com/hearthsim/hearth/internal/decision"
	"github.com/hearthsim/hearth/internal/decision/decisiontest"
	"github.com/hearthsim/hearth/internal/resource"
	"github.com/hearthsim/hearth/internal/world"
	"github.com/hearthsim/hearth/pkg/errutil"
)

// timedObserver remembers when each item started and finished and when
// each state transition happened.
type timedObserver struct {
	mu          sync.Mutex
	started     map[string]time.Time
	finished    map[string]time.Time
	transitions []transition
}

type transition struct {
	actorID  string
	from, to actor.State
	at       time.Time
}

func newTimedObserver() *timedObserver {
	return &timedObserver{started: map[string]time.Time{}, finished: map[string]time.Time{}}
}

func (o *timedObserver) ItemStarted(_ string, it action.Item) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started[it.ID().String()] = time.Now()
}

func (o *timedObserver) ItemFinished(_ string, it action.Item, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished[it.ID().String()] = time.Now()
}

func (o *timedObserver) StateChanged(actorID string, from, to actor.State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, transition{actorID: actorID, from: from, to: to, at: time.Now()})
}

func (o *timedObserver) duration(it action.Item) (time.Duration, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok1 := o.started[it.ID().String()]
	f, ok2 := o.finished[it.ID().String()]
	return f.Sub(s), ok1 && ok2
}

func (o *timedObserver) finishedAt(it action.Item) (time.Time, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	f, ok := o.finished[it.ID().String()]
	return f, ok
}

// firstTransition returns when actorID first went from one state to another.
func (o *timedObserver) firstTransition(actorID string, from, to actor.State) (time.Time, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, tr := range o.transitions {
		if tr.actorID == actorID && tr.from == from && tr.to == to {
			return tr.at, true
		}
	}
	return time.Time{}, false
}

func kinds(items []action.Item) []action.Kind {
	out := make([]action.Kind, len(items))
	for i, it := range items {
		out[i] = it.Kind()
	}
	return out
}

var _ = Describe("Actor engine", func() {
	var (
		fw       *fakeWorld
		svc      *decisiontest.Fake
		recorder *actor.Recorder
		timed    *timedObserver
		display  *fakeDisplay
		cfg      actor.Config
		manager  *actor.Manager
		bodies   map[string]*fakeBody
	)

	start := func() {
		manager = actor.NewManager(fw.registry, svc, cfg,
			actor.WithManagerObserver(recorder),
			actor.WithManagerObserver(timed),
		)
	}

	spawn := func(id, name string, pos world.Point, decisionDriven bool) *actor.Handle {
		a := newTestActor(GinkgoT(), id, name, pos)
		a.DecisionDriven = decisionDriven
		b := fw.body(a)
		bodies[id] = b
		h, err := manager.Spawn(context.Background(), a, actor.Body{Provider: b, Mover: b, Display: display})
		Expect(err).NotTo(HaveOccurred())
		return h
	}

	BeforeEach(func() {
		fw = newFakeWorld(GinkgoT())
		svc = &decisiontest.Fake{}
		recorder = &actor.Recorder{}
		timed = newTimedObserver()
		display = &fakeDisplay{}
		bodies = map[string]*fakeBody{}
		cfg = fastConfig()
		cfg.DecisionInterval = 20 * time.Millisecond
	})

	AfterEach(func() {
		if manager == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		Expect(manager.Shutdown(ctx)).To(Succeed())
		manager = nil
	})

	Describe("an occupied bathroom", func() {
		BeforeEach(func() {
			cfg.MaxWait = 5 * time.Second
			Expect(fw.registry.NotifyArrival("npc_b", "Bathroom")).To(Succeed())
			svc.Then(decision.Result{Target: bathroomSpot, Summary: "Going to the bathroom"}, nil)
			start()
		})

		It("announces, waits nearby and enters once the occupant leaves", func() {
			spawn("npc_a", "Ada", world.Point{}, true)

			Eventually(func() []action.Kind {
				return kinds(recorder.Started("npc_a"))
			}).WithTimeout(2 * time.Second).Should(Equal([]action.Kind{action.KindSpeak, action.KindMove, action.KindWait}))

			Expect(display.Pages()).To(ContainElement("The Bathroom is occupied. I'll wait nearby."))
			Eventually(func() float64 {
				return bodies["npc_a"].CurrentPosition().Distance(bathroomSpot)
			}).Should(BeNumerically("~", 2.5, 1e-9))
			Consistently(func() actor.State {
				h, _ := manager.Handle("npc_a")
				return h.Runner().State()
			}).WithDuration(50 * time.Millisecond).Should(Equal(actor.StateProcessingQueue))

			loc, ok := fw.registry.NotifyDeparture("npc_b")
			Expect(ok).To(BeTrue())
			Expect(loc).To(Equal("Bathroom"))

			Eventually(func() world.Point {
				return bodies["npc_a"].CurrentPosition()
			}).WithTimeout(2 * time.Second).Should(Equal(bathroomSpot))
			Eventually(func() string {
				loc, _ := fw.registry.Occupying("npc_a")
				return loc
			}).Should(Equal("Bathroom"))
			Expect(fw.registry.IsUnavailable("Bathroom", "npc_b")).To(BeTrue())

			// The queue only drains once the wait has walked the actor in.
			moves := bodies["npc_a"].Moves()
			Expect(len(moves)).To(BeNumerically(">=", 2))
			Expect(moves[1]).To(Equal(bathroomSpot))
			wait := recorder.Started("npc_a")[2]
			var entered time.Time
			Eventually(func() bool {
				var ok bool
				entered, ok = timed.finishedAt(wait)
				return ok
			}).Should(BeTrue())
			var drained time.Time
			Eventually(func() bool {
				var ok bool
				drained, ok = timed.firstTransition("npc_a", actor.StateProcessingQueue, actor.StateIdle)
				return ok
			}).Should(BeTrue())
			Expect(drained).NotTo(BeTemporally("<", entered))
		})
	})

	Describe("a bedroom whose owner is away", func() {
		BeforeEach(func() {
			cfg.MaxWait = 5 * time.Second
			Expect(fw.registry.Set("Bedroom_B", resource.OwnerAbsent)).To(Succeed())
			svc.Then(decision.Result{Target: bedroomSpot, Summary: "Going to Bedroom_B to borrow a book"}, nil)
			start()
		})

		It("waits outside until the owner is home", func() {
			spawn("npc_a", "Ada", world.Point{}, true)

			Eventually(display.Pages).WithTimeout(2 * time.Second).
				Should(ContainElement("Nobody's in the Bedroom_B. I'll wait outside."))
			Consistently(func() world.Point {
				return bodies["npc_a"].CurrentPosition()
			}).WithDuration(50 * time.Millisecond).ShouldNot(Equal(bedroomSpot))

			Expect(fw.registry.NotifyArrival("npc_b", "Bedroom_B")).To(Succeed())
			Eventually(func() world.Point {
				return bodies["npc_a"].CurrentPosition()
			}).WithTimeout(2 * time.Second).Should(Equal(bedroomSpot))
		})
	})

	Describe("a decision to chat with Dana", func() {
		danaPos := world.Point{X: 6, Y: 8}

		BeforeEach(func() {
			svc.Then(decision.Result{
				Target:  danaPos,
				Summary: "Going to chat with Dana about dinner",
				Drivers: map[string]bool{decision.DriverSocialConsidered: true},
			}, nil)
			svc.ConverseFunc = func(_ context.Context, req decision.DialogueRequest) (decision.DialogueResponse, error) {
				return decision.DialogueResponse{
					SessionID: "sess-dana",
					Turns: []decision.Turn{
						{SpeakerID: req.Participants[0].ID, SpeakerName: req.Participants[0].Name, Text: "Dinner tonight?"},
						{SpeakerID: req.Participants[1].ID, SpeakerName: req.Participants[1].Name, Text: "Sure, pasta."},
					},
				}, nil
			}
			start()
		})

		It("approaches to the initiation distance and talks", func() {
			spawn("npc_d", "Dana", danaPos, false)
			ada := spawn("npc_a", "Ada", world.Point{}, true)

			Eventually(func() int {
				return len(recorder.Started("npc_a"))
			}).WithTimeout(2 * time.Second).Should(BeNumerically(">=", 3))

			started := recorder.Started("npc_a")
			Expect(kinds(started[:3])).To(Equal([]action.Kind{action.KindSpeak, action.KindMove, action.KindCallback}))
			Expect(started[0].(*action.Speak).Text).To(Equal("Going to chat with Dana about dinner"))
			Expect(started[1].(*action.Move).Target.Distance(danaPos)).
				To(BeNumerically("~", cfg.WithDefaults().InitiationDistance, 1e-9))

			Eventually(ada.Runner().History().Len).Should(Equal(2))
			peer, ok := manager.Peer("npc_d")
			Expect(ok).To(BeTrue())
			Eventually(peer.History.Len).Should(Equal(2))
			Eventually(display.Pages).Should(ContainElement("Dana: Sure, pasta."))
		})
	})

	Describe("a wait that never ends", func() {
		BeforeEach(func() {
			cfg.MaxWait = 150 * time.Millisecond
			cfg.RecheckInterval = 25 * time.Millisecond
			Expect(fw.registry.NotifyArrival("npc_b", "Bathroom")).To(Succeed())
			svc.Then(decision.Result{Target: bathroomSpot, Summary: "Going to the bathroom"}, nil)
			start()
		})

		It("gives up at the ceiling and re-evaluates with a reason", func() {
			spawn("npc_a", "Ada", world.Point{}, true)

			Eventually(func() int { return len(svc.Snapshots()) }).
				WithTimeout(2 * time.Second).Should(BeNumerically(">=", 2))
			next := svc.Snapshots()[1]
			Expect(next.Trigger).To(Equal(decision.TriggerReevaluation))
			Expect(next.Reason).NotTo(BeEmpty())

			var wait action.Item
			for _, it := range recorder.Started("npc_a") {
				if it.Kind() == action.KindWait {
					wait = it
				}
			}
			Expect(wait).NotTo(BeNil())
			d, ok := timed.duration(wait)
			Expect(ok).To(BeTrue())
			// Scheduling jitter on busy machines gets a little extra room.
			Expect(d).To(BeNumerically(">=", cfg.MaxWait-cfg.RecheckInterval))
			Expect(d).To(BeNumerically("<=", cfg.MaxWait+cfg.RecheckInterval+50*time.Millisecond))
		})
	})

	Describe("every decision", func() {
		summaries := []string{
			"Going to the kitchen to cook",
			"Wander around",
			"Wait near the Bathroom",
			"Going to chat with Nobody",
			"",
		}

		BeforeEach(func() {
			for _, s := range summaries {
				svc.Then(decision.Result{Target: kitchenSpot, Summary: s}, nil)
			}
			start()
		})

		It("produces at least one item and drains in order", func() {
			spawn("npc_a", "Ada", world.Point{}, true)

			Eventually(func() int { return len(svc.Snapshots()) }).
				WithTimeout(3 * time.Second).Should(BeNumerically(">", len(summaries)))

			events := recorder.Events("npc_a")
			decisions := 0
			var open action.Item
			for _, e := range events {
				switch e.Op {
				case "start":
					Expect(open).To(BeNil())
					open = e.Item
				case "finish":
					Expect(open).NotTo(BeNil())
					Expect(e.Item.ID()).To(Equal(open.ID()))
					open = nil
				case "state":
					if e.To == actor.StateProcessingQueue {
						decisions++
					}
				}
			}
			Expect(decisions).To(BeNumerically(">=", len(summaries)))
		})
	})

	Describe("teardown", func() {
		BeforeEach(func() {
			cfg.DecisionInterval = time.Hour
			start()
		})

		It("releases the bathroom and drops late results", func() {
			h := spawn("npc_a", "Ada", bathroomSpot, true)
			Expect(fw.registry.Relocate("npc_a", bathroomSpot)).To(BeTrue())
			Expect(fw.registry.IsUnavailable("Bathroom", "npc_b")).To(BeTrue())

			h.Cancel()
			Eventually(h.Done()).Should(BeClosed())

			_, occupying := fw.registry.Occupying("npc_a")
			Expect(occupying).To(BeFalse())
			Expect(fw.registry.IsUnavailable("Bathroom", "npc_b")).To(BeFalse())
			Expect(bodies["npc_a"].Stops()).To(BeNumerically(">=", 1))

			// A second departure is a no-op.
			_, again := fw.registry.NotifyDeparture("npc_a")
			Expect(again).To(BeFalse())
		})

		It("rejects a live duplicate and frees the id once stopped", func() {
			h := spawn("npc_a", "Ada", world.Point{}, false)

			dup := newTestActor(GinkgoT(), "npc_a", "Ada again", world.Point{})
			b := fw.body(dup)
			_, err := manager.Spawn(context.Background(), dup, actor.Body{Provider: b, Mover: b, Display: display})
			Expect(err).To(errutil.HaveErrorCode(actor.CodeDuplicateActor))

			h.Cancel()
			Eventually(h.Done()).Should(BeClosed())
			Eventually(manager.IDs).ShouldNot(ContainElement("npc_a"))

			_, err = manager.Spawn(context.Background(), dup, actor.Body{Provider: b, Mover: b, Display: display})
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
