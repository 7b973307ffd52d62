// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hearthsim/hearth/internal/action"
	"github.com/hearthsim/hearth/internal/actor"
	"github.com/hearthsim/hearth/internal/decision"
	"github.com/hearthsim/hearth/internal/decision/decisiontest"
	"github.com/hearthsim/hearth/internal/world"
	"github.com/hearthsim/hearth/pkg/errutil"
)

type managerEnv struct {
	world    *fakeWorld
	svc      *decisiontest.Fake
	recorder *actor.Recorder
	display  *fakeDisplay
	manager  *actor.Manager
}

func newManagerEnv(t *testing.T, cfg actor.Config) *managerEnv {
	t.Helper()
	env := &managerEnv{
		world:    newFakeWorld(t),
		svc:      &decisiontest.Fake{},
		recorder: &actor.Recorder{},
		display:  &fakeDisplay{},
	}
	env.manager = actor.NewManager(env.world.registry, env.svc, cfg,
		actor.WithManagerObserver(env.recorder),
		actor.WithManagerClock(world.ClockFunc(func() time.Time {
			return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		})),
		actor.WithSeed(7),
	)
	return env
}

func (e *managerEnv) spawn(t *testing.T, a *world.Actor) *actor.Handle {
	t.Helper()
	body := e.world.body(a)
	h, err := e.manager.Spawn(context.Background(), a, actor.Body{Provider: body, Mover: body, Display: e.display})
	require.NoError(t, err)
	return h
}

func (e *managerEnv) shutdown(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, e.manager.Shutdown(ctx))
}

func TestManager_SpawnRejectsDuplicatesAndInvalidActors(t *testing.T) {
	defer goleak.VerifyNone(t)

	env := newManagerEnv(t, fastConfig())
	env.spawn(t, newTestActor(t, "npc_a", "Ada", world.Point{}))

	dup := newTestActor(t, "npc_a", "Another Ada", world.Point{X: 1})
	body := env.world.body(dup)
	_, err := env.manager.Spawn(context.Background(), dup, actor.Body{Provider: body, Mover: body})
	errutil.AssertErrorCode(t, err, actor.CodeDuplicateActor)

	_, err = env.manager.Spawn(context.Background(), nil, actor.Body{})
	errutil.AssertErrorCode(t, err, actor.CodeInvalidActor)

	_, err = env.manager.Spawn(context.Background(), &world.Actor{ID: "", Name: "Nobody"}, actor.Body{Provider: body, Mover: body})
	errutil.AssertErrorCode(t, err, actor.CodeInvalidActor)

	assert.Equal(t, []string{"npc_a"}, env.manager.IDs())
	env.shutdown(t)
}

func TestManager_ActorByName(t *testing.T) {
	defer goleak.VerifyNone(t)

	env := newManagerEnv(t, fastConfig())
	env.spawn(t, newTestActor(t, "npc_a", "Ada Lovelace", world.Point{}))
	env.spawn(t, newTestActor(t, "npc_d", "Dana", world.Point{X: 6, Y: 8}))

	tests := []struct {
		query string
		want  string
		found bool
	}{
		{"Dana", "npc_d", true},
		{"dana", "npc_d", true},
		{"npc_a", "npc_a", true},
		{"ada lovelace", "npc_a", true},
		{"Ada", "npc_a", true},
		{"  Dana ", "npc_d", true},
		{"Lovelace", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			v, ok := env.manager.ActorByName(tt.query)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, v.ID)
		})
	}

	v, _ := env.manager.ActorByName("Dana")
	assert.Equal(t, world.Point{X: 6, Y: 8}, v.Position)
	env.shutdown(t)
}

func TestManager_PeerExposesEmotionAndHistory(t *testing.T) {
	defer goleak.VerifyNone(t)

	env := newManagerEnv(t, fastConfig())
	dana := newTestActor(t, "npc_d", "Dana", world.Point{X: 6, Y: 8})
	dana.Emotion = world.EmotionalState{Primary: "curious", Intensity: 0.8}
	env.spawn(t, dana)

	peer, ok := env.manager.Peer("npc_d")
	require.True(t, ok)
	assert.Equal(t, "Dana", peer.View.Name)
	assert.Equal(t, "curious", peer.Emotion.Primary)
	require.NotNil(t, peer.History)

	_, ok = env.manager.Peer("npc_x")
	assert.False(t, ok)
	env.shutdown(t)
}

func TestManager_StoppedActorIsForgotten(t *testing.T) {
	defer goleak.VerifyNone(t)

	env := newManagerEnv(t, fastConfig())
	h := env.spawn(t, newTestActor(t, "npc_a", "Ada", world.Point{}))
	_, ok := env.manager.Handle("npc_a")
	require.True(t, ok)

	stop(t, h)
	require.Eventually(t, func() bool {
		_, ok := env.manager.Handle("npc_a")
		return !ok
	}, waitFor, tick)

	// The ID is free again.
	env.spawn(t, newTestActor(t, "npc_a", "Ada", world.Point{}))
	env.shutdown(t)
}

func TestManager_SocialDecisionRunsDialogue(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := fastConfig()
	cfg.DecisionInterval = 20 * time.Millisecond
	env := newManagerEnv(t, cfg)

	danaPos := world.Point{X: 6, Y: 8}
	env.svc.Then(decision.Result{
		Target:  danaPos,
		Summary: "Going to chat with Dana",
		Drivers: map[string]bool{decision.DriverSocialDriven: true},
	}, nil)
	env.svc.ConverseFunc = func(_ context.Context, req decision.DialogueRequest) (decision.DialogueResponse, error) {
		return decision.DialogueResponse{
			SessionID: "sess-1",
			Turns: []decision.Turn{
				{SpeakerID: req.Participants[0].ID, SpeakerName: req.Participants[0].Name, Text: "Morning, Dana!"},
				{SpeakerID: req.Participants[1].ID, SpeakerName: req.Participants[1].Name, Text: "Morning! Tea?"},
			},
		}, nil
	}

	dana := newTestActor(t, "npc_d", "Dana", danaPos)
	dana.DecisionDriven = false
	dana.Emotion = world.EmotionalState{Primary: "sleepy", Intensity: 0.3}
	env.spawn(t, dana)
	ada := env.spawn(t, newTestActor(t, "npc_a", "Ada", world.Point{}))

	require.Eventually(t, func() bool {
		peer, ok := env.manager.Peer("npc_d")
		return ok && peer.History.Len() == 2 && ada.Runner().History().Len() == 2 &&
			slices.Contains(env.display.Pages(), "Dana: Morning! Tea?")
	}, waitFor, tick)
	env.shutdown(t)

	req := env.svc.Dialogues()[0]
	require.Len(t, req.Participants, 2)
	assert.Equal(t, "npc_a", req.Participants[0].ID)
	assert.Equal(t, "npc_d", req.Participants[1].ID)
	assert.Equal(t, "sleepy", req.Participants[1].Emotion.Primary)
	assert.Equal(t, cfg.WithDefaults().DialogueTurns, req.MaxTurns)
	assert.Equal(t, world.TimeMorning, req.Time.TimeOfDay)
	assert.Equal(t, "A small shared flat.", req.Scene)

	started := env.recorder.Started("npc_a")
	require.GreaterOrEqual(t, len(started), 3)
	move, ok := started[1].(*action.Move)
	require.True(t, ok)
	assert.InDelta(t, action.DefaultInitiationDistance, move.Target.Distance(danaPos), 1e-9)

	pages := env.display.Pages()
	assert.Contains(t, pages, "Ada: Morning, Dana!")
	assert.Contains(t, pages, "Dana: Morning! Tea?")
}

func TestManager_DialogueContinuesSession(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := fastConfig()
	cfg.InteractionCooldown = time.Millisecond
	env := newManagerEnv(t, cfg)
	env.svc.ConverseFunc = func(context.Context, decision.DialogueRequest) (decision.DialogueResponse, error) {
		return decision.DialogueResponse{SessionID: "sess-42"}, nil
	}

	danaPos := world.Point{X: 3, Y: 4}
	dana := newTestActor(t, "npc_d", "Dana", danaPos)
	dana.DecisionDriven = false
	env.spawn(t, dana)
	env.spawn(t, newTestActor(t, "npc_a", "Ada", world.Point{}))

	other := world.ActorView{ID: "npc_d", Name: "Dana", Position: danaPos}
	env.manager.NotifyProximity("npc_a", other)
	require.Eventually(t, func() bool { return len(env.svc.Dialogues()) == 1 }, waitFor, tick)
	require.Eventually(t, func() bool {
		h, _ := env.manager.Handle("npc_a")
		return h.Runner().State() == actor.StateIdle
	}, waitFor, tick)

	time.Sleep(5 * time.Millisecond)
	env.manager.NotifyProximity("npc_a", other)
	require.Eventually(t, func() bool { return len(env.svc.Dialogues()) == 2 }, waitFor, tick)
	env.shutdown(t)

	dialogues := env.svc.Dialogues()
	assert.Empty(t, dialogues[0].SessionID)
	assert.Equal(t, "sess-42", dialogues[1].SessionID)
}

func TestManager_ShutdownStopsEveryActor(t *testing.T) {
	defer goleak.VerifyNone(t)

	env := newManagerEnv(t, fastConfig())
	a := env.spawn(t, newTestActor(t, "npc_a", "Ada", world.Point{}))
	d := env.spawn(t, newTestActor(t, "npc_d", "Dana", world.Point{X: 2}))

	env.shutdown(t)
	for _, h := range []*actor.Handle{a, d} {
		select {
		case <-h.Done():
		default:
			t.Fatal("handle still running after shutdown")
		}
	}
	assert.Empty(t, env.manager.IDs())
}
