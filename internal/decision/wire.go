// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package decision

import (
	"time"

	"github.com/hearthsim/hearth/internal/world"
)

// Wire types for the decision service's JSON contract.

type thinkRequest struct {
	NPCID         string            `json:"npc_id"`
	Name          string            `json:"name,omitempty"`
	ModelOverride string            `json:"model_override,omitempty"`
	Position      world.Point       `json:"current_npc_position"`
	GameTime      world.TimeReading `json:"current_game_time"`
	Nearby        []entityInfo      `json:"nearby_entities"`
	Landmarks     []landmarkInfo    `json:"visible_landmarks"`
	Bounds        world.Rect        `json:"scene_boundaries"`
	Recent        string            `json:"recent_dialogue_summary_for_movement,omitempty"`
}

type entityInfo struct {
	NPCID      string  `json:"npc_id"`
	Name       string  `json:"name,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	EntityType string  `json:"entity_type"`
}

type landmarkInfo struct {
	Name     string      `json:"landmark_name"`
	Position world.Point `json:"position"`
	Type     string      `json:"landmark_type_tag,omitempty"`
	OwnerID  string      `json:"owner_id,omitempty"`
	Notes    []string    `json:"current_status_notes"`
}

// thinkResponse is the movement decision reply. Its JSON schema is generated
// from this struct and every reply is validated against it.
type thinkResponse struct {
	NPCID     string          `json:"npc_id"`
	Name      string          `json:"name,omitempty" jsonschema:"nullable"`
	Reasoning string          `json:"llm_full_reasoning_text"`
	Summary   string          `json:"chosen_action_summary" jsonschema:"minLength=1"`
	Target    world.Point     `json:"target_destination"`
	Drivers   map[string]bool `json:"primary_decision_drivers"`
	Emotion   *emotionInfo    `json:"updated_emotional_state_snapshot,omitempty" jsonschema:"nullable"`
	ElapsedMS float64         `json:"api_processing_time_ms"`
}

type emotionInfo struct {
	Primary   string     `json:"primary_emotion"`
	Intensity float64    `json:"intensity" jsonschema:"minimum=0,maximum=1"`
	MoodTags  []string   `json:"mood_tags,omitempty" jsonschema:"nullable"`
	ChangedAt *time.Time `json:"last_significant_change_at,omitempty" jsonschema:"nullable"`
	Reason    string     `json:"reason_for_last_change,omitempty" jsonschema:"nullable"`
}

type interactionRequest struct {
	Objects    []interactingObject `json:"interacting_objects"`
	Scene      string              `json:"scene_context_description,omitempty"`
	GameTime   *world.TimeReading  `json:"game_time_context,omitempty"`
	MaxTurns   int                 `json:"max_turns_per_object"`
	ContinueID string              `json:"interaction_id_to_continue,omitempty"`
}

type interactingObject struct {
	NPCID   string `json:"npc_id"`
	Name    string `json:"name,omitempty"`
	Emotion string `json:"emotional_state_input,omitempty"`
}

// interactionResponse is the sub-dialogue reply.
type interactionResponse struct {
	SessionID string         `json:"interaction_session_id" jsonschema:"minLength=1"`
	History   []dialogueTurn `json:"dialogue_history"`
	ElapsedMS float64        `json:"total_api_processing_time_ms"`
}

type dialogueTurn struct {
	NPCID      string    `json:"npc_id"`
	Name       string    `json:"name,omitempty" jsonschema:"nullable"`
	Message    string    `json:"message_original_language"`
	Translated string    `json:"message_translated_zh_tw,omitempty" jsonschema:"nullable"`
	Model      string    `json:"model_used"`
	At         time.Time `json:"timestamp_api_generated,omitempty"`
	Tone       string    `json:"llm_generated_emotional_tone,omitempty" jsonschema:"nullable"`
}

// Dialogue turn limits accepted by the service.
const (
	minTurnsPerObject = 1
	maxTurnsPerObject = 5
)

// maxRecentSummary is the service's limit on the recent-dialogue field.
const maxRecentSummary = 1024
