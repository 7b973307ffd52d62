// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package decision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/hearthsim/hearth/internal/world"
)

// Service endpoints, relative to the base URL.
const (
	ThinkPath    = "/npc/think"
	DialoguePath = "/dialogue/game-interaction"
	HealthPath   = "/health"
)

// DefaultRequestTimeout bounds a single HTTP exchange.
const DefaultRequestTimeout = 60 * time.Second

// maxBodyBytes caps how much of a reply is read.
const maxBodyBytes = 1 << 20

// HTTPService implements Service against the decision service's JSON API.
type HTTPService struct {
	base        *url.URL
	client      *http.Client
	model       string
	translation bool
	logger      *slog.Logger
}

// HTTPOption configures an HTTPService.
type HTTPOption func(*HTTPService)

// WithHTTPClient sets the HTTP client. The default has DefaultRequestTimeout.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPService) {
		s.client = c
	}
}

// WithModel requests a specific model for every call.
func WithModel(model string) HTTPOption {
	return func(s *HTTPService) {
		s.model = model
	}
}

// WithTranslation makes dialogue turns use the service's translated text
// when it is present.
func WithTranslation(enabled bool) HTTPOption {
	return func(s *HTTPService) {
		s.translation = enabled
	}
}

// WithHTTPLogger sets the logger.
func WithHTTPLogger(l *slog.Logger) HTTPOption {
	return func(s *HTTPService) {
		s.logger = l
	}
}

// NewHTTPService creates a service client for baseURL.
func NewHTTPService(baseURL string, opts ...HTTPOption) (*HTTPService, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, oops.Code(CodeBadURL).With("url", baseURL).Wrapf(err, "invalid decision service url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, oops.Code(CodeBadURL).With("url", baseURL).Errorf("decision service url must be http or https")
	}
	s := &HTTPService{
		base:   u,
		client: &http.Client{Timeout: DefaultRequestTimeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Decide implements Service.
func (s *HTTPService) Decide(ctx context.Context, snap Snapshot) (Result, error) {
	var resp thinkResponse
	if err := s.post(ctx, ThinkPath, thinkRequestFrom(snap, s.model), thinkSchema, &resp); err != nil {
		return Result{}, err
	}

	res := Result{
		Target:    resp.Target,
		Summary:   strings.TrimSpace(resp.Summary),
		Reasoning: resp.Reasoning,
		Drivers:   resp.Drivers,
	}
	if resp.Emotion != nil {
		e := world.EmotionalState{
			Primary:   resp.Emotion.Primary,
			Intensity: resp.Emotion.Intensity,
			MoodTags:  resp.Emotion.MoodTags,
		}
		if resp.Emotion.ChangedAt != nil {
			e.ChangedAt = *resp.Emotion.ChangedAt
		}
		e = e.Normalized()
		res.Emotion = &e
	}
	return res, nil
}

// Converse implements Service.
func (s *HTTPService) Converse(ctx context.Context, req DialogueRequest) (DialogueResponse, error) {
	if len(req.Participants) == 0 {
		return DialogueResponse{}, oops.Code(CodeMalformed).Errorf("dialogue needs at least one participant")
	}
	body := interactionRequest{
		Scene:      req.Scene,
		MaxTurns:   min(maxTurnsPerObject, max(minTurnsPerObject, req.MaxTurns)),
		ContinueID: req.SessionID,
	}
	if !req.Time.Timestamp.IsZero() {
		t := req.Time
		body.GameTime = &t
	}
	for _, p := range req.Participants {
		body.Objects = append(body.Objects, interactingObject{
			NPCID:   p.ID,
			Name:    p.Name,
			Emotion: p.Emotion.Primary,
		})
	}

	var resp interactionResponse
	if err := s.post(ctx, DialoguePath, body, interactionSchema, &resp); err != nil {
		return DialogueResponse{}, err
	}

	out := DialogueResponse{SessionID: resp.SessionID}
	for _, t := range resp.History {
		text := t.Message
		if s.translation && t.Translated != "" {
			text = t.Translated
		}
		out.Turns = append(out.Turns, Turn{
			SpeakerID:   t.NPCID,
			SpeakerName: t.Name,
			Text:        text,
			At:          t.At,
		})
	}
	return out, nil
}

// Ping checks that the service answers its health endpoint.
func (s *HTTPService) Ping(ctx context.Context) error {
	endpoint := s.base.JoinPath(HealthPath).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ErrTransport(endpoint, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return ErrTransport(endpoint, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode/100 != 2 {
		return ErrStatus(endpoint, resp.StatusCode, "")
	}
	return nil
}

func (s *HTTPService) post(ctx context.Context, path string, in any, sch schemaFunc, out any) error {
	endpoint := s.base.JoinPath(path).String()

	payload, err := json.Marshal(in)
	if err != nil {
		return oops.Code(CodeMalformed).With("endpoint", endpoint).Wrapf(err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return ErrTransport(endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return ErrTransport(endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return ErrTransport(endpoint, err)
	}
	s.logger.DebugContext(ctx, "decision service replied",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode/100 != 2 {
		return ErrStatus(endpoint, resp.StatusCode, truncate(string(body), 256))
	}
	if err := validatePayload(sch, body, out); err != nil {
		return ErrMalformed(endpoint, err)
	}
	return nil
}

func thinkRequestFrom(snap Snapshot, model string) thinkRequest {
	req := thinkRequest{
		NPCID:         snap.ActorID,
		Name:          snap.ActorName,
		ModelOverride: model,
		Position:      snap.Position,
		GameTime:      snap.Time,
		Nearby:        make([]entityInfo, 0, len(snap.Nearby)),
		Landmarks:     make([]landmarkInfo, 0, len(snap.Locations)),
		Bounds:        snap.Bounds,
		Recent:        recentSummary(snap),
	}
	for _, a := range snap.Nearby {
		kind := a.Kind
		if kind == "" {
			kind = "npc"
		}
		req.Nearby = append(req.Nearby, entityInfo{
			NPCID:      a.ID,
			Name:       a.Name,
			X:          a.Position.X,
			Y:          a.Position.Y,
			EntityType: kind,
		})
	}
	for _, l := range snap.Locations {
		notes := make([]string, 0, len(l.Notes)+len(l.Tags))
		notes = append(notes, l.Notes...)
		notes = append(notes, l.Tags...)
		req.Landmarks = append(req.Landmarks, landmarkInfo{
			Name:     l.Name,
			Position: l.Position,
			Type:     l.Type.String(),
			OwnerID:  l.OwnerID,
			Notes:    notes,
		})
	}
	return req
}

// recentSummary folds the re-evaluation reason and social hint in front of
// the conversation window. The service has no dedicated fields for them.
func recentSummary(snap Snapshot) string {
	var head []string
	if snap.Reason != "" {
		head = append(head, "Re-evaluating: "+snap.Reason)
	}
	if snap.SocialHint != "" {
		head = append(head, fmt.Sprintf("You feel like chatting with %s.", snap.SocialHint))
	}
	prefix := strings.Join(head, "\n")
	budget := maxRecentSummary - len(prefix)
	if prefix != "" {
		budget--
	}
	if budget <= 0 {
		return truncate(prefix, maxRecentSummary)
	}
	turns := Summarize(snap.RecentTurns, budget)
	switch {
	case prefix == "":
		return turns
	case turns == "":
		return prefix
	default:
		return prefix + "\n" + turns
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
