// Package services bundles the long-lived collaborators that screens and
// commands share, so constructors take one value instead of many.
package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/assistant"
	"github.com/abhisek/studymate/internal/quiz"
	"github.com/abhisek/studymate/internal/sources"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/transcript"
)

// Services holds the shared dependencies of the client.
type Services struct {
	API      api.Service
	Identity store.IdentityRepo
	History  store.HistoryRepo // nil disables transcript history
	Quiz     quiz.Config
	Language string
	Log      *zap.Logger

	// UploadParallel bounds concurrent source uploads; 0 uses the default.
	UploadParallel int
}

// IdentityChangedMsg is broadcast after sign-in or sign-out so the frame
// can update the header.
type IdentityChangedMsg struct {
	Identity store.Identity
}

// Logger returns the configured logger or a no-op one.
func (s *Services) Logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// CurrentIdentity loads the stored identity, falling back to guest.
func (s *Services) CurrentIdentity(ctx context.Context) store.Identity {
	if s.Identity == nil {
		return store.Identity{UserID: store.GuestUserID}
	}
	id, err := s.Identity.Load(ctx)
	if err != nil {
		s.Logger().Warn("load identity", zap.Error(err))
		return store.Identity{UserID: store.GuestUserID}
	}
	return id
}

// Conversation is one chat run: its transcript, the quiz coordinator
// writing into it, and the assistant routing input between them.
type Conversation struct {
	RunID      string
	Transcript *transcript.Log
	Quiz       *quiz.Coordinator
	Assistant  *assistant.Assistant
}

// NewConversation starts a fresh run. Its entries are persisted to the
// history repo when one is configured.
func (s *Services) NewConversation() *Conversation {
	runID := uuid.NewString()
	log := s.Logger().With(zap.String("run_id", runID))

	var sink transcript.Sink
	if s.History != nil {
		sink = store.NewTranscriptSink(s.History, runID, log)
	}
	tr := transcript.NewLog(sink)
	q := quiz.New(s.API, tr, s.Quiz, log)

	return &Conversation{
		RunID:      runID,
		Transcript: tr,
		Quiz:       q,
		Assistant:  assistant.New(s.API, q, tr, s.Language, log),
	}
}

// Sources returns a sources manager over the API.
func (s *Services) Sources() *sources.Manager {
	return sources.New(s.API, s.UploadParallel, s.Logger())
}
