package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darasa/darasa-client/core"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const welcomeText = "Hi! I'm your AI learning assistant. How can I help you today?"

type (
	Message struct {
		ID        string    `json:"id"`
		Content   string    `json:"content"`
		Role      string    `json:"role"`
		Timestamp time.Time `json:"timestamp"`
	}

	ChatRequest struct {
		Text      string `json:"text" validate:"required"`
		MaxTokens int    `json:"maxTokens,omitempty"`
	}

	// State is the externally observable chat snapshot.
	State struct {
		Messages []Message
		IsOpen   bool
		IsTyping bool
		Error    string
	}

	// API is the slice of the remote REST API this store drives.
	API interface {
		Chat(ctx context.Context, req ChatRequest) (string, error)
	}

	Service struct {
		api API
		log core.Logger

		mu    sync.Mutex
		state State
	}
)

func NewService(api API, log core.Logger) *Service {
	return &Service{api: api, log: log, state: initialState()}
}

func initialState() State {
	return State{
		Messages: []Message{{
			ID:        "welcome",
			Content:   welcomeText,
			Role:      RoleAssistant,
			Timestamp: time.Now(),
		}},
	}
}

// State returns a snapshot; mutating it has no effect on the store.
func (svc *Service) State() State {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	st := svc.state
	st.Messages = append([]Message(nil), svc.state.Messages...)
	return st
}

// Send appends the user's message and asks the assistant for a reply.
func (svc *Service) Send(ctx context.Context, req ChatRequest) error {
	if err := core.Validate.Struct(req); err != nil {
		return core.TranslateValidationErrors(err)
	}

	svc.mu.Lock()
	svc.state.Messages = append(svc.state.Messages, Message{
		ID:        uuid.NewString(),
		Content:   req.Text,
		Role:      RoleUser,
		Timestamp: time.Now(),
	})
	svc.state.IsTyping = true
	svc.state.Error = ""
	svc.mu.Unlock()

	reply, err := svc.api.Chat(ctx, req)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state.IsTyping = false
	if err != nil {
		svc.state.Error = core.ErrorMessage(err, "Failed to connect to AI")
		return err
	}
	svc.state.Messages = append(svc.state.Messages, Message{
		ID:        uuid.NewString(),
		Content:   reply,
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	})
	return nil
}

func (svc *Service) Toggle() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state.IsOpen = !svc.state.IsOpen
}

func (svc *Service) Open() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state.IsOpen = true
}

func (svc *Service) Close() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state.IsOpen = false
}

func (svc *Service) ClearError() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state.Error = ""
}

// Reset restores the initial conversation.
func (svc *Service) Reset() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	open := svc.state.IsOpen
	svc.state = initialState()
	svc.state.IsOpen = open
}
