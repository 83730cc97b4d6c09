package collab

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/solenne-ai/cadenza/companion"
	"github.com/solenne-ai/cadenza/companion/config"
	"github.com/solenne-ai/cadenza/logging"
)

// Chat stream frame types
const (
	chatFrameChunk = "chunk"
	chatFrameDone  = "done"
	chatFrameError = "error"
)

// chatRequest opens an exchange: the prompt plus the recent
// conversation window for context
type chatRequest struct {
	Prompt string                       `json:"prompt"`
	Window []companion.ConversationTurn `json:"window,omitempty"`
}

// chatFrame is one inbound frame of the reply stream
type chatFrame struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// ChatClient streams replies from the chat collaborator. Each exchange
// opens its own WebSocket: prompt out, text chunks in, closed after the
// done marker.
type ChatClient struct {
	url    string
	tokens *TokenIssuer
	dialer *websocket.Dialer
	logger logging.Logger
}

// NewChatClient creates a client for the configured collaborator
func NewChatClient(cfg config.CollabConfig, logger logging.Logger) *ChatClient {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &ChatClient{
		url:    cfg.ChatURL,
		tokens: NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL()),
		dialer: websocket.DefaultDialer,
		logger: logger,
	}
}

// Chat runs one exchange, invoking onChunk for every text chunk until
// the done marker arrives. Context cancellation closes the connection
// and surfaces as a read error.
func (cc *ChatClient) Chat(ctx context.Context, prompt string, window []companion.ConversationTurn, onChunk func(text string)) error {
	header := make(http.Header)
	if err := cc.tokens.Authorize(header); err != nil {
		return fmt.Errorf("authorize chat request: %w", err)
	}

	conn, _, err := cc.dialer.DialContext(ctx, cc.url, header)
	if err != nil {
		return fmt.Errorf("dial chat collaborator: %w", err)
	}
	defer conn.Close()

	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-finished:
		}
	}()

	if err := conn.WriteJSON(chatRequest{Prompt: prompt, Window: window}); err != nil {
		return fmt.Errorf("send prompt: %w", err)
	}

	chunks := 0
	for {
		var frame chatFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("chat stream cancelled: %w", ctx.Err())
			}
			return fmt.Errorf("read chat stream: %w", err)
		}

		switch frame.Type {
		case chatFrameChunk:
			chunks++
			if onChunk != nil {
				onChunk(frame.Text)
			}
		case chatFrameDone:
			cc.logger.Debug("chat stream finished", logging.Fields{"chunks": chunks})
			return nil
		case chatFrameError:
			return fmt.Errorf("chat collaborator: %s", frame.Error)
		default:
			// Tolerate frames added by newer collaborators
		}
	}
}
