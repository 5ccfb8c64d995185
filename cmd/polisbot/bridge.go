// ABOUTME: Matrix bridge for polisbot
// ABOUTME: Maps Matrix messages to engine events and executes the engine's outbound actions

package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yuin/goldmark"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/quillcover/polisbot/internal/config"
	"github.com/quillcover/polisbot/internal/dedupe"
	"github.com/quillcover/polisbot/internal/engine"
)

// typingTimeout is the duration the typing indicator shows (30 seconds).
const typingTimeout = 30 * time.Second

// networkTimeout is the timeout for short Matrix API calls.
const networkTimeout = 10 * time.Second

// sendTimeout is the timeout for sending messages and uploading files.
const sendTimeout = 30 * time.Second

// Bridge connects Matrix rooms to the conversation engine. Each room is one
// user session; the engine serializes events per room, so the bridge can
// hand every event to a goroutine without breaking per-user ordering.
type Bridge struct {
	config *config.Config
	matrix *mautrix.Client
	engine *engine.Engine
	seen   *dedupe.Cache
	logger *slog.Logger

	// ctx is the parent context for message processing goroutines
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBridge creates a new Matrix bridge around an engine.
func NewBridge(cfg *config.Config, eng *engine.Engine, seen *dedupe.Cache, logger *slog.Logger) (*Bridge, error) {
	client, err := mautrix.NewClient(cfg.Matrix.Homeserver, id.UserID(cfg.Matrix.UserID), cfg.Matrix.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("creating matrix client: %w", err)
	}

	return &Bridge{
		config: cfg,
		matrix: client,
		engine: eng,
		seen:   seen,
		logger: logger.With("component", "bridge"),
	}, nil
}

// Run starts the bridge and blocks until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Info("starting matrix bridge",
		"homeserver", b.config.Matrix.Homeserver,
		"user_id", b.config.Matrix.UserID,
	)

	b.ctx, b.cancel = context.WithCancel(ctx)
	defer b.cancel()

	syncer, ok := b.matrix.Syncer.(*mautrix.DefaultSyncer)
	if !ok {
		return fmt.Errorf("unexpected syncer type: %T", b.matrix.Syncer)
	}
	syncer.OnEventType(event.EventMessage, b.handleMessageEvent)

	b.logger.Info("connecting to matrix homeserver")

	syncErr := make(chan error, 1)
	go func() {
		syncErr <- b.matrix.SyncWithContext(b.ctx)
	}()

	b.logger.Info("matrix bridge running")

	select {
	case <-ctx.Done():
		b.logger.Info("shutting down matrix bridge")
		b.cancel()
		return nil
	case err := <-syncErr:
		return fmt.Errorf("matrix sync failed: %w", err)
	}
}

// handleMessageEvent converts an incoming Matrix message into an engine event.
func (b *Bridge) handleMessageEvent(ctx context.Context, evt *event.Event) {
	// Ignore our own messages
	if evt.Sender == id.UserID(b.config.Matrix.UserID) {
		return
	}

	content, ok := evt.Content.Parsed.(*event.MessageEventContent)
	if !ok {
		return
	}

	roomID := evt.RoomID.String()
	if !b.isRoomAllowed(roomID) {
		b.logger.Debug("ignoring message from non-allowed room", "room", roomID)
		return
	}

	// Sync can redeliver events after reconnects; handle each once
	if b.seen.Seen(evt.ID.String()) {
		b.logger.Debug("dropping redelivered event", "event_id", evt.ID.String())
		return
	}

	var engineEvent engine.Event
	switch content.MsgType {
	case event.MsgText:
		engineEvent = engine.Event{Kind: engine.EventText, Text: content.Body}
	case event.MsgImage, event.MsgFile:
		engineEvent = engine.Event{Kind: engine.EventAttachment, AttachmentRef: string(content.URL)}
	default:
		b.sendMessage(evt.RoomID, "I can only process text messages and photos. Please try again.")
		return
	}

	b.logger.Info("received message",
		"room", roomID,
		"sender", evt.Sender.String(),
		"type", string(content.MsgType),
	)

	// Process off the sync loop; the engine's per-user lock keeps ordering
	go b.process(evt.RoomID, engineEvent)
}

// process runs one event through the engine and executes the resulting actions.
func (b *Bridge) process(roomID id.RoomID, evt engine.Event) {
	b.setTyping(roomID, true)
	defer b.setTyping(roomID, false)

	actions := b.engine.HandleEvent(b.ctx, roomID.String(), evt)

	for _, action := range actions {
		switch action.Kind {
		case engine.ActionSendText:
			b.sendMessage(roomID, action.Text)
		case engine.ActionSendFile:
			b.sendFile(roomID, action.Filename, action.Data, action.Caption)
		}
	}
}

// isRoomAllowed checks if the room is in the allowed list.
func (b *Bridge) isRoomAllowed(roomID string) bool {
	if len(b.config.Matrix.AllowedRooms) == 0 {
		return true // Allow all if no filter
	}

	for _, allowed := range b.config.Matrix.AllowedRooms {
		if allowed == roomID {
			return true
		}
	}
	return false
}

// setTyping sends a typing indicator to the room.
func (b *Bridge) setTyping(roomID id.RoomID, typing bool) {
	var timeout time.Duration
	if typing {
		timeout = typingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), networkTimeout)
	defer cancel()
	_, err := b.matrix.UserTyping(ctx, roomID, typing, timeout)
	if err != nil {
		b.logger.Debug("failed to set typing indicator", "room", roomID.String(), "error", err)
	}
}

// sendMessage sends a text message to a room, with a markdown-rendered HTML
// body so lists and emphasis display properly in rich clients.
func (b *Bridge) sendMessage(roomID id.RoomID, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	content := &event.MessageEventContent{
		MsgType: event.MsgText,
		Body:    text,
	}
	if html, err := renderHTML(text); err == nil {
		content.Format = event.FormatHTML
		content.FormattedBody = html
	}

	_, err := b.matrix.SendMessageEvent(ctx, roomID, event.EventMessage, content)
	if err != nil {
		b.logger.Error("failed to send message", "room", roomID.String(), "error", err)
	}
}

// sendFile writes the document to the policy directory, uploads it to the
// homeserver, and sends it as a file message with a caption.
func (b *Bridge) sendFile(roomID id.RoomID, filename string, data []byte, caption string) {
	localPath := filepath.Join(b.config.Bot.PolicyDir, filename)
	if err := os.WriteFile(localPath, data, 0644); err != nil {
		b.logger.Error("failed to write policy file", "path", localPath, "error", err)
		// Delivery through Matrix still proceeds
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	upload, err := b.matrix.UploadBytes(ctx, data, "text/plain")
	if err != nil {
		b.logger.Error("failed to upload file", "room", roomID.String(), "error", err)
		b.sendMessage(roomID, "Sorry, there was an error delivering your document. Please try again.")
		return
	}

	content := &event.MessageEventContent{
		MsgType:  event.MsgFile,
		Body:     filename,
		FileName: filename,
		URL:      upload.ContentURI.CUString(),
		Info: &event.FileInfo{
			MimeType: "text/plain",
			Size:     len(data),
		},
	}
	_, err = b.matrix.SendMessageEvent(ctx, roomID, event.EventMessage, content)
	if err != nil {
		b.logger.Error("failed to send file", "room", roomID.String(), "error", err)
		return
	}

	if caption != "" {
		b.sendMessage(roomID, caption)
	}
}

// renderHTML converts markdown-ish message text to HTML for formatted bodies.
func renderHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
