// ABOUTME: Conversation engine driving the insurance purchase state machine
// ABOUTME: One inbound event in, ordered outbound actions out, session mutations in between

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quillcover/polisbot/internal/extract"
	"github.com/quillcover/polisbot/internal/metrics"
	"github.com/quillcover/polisbot/internal/narrative"
	"github.com/quillcover/polisbot/internal/policy"
	"github.com/quillcover/polisbot/internal/session"
)

// EventKind tags an inbound event as free text or a binary attachment.
type EventKind string

const (
	EventText       EventKind = "text"
	EventAttachment EventKind = "attachment"
)

// Event is one inbound transport event for one user.
type Event struct {
	Kind          EventKind
	Text          string // set when Kind == EventText
	AttachmentRef string // set when Kind == EventAttachment
}

// ActionKind tags an outbound action.
type ActionKind string

const (
	ActionSendText ActionKind = "send_text"
	ActionSendFile ActionKind = "send_file"
)

// Action is one outbound effect the transport must execute, in order.
type Action struct {
	Kind     ActionKind
	Text     string // ActionSendText
	Filename string // ActionSendFile
	Data     []byte // ActionSendFile
	Caption  string // ActionSendFile
}

func sendText(text string) Action {
	return Action{Kind: ActionSendText, Text: text}
}

// Confirmation vocabularies. Matching is case-insensitive substring search;
// the affirmative list is checked first, so a message containing tokens from
// both lists resolves as affirmative.
var (
	affirmativeWords = []string{"yes", "correct", "confirm", "agree", "accept"}
	negativeWords    = []string{"no", "incorrect", "wrong", "disagree", "decline"}
)

// Engine is the conversation state machine. It consumes one event per call,
// reads and writes the session store, calls the extraction and narrative
// adapters and the policy assembler, and emits the outbound actions the
// transport must perform.
type Engine struct {
	sessions     *session.Store
	extractor    extract.Extractor
	generator    narrative.Generator
	assembler    *policy.Assembler
	resetCommand string
	logger       *slog.Logger
}

// New creates an Engine. resetCommand is the exact (case-insensitive) text
// that restarts the flow from any stage, e.g. "/start".
func New(sessions *session.Store, extractor extract.Extractor, generator narrative.Generator, assembler *policy.Assembler, resetCommand string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		sessions:     sessions,
		extractor:    extractor,
		generator:    generator,
		assembler:    assembler,
		resetCommand: resetCommand,
		logger:       logger.With("component", "engine"),
	}
}

// HandleEvent processes one inbound event for one user and returns the
// outbound actions in the order they must be sent.
//
// The user's session lock is held for the entire call, including adapter
// calls, so a concurrent event for the same user cannot observe a half-done
// multi-step sequence. Other users are unaffected.
func (e *Engine) HandleEvent(ctx context.Context, userKey string, evt Event) []Action {
	release := e.sessions.Acquire(userKey)
	defer release()

	metrics.EventsHandled.WithLabelValues(string(evt.Kind)).Inc()

	sess := e.sessions.Get(userKey)
	e.logger.Debug("handling event",
		"user", userKey,
		"kind", evt.Kind,
		"stage", sess.Stage)

	if evt.Kind == EventText && strings.EqualFold(strings.TrimSpace(evt.Text), e.resetCommand) {
		return e.reset(ctx, userKey)
	}

	switch evt.Kind {
	case EventText:
		return e.handleText(ctx, userKey, sess.Stage, evt.Text)
	case EventAttachment:
		return e.handleAttachment(ctx, userKey, sess.Stage, evt.AttachmentRef)
	default:
		return []Action{sendText(msgUnsupportedInput)}
	}
}

// reset starts (or restarts) the flow: welcome, then passport request.
func (e *Engine) reset(ctx context.Context, userKey string) []Action {
	welcome := e.generateOr(ctx, topicWelcome, msgWelcomeFallback)
	request := e.generateOr(ctx, topicPassportRequest, msgPassportRequestFallback)
	e.sessions.SetStage(userKey, session.StageAwaitingPassport)
	e.logger.Info("flow started", "user", userKey)
	return []Action{sendText(welcome), sendText(request)}
}

// handleText dispatches a free-text event against the current stage. Any
// text that does not match an expected transition leaves the stage unchanged
// and produces exactly one clarifying message.
func (e *Engine) handleText(ctx context.Context, userKey string, stage session.Stage, text string) []Action {
	lower := strings.ToLower(text)

	switch stage {
	case session.StageConfirmingData:
		// Affirmative checked before negative: ambiguous answers confirm.
		if containsAny(lower, affirmativeWords) {
			prompt := e.generateOr(ctx, topicPriceDisclosure, msgPriceFallback)
			e.sessions.SetStage(userKey, session.StageConfirmingPrice)
			return []Action{sendText(prompt)}
		}
		if containsAny(lower, negativeWords) {
			e.sessions.SetStage(userKey, session.StageAwaitingPassport)
			return []Action{sendText(msgResubmitDocuments)}
		}
		return []Action{sendText(msgConfirmDataYesNo)}

	case session.StageConfirmingPrice:
		if containsAny(lower, affirmativeWords) {
			return e.finalize(ctx, userKey)
		}
		if containsAny(lower, negativeWords) {
			return []Action{sendText(msgPriceIsFixed)}
		}
		return []Action{sendText(msgConfirmPriceYesNo)}

	case session.StageCompleted:
		return []Action{sendText(msgAlreadyCompleted)}

	case session.StageAwaitingPassport, session.StageAwaitingVehicleDoc:
		return []Action{sendText(msgExpectingPhoto)}

	default:
		return []Action{sendText(msgClarify)}
	}
}

// handleAttachment dispatches an attachment event against the current stage.
func (e *Engine) handleAttachment(ctx context.Context, userKey string, stage session.Stage, ref string) []Action {
	switch stage {
	case session.StageAwaitingPassport:
		e.sessions.SetPassportRef(userKey, ref)
		e.sessions.SetStage(userKey, session.StageAwaitingVehicleDoc)
		e.logger.Info("passport received", "user", userKey)
		return []Action{sendText(msgPassportReceived)}

	case session.StageAwaitingVehicleDoc:
		e.sessions.SetVehicleDocRef(userKey, ref)
		return e.extractAndPresent(ctx, userKey)

	case session.StageCompleted:
		return []Action{sendText(msgAlreadyCompleted)}

	default:
		return []Action{sendText(msgUnexpectedPhoto)}
	}
}

// extractAndPresent runs both document extractions, stores the merged record,
// and asks the user to confirm the summary. Vehicle extraction is attempted
// even if passport extraction fails, so one pass surfaces every problem. Each
// extraction is retried once; if either still fails the user is asked to
// resend both documents and the flow returns to awaiting the passport.
func (e *Engine) extractAndPresent(ctx context.Context, userKey string) []Action {
	sess := e.sessions.Get(userKey)
	actions := []Action{sendText(msgProcessingDocuments)}

	identity, idErr := e.extractIdentityWithRetry(ctx, sess.PassportRef)
	vehicle, vehErr := e.extractVehicleWithRetry(ctx, sess.VehicleDocRef)

	if idErr != nil || vehErr != nil {
		metrics.ExtractionFailures.Inc()
		e.logger.Warn("document extraction failed",
			"user", userKey,
			"passport_error", idErr,
			"vehicle_error", vehErr)
		e.sessions.SetStage(userKey, session.StageAwaitingPassport)
		return append(actions, sendText(msgExtractionFailed))
	}

	rec := &session.Record{
		FullName:       identity.FullName,
		DateOfBirth:    identity.DateOfBirth,
		PassportNumber: identity.PassportNumber,
		VehicleMake:    vehicle.Make,
		VehicleModel:   vehicle.Model,
		VehicleYear:    vehicle.Year,
		VehiclePlate:   vehicle.Plate,
	}
	e.sessions.SetCaptured(userKey, rec)
	e.sessions.SetStage(userKey, session.StageConfirmingData)
	e.logger.Info("documents extracted", "user", userKey, "insured", rec.FullName)

	return append(actions, sendText(summaryMessage(rec)))
}

func (e *Engine) extractIdentityWithRetry(ctx context.Context, ref string) (extract.IdentityRecord, error) {
	rec, err := e.extractor.ExtractIdentity(ctx, ref)
	if err == nil {
		return rec, nil
	}
	e.logger.Debug("passport extraction failed, retrying", "error", err)
	return e.extractor.ExtractIdentity(ctx, ref)
}

func (e *Engine) extractVehicleWithRetry(ctx context.Context, ref string) (extract.VehicleRecord, error) {
	rec, err := e.extractor.ExtractVehicle(ctx, ref)
	if err == nil {
		return rec, nil
	}
	e.logger.Debug("vehicle extraction failed, retrying", "error", err)
	return e.extractor.ExtractVehicle(ctx, ref)
}

// finalize assembles the policy, delivers it as a file, and closes the flow.
// Missing captured data should be unreachable given the transition table; it
// produces an error message without corrupting state.
func (e *Engine) finalize(ctx context.Context, userKey string) []Action {
	rec := e.sessions.GetCaptured(userKey)
	if rec == nil {
		e.logger.Error("finalize reached without captured data", "user", userKey)
		return []Action{sendText(msgDataMissing)}
	}

	body := e.generateOr(ctx, policyTopic(rec), "")
	pol := e.assembler.Assemble(rec, body)

	e.sessions.SetStage(userKey, session.StageCompleted)
	metrics.PoliciesIssued.Inc()
	e.logger.Info("policy issued",
		"user", userKey,
		"policy_number", pol.Number,
		"valid_until", pol.EndDate)

	closing := e.generateOr(ctx, topicClosing, msgClosingFallback)
	return []Action{
		sendText(msgPolicyReady),
		{
			Kind:     ActionSendFile,
			Filename: policy.Filename(userKey, pol.StartDate),
			Data:     []byte(pol.Body),
			Caption:  "Your Car Insurance Policy",
		},
		sendText(closing),
	}
}

// generateOr asks the narrative generator for text and substitutes the
// fallback when nothing was produced. Generator failures are never
// user-visible.
func (e *Engine) generateOr(ctx context.Context, topic, fallback string) string {
	text, err := e.generator.Generate(ctx, topic)
	if err != nil || text == "" {
		if err != nil {
			e.logger.Debug("narrative generation failed", "error", err)
		}
		metrics.NarrativeFallbacks.Inc()
		return fallback
	}
	return text
}

// containsAny reports whether any vocabulary word occurs in the text.
func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// policyTopic builds the generation instruction for the policy body.
func policyTopic(rec *session.Record) string {
	return fmt.Sprintf(
		"Generate a car insurance policy document, plain text only, for %s for a %s %s %s with license plate %s. The policy costs %d USD and is valid for one year from today.",
		rec.FullName, rec.VehicleYear, rec.VehicleMake, rec.VehicleModel, rec.VehiclePlate, policy.PremiumUSD)
}

// summaryMessage formats every captured field for user confirmation.
func summaryMessage(rec *session.Record) string {
	return fmt.Sprintf(
		"I've extracted the following information from your documents:\n\n"+
			"👤 Full Name: %s\n"+
			"🎂 Date of Birth: %s\n"+
			"🆔 Passport Number: %s\n"+
			"🚗 Vehicle: %s %s (%s)\n"+
			"🔢 License Plate: %s\n\n"+
			"Is this information correct? Please reply with 'yes' or 'no'.",
		rec.FullName, rec.DateOfBirth, rec.PassportNumber,
		rec.VehicleMake, rec.VehicleModel, rec.VehicleYear,
		rec.VehiclePlate)
}
