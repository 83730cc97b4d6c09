package companion

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/solenne-ai/cadenza/audio"
	"github.com/solenne-ai/cadenza/companion/config"
	"github.com/solenne-ai/cadenza/logging"
)

// Transcriber turns a finished utterance into text
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float64, sampleRate int) (transcript string, confidence float64, err error)
}

// Chatter streams a collaborator reply. onChunk runs once per text
// chunk; Chat returns after the collaborator's done marker or an error.
type Chatter interface {
	Chat(ctx context.Context, prompt string, window []ConversationTurn, onChunk func(text string)) error
}

// Publisher pushes envelopes to the presentation layer. Push-only;
// nothing downstream can mutate engine state.
type Publisher interface {
	Publish(event string, payload any)
}

// Presentation event names
const (
	EventAudioAnalysis     = "audio-analysis"
	EventCompanionAnalysis = "companion-analysis"
	EventEmotionChanged    = "emotion-changed"
	EventInfo              = "info"
	EventErrorNotice       = "error"
)

// Notice is the payload for informational and error envelopes
type Notice struct {
	Message string `json:"message"`
}

// Engine runs one session's analysis loop. Every tick it pulls the
// freshest frame, extracts features, classifies, and publishes; frames
// arriving between ticks are superseded, never queued. Collaborator
// work runs on its own goroutines and feeds back through lifecycle
// events only.
type Engine struct {
	cfg *config.Config

	source      *audio.FrameSource
	extractor   *FeatureExtractor
	pitch       *PitchTracker
	activity    *ActivityClassifier
	content     *ContentClassifier
	analyzer    *CompanionAnalyzer
	emotions    *EmotionStateMachine
	router      *EventRouter
	transcriber Transcriber
	chatter     Chatter
	convo       *Conversation
	publisher   Publisher
	logger      logging.Logger

	classifying   atomic.Bool
	sessionActive atomic.Bool

	mu      sync.Mutex
	history []AudioAnalysis
}

// NewEngine assembles a session engine. transcriber, chatter and
// publisher may be nil for analysis-only runs.
func NewEngine(cfg *config.Config, source *audio.FrameSource, transcriber Transcriber, chatter Chatter, publisher Publisher, logger logging.Logger) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	if source == nil {
		source = audio.NewFrameSource(cfg.Engine.SampleRate)
	}

	e := &Engine{
		cfg:         cfg,
		source:      source,
		extractor:   NewFeatureExtractor(cfg.Engine.SampleRate),
		pitch:       NewPitchTracker(cfg.Engine.SampleRate, cfg.Pitch),
		activity:    NewActivityClassifier(cfg.Activity.VolumeThreshold, cfg.Activity.SilenceTimeout()),
		content:     NewContentClassifier(),
		analyzer:    NewCompanionAnalyzer(),
		transcriber: transcriber,
		chatter:     chatter,
		convo:       NewConversation(cfg.Collab.ConversationWindow),
		publisher:   publisher,
		logger:      logger,
	}

	e.emotions = NewEmotionStateMachine(cfg.Emotion.MinimumDwell(), e.sessionActive.Load, func(state EmotionState) {
		logger.Debug("emotion changed", logging.Fields{"emotion": string(state.Emotion)})
		if publisher != nil {
			publisher.Publish(EventEmotionChanged, state)
		}
	})
	e.router = NewEventRouter(e.emotions, logger)
	return e
}

// Run drives the analysis loop until ctx is cancelled. Cancellation
// stops the ticker and tears down the emotion machine.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.Engine.TickInterval())
	defer ticker.Stop()
	defer e.emotions.Close()

	e.logger.Info("analysis loop started", logging.Fields{
		"tick_interval": e.cfg.Engine.TickInterval().String(),
		"sample_rate":   e.cfg.Engine.SampleRate,
	})

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("analysis loop stopped")
			return ctx.Err()
		case now := <-ticker.C:
			e.tick(ctx, now)
		}
	}
}

// Source returns the frame source feeding this engine
func (e *Engine) Source() *audio.FrameSource {
	return e.source
}

// Emotion returns the current presentation emotion
func (e *Engine) Emotion() EmotionState {
	return e.emotions.Current()
}

// HandleEvent feeds an external lifecycle event to the emotion flow,
// returning display text with any avatar directives stripped
func (e *Engine) HandleEvent(event LifecycleEvent, text string) string {
	return e.router.Handle(event, text)
}

// History returns deep copies of the retained analyses, oldest first
func (e *Engine) History() []AudioAnalysis {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]AudioAnalysis, len(e.history))
	for i, analysis := range e.history {
		out[i] = analysis.Clone()
	}
	return out
}

// Latest returns the newest retained analysis
func (e *Engine) Latest() (AudioAnalysis, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.history) == 0 {
		return AudioAnalysis{}, false
	}
	return e.history[len(e.history)-1].Clone(), true
}

// tick analyzes the freshest frame. A missing frame or failed
// extraction skips the tick without logging noise at 10 Hz.
func (e *Engine) tick(ctx context.Context, now time.Time) {
	frame, ok := e.source.Frame()
	if !ok {
		return
	}
	fv, ok := e.extractor.Extract(frame)
	if !ok {
		return
	}

	pitch := e.pitch.Track(frame.Samples)
	classification := e.content.Classify(fv, pitch)
	summary := e.analyzer.Analyze(fv, classification)

	e.activity.SetBusy(e.classifying.Load())
	update := e.activity.Update(fv.RMS, frame.Samples, now)
	e.sessionActive.Store(update.State != ActivityIdle)

	analysis := AudioAnalysis{
		Timestamp:   now,
		Volume:      fv.RMS,
		Features:    fv,
		Pitch:       pitch.Stable,
		ContentType: classification.Type,
		Voice:       classification.Voice,
		Instrument:  classification.Instrument,
	}
	e.pushHistory(analysis)

	if e.publisher != nil {
		e.publisher.Publish(EventAudioAnalysis, analysis.Clone())
		e.publisher.Publish(EventCompanionAnalysis, summary.Clone())
	}

	if update.Started {
		e.router.Handle(EventUserInputStarted, "")
	}
	if update.Boundary {
		e.handleUtterance(ctx, update.Segment, frame.SampleRate)
	}
}

// handleUtterance reacts to a finished segment. Classification work
// happens off the loop; the busy flag keeps a new session from
// starting until it lands.
func (e *Engine) handleUtterance(ctx context.Context, segment []float64, sampleRate int) {
	if len(segment) == 0 {
		e.publishInfo("segment contained no audio")
		return
	}
	if e.transcriber == nil {
		return
	}

	e.classifying.Store(true)
	go e.classifySegment(ctx, segment, sampleRate)
}

// classifySegment runs the transcribe-then-chat collaboration for one
// utterance on its own goroutine
func (e *Engine) classifySegment(ctx context.Context, segment []float64, sampleRate int) {
	defer e.classifying.Store(false)

	transcript, confidence, err := e.transcriber.Transcribe(ctx, segment, sampleRate)
	if err != nil {
		e.collabError(fmt.Errorf("transcribe segment: %w", err))
		return
	}
	if strings.TrimSpace(transcript) == "" {
		e.publishInfo("no speech recognized in segment")
		return
	}

	e.logger.Info("utterance transcribed", logging.Fields{
		"transcript": transcript,
		"confidence": confidence,
	})
	e.convo.AddUser(transcript)
	e.router.Handle(EventAIThinking, "")

	if e.chatter == nil {
		return
	}

	var reply strings.Builder
	spoke := false
	err = e.chatter.Chat(ctx, transcript, e.convo.Window(), func(chunk string) {
		if !spoke {
			spoke = true
			e.router.Handle(EventAISpeakingStarted, "")
		}
		cleaned := e.router.Handle(EventAIResponseTextChunk, chunk)
		reply.WriteString(cleaned)
	})
	if err != nil {
		e.collabError(fmt.Errorf("chat completion: %w", err))
		return
	}

	e.router.Handle(EventAIResponseFinished, "")
	e.convo.AddAssistant(reply.String())
}

// collabError surfaces a collaborator failure without killing the
// session: user-visible error envelope plus a forced concerned emotion
func (e *Engine) collabError(err error) {
	e.logger.Error(err, "collaborator failure")
	if e.publisher != nil {
		e.publisher.Publish(EventErrorNotice, Notice{Message: err.Error()})
	}
	e.router.Handle(EventError, err.Error())
}

func (e *Engine) publishInfo(message string) {
	e.logger.Debug(message)
	if e.publisher != nil {
		e.publisher.Publish(EventInfo, Notice{Message: message})
	}
}

func (e *Engine) pushHistory(analysis AudioAnalysis) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = append(e.history, analysis)
	if max := e.cfg.Engine.HistorySize; max > 0 && len(e.history) > max {
		e.history = append(e.history[:0], e.history[len(e.history)-max:]...)
	}
}
