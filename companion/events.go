package companion

import (
	"regexp"
	"strings"

	"github.com/solenne-ai/cadenza/logging"
)

// LifecycleEvent names the conversation milestones that drive the
// emotion machine. This stream is independent of the audio path but
// shares its rate-limiting discipline.
type LifecycleEvent string

const (
	EventUserInputStarted    LifecycleEvent = "user-input-started"
	EventAIThinking          LifecycleEvent = "ai-thinking"
	EventAISpeakingStarted   LifecycleEvent = "ai-speaking-started"
	EventAIResponseTextChunk LifecycleEvent = "ai-response-text-chunk"
	EventAIResponseFinished  LifecycleEvent = "ai-response-finished"
	EventError               LifecycleEvent = "error"
)

// avatarDirective matches the emotion tag collaborators may embed in
// response text, e.g. "[AVATAR: excited]"
var avatarDirective = regexp.MustCompile(`\[AVATAR:\s*([a-zA-Z_]+)\s*\]`)

// keywordEmotions maps response phrasing to the emotion it suggests.
// Ordered so scanning is deterministic; the first hit wins.
var keywordEmotions = []struct {
	keyword string
	emotion Emotion
}{
	{"congrat", EmotionCelebrating},
	{"well done", EmotionCelebrating},
	{"sing", EmotionSinging},
	{"danc", EmotionDancing},
	{"love", EmotionLoving},
	{"amazing", EmotionExcited},
	{"wow", EmotionSurprised},
	{"curious", EmotionCurious},
	{"wonder", EmotionCurious},
	{"sorry", EmotionConcerned},
	{"proud", EmotionProud},
	{"fun", EmotionPlayful},
	{"happy", EmotionHappy},
	{"glad", EmotionHappy},
	{"tired", EmotionSleepy},
}

// ExtractAvatarDirective strips any [AVATAR: name] tags from text and
// returns the cleaned text plus the first recognized emotion. ok is
// false when no tag names a known emotion; tags are stripped from the
// display text either way.
func ExtractAvatarDirective(text string) (cleaned string, emotion Emotion, ok bool) {
	matches := avatarDirective.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text, "", false
	}

	cleaned = avatarDirective.ReplaceAllString(text, "")
	for _, match := range matches {
		if e := Emotion(strings.ToLower(match[1])); e.IsValid() {
			return cleaned, e, true
		}
	}
	return cleaned, "", false
}

// EmotionForText scans response text for emotion keywords
func EmotionForText(text string) (Emotion, bool) {
	lower := strings.ToLower(text)
	for _, ke := range keywordEmotions {
		if strings.Contains(lower, ke.keyword) {
			return ke.emotion, true
		}
	}
	return "", false
}

// EventRouter translates lifecycle events into emotion requests
type EventRouter struct {
	machine *EmotionStateMachine
	logger  logging.Logger
}

// NewEventRouter creates a router driving the given machine
func NewEventRouter(machine *EmotionStateMachine, logger logging.Logger) *EventRouter {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &EventRouter{machine: machine, logger: logger}
}

// Handle routes one lifecycle event. For text chunks it returns the
// display text with directives stripped; other events return text
// unchanged. Errors force through the dwell window.
func (r *EventRouter) Handle(event LifecycleEvent, text string) string {
	switch event {
	case EventUserInputStarted:
		r.machine.Request(EmotionListening, false)

	case EventAIThinking:
		r.machine.Request(EmotionThinking, false)

	case EventAISpeakingStarted:
		r.machine.Request(EmotionTalking, false)

	case EventAIResponseTextChunk:
		cleaned, directive, ok := ExtractAvatarDirective(text)
		if ok {
			r.logger.Debug("avatar directive", logging.Fields{"emotion": string(directive)})
			r.machine.Request(directive, false)
		} else if emotion, found := EmotionForText(cleaned); found {
			r.machine.Request(emotion, false)
		}
		return cleaned

	case EventAIResponseFinished:
		r.machine.Request(EmotionListening, false)

	case EventError:
		r.logger.Debug("error event", logging.Fields{"detail": text})
		r.machine.Request(EmotionConcerned, true)
	}

	return text
}
