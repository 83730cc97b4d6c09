package companion

import (
	"testing"
	"time"
)

func TestExtractAvatarDirective(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text        string
		wantCleaned string
		wantEmotion Emotion
		wantOK      bool
	}{
		{"plain text", "hello there", "hello there", "", false},
		{"directive", "hello [AVATAR: excited] there", "hello  there", EmotionExcited, true},
		{"uppercase name", "[AVATAR: HAPPY]done", "done", EmotionHappy, true},
		{"extra whitespace", "[AVATAR:  singing ]", "", EmotionSinging, true},
		{"unknown stripped", "[AVATAR: bogus] hi", " hi", "", false},
		{"first valid wins", "[AVATAR: bogus][AVATAR: dancing]go", "go", EmotionDancing, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, emotion, ok := ExtractAvatarDirective(tt.text)
			if cleaned != tt.wantCleaned {
				t.Errorf("cleaned = %q, want %q", cleaned, tt.wantCleaned)
			}
			if emotion != tt.wantEmotion {
				t.Errorf("emotion = %q, want %q", emotion, tt.wantEmotion)
			}
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestEmotionForText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want Emotion
		ok   bool
	}{
		{"Congratulations, you nailed it", EmotionCelebrating, true},
		{"WELL DONE", EmotionCelebrating, true},
		{"I wonder what comes next", EmotionCurious, true},
		{"that was amazing", EmotionExcited, true},
		{"I love your singing", EmotionSinging, true}, // earlier keyword wins
		{"nothing notable here", "", false},
	}
	for _, tt := range tests {
		got, ok := EmotionForText(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("EmotionForText(%q) = %q, %v, want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRouterLifecycleEvents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		event LifecycleEvent
		want  Emotion
	}{
		{EventUserInputStarted, EmotionListening},
		{EventAIThinking, EmotionThinking},
		{EventAISpeakingStarted, EmotionTalking},
		{EventAIResponseFinished, EmotionListening},
		{EventError, EmotionConcerned},
	}
	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			m := NewEmotionStateMachine(time.Hour, nil, nil)
			defer m.Close()
			r := NewEventRouter(m, nil)

			if got := r.Handle(tt.event, "detail"); got != "detail" {
				t.Errorf("Handle returned %q, want text unchanged", got)
			}
			if got := m.Current(); got.Emotion != tt.want {
				t.Errorf("Current = %q, want %q", got.Emotion, tt.want)
			}
		})
	}
}

func TestRouterTextChunkDirective(t *testing.T) {
	t.Parallel()

	m := NewEmotionStateMachine(time.Hour, nil, nil)
	defer m.Close()
	r := NewEventRouter(m, nil)

	got := r.Handle(EventAIResponseTextChunk, "Nice! [AVATAR: proud]")
	if got != "Nice! " {
		t.Errorf("Handle returned %q, want %q", got, "Nice! ")
	}
	if cur := m.Current(); cur.Emotion != EmotionProud {
		t.Errorf("Current = %q, want %q", cur.Emotion, EmotionProud)
	}
}

func TestRouterTextChunkKeywordFallback(t *testing.T) {
	t.Parallel()

	m := NewEmotionStateMachine(time.Hour, nil, nil)
	defer m.Close()
	r := NewEventRouter(m, nil)

	got := r.Handle(EventAIResponseTextChunk, "that was amazing")
	if got != "that was amazing" {
		t.Errorf("Handle returned %q, want text unchanged", got)
	}
	if cur := m.Current(); cur.Emotion != EmotionExcited {
		t.Errorf("Current = %q, want %q", cur.Emotion, EmotionExcited)
	}
}

func TestRouterTextChunkUnknownDirective(t *testing.T) {
	t.Parallel()

	m := NewEmotionStateMachine(time.Hour, nil, nil)
	defer m.Close()
	r := NewEventRouter(m, nil)

	got := r.Handle(EventAIResponseTextChunk, "[AVATAR: bogus] ok")
	if got != " ok" {
		t.Errorf("Handle returned %q, want directive stripped", got)
	}
	if cur := m.Current(); cur.Emotion != EmotionNeutral {
		t.Errorf("Current = %q, want %q", cur.Emotion, EmotionNeutral)
	}
}

func TestRouterErrorForcesThroughDwell(t *testing.T) {
	t.Parallel()

	m := NewEmotionStateMachine(time.Hour, nil, nil)
	defer m.Close()
	r := NewEventRouter(m, nil)

	r.Handle(EventUserInputStarted, "")
	r.Handle(EventError, "upstream failed")

	if cur := m.Current(); cur.Emotion != EmotionConcerned {
		t.Errorf("Current = %q, want %q", cur.Emotion, EmotionConcerned)
	}
}
