package services

import (
	"math/rand"
	"strings"
)

// Canned peer-counselor replies for the simulated chat, grouped by the
// topic the student's message appears to touch.

const crisisReply = "I'm really concerned about what you're sharing. It sounds like you're going through a very difficult time. Please know that you're not alone, and there are people who want to help. Would it be okay if we talked about connecting you with professional support right now?"

const crisisSupportPrompt = "If you're in immediate distress, please reach out right now: National Crisis Hotline 1553, Legazpi City Emergency 911, or UST-Legazpi Security (052) 482-0203. You don't have to go through this alone."

var academicReplies = []string{
	"Academic pressure can be really overwhelming. What specific aspect of your studies is causing you the most stress?",
	"It sounds like you're dealing with a lot of academic pressure. Have you tried breaking down your tasks into smaller, manageable goals?",
	"Academic stress is very common among students. Let's talk about some strategies that might help you manage it better.",
}

var socialReplies = []string{
	"Social situations can feel really challenging. What specific social situations make you feel most anxious?",
	"It's understandable to feel anxious around people sometimes. Can you tell me more about when these feelings are strongest?",
	"Many students struggle with social anxiety. You're definitely not alone in feeling this way.",
}

var generalReplies = []string{
	"I understand how you're feeling. That sounds really challenging.",
	"Can you tell me more about what's been on your mind?",
	"It's completely normal to feel that way. You're not alone.",
	"What do you think might help you feel better about this situation?",
	"Have you considered talking to someone close to you about this?",
	"Let's explore some strategies that might help you cope with these feelings.",
	"Thank you for sharing that with me. It takes courage to open up.",
	"How has this been affecting your daily life?",
	"What are some things that usually help you feel better?",
	"Would you like to talk about some coping strategies?",
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// pickCounselorReply chooses a simulated reply for the student's message.
func (s *CounselingService) pickCounselorReply(message string) string {
	lowered := strings.ToLower(message)
	switch {
	case s.crisis.Scan(message):
		return crisisReply
	case containsAny(lowered, "exam", "study", "grade", "academic"):
		return academicReplies[rand.Intn(len(academicReplies))]
	case containsAny(lowered, "social", "friend", "people", "anxiety"):
		return socialReplies[rand.Intn(len(socialReplies))]
	default:
		return generalReplies[rand.Intn(len(generalReplies))]
	}
}
