package models

import "strings"

// Mode is the tone the generator writes in.
type Mode string

// TaskType is the kind of line the generator produces.
type TaskType string

// StreamKind is the broadcast context the line should fit.
type StreamKind string

// Lang selects the output language.
type Lang string

const (
	ModeFunny     Mode = "funny"
	ModeMotivator Mode = "motivator"
	ModeSerious   Mode = "serious"
	ModeChill     Mode = "chill"
	ModeUrban     Mode = "urban"
	ModeEdgy      Mode = "edgy"

	TaskTypeTask     TaskType = "task"
	TaskTypeQuestion TaskType = "question"
	TaskTypeBanter   TaskType = "banter"

	StreamJustChatting StreamKind = "just_chatting"
	StreamIRL          StreamKind = "irl"
	StreamOther        StreamKind = "other"

	LangEN Lang = "en"
	LangRU Lang = "ru"
	LangES Lang = "es"
)

// Defaults used when a request carries an unknown value. Garbage input
// normalizes instead of erroring so stale overlay pages keep working.
const (
	DefaultMode       = ModeMotivator
	DefaultTaskType   = TaskTypeTask
	DefaultStreamKind = StreamJustChatting
	DefaultLang       = LangEN
)

// NormalizeMode maps arbitrary input to a known mode.
func NormalizeMode(v string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(v))) {
	case ModeFunny, ModeMotivator, ModeSerious, ModeChill, ModeUrban, ModeEdgy:
		return Mode(strings.ToLower(strings.TrimSpace(v)))
	}
	return DefaultMode
}

// NormalizeTaskType maps arbitrary input to a known task type. Older
// overlay builds send "challenge", "joke" and "just_talk".
func NormalizeTaskType(v string) TaskType {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "question":
		return TaskTypeQuestion
	case "banter", "joke", "just_talk":
		return TaskTypeBanter
	}
	return TaskTypeTask
}

// NormalizeStreamKind maps arbitrary input to a known stream kind.
// "gaming", "music" and "cooking" collapse into the mixed context.
func NormalizeStreamKind(v string) StreamKind {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "irl":
		return StreamIRL
	case "just_chat", "just_chatting":
		return StreamJustChatting
	}
	return StreamOther
}

// NormalizeLang maps arbitrary input to a supported language.
func NormalizeLang(v string) Lang {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "ru":
		return LangRU
	case "es":
		return LangES
	}
	return LangEN
}
