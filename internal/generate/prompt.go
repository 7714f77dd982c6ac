package generate

import (
	"strings"

	"github.com/Ibragim1996/stream-overlay/internal/models"
)

// PromptArgs is everything a single generation attempt is conditioned
// on.
type PromptArgs struct {
	Mode       models.Mode
	TaskType   models.TaskType
	StreamKind models.StreamKind
	Lang       models.Lang
	Recent     []string
	Name       string
}

// systemPrompt pins the output contract for every attempt.
const systemPrompt = "You generate one single-line output for a live stream overlay. " +
	"Keep it ≤140 chars, no quotes, no numbering, no emojis unless natural. TOS-safe."

const guardrail = "Stay TOS-safe: no slurs, hate, harassment, explicit sexual content, " +
	"dangerous acts, or glorifying illegal activity."

var toneByLang = map[models.Lang]map[models.Mode]string{
	models.LangEN: {
		models.ModeFunny:     "Playful, witty, no crudeness.",
		models.ModeMotivator: "Supportive, energizing.",
		models.ModeSerious:   "Concise and focused.",
		models.ModeChill:     "Relaxed, low-pressure.",
		models.ModeUrban:     "Modern street/urban slang vibe, TOS-safe (no slurs).",
		models.ModeEdgy:      "Sharper/roast-y but TOS-safe (no harassment).",
	},
	models.LangRU: {
		models.ModeFunny:     "Лёгкий юмор, остроумно, без пошлости.",
		models.ModeMotivator: "Поддерживай и заряжай энергией.",
		models.ModeSerious:   "Коротко, по делу, уверенно.",
		models.ModeChill:     "Расслабленно и ненавязчиво.",
		models.ModeUrban:     "Современный уличный сленг и ритм, TOS-safe (без оскорблений).",
		models.ModeEdgy:      "Острее/подначивание, но без травли и оскорблений (TOS-safe).",
	},
	models.LangES: {
		models.ModeFunny:     "Ligero y con humor, sin vulgaridad.",
		models.ModeMotivator: "Apoya y da energía.",
		models.ModeSerious:   "Conciso y directo.",
		models.ModeChill:     "Relajado y sin presión.",
		models.ModeUrban:     "Jerga urbana moderna, TOS-safe (sin insultos).",
		models.ModeEdgy:      "Más agudo/sarcástico, pero sin acoso (TOS-safe).",
	},
}

func toneInstruction(mode models.Mode, lang models.Lang) string {
	if tones, ok := toneByLang[lang]; ok {
		if t, ok := tones[mode]; ok {
			return t
		}
	}
	return toneByLang[models.LangEN][models.DefaultMode]
}

func audienceInstruction(taskType models.TaskType, lang models.Lang) string {
	if taskType == models.TaskTypeBanter {
		switch lang {
		case models.LangRU:
			return "Иногда обращайся к зрителям 1-2 словами (напр. «чат, как думаете?»)."
		case models.LangES:
			return "A veces dirígete a los espectadores en 1-2 palabras (p. ej., “chat, ¿qué opinan?”)."
		}
		return "Sometimes address the viewers in 1-2 words (e.g., “chat, thoughts?”)."
	}
	switch lang {
	case models.LangRU:
		return "Адресуй задание стримеру."
	case models.LangES:
		return "Dirige la tarea al streamer."
	}
	return "Address the task to the streamer."
}

func styleInstruction(taskType models.TaskType, lang models.Lang) string {
	switch taskType {
	case models.TaskTypeQuestion:
		switch lang {
		case models.LangRU:
			return "Дай 1 *живой* вопрос с эмоцией, без клише, до 140 символов, без нумерации, БЕЗ кавычек, только строка."
		case models.LangES:
			return "Da 1 pregunta *viva* con emoción, sin clichés, máx 140 caracteres, sin numeración, SIN comillas, solo una línea."
		}
		return "Give 1 *alive* question with emotion, no clichés, ≤140 chars, no numbering, NO quotes, one single line."
	case models.TaskTypeBanter:
		switch lang {
		case models.LangRU:
			return "Дай 1 реплику/подкол с юмором, до 140 символов, без нумерации и кавычек."
		case models.LangES:
			return "Da 1 línea/banter con humor, máx 140 caracteres, sin numeración ni comillas."
		}
		return "Give 1 banter line with humor, ≤140 chars, no numbering, no quotes."
	}
	switch lang {
	case models.LangRU:
		return "Дай 1 конкретное микро-задание для стримера, до 140 символов, без нумерации и кавычек."
	case models.LangES:
		return "Da 1 micro-tarea concreta para el streamer, máx 140 caracteres, sin numeración ni comillas."
	}
	return "Give 1 concrete micro-task for the streamer, ≤140 chars, no numbering, no quotes."
}

func streamInstruction(kind models.StreamKind, lang models.Lang) string {
	switch kind {
	case models.StreamIRL:
		switch lang {
		case models.LangRU:
			return "Контекст: IRL (на ходу/на улице)."
		case models.LangES:
			return "Contexto: IRL (en movimiento)."
		}
		return "Context: IRL (on the move)."
	case models.StreamJustChatting:
		switch lang {
		case models.LangRU:
			return "Контекст: Just Chatting (у стола, общение)."
		case models.LangES:
			return "Contexto: Just Chatting (a cámara)."
		}
		return "Context: Just Chatting (at desk)."
	}
	switch lang {
	case models.LangRU:
		return "Контекст: разное."
	case models.LangES:
		return "Contexto: variado."
	}
	return "Context: mixed."
}

func avoidInstruction(recent []string, lang models.Lang) string {
	if len(recent) == 0 {
		return ""
	}
	switch lang {
	case models.LangRU:
		return "Избегай повторов по смыслу с недавними: " + strings.Join(recent, "; ") + "."
	case models.LangES:
		return "Evita solaparte con recientes: " + strings.Join(recent, "; ") + "."
	}
	return "Avoid semantic duplicates of recent ones: " + strings.Join(recent, " | ")
}

func nameInstruction(name string, lang models.Lang) string {
	if name == "" {
		return ""
	}
	switch lang {
	case models.LangRU:
		return "Имя стримера: " + name + "."
	case models.LangES:
		return "Nombre del streamer: " + name + "."
	}
	return "Streamer name: " + name + "."
}

// BuildPrompt assembles the user prompt for one generation attempt.
func BuildPrompt(args PromptArgs) string {
	parts := []string{
		guardrail,
		toneInstruction(args.Mode, args.Lang),
		streamInstruction(args.StreamKind, args.Lang),
		audienceInstruction(args.TaskType, args.Lang),
		styleInstruction(args.TaskType, args.Lang),
		avoidInstruction(args.Recent, args.Lang),
		nameInstruction(args.Name, args.Lang),
	}

	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
