package config

import "time"

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = true

	DefaultDBPath = "storage.db"

	DefaultServerAddr = ":3000"

	DefaultF5AIBaseURL = "https://api.f5ai.ru/v2"
	DefaultF5AITimeout = 30 * time.Second

	DefaultModel        = "gpt-4o-mini"
	DefaultWhisperModel = "whisper-1"
	DefaultImageModel   = "dall-e-3"
	DefaultImageSize    = "1024x1024"
	DefaultTTSModel     = "tts-1"
	DefaultTTSVoice     = "alloy"

	DefaultMainInstruction = "Ты — Koloau, универсальный AI ассистент. Ты дружелюбен и помогаешь пользователям. Описывай фото, слушай голос и отвечай на вопросы."
)

// DefaultMessages keeps the original Russian wording of the user-facing texts.
var DefaultMessages = MessagesConfig{
	Welcome:      "Привет! Я Koloau. 🚀🎨🔊\n\nЯ не только чат-бот, но и творческая студия!\n\n🖌 /image <запрос> — сгенерировать картинку\n🔊 /tts <текст> — озвучить сообщение\n\nТвоя текущая модель: *%s*\n\nВыбери категорию моделей для смены:",
	GeneralError: "Упс, что-то пошло не так.",
	BotError:     "Извините, произошла ошибка при общении с ИИ.",
	ImageUsage:   "Введите запрос: /image котик в космосе",
	ImageError:   "Ошибка генерации картинки.",
	TTSUsage:     "Введите текст: /tts Привет, как дела?",
	TTSError:     "Ошибка синтеза речи.",
	NoBots:       "У тебя пока нет созданных ботов. Создай первого на сайте!",
	ModelSet:     "✅ Готово! Теперь я отвечаю через *%s*.",
}
