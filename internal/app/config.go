package app

import (
	"github.com/vladislavdragonenkov/warehouse/internal/messaging/kafka"
)

// Config описывает настройки запуска демо-приложения.
type Config struct {
	// PostgresDSN — строка подключения; пустая выбирает in-memory хранилище.
	PostgresDSN string
	// PostgresEnsureSchema создаёт таблицы при старте, если их ещё нет.
	PostgresEnsureSchema bool
	// KafkaBrokers — брокеры для уведомлений; пустой список выбирает уведомления в лог.
	KafkaBrokers []string
	KafkaTopic   string
	// MetricsAddr — адрес HTTP для /metrics и health checks; пустой не запускает сервер.
	MetricsAddr string
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		PostgresEnsureSchema: true,
		KafkaTopic:           kafka.TopicOrderEvents,
	}
}

// UsesPostgres сообщает, выбран ли PostgreSQL в качестве хранилища.
func (c Config) UsesPostgres() bool {
	return c.PostgresDSN != ""
}
