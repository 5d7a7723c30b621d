package create_hold

import (
	"time"

	"github.com/avkuzn/Salon-BookingBot/pkg/types"
)

// Request модель запроса на создание удержания слота
type Request struct {
	ChatID      int64            // ID чата клиента (Telegram ID)
	ServiceID   int64            // ID услуги
	Date        time.Time        // Дата записи (без времени, в таймзоне салона)
	StartTime   types.TimeString // Локальное время начала слота (например, "11:30")
	Comment     *string          // Комментарий клиента (опционально)
	ClientPhone *string          // Телефон клиента (опционально)
}

// Response модель ответа с созданным удержанием
type Response struct {
	ID            int64            // ID созданной записи
	ChatID        int64            // ID чата клиента
	ServiceID     int64            // ID услуги
	Date          time.Time        // Дата записи
	StartTime     types.TimeString // Локальное время начала
	StartAt       time.Time        // Момент начала в UTC
	EndAt         time.Time        // Момент конца услуги в UTC
	Status        string           // Статус записи (всегда hold)
	HoldExpiresAt time.Time        // Момент истечения удержания в UTC

	// Снимок данных услуги на момент создания
	ServiceName     string  // Название услуги
	ServicePrice    float64 // Цена услуги
	DurationMinutes int     // Длительность в минутах
	BufferMinutes   int     // Буфер после услуги в минутах

	Comment     *string // Комментарий клиента
	ClientPhone *string // Телефон клиента

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
