package get_available_slots

import (
	"time"

	"github.com/avkuzn/Salon-BookingBot/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ChatID    int64     // ID чата клиента (для логирования, не влияет на результат)
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени, в таймзоне салона)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time // Дата, на которую запрашивались слоты
	ServiceID int64     // ID услуги
	Slots     []Slot    // Список доступных слотов
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Локальное время начала слота (например, "10:00")
	StartAt         time.Time        // Момент начала слота в UTC
	DurationMinutes int              // Длительность услуги в минутах
}
