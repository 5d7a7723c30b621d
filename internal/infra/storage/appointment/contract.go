package appointment

import "github.com/avkuzn/Salon-BookingBot/pkg/txmanager"

// Переиспользуем интерфейс исполнителя запросов из txmanager:
// репозиторий одинаково работает с *sql.DB и транзакцией из контекста
type DBExecutor = txmanager.DBExecutor
