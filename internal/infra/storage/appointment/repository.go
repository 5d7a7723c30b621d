package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	"github.com/avkuzn/Salon-BookingBot/pkg/psqlbuilder"
	"github.com/avkuzn/Salon-BookingBot/pkg/txmanager"
)

// appointmentColumns полный список колонок таблицы appointments
var appointmentColumns = []string{
	"id",
	"chat_id",
	"service_id",
	"start_at",
	"end_at",
	"status",
	"hold_expires_at",
	"reminder_24h_sent",
	"reminder_2h_sent",
	"service_name",
	"service_price",
	"duration_minutes",
	"buffer_minutes",
	"comment",
	"client_phone",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись. Если в контексте есть активная транзакция,
// использует её - создание Hold всегда выполняется внутри сериализуемой
// транзакции вместе с повторной проверкой доступности слота.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := txmanager.Executor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"chat_id",
			"service_id",
			"start_at",
			"end_at",
			"status",
			"hold_expires_at",
			"service_name",
			"service_price",
			"duration_minutes",
			"buffer_minutes",
			"comment",
			"client_phone",
		).
		Values(
			a.ChatID,
			a.ServiceID,
			a.StartAt.UTC(),
			a.EndAt.UTC(),
			a.Status,
			nullableTime(a.HoldExpiresAt),
			a.ServiceName,
			a.ServicePrice,
			a.DurationMinutes,
			a.BufferMinutes,
			a.Comment,
			a.ClientPhone,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID.
// Внутри транзакции блокирует строку (FOR UPDATE) - используется
// сервисом переходов статуса для исключения гонок с maintenance-проходом.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := txmanager.Executor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return a, nil
}

// ListActiveInWindow получает все активные записи (booked, либо hold с
// неистекшим дедлайном), чьё занятое окно (включая буфер) пересекает
// полуоткрытый интервал [from, to). Внутри транзакции строки блокируются
// (FOR UPDATE) - это финальная защита от двух одновременных Hold на
// пересекающиеся окна.
func (r *Repository) ListActiveInWindow(ctx context.Context, from, to, now time.Time) ([]*domain.Appointment, error) {
	executor := txmanager.Executor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Or{
			squirrel.Eq{"status": domain.StatusBooked},
			squirrel.And{
				squirrel.Eq{"status": domain.StatusHold},
				squirrel.Gt{"hold_expires_at": now.UTC()},
			},
		}).
		// Полуоткрытые интервалы: касание границ пересечением не считается
		Where(squirrel.Expr(
			"start_at < ? AND (end_at + make_interval(mins => buffer_minutes)) > ?",
			to.UTC(), from.UTC(),
		)).
		OrderBy("start_at ASC")

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveInWindow - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveInWindow - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListExpiredHolds получает все заявки в статусе hold с истекшим дедлайном.
// Вызывается только внутри транзакции maintenance-прохода (FOR UPDATE).
func (r *Repository) ListExpiredHolds(ctx context.Context, now time.Time) ([]*domain.Appointment, error) {
	executor := txmanager.Executor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"status": domain.StatusHold}).
		Where(squirrel.NotEq{"hold_expires_at": nil}).
		Where(squirrel.Lt{"hold_expires_at": now.UTC()}).
		OrderBy("hold_expires_at ASC")

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredHolds - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredHolds - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListBookedBetween получает подтвержденные записи с началом в [from, to).
// Используется maintenance-проходом для окон напоминаний.
func (r *Repository) ListBookedBetween(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	executor := txmanager.Executor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"status": domain.StatusBooked}).
		Where(squirrel.GtOrEq{"start_at": from.UTC()}).
		Where(squirrel.Lt{"start_at": to.UTC()}).
		OrderBy("start_at ASC")

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookedBetween - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookedBetween - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListByChatID получает записи клиента. При activeOnly=true возвращаются
// только hold/booked, отсортированные по началу (ближайшие первыми).
func (r *Repository) ListByChatID(ctx context.Context, chatID int64, activeOnly bool) ([]*domain.Appointment, error) {
	executor := txmanager.Executor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"chat_id": chatID})

	if activeOnly {
		selectBuilder = selectBuilder.
			Where(squirrel.Eq{"status": domain.NonTerminalStatuses}).
			OrderBy("start_at ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("start_at DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByChatID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByChatID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus переводит запись в новый статус и очищает hold_expires_at.
// Дедлайн удержания имеет смысл только в статусе hold, поэтому любой
// переход его сбрасывает.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := txmanager.Executor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("hold_expires_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// MarkReminderSent выставляет sent-флаг напоминания. Флаги монотонны:
// установленный флаг никогда не сбрасывается.
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, kind domain.NotificationKind) error {
	executor := txmanager.Executor(ctx, r.db)

	var column string
	switch kind {
	case domain.NotificationReminder24h:
		column = "reminder_24h_sent"
	case domain.NotificationReminder2h:
		column = "reminder_2h_sent"
	default:
		return fmt.Errorf("%w: MarkReminderSent - unsupported kind %q", ErrExecQuery, kind)
	}

	query, args, err := psqlbuilder.Update("appointments").
		Set(column, true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// nullableTime конвертирует *time.Time в значение для nullable-колонки
func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну строку в domain модель
func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var holdExpiresAt sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.ChatID,
		&a.ServiceID,
		&a.StartAt,
		&a.EndAt,
		&a.Status,
		&holdExpiresAt,
		&a.Reminder24hSent,
		&a.Reminder2hSent,
		&a.ServiceName,
		&a.ServicePrice,
		&a.DurationMinutes,
		&a.BufferMinutes,
		&a.Comment,
		&a.ClientPhone,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.StartAt = a.StartAt.UTC()
	a.EndAt = a.EndAt.UTC()
	if holdExpiresAt.Valid {
		t := holdExpiresAt.Time.UTC()
		a.HoldExpiresAt = &t
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %w", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}
