package models

import (
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// Request модели

// BusinessHoursRequest запрос на установку рабочих часов дня недели
type BusinessHoursRequest struct {
	OpenTime  types.TimeString `json:"open_time"`
	CloseTime types.TimeString `json:"close_time"`
	IsClosed  bool             `json:"is_closed"`
}

// CreateBlockedTimeRequest запрос на создание блокировки
type CreateBlockedTimeRequest struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Reason    *string
}

// UpdateBlockedTimeRequest запрос на обновление блокировки
// Все поля опциональны - обновляются только переданные значения
type UpdateBlockedTimeRequest struct {
	Date      *time.Time
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Reason    *string
}

// StaffScheduleRequest запрос на создание окна расписания персонала
type StaffScheduleRequest struct {
	DayOfWeek           int              `json:"day_of_week"`
	StartTime           types.TimeString `json:"start_time"`
	EndTime             types.TimeString `json:"end_time"`
	StaffCount          int              `json:"staff_count"`
	AppointmentsPerHour int              `json:"appointments_per_hour"`
}

// UpdateStaffScheduleRequest запрос на обновление окна
// Все поля опциональны - обновляются только переданные значения
type UpdateStaffScheduleRequest struct {
	DayOfWeek           *int              `json:"day_of_week,omitempty"`
	StartTime           *types.TimeString `json:"start_time,omitempty"`
	EndTime             *types.TimeString `json:"end_time,omitempty"`
	StaffCount          *int              `json:"staff_count,omitempty"`
	AppointmentsPerHour *int              `json:"appointments_per_hour,omitempty"`
}

// DefaultCapacityRequest запрос на установку вместимости по умолчанию
type DefaultCapacityRequest struct {
	AppointmentsPerHour int `json:"appointments_per_hour"`
}

// Response модели

// BusinessHoursResponse рабочие часы дня недели
type BusinessHoursResponse struct {
	DayOfWeek int     `json:"day_of_week"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
	IsClosed  bool    `json:"is_closed"`
}

// BusinessHoursListResponse рабочие часы на неделю (0 = воскресенье)
type BusinessHoursListResponse struct {
	Days []BusinessHoursResponse `json:"days"`
}

// BlockedTimeResponse блокировка времени
type BlockedTimeResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BlockedTimeListResponse список блокировок
type BlockedTimeListResponse struct {
	BlockedTimes []BlockedTimeResponse `json:"blocked_times"`
}

// StaffScheduleResponse окно расписания персонала
type StaffScheduleResponse struct {
	ID                  string    `json:"id"`
	DayOfWeek           int       `json:"day_of_week"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	StaffCount          int       `json:"staff_count"`
	AppointmentsPerHour int       `json:"appointments_per_hour"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// StaffScheduleListResponse список окон
type StaffScheduleListResponse struct {
	StaffSchedules []StaffScheduleResponse `json:"staff_schedules"`
}

// DefaultCapacityResponse вместимость по умолчанию
type DefaultCapacityResponse struct {
	AppointmentsPerHour int  `json:"appointments_per_hour"`
	IsFallback          bool `json:"is_fallback"` // значение не настроено, используется 1
}

// Методы конвертации

// FromDomainBusinessHours конвертирует domain модель в DTO.
// Отсутствующий день считается закрытым
func FromDomainBusinessHours(day int, h *domain.BusinessHours) BusinessHoursResponse {
	if h == nil {
		return BusinessHoursResponse{DayOfWeek: day, IsClosed: true}
	}

	resp := BusinessHoursResponse{DayOfWeek: h.DayOfWeek, IsClosed: h.IsClosed}
	if !h.OpenTime.IsZero() {
		open := h.OpenTime.String()
		resp.OpenTime = &open
	}
	if !h.CloseTime.IsZero() {
		closing := h.CloseTime.String()
		resp.CloseTime = &closing
	}
	return resp
}

// FromDomainBusinessHoursList раскладывает записи по дням недели 0..6
func FromDomainBusinessHoursList(hours []*domain.BusinessHours) *BusinessHoursListResponse {
	byDay := make(map[int]*domain.BusinessHours, len(hours))
	for _, h := range hours {
		byDay[h.DayOfWeek] = h
	}

	resp := &BusinessHoursListResponse{Days: make([]BusinessHoursResponse, 0, 7)}
	for day := 0; day < 7; day++ {
		resp.Days = append(resp.Days, FromDomainBusinessHours(day, byDay[day]))
	}
	return resp
}

// ToDomainBusinessHours конвертирует запрос в domain модель
func (r *BusinessHoursRequest) ToDomainBusinessHours(day int) *domain.BusinessHours {
	return &domain.BusinessHours{
		DayOfWeek: day,
		OpenTime:  r.OpenTime,
		CloseTime: r.CloseTime,
		IsClosed:  r.IsClosed,
	}
}

// FromDomainBlockedTime конвертирует domain модель в DTO
func FromDomainBlockedTime(b *domain.BlockedTime) *BlockedTimeResponse {
	if b == nil {
		return nil
	}
	return &BlockedTimeResponse{
		ID:        b.ID.String(),
		Date:      b.Date.Format(domain.DateFormat),
		StartTime: b.StartTime.String(),
		EndTime:   b.EndTime.String(),
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainBlockedTimeList конвертирует список domain моделей в DTO
func FromDomainBlockedTimeList(blocks []*domain.BlockedTime) *BlockedTimeListResponse {
	resp := &BlockedTimeListResponse{BlockedTimes: make([]BlockedTimeResponse, 0, len(blocks))}
	for _, b := range blocks {
		resp.BlockedTimes = append(resp.BlockedTimes, *FromDomainBlockedTime(b))
	}
	return resp
}

// ToDomainBlockedTime конвертирует запрос в domain модель
func (r *CreateBlockedTimeRequest) ToDomainBlockedTime() *domain.BlockedTime {
	return &domain.BlockedTime{
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Reason:    r.Reason,
	}
}

// ApplyToBlockedTime применяет обновления к существующей блокировке
func (r *UpdateBlockedTimeRequest) ApplyToBlockedTime(b *domain.BlockedTime) {
	if r.Date != nil {
		b.Date = *r.Date
	}
	if r.StartTime != nil {
		b.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		b.EndTime = *r.EndTime
	}
	if r.Reason != nil {
		b.Reason = r.Reason
	}
}

// FromDomainStaffSchedule конвертирует domain модель в DTO
func FromDomainStaffSchedule(s *domain.StaffSchedule) *StaffScheduleResponse {
	if s == nil {
		return nil
	}
	return &StaffScheduleResponse{
		ID:                  s.ID.String(),
		DayOfWeek:           s.DayOfWeek,
		StartTime:           s.StartTime.String(),
		EndTime:             s.EndTime.String(),
		StaffCount:          s.StaffCount,
		AppointmentsPerHour: s.AppointmentsPerHour,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

// FromDomainStaffScheduleList конвертирует список domain моделей в DTO
func FromDomainStaffScheduleList(schedules []*domain.StaffSchedule) *StaffScheduleListResponse {
	resp := &StaffScheduleListResponse{StaffSchedules: make([]StaffScheduleResponse, 0, len(schedules))}
	for _, s := range schedules {
		resp.StaffSchedules = append(resp.StaffSchedules, *FromDomainStaffSchedule(s))
	}
	return resp
}

// ToDomainStaffSchedule конвертирует запрос в domain модель
func (r *StaffScheduleRequest) ToDomainStaffSchedule() *domain.StaffSchedule {
	return &domain.StaffSchedule{
		DayOfWeek:           r.DayOfWeek,
		StartTime:           r.StartTime,
		EndTime:             r.EndTime,
		StaffCount:          r.StaffCount,
		AppointmentsPerHour: r.AppointmentsPerHour,
	}
}

// ApplyToStaffSchedule применяет обновления к существующему окну
func (r *UpdateStaffScheduleRequest) ApplyToStaffSchedule(s *domain.StaffSchedule) {
	if r.DayOfWeek != nil {
		s.DayOfWeek = *r.DayOfWeek
	}
	if r.StartTime != nil {
		s.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		s.EndTime = *r.EndTime
	}
	if r.StaffCount != nil {
		s.StaffCount = *r.StaffCount
	}
	if r.AppointmentsPerHour != nil {
		s.AppointmentsPerHour = *r.AppointmentsPerHour
	}
}
