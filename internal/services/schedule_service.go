package services

import (
	"errors"

	"linepay_backend/internal/dto"
	"linepay_backend/internal/models"
	"linepay_backend/internal/repositories"
	"linepay_backend/pkg/apperrors"
)

// ScheduleService manages billing windows. BillingDate < DisableDate
// is enforced here on every create and update.
type ScheduleService interface {
	List() ([]models.BillingSchedule, error)
	Get(id int) (*models.BillingSchedule, error)
	Create(req *dto.CreateScheduleRequest) (*models.BillingSchedule, error)
	Update(id int, req *dto.UpdateScheduleRequest) (*models.BillingSchedule, error)
	Delete(id int) error
}

type scheduleService struct {
	schedules repositories.BillingScheduleRepository
}

func NewScheduleService(schedules repositories.BillingScheduleRepository) ScheduleService {
	return &scheduleService{schedules: schedules}
}

func (s *scheduleService) List() ([]models.BillingSchedule, error) {
	return s.schedules.FindAll()
}

func (s *scheduleService) Get(id int) (*models.BillingSchedule, error) {
	schedule, err := s.schedules.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrScheduleNotFound) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return schedule, nil
}

func (s *scheduleService) Create(req *dto.CreateScheduleRequest) (*models.BillingSchedule, error) {
	if !req.BillingDate.Before(req.DisableDate) {
		return nil, apperrors.ErrScheduleDateOrder
	}

	schedule := &models.BillingSchedule{
		BillingDate: req.BillingDate,
		DisableDate: req.DisableDate,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}

	if err := s.schedules.Create(schedule); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return schedule, nil
}

// Update applies the provided fields only, then revalidates the date
// order against the merged result.
func (s *scheduleService) Update(id int, req *dto.UpdateScheduleRequest) (*models.BillingSchedule, error) {
	schedule, err := s.schedules.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrScheduleNotFound) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if req.BillingDate != nil {
		schedule.BillingDate = *req.BillingDate
	}
	if req.DisableDate != nil {
		schedule.DisableDate = *req.DisableDate
	}
	if req.Description != nil {
		schedule.Description = *req.Description
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}

	if !schedule.BillingDate.Before(schedule.DisableDate) {
		return nil, apperrors.ErrScheduleDateOrder
	}

	if err := s.schedules.Update(schedule); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return schedule, nil
}

func (s *scheduleService) Delete(id int) error {
	err := s.schedules.Delete(id)
	if err != nil {
		if errors.Is(err, repositories.ErrScheduleNotFound) {
			return apperrors.ErrScheduleNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
