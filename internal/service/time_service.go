package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/model"
	"Teamflow/internal/repository"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// TimeService 工时服务接口定义
type TimeService interface {
	CreateEntry(ctx context.Context, userID uint64, req *dto.CreateTimeEntryDTO) (*dto.TimeEntryDTO, error)
	GetTaskEntries(ctx context.Context, userID, taskID uint64) ([]*dto.TimeEntryDTO, error)
	GetMyEntries(ctx context.Context, userID uint64, from, to time.Time) ([]*dto.TimeEntryDTO, error)
	DeleteEntry(ctx context.Context, userID, entryID uint64) error
	GetTaskSummary(ctx context.Context, userID, taskID uint64) (*dto.TaskTimeSummaryDTO, error)

	StartTimer(ctx context.Context, userID uint64, req *dto.StartTimerDTO) (*dto.TimerDTO, error)
	StopTimer(ctx context.Context, userID uint64) (*dto.TimeEntryDTO, error)
	GetTimer(ctx context.Context, userID uint64) (*dto.TimerDTO, error)
}

type timeServiceImpl struct {
	guard    Guard
	timeRepo repository.TimeRepo
	taskRepo repository.TaskRepo
}

func NewTimeService(guard Guard, timeRepo repository.TimeRepo, taskRepo repository.TaskRepo) TimeService {
	return &timeServiceImpl{
		guard:    guard,
		timeRepo: timeRepo,
		taskRepo: taskRepo,
	}
}

func (s *timeServiceImpl) CreateEntry(ctx context.Context, userID uint64, req *dto.CreateTimeEntryDTO) (*dto.TimeEntryDTO, error) {
	if err := s.assertTaskAccess(ctx, userID, req.TaskID); err != nil {
		return nil, err
	}

	startedAt, err := time.Parse(timeLayout, req.StartedAt)
	if err != nil {
		return nil, ErrParamInvalid
	}
	endedAt := startedAt.Add(time.Duration(req.DurationSec) * time.Second)

	entry := &model.TimeEntry{
		UserID:      userID,
		TaskID:      req.TaskID,
		Description: req.Description,
		StartedAt:   startedAt,
		EndedAt:     &endedAt,
		DurationSec: req.DurationSec,
	}
	if err = s.timeRepo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return toTimeEntryDTO(entry), nil
}

func (s *timeServiceImpl) GetTaskEntries(ctx context.Context, userID, taskID uint64) ([]*dto.TimeEntryDTO, error) {
	if err := s.assertTaskAccess(ctx, userID, taskID); err != nil {
		return nil, err
	}

	entries, err := s.timeRepo.GetEntriesByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TimeEntryDTO, 0, len(entries))
	for _, entry := range entries {
		res = append(res, toTimeEntryDTO(entry))
	}
	return res, nil
}

func (s *timeServiceImpl) GetMyEntries(ctx context.Context, userID uint64, from, to time.Time) ([]*dto.TimeEntryDTO, error) {
	entries, err := s.timeRepo.GetEntriesByUserID(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TimeEntryDTO, 0, len(entries))
	for _, entry := range entries {
		res = append(res, toTimeEntryDTO(entry))
	}
	return res, nil
}

func (s *timeServiceImpl) DeleteEntry(ctx context.Context, userID, entryID uint64) error {
	entry, err := s.timeRepo.GetEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimeEntryNotFound
		}
		return err
	}
	// 只能删除自己的工时记录
	if entry.UserID != userID {
		return ErrNotMember
	}
	return s.timeRepo.DeleteEntry(ctx, entryID)
}

func (s *timeServiceImpl) GetTaskSummary(ctx context.Context, userID, taskID uint64) (*dto.TaskTimeSummaryDTO, error) {
	if err := s.assertTaskAccess(ctx, userID, taskID); err != nil {
		return nil, err
	}

	total, err := s.timeRepo.SumDurationByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return &dto.TaskTimeSummaryDTO{TaskID: taskID, TotalSec: total}, nil
}

func (s *timeServiceImpl) StartTimer(ctx context.Context, userID uint64, req *dto.StartTimerDTO) (*dto.TimerDTO, error) {
	if err := s.assertTaskAccess(ctx, userID, req.TaskID); err != nil {
		return nil, err
	}

	if _, err := s.timeRepo.GetTimerByUserID(ctx, userID); err == nil {
		return nil, ErrTimerRunning
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	timer := &model.Timer{
		UserID:    userID,
		TaskID:    req.TaskID,
		StartedAt: time.Now(),
	}
	if err := s.timeRepo.CreateTimer(ctx, timer); err != nil {
		return nil, err
	}
	return &dto.TimerDTO{
		TaskID:    timer.TaskID,
		StartedAt: timer.StartedAt.Format(timeLayout),
	}, nil
}

// StopTimer 停止计时器并落一条工时记录
func (s *timeServiceImpl) StopTimer(ctx context.Context, userID uint64) (*dto.TimeEntryDTO, error) {
	timer, err := s.timeRepo.GetTimerByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimerNotRunning
		}
		return nil, err
	}

	endedAt := time.Now()
	entry := &model.TimeEntry{
		UserID:      userID,
		TaskID:      timer.TaskID,
		StartedAt:   timer.StartedAt,
		EndedAt:     &endedAt,
		DurationSec: int64(endedAt.Sub(timer.StartedAt) / time.Second),
	}
	if err = s.timeRepo.StopTimer(ctx, timer, entry); err != nil {
		return nil, err
	}
	return toTimeEntryDTO(entry), nil
}

func (s *timeServiceImpl) GetTimer(ctx context.Context, userID uint64) (*dto.TimerDTO, error) {
	timer, err := s.timeRepo.GetTimerByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimerNotRunning
		}
		return nil, err
	}
	return &dto.TimerDTO{
		TaskID:    timer.TaskID,
		StartedAt: timer.StartedAt.Format(timeLayout),
	}, nil
}

func (s *timeServiceImpl) assertTaskAccess(ctx context.Context, userID, taskID uint64) error {
	task, err := s.taskRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	_, err = s.guard.AssertProjectMember(ctx, task.ProjectID, userID)
	return err
}
