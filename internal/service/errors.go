package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrContextRequired      = errors.New("缺少消息上下文 (workspaceId/projectId/receiverId)")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrUserExist            = errors.New("邮箱已注册")
	ErrPasswordIncorrect    = errors.New("密码错误")
	ErrWorkspaceNotFound    = errors.New("工作区不存在")
	ErrSlugExist            = errors.New("工作区标识已被占用")
	ErrProjectNotFound      = errors.New("项目不存在")
	ErrTaskNotFound         = errors.New("任务不存在")
	ErrSubtaskNotFound      = errors.New("子任务不存在")
	ErrCommentNotFound      = errors.New("评论不存在")
	ErrTimeEntryNotFound    = errors.New("工时记录不存在")
	ErrTimerRunning         = errors.New("已有正在运行的计时器")
	ErrTimerNotRunning      = errors.New("没有正在运行的计时器")
	ErrFolderNotFound       = errors.New("文件夹不存在")
	ErrFileNotFound         = errors.New("文件不存在")
	ErrFileVersionNotFound  = errors.New("文件版本不存在")
	ErrFileNotSupported     = errors.New("不支持的文件类型")
	ErrConversationNotFound = errors.New("会话不存在")
	ErrMessageNotFound      = errors.New("消息不存在")
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrInviteNotFound       = errors.New("邀请不存在或已过期")
	ErrMemberExist          = errors.New("成员已存在")
	ErrNotMember            = errors.New("无权访问该资源")
	ErrNotOwner             = errors.New("仅所有者可执行此操作")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrContextRequired:      BadRequest,
	ErrUserNotFound:         NotFound,
	ErrUserExist:            BadRequest,
	ErrPasswordIncorrect:    Unauthorized,
	ErrWorkspaceNotFound:    NotFound,
	ErrSlugExist:            BadRequest,
	ErrProjectNotFound:      NotFound,
	ErrTaskNotFound:         NotFound,
	ErrSubtaskNotFound:      NotFound,
	ErrCommentNotFound:      NotFound,
	ErrTimeEntryNotFound:    NotFound,
	ErrTimerRunning:         BadRequest,
	ErrTimerNotRunning:      BadRequest,
	ErrFolderNotFound:       NotFound,
	ErrFileNotFound:         NotFound,
	ErrFileVersionNotFound:  NotFound,
	ErrFileNotSupported:     BadRequest,
	ErrConversationNotFound: NotFound,
	ErrMessageNotFound:      NotFound,
	ErrNotificationNotFound: NotFound,
	ErrInviteNotFound:       NotFound,
	ErrMemberExist:          BadRequest,
	ErrNotMember:            Forbidden,
	ErrNotOwner:             Forbidden,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
