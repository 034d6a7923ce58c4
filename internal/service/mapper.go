package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/model"
	"time"

	"github.com/jinzhu/copier"
)

const timeLayout = time.RFC3339

func toMessageDTO(msg *model.Message, reactions []*model.Reaction) *dto.MessageDTO {
	d := &dto.MessageDTO{
		ID:          msg.ID,
		SenderID:    msg.SenderID,
		Content:     msg.Content,
		Status:      msg.Status,
		IsPinned:    msg.IsPinned,
		DeliveredAt: msg.DeliveredAt,
		CreatedAt:   msg.CreatedAt,
	}
	if msg.WorkspaceID != nil {
		d.WorkspaceID = *msg.WorkspaceID
	}
	if msg.ProjectID != nil {
		d.ProjectID = *msg.ProjectID
	}
	if msg.ConversationID != nil {
		d.ConversationID = *msg.ConversationID
	}
	if msg.ReceiverID != nil {
		d.ReceiverID = *msg.ReceiverID
	}
	if msg.ParentID != nil {
		d.ParentID = *msg.ParentID
	}
	for _, r := range reactions {
		d.Reactions = append(d.Reactions, &dto.ReactionDTO{
			MessageID: r.MessageID,
			UserID:    r.UserID,
			Emoji:     r.Emoji,
			Added:     true,
		})
	}
	return d
}

func toUserDTO(user *model.User) *dto.UserDTO {
	d := &dto.UserDTO{}
	_ = copier.Copy(d, user)
	d.CreatedAt = user.CreatedAt.Format(timeLayout)
	return d
}

func toWorkspaceDTO(ws *model.Workspace) *dto.WorkspaceDTO {
	d := &dto.WorkspaceDTO{}
	_ = copier.Copy(d, ws)
	d.CreatedAt = ws.CreatedAt.Format(timeLayout)
	return d
}

func toProjectDTO(project *model.Project) *dto.ProjectDTO {
	d := &dto.ProjectDTO{}
	_ = copier.Copy(d, project)
	d.CreatedAt = project.CreatedAt.Format(timeLayout)
	return d
}

func toTaskDTO(task *model.Task, tags []*model.Tag) *dto.TaskDTO {
	d := &dto.TaskDTO{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatorID:   task.CreatorID,
		Tags:        make([]*dto.TagDTO, 0, len(tags)),
		CreatedAt:   task.CreatedAt.Format(timeLayout),
		UpdatedAt:   task.UpdatedAt.Format(timeLayout),
	}
	if task.DueDate != nil {
		d.DueDate = task.DueDate.Format(timeLayout)
	}
	if task.AssigneeID != nil {
		d.AssigneeID = *task.AssigneeID
	}
	for _, tag := range tags {
		d.Tags = append(d.Tags, &dto.TagDTO{ID: tag.ID, Name: tag.Name, Color: tag.Color})
	}
	return d
}

func toSubtaskDTO(subtask *model.Subtask) *dto.SubtaskDTO {
	d := &dto.SubtaskDTO{}
	_ = copier.Copy(d, subtask)
	return d
}

func toCommentDTO(comment *model.Comment) *dto.CommentDTO {
	d := &dto.CommentDTO{}
	_ = copier.Copy(d, comment)
	d.CreatedAt = comment.CreatedAt.Format(timeLayout)
	return d
}

func toTimeEntryDTO(entry *model.TimeEntry) *dto.TimeEntryDTO {
	d := &dto.TimeEntryDTO{}
	_ = copier.Copy(d, entry)
	d.StartedAt = entry.StartedAt.Format(timeLayout)
	if entry.EndedAt != nil {
		d.EndedAt = entry.EndedAt.Format(timeLayout)
	}
	return d
}

func toConversationDTO(conv *model.Conversation) *dto.ConversationDTO {
	d := &dto.ConversationDTO{}
	_ = copier.Copy(d, conv)
	d.CreatedAt = conv.CreatedAt.Format(timeLayout)
	return d
}
