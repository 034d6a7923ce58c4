package service

import (
	"Teamflow/internal/model"
	"testing"
)

func uintPtr(v uint64) *uint64 { return &v }

func TestResolveChannelPrecedence(t *testing.T) {
	cases := []struct {
		name string
		msg  *model.Message
		want string
	}{
		{
			"话题回复优先于所有上下文",
			&model.Message{ParentID: uintPtr(7), WorkspaceID: uintPtr(1)},
			"thread:7",
		},
		{
			"工作区消息",
			&model.Message{WorkspaceID: uintPtr(1)},
			"workspace:1",
		},
		{
			"项目消息",
			&model.Message{ProjectID: uintPtr(2)},
			"project:2",
		},
		{
			"群会话消息",
			&model.Message{ConversationID: uintPtr(3)},
			"conversation:3",
		},
		{
			"私聊路由到接收者个人频道",
			&model.Message{ReceiverID: uintPtr(4)},
			"user:4",
		},
		{
			"无上下文无频道",
			&model.Message{},
			"",
		},
	}
	for _, tc := range cases {
		if got := ResolveChannel(tc.msg); got != tc.want {
			t.Fatalf("%s: 期望 %q，实际 %q", tc.name, tc.want, got)
		}
	}
}

func TestPersonalChannel(t *testing.T) {
	if got := PersonalChannel(42); got != "user:42" {
		t.Fatalf("个人频道格式错误: %q", got)
	}
}
